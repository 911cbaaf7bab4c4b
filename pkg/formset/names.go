package formset

import (
	"regexp"
	"strconv"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// indexedAttrs are the attributes that embed a formset index: field names,
// Django's id_<prefix>-<n>-<field> ids and the label for= references.
var indexedAttrs = []string{"name", "id", "for"}

// indexPattern matches values that embed an index for one list. It is
// anchored at the start of the value so a different list whose identifier
// merely ends with this one is never touched.
type indexPattern struct {
	re *regexp.Regexp
}

func newIndexPattern(listID, placeholder string) indexPattern {
	expr := `^(id_)?` + regexp.QuoteMeta(listID) + `-(\d+|` + regexp.QuoteMeta(placeholder) + `)(-|$)`
	return indexPattern{re: regexp.MustCompile(expr)}
}

// rewrite replaces the embedded index in value with index.
func (p indexPattern) rewrite(value string, index int) (string, bool) {
	loc := p.re.FindStringSubmatchIndex(value)
	if loc == nil {
		return value, false
	}
	out := value[:loc[4]] + strconv.Itoa(index) + value[loc[5]:]
	return out, out != value
}

// index extracts the embedded index, reporting false for placeholders and
// non-matching values.
func (p indexPattern) index(value string) (int, bool) {
	m := p.re.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// renumberItem rewrites every attribute in attrs on item and its descendants
// to position. Inert template content is left alone. It returns the number of
// attributes changed.
func renumberItem(item *dom.Node, pattern indexPattern, attrs []string, position int) int {
	changed := 0
	nodes := append([]*dom.Node{item}, item.QueryAll(dom.ByTag())...)
	for _, node := range nodes {
		for _, attr := range attrs {
			value, ok := node.Attr(attr)
			if !ok {
				continue
			}
			if next, didChange := pattern.rewrite(value, position); didChange {
				node.SetAttr(attr, next)
				changed++
			}
		}
	}
	return changed
}
