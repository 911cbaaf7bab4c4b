package formset

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formsync/pkg/dom"
	rendertemplate "github.com/goliatone/go-formsync/pkg/render/template"
)

// InstantiatorOption configures an Instantiator.
type InstantiatorOption func(*Instantiator)

// WithTemplateRenderer enables named item templates rendered through r.
func WithTemplateRenderer(r rendertemplate.TemplateRenderer) InstantiatorOption {
	return func(i *Instantiator) {
		i.renderer = r
	}
}

// WithSanitizer filters produced markup through policy before insertion.
func WithSanitizer(policy *bluemonday.Policy) InstantiatorOption {
	return func(i *Instantiator) {
		i.sanitizer = policy
	}
}

// WithInstantiatorLogger sets the logger for no-op reports.
func WithInstantiatorLogger(logger *slog.Logger) InstantiatorOption {
	return func(i *Instantiator) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Instantiator appends new items built from a list's item template. It never
// writes the counter; the Engine's observation picks up the insertion.
type Instantiator struct {
	engine    *Engine
	renderer  rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
	named     map[string]string
}

// NewInstantiator creates an instantiator for the lists known to engine.
func NewInstantiator(engine *Engine, options ...InstantiatorOption) *Instantiator {
	inst := &Instantiator{
		engine: engine,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		named:  make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(inst)
	}
	return inst
}

// RegisterTemplate binds a named renderer template to listID. Named templates
// take precedence over inline <template> elements.
func (i *Instantiator) RegisterTemplate(listID, name string) {
	listID = strings.TrimSpace(listID)
	name = strings.TrimSpace(name)
	if listID == "" || name == "" {
		return
	}
	i.named[listID] = name
}

// Append inserts one new item at the end of the list and returns the inserted
// elements. Unknown lists, lists without a template and full lists are
// no-ops returning nil.
func (i *Instantiator) Append(listID string) []*dom.Node {
	list, ok := i.engine.List(listID)
	if !ok {
		i.logger.Debug("formset append ignored: unknown list", "list_id", listID)
		return nil
	}

	position := i.engine.Count(list)
	if limit := i.engine.MaxCount(list); limit >= 0 && position >= limit {
		i.logger.Info("formset append ignored: maximum reached", "list_id", list.ID, "max", limit)
		return nil
	}

	markup, err := i.Markup(list, position)
	if err != nil {
		i.logger.Warn("formset append failed", "list_id", list.ID, "error", err)
		return nil
	}
	if markup == "" {
		i.logger.Debug("formset append ignored: no item template", "list_id", list.ID)
		return nil
	}

	nodes, err := list.Container.Document().ParseFragment(markup, list.Container)
	if err != nil {
		i.logger.Warn("formset append failed", "list_id", list.ID, "error", err)
		return nil
	}
	var inserted []*dom.Node
	for _, node := range nodes {
		if !node.IsElement() {
			continue
		}
		list.Container.AppendChild(node)
		inserted = append(inserted, node)
	}
	return inserted
}

// Markup produces the item markup for position, with the placeholder token
// substituted. An empty string means the list has no template.
func (i *Instantiator) Markup(list *List, position int) (string, error) {
	raw, err := i.rawTemplate(list, position)
	if err != nil || raw == "" {
		return "", err
	}
	markup := substitutePlaceholder(raw, list.ID, i.engine.markers.Placeholder, strconv.Itoa(position))
	if i.sanitizer != nil {
		markup = i.sanitizer.Sanitize(markup)
	}
	return strings.TrimSpace(markup), nil
}

func (i *Instantiator) rawTemplate(list *List, position int) (string, error) {
	if name, ok := i.named[list.ID]; ok && i.renderer != nil {
		out, err := i.renderer.RenderTemplate(name, map[string]any{
			"prefix":      list.ID,
			"index":       position,
			"placeholder": i.engine.markers.Placeholder,
		})
		if err != nil {
			return "", fmt.Errorf("formset: render item template %q: %w", name, err)
		}
		return out, nil
	}

	doc := list.Container.Document()
	tpl := doc.Root().Query(dom.And(
		dom.ByTag("template"),
		dom.ByAttrValue(i.engine.markers.TemplateAttr, list.ID),
	))
	if tpl == nil {
		return "", nil
	}
	return tpl.InnerHTML(), nil
}

// substitutePlaceholder replaces token with value in item markup. Inside a
// nested <template> only the slot following "<listID>-" is replaced, so the
// nested list's own placeholder survives for its later appends.
func substitutePlaceholder(markup, listID, token, value string) string {
	if token == "" {
		return markup
	}
	scoped := listID + "-" + token

	var b strings.Builder
	b.Grow(len(markup))
	depth := 0
	opening := false
	for pos := 0; pos < len(markup); {
		rest := markup[pos:]
		switch {
		case hasTagPrefix(rest, "<template"):
			opening = true
			b.WriteString(rest[:len("<template")])
			pos += len("<template")
		case hasTagPrefix(rest, "</template"):
			if depth > 0 {
				depth--
			}
			b.WriteString(rest[:len("</template")])
			pos += len("</template")
		case rest[0] == '>' && opening:
			opening = false
			depth++
			b.WriteByte('>')
			pos++
		case depth == 0 && strings.HasPrefix(rest, token):
			b.WriteString(value)
			pos += len(token)
		case depth > 0 && strings.HasPrefix(rest, scoped) && nameBoundary(markup, pos):
			b.WriteString(listID + "-" + value)
			pos += len(scoped)
		default:
			b.WriteByte(markup[pos])
			pos++
		}
	}
	return b.String()
}

func hasTagPrefix(s, tag string) bool {
	if len(s) < len(tag) || !strings.EqualFold(s[:len(tag)], tag) {
		return false
	}
	if len(s) == len(tag) {
		return true
	}
	switch s[len(tag)] {
	case ' ', '\t', '\n', '\r', '\f', '>', '/':
		return true
	}
	return false
}

// nameBoundary reports whether a name starting at pos is not the tail of a
// longer name. The "id_" prefix used for element ids counts as a boundary.
func nameBoundary(markup string, pos int) bool {
	if pos == 0 || !isNameByte(markup[pos-1]) {
		return true
	}
	if strings.HasSuffix(markup[:pos], "id_") {
		start := pos - len("id_")
		return start == 0 || !isNameByte(markup[start-1])
	}
	return false
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
