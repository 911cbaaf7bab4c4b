package dom

import "strings"

// Matcher selects nodes in structural queries.
type Matcher func(n *Node) bool

// ByTag matches elements with any of the given tag names.
func ByTag(tags ...string) Matcher {
	return func(n *Node) bool { return n.IsElement(tags...) }
}

// ByClass matches elements carrying the class.
func ByClass(class string) Matcher {
	return func(n *Node) bool { return n.IsElement() && n.HasClass(class) }
}

// ByAttr matches elements with the attribute present.
func ByAttr(key string) Matcher {
	return func(n *Node) bool { return n.IsElement() && n.HasAttr(key) }
}

// ByAttrValue matches elements whose attribute equals val.
func ByAttrValue(key, val string) Matcher {
	return func(n *Node) bool {
		if !n.IsElement() {
			return false
		}
		got, ok := n.Attr(key)
		return ok && got == val
	}
}

// ByName matches form controls by their name attribute.
func ByName(name string) Matcher {
	return ByAttrValue("name", name)
}

// And matches when every matcher matches.
func And(matchers ...Matcher) Matcher {
	return func(n *Node) bool {
		for _, m := range matchers {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// QueryAll returns descendants of n matching m in document order. Template
// contents are inert and never searched.
func (n *Node) QueryAll(m Matcher) []*Node {
	if n == nil || m == nil {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		for _, child := range node.children {
			if m(child) {
				out = append(out, child)
			}
			if child.IsElement("template") {
				continue
			}
			walk(child)
		}
	}
	walk(n)
	return out
}

// Query returns the first descendant matching m.
func (n *Node) Query(m Matcher) *Node {
	if n == nil || m == nil {
		return nil
	}
	var found *Node
	var walk func(*Node) bool
	walk = func(node *Node) bool {
		for _, child := range node.children {
			if m(child) {
				found = child
				return true
			}
			if child.IsElement("template") {
				continue
			}
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(n)
	return found
}

// Closest returns n or its nearest ancestor matching m.
func (n *Node) Closest(m Matcher) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if m(cur) {
			return cur
		}
	}
	return nil
}

// TemplateContent returns the children of a <template> element, which
// ordinary queries skip.
func (n *Node) TemplateContent() []*Node {
	if !n.IsElement("template") {
		return nil
	}
	return n.Children()
}

// FormOwner returns the form associated with a control, honouring the form
// attribute before falling back to the nearest ancestor form.
func FormOwner(n *Node) *Node {
	if n == nil {
		return nil
	}
	if id := strings.TrimSpace(n.GetAttr("form")); id != "" && n.doc != nil {
		if form := n.doc.GetElementByID(id); form.IsElement("form") {
			return form
		}
		return nil
	}
	return n.Closest(ByTag("form"))
}
