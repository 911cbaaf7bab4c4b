package dom

import (
	"slices"
	"strings"
)

// NodeType identifies the kind of node stored in the tree.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// Attribute is a single key/value pair on an element. Keys are stored in the
// lower case form produced by the HTML parser.
type Attribute struct {
	Key string
	Val string
}

// Node is a live node owned by a Document. Nodes are not safe for concurrent
// use; every mutation is expected to happen on the document's loop.
type Node struct {
	Type NodeType
	// Data holds the tag name for elements, the text for text and comment
	// nodes and the name for doctype nodes.
	Data string

	doc       *Document
	parent    *Node
	children  []*Node
	attrs     []Attribute
	props     map[string]any
	listeners map[string][]listenerEntry

	listenerSeq int
}

// Document returns the owning document.
func (n *Node) Document() *Document {
	if n == nil {
		return nil
	}
	return n.doc
}

// Parent returns the parent node or nil when detached.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return append([]*Node(nil), n.children...)
}

// ElementChildren returns the element children in document order.
func (n *Node) ElementChildren() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.children {
		if child.Type == ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// IsElement reports whether n is an element, optionally with the given tag.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if strings.EqualFold(n.Data, tag) {
			return true
		}
	}
	return false
}

// Attr returns the attribute value and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, attr := range n.attrs {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// GetAttr returns the attribute value or an empty string.
func (n *Node) GetAttr(key string) string {
	val, _ := n.Attr(key)
	return val
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// Attrs returns a copy of the attribute list.
func (n *Node) Attrs() []Attribute {
	if n == nil || len(n.attrs) == 0 {
		return nil
	}
	return append([]Attribute(nil), n.attrs...)
}

// SetAttr sets or replaces the attribute value.
func (n *Node) SetAttr(key, val string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	for idx := range n.attrs {
		if n.attrs[idx].Key == key {
			n.attrs[idx].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the attribute when present.
func (n *Node) RemoveAttr(key string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	n.attrs = slices.DeleteFunc(n.attrs, func(attr Attribute) bool {
		return attr.Key == key
	})
}

// Classes returns the class list.
func (n *Node) Classes() []string {
	return strings.Fields(n.GetAttr("class"))
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	if name == "" {
		return false
	}
	return slices.Contains(n.Classes(), name)
}

// AddClass appends name to the class list when missing.
func (n *Node) AddClass(name string) {
	if n == nil || name == "" || n.HasClass(name) {
		return
	}
	n.SetAttr("class", strings.Join(append(n.Classes(), name), " "))
}

// RemoveClass drops name from the class list.
func (n *Node) RemoveClass(name string) {
	if n == nil || !n.HasClass(name) {
		return
	}
	classes := slices.DeleteFunc(n.Classes(), func(c string) bool { return c == name })
	if len(classes) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(classes, " "))
}

// ToggleClass flips name and reports whether it is present afterwards.
func (n *Node) ToggleClass(name string) bool {
	if n.HasClass(name) {
		n.RemoveClass(name)
		return false
	}
	n.AddClass(name)
	return true
}

// Prop returns a non-attribute property such as selectionStart.
func (n *Node) Prop(key string) (any, bool) {
	if n == nil || n.props == nil {
		return nil, false
	}
	val, ok := n.props[key]
	return val, ok
}

// SetProp stores a non-attribute property.
func (n *Node) SetProp(key string, val any) {
	if n == nil {
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = val
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		for _, child := range node.children {
			switch child.Type {
			case TextNode:
				b.WriteString(child.Data)
			case ElementNode:
				walk(child)
			}
		}
	}
	walk(n)
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n == nil {
		return
	}
	n.ReplaceChildren(n.doc.CreateTextNode(text))
}

// ReplaceChildren removes every child and appends nodes, recording the
// change as one child-list mutation.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	if n == nil {
		return
	}
	for _, node := range nodes {
		node.detach()
	}
	removed := n.children
	n.children = nil
	for _, child := range removed {
		child.parent = nil
	}
	for _, node := range nodes {
		node.parent = n
		node.adopt(n.doc)
	}
	n.children = append(n.children, nodes...)
	if len(removed) > 0 || len(nodes) > 0 {
		n.doc.queueChildList(n, nodes, removed, nil, nil)
	}
}

// AppendChild inserts child as the last child of n. A child that already has
// a parent is moved, producing a removal record on the old parent first.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if n == nil || child == nil || child == n || child.Contains(n) {
		return
	}
	if ref != nil && (ref.parent != n || ref == child) {
		return
	}
	child.detach()

	idx := len(n.children)
	if ref != nil {
		idx = slices.Index(n.children, ref)
	}
	var prev *Node
	if idx > 0 {
		prev = n.children[idx-1]
	}
	n.children = slices.Insert(n.children, idx, child)
	child.parent = n
	child.adopt(n.doc)
	n.doc.queueChildList(n, []*Node{child}, nil, prev, ref)
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) {
	if n == nil || child == nil || child.parent != n {
		return
	}
	child.detach()
}

// Remove detaches n from its parent. Detached nodes are left untouched.
func (n *Node) Remove() {
	if n == nil {
		return
	}
	n.detach()
}

func (n *Node) detach() {
	parent := n.parent
	if parent == nil {
		return
	}
	idx := slices.Index(parent.children, n)
	if idx < 0 {
		n.parent = nil
		return
	}
	var prev, next *Node
	if idx > 0 {
		prev = parent.children[idx-1]
	}
	if idx+1 < len(parent.children) {
		next = parent.children[idx+1]
	}
	parent.children = slices.Delete(parent.children, idx, idx+1)
	n.parent = nil
	parent.doc.queueChildList(parent, nil, []*Node{n}, prev, next)
}

func (n *Node) adopt(doc *Document) {
	if n.doc == doc {
		return
	}
	n.doc = doc
	for _, child := range n.children {
		child.adopt(doc)
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether the node is attached to its document root.
func (n *Node) IsConnected() bool {
	if n == nil || n.doc == nil {
		return false
	}
	return n.doc.root.Contains(n)
}

// NextElementSibling returns the next element sibling.
func (n *Node) NextElementSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	idx := slices.Index(siblings, n)
	for _, sib := range siblings[idx+1:] {
		if sib.Type == ElementNode {
			return sib
		}
	}
	return nil
}
