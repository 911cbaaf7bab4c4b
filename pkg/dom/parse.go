package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a full HTML document into a live Document bound to loop.
func Parse(r io.Reader, loop *Loop) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	doc := NewDocument(loop)
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if node := doc.importNode(child); node != nil {
			node.parent = doc.root
			doc.root.children = append(doc.root.children, node)
		}
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(markup string, loop *Loop) (*Document, error) {
	return Parse(strings.NewReader(markup), loop)
}

// ParseFragment parses markup as the children of context and returns
// detached nodes owned by d. The context decides parsing rules, so a <tr>
// fragment parses correctly for a <tbody> container.
func (d *Document) ParseFragment(markup string, context *Node) ([]*Node, error) {
	tag := "body"
	if context.IsElement() {
		tag = context.Data
	}
	ctxNode := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctxNode)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, n := range parsed {
		if node := d.importNode(n); node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

func (d *Document) importNode(src *html.Node) *Node {
	var node *Node
	switch src.Type {
	case html.ElementNode:
		node = &Node{Type: ElementNode, Data: src.Data, doc: d}
		for _, attr := range src.Attr {
			key := attr.Key
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + key
			}
			node.attrs = append(node.attrs, Attribute{Key: key, Val: attr.Val})
		}
	case html.TextNode:
		node = &Node{Type: TextNode, Data: src.Data, doc: d}
	case html.CommentNode:
		node = &Node{Type: CommentNode, Data: src.Data, doc: d}
	case html.DoctypeNode:
		node = &Node{Type: DoctypeNode, Data: src.Data, doc: d}
	default:
		return nil
	}
	for child := src.FirstChild; child != nil; child = child.NextSibling {
		if imported := d.importNode(child); imported != nil {
			imported.parent = node
			node.children = append(node.children, imported)
		}
	}
	return node
}

func exportNode(n *Node) *html.Node {
	var out *html.Node
	switch n.Type {
	case DocumentNode:
		out = &html.Node{Type: html.DocumentNode}
	case ElementNode:
		out = &html.Node{
			Type:     html.ElementNode,
			Data:     n.Data,
			DataAtom: atom.Lookup([]byte(n.Data)),
		}
		for _, attr := range n.attrs {
			out.Attr = append(out.Attr, html.Attribute{Key: attr.Key, Val: attr.Val})
		}
	case TextNode:
		out = &html.Node{Type: html.TextNode, Data: n.Data}
	case CommentNode:
		out = &html.Node{Type: html.CommentNode, Data: n.Data}
	case DoctypeNode:
		out = &html.Node{Type: html.DoctypeNode, Data: n.Data}
	default:
		return nil
	}
	for _, child := range n.children {
		if exported := exportNode(child); exported != nil {
			out.AppendChild(exported)
		}
	}
	return out
}

// Render writes n (and its subtree) as HTML.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	exported := exportNode(n)
	if exported == nil {
		return nil
	}
	if n.Type == DocumentNode {
		return html.Render(w, exported)
	}
	// html.Render inspects the parent to decide raw text handling.
	if n.parent != nil && n.parent.IsElement() {
		holder := &html.Node{Type: html.ElementNode, Data: n.parent.Data, DataAtom: atom.Lookup([]byte(n.parent.Data))}
		holder.AppendChild(exported)
	}
	return html.Render(w, exported)
}

// OuterHTML renders n including its own tag.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders the children of n.
func (n *Node) InnerHTML() string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for _, child := range n.children {
		if err := Render(&buf, child); err != nil {
			return ""
		}
	}
	return buf.String()
}
