package dom

import "strings"

// Document owns a node tree, its event loop and its mutation observers.
type Document struct {
	root      *Node
	loop      *Loop
	observers []*MutationObserver
	scheduled bool
}

// NewDocument creates an empty document bound to loop. A nil loop gets a
// fresh one.
func NewDocument(loop *Loop) *Document {
	if loop == nil {
		loop = NewLoop()
	}
	doc := &Document{loop: loop}
	doc.root = &Node{Type: DocumentNode, doc: doc}
	return doc
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// Loop returns the event loop driving the document.
func (d *Document) Loop() *Loop {
	return d.loop
}

// Body returns the <body> element, or the document node when none exists.
func (d *Document) Body() *Node {
	if body := d.root.Query(ByTag("body")); body != nil {
		return body
	}
	return d.root
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Data: strings.ToLower(tag), doc: d}
}

// CreateTextNode returns a detached text node owned by d.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{Type: TextNode, Data: text, doc: d}
}

// GetElementByID returns the first connected element with the given id.
func (d *Document) GetElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	return d.root.Query(ByAttrValue("id", id))
}

// QueryAll runs a structural query from the document root.
func (d *Document) QueryAll(match Matcher) []*Node {
	return d.root.QueryAll(match)
}

// Dispatch fires ev on the document node.
func (d *Document) Dispatch(ev *Event) {
	d.root.Dispatch(ev)
}

// AddEventListener registers a listener on the document node.
func (d *Document) AddEventListener(typ string, fn Listener) ListenerHandle {
	return d.root.AddEventListener(typ, fn)
}
