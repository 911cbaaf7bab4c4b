package dom

// Common event types dispatched by the page layer.
const (
	EventClick            = "click"
	EventInput            = "input"
	EventChange           = "change"
	EventDOMContentLoaded = "DOMContentLoaded"
	EventSubmit           = "submit"
)

// Event is dispatched to a target and bubbles through its ancestors.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Detail        any

	defaultPrevented bool
	stopped          bool
}

// NewEvent builds an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(ev *Event)

type listenerEntry struct {
	id int
	fn Listener
}

// ListenerHandle identifies a registered listener for removal.
type ListenerHandle struct {
	node *Node
	typ  string
	id   int
}

// AddEventListener registers fn for events of type typ on n.
func (n *Node) AddEventListener(typ string, fn Listener) ListenerHandle {
	if n == nil || fn == nil || typ == "" {
		return ListenerHandle{}
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]listenerEntry)
	}
	n.listenerSeq++
	n.listeners[typ] = append(n.listeners[typ], listenerEntry{id: n.listenerSeq, fn: fn})
	return ListenerHandle{node: n, typ: typ, id: n.listenerSeq}
}

// RemoveEventListener unregisters the listener identified by h.
func (n *Node) RemoveEventListener(h ListenerHandle) {
	if n == nil || h.node != n || n.listeners == nil {
		return
	}
	entries := n.listeners[h.typ]
	for idx, entry := range entries {
		if entry.id == h.id {
			n.listeners[h.typ] = append(entries[:idx:idx], entries[idx+1:]...)
			return
		}
	}
}

// Remove unregisters the listener from the node it was added to.
func (h ListenerHandle) Remove() {
	if h.node != nil {
		h.node.RemoveEventListener(h)
	}
}

// ListenerCount reports how many listeners of typ are registered on n.
func (n *Node) ListenerCount(typ string) int {
	if n == nil || n.listeners == nil {
		return 0
	}
	return len(n.listeners[typ])
}

// Dispatch delivers ev to n and then bubbles it through n's ancestors. The
// ancestor path is captured before the first listener runs, so a listener
// that detaches n does not cut the bubbling short.
func (n *Node) Dispatch(ev *Event) {
	if n == nil || ev == nil {
		return
	}
	ev.Target = n
	var path []*Node
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	for _, node := range path {
		entries := append([]listenerEntry(nil), node.listeners[ev.Type]...)
		ev.CurrentTarget = node
		for _, entry := range entries {
			entry.fn(ev)
		}
		if ev.stopped {
			return
		}
	}
}
