package formset

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/goliatone/go-formsync/pkg/dom"
)

type attachment struct {
	handles []dom.ListenerHandle
}

// Controller wires per-item behavior: close triggers remove the item, toggles
// flip its collapsed state. Attachment is tracked per item identity, so
// attaching twice never registers a second set of handlers.
type Controller struct {
	markers  Markers
	logger   *slog.Logger
	attached map[*dom.Node]*attachment
}

// NewController creates a controller for the given markers.
func NewController(markers Markers, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		markers:  markers.WithDefaults(),
		logger:   logger,
		attached: make(map[*dom.Node]*attachment),
	}
}

// AttachTo wires the item's close triggers and toggles. It reports false when
// the item was already attached or is not an element.
func (c *Controller) AttachTo(item *dom.Node) bool {
	if !item.IsElement() {
		return false
	}
	if _, ok := c.attached[item]; ok {
		return false
	}

	att := &attachment{}
	for _, trigger := range c.ownTriggers(item, c.markers.CloseClass) {
		att.handles = append(att.handles, trigger.AddEventListener(dom.EventClick, func(ev *dom.Event) {
			ev.PreventDefault()
			item.Remove()
		}))
	}
	for _, toggle := range c.ownTriggers(item, c.markers.ToggleClass) {
		toggle := toggle
		att.handles = append(att.handles, toggle.AddEventListener(dom.EventClick, func(ev *dom.Event) {
			ev.PreventDefault()
			collapsed := item.ToggleClass(c.markers.CollapsedClass)
			toggle.SetAttr("aria-expanded", strconv.FormatBool(!collapsed))
		}))
	}
	c.attached[item] = att
	return true
}

// Detach removes the handlers installed by AttachTo and forgets the item.
func (c *Controller) Detach(item *dom.Node) {
	att, ok := c.attached[item]
	if !ok {
		return
	}
	for _, handle := range att.handles {
		handle.Remove()
	}
	delete(c.attached, item)
}

// Attached reports whether item currently carries controller behavior.
func (c *Controller) Attached(item *dom.Node) bool {
	_, ok := c.attached[item]
	return ok
}

// ownTriggers returns triggers whose nearest enclosing item is item, leaving
// triggers of nested formset items to their own items.
func (c *Controller) ownTriggers(item *dom.Node, class string) []*dom.Node {
	isItem := dom.ByClass(c.markers.ItemClass)
	var out []*dom.Node
	for _, trigger := range item.QueryAll(dom.ByClass(class)) {
		if owner := trigger.Parent().Closest(isItem); owner == item {
			out = append(out, trigger)
		}
	}
	return out
}
