package formset

import (
	"strings"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// Adapters binds append and remove-last triggers to their lists. Triggers
// only mutate the DOM; counting and renumbering happen in the Engine.
type Adapters struct {
	engine       *Engine
	instantiator *Instantiator
	wired        map[*dom.Node]struct{}
}

// NewAdapters creates trigger adapters.
func NewAdapters(engine *Engine, instantiator *Instantiator) *Adapters {
	return &Adapters{
		engine:       engine,
		instantiator: instantiator,
		wired:        make(map[*dom.Node]struct{}),
	}
}

// Wire binds every append and remove-last trigger under root and returns the
// number of newly wired triggers. Triggers naming unknown lists stay inert at
// click time.
func (a *Adapters) Wire(root *dom.Node) int {
	markers := a.engine.markers
	wired := 0
	for _, trigger := range root.QueryAll(dom.ByAttr(markers.AppendAttr)) {
		listID := strings.TrimSpace(trigger.GetAttr(markers.AppendAttr))
		if a.bind(trigger, func() { a.instantiator.Append(listID) }) {
			wired++
		}
	}
	for _, trigger := range root.QueryAll(dom.ByAttr(markers.RemoveLastAttr)) {
		listID := strings.TrimSpace(trigger.GetAttr(markers.RemoveLastAttr))
		if a.bind(trigger, func() { a.engine.RemoveLast(listID) }) {
			wired++
		}
	}
	return wired
}

func (a *Adapters) bind(trigger *dom.Node, action func()) bool {
	if _, ok := a.wired[trigger]; ok {
		return false
	}
	a.wired[trigger] = struct{}{}
	trigger.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		ev.PreventDefault()
		action()
	})
	return true
}
