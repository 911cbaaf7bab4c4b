package formset

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// List is one initialized formset list.
type List struct {
	ID        string
	Container *dom.Node

	counter *dom.Node
	pattern indexPattern
	stop    func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for configuration reports.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMarkers overrides the structural markers.
func WithMarkers(markers Markers) Option {
	return func(e *Engine) {
		e.markers = markers.WithDefaults()
	}
}

// WithController shares an item controller between engines.
func WithController(controller *Controller) Option {
	return func(e *Engine) {
		e.controller = controller
	}
}

// Engine keeps every initialized list's counter, field indices and item
// behavior in sync with the DOM. It holds no count of its own: each batch is
// processed from the current child list.
type Engine struct {
	source     dom.ChildListSource
	markers    Markers
	logger     *slog.Logger
	controller *Controller

	lists  map[string]*List
	byNode map[*dom.Node]*List
}

// New creates an Engine that observes containers through source.
func New(source dom.ChildListSource, options ...Option) *Engine {
	e := &Engine{
		source:  source,
		markers: DefaultMarkers(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		lists:   make(map[string]*List),
		byNode:  make(map[*dom.Node]*List),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.controller == nil {
		e.controller = NewController(e.markers, e.logger)
	}
	return e
}

// Markers returns the markers in effect.
func (e *Engine) Markers() Markers {
	return e.markers
}

// Controller returns the item controller used for attachment.
func (e *Engine) Controller() *Controller {
	return e.controller
}

// Initialize installs observation on container. Initializing the same
// container twice returns the existing list.
func (e *Engine) Initialize(container *dom.Node) (*List, error) {
	if container == nil {
		return nil, &ConfigurationError{Err: ErrNilContainer}
	}
	if list, ok := e.byNode[container]; ok {
		return list, nil
	}
	listID := strings.TrimSpace(container.GetAttr(e.markers.ListIDAttr))
	if listID == "" {
		return nil, &ConfigurationError{Marker: e.markers.ListIDAttr, Err: ErrMissingListID}
	}
	if _, exists := e.lists[listID]; exists {
		return nil, &ConfigurationError{ListID: listID, Marker: e.markers.ListIDAttr, Err: ErrDuplicateList}
	}

	list := &List{
		ID:        listID,
		Container: container,
		counter:   e.lookupField(container, e.markers.CounterName(listID)),
		pattern:   newIndexPattern(listID, e.markers.Placeholder),
	}
	e.lists[listID] = list
	e.byNode[container] = list

	for _, item := range e.Items(list) {
		e.controller.AttachTo(item)
	}
	if e.source != nil {
		list.stop = e.source.ObserveChildList(container, func(records []dom.MutationRecord) {
			e.process(list, records)
		})
	}

	e.logger.Debug("formset list initialized",
		"list_id", listID,
		"items", len(e.Items(list)),
		"counter", list.counter != nil,
	)
	return list, nil
}

// InitializeAll initializes every container under root. Configuration
// errors are logged and skip only the affected container.
func (e *Engine) InitializeAll(root *dom.Node) []*List {
	var out []*List
	for _, container := range root.QueryAll(dom.ByClass(e.markers.ListClass)) {
		list, err := e.Initialize(container)
		if err != nil {
			e.logger.Warn("formset list skipped", "error", err)
			continue
		}
		out = append(out, list)
	}
	return out
}

// List returns an initialized list by identifier.
func (e *Engine) List(listID string) (*List, bool) {
	list, ok := e.lists[strings.TrimSpace(listID)]
	return list, ok
}

// Lists returns the initialized lists in DOM order of their containers.
func (e *Engine) Lists() []*List {
	if len(e.lists) == 0 {
		return nil
	}
	var root *dom.Node
	for _, list := range e.lists {
		root = list.Container.Document().Root()
		break
	}
	var out []*List
	for _, node := range root.QueryAll(func(n *dom.Node) bool { _, ok := e.byNode[n]; return ok }) {
		out = append(out, e.byNode[node])
	}
	return out
}

// Items returns the list's items in DOM order, recounted from the container.
func (e *Engine) Items(list *List) []*dom.Node {
	if list == nil {
		return nil
	}
	var items []*dom.Node
	for _, child := range list.Container.ElementChildren() {
		if e.isItem(child) {
			items = append(items, child)
		}
	}
	return items
}

// Count returns the number of items currently in the list.
func (e *Engine) Count(list *List) int {
	return len(e.Items(list))
}

// Counter returns the list's total counter field, resolving it again when it
// was missing at initialization.
func (e *Engine) Counter(list *List) *dom.Node {
	if list == nil {
		return nil
	}
	if list.counter == nil || !list.counter.IsConnected() {
		list.counter = e.lookupField(list.Container, e.markers.CounterName(list.ID))
	}
	return list.counter
}

// MaxCount returns the value of the optional maximum field, or -1.
func (e *Engine) MaxCount(list *List) int {
	if list == nil {
		return -1
	}
	field := e.lookupField(list.Container, e.markers.MaxName(list.ID))
	if field == nil {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(dom.Value(field)))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// RemoveLast removes the last item in DOM order. It never writes the
// counter; the observation batch does.
func (e *Engine) RemoveLast(listID string) bool {
	list, ok := e.List(listID)
	if !ok {
		e.logger.Debug("formset remove ignored: unknown list", "list_id", listID)
		return false
	}
	items := e.Items(list)
	if len(items) == 0 {
		e.logger.Debug("formset remove ignored: list empty", "list_id", listID)
		return false
	}
	items[len(items)-1].Remove()
	return true
}

// Sync applies the batch algorithm to list as if its whole child list had
// changed.
func (e *Engine) Sync(list *List) {
	if list == nil {
		return
	}
	e.process(list, []dom.MutationRecord{{Target: list.Container, Added: e.Items(list)}})
}

func (e *Engine) process(list *List, records []dom.MutationRecord) {
	added, removed := e.itemChanges(records)
	e.rewire(list, added, removed)

	counter := e.Counter(list)
	if counter == nil {
		e.logger.Warn("formset counter field missing", "error", &ConfigurationError{
			ListID: list.ID,
			Marker: e.markers.CounterName(list.ID),
			Err:    ErrMissingCounter,
		})
		return
	}

	items := e.Items(list)
	counter.SetAttr("value", strconv.Itoa(len(items)))

	if len(added) == 0 && len(removed) == 0 {
		return
	}

	attrs := e.markers.IndexedAttrs()
	for position, item := range items {
		renumberItem(item, list.pattern, attrs, position)
	}

	e.logger.Debug("formset list synced",
		"list_id", list.ID,
		"count", len(items),
		"added", len(added),
		"removed", len(removed),
	)
}

// rewire detaches items that left every initialized list and attaches items
// now present in list. Lists share one controller, so an item moved between
// lists keeps its handlers whichever batch is delivered first.
func (e *Engine) rewire(list *List, added, removed []*dom.Node) {
	for _, node := range removed {
		if _, ok := e.byNode[node.Parent()]; ok {
			continue
		}
		e.controller.Detach(node)
	}
	for _, node := range added {
		if node.Parent() == list.Container {
			e.controller.AttachTo(node)
		}
	}
}

// itemChanges gathers the item elements added and removed in a batch. A node
// moved within the list appears in both.
func (e *Engine) itemChanges(records []dom.MutationRecord) (added, removed []*dom.Node) {
	seenAdded := make(map[*dom.Node]struct{})
	seenRemoved := make(map[*dom.Node]struct{})
	for _, record := range records {
		for _, node := range record.Added {
			if _, ok := seenAdded[node]; ok || !e.isItem(node) {
				continue
			}
			seenAdded[node] = struct{}{}
			added = append(added, node)
		}
		for _, node := range record.Removed {
			if _, ok := seenRemoved[node]; ok || !e.isItem(node) {
				continue
			}
			seenRemoved[node] = struct{}{}
			removed = append(removed, node)
		}
	}
	return added, removed
}

func (e *Engine) isItem(node *dom.Node) bool {
	return node.IsElement() && node.HasClass(e.markers.ItemClass)
}

func (e *Engine) lookupField(container *dom.Node, name string) *dom.Node {
	doc := container.Document()
	if doc == nil {
		return nil
	}
	return doc.Root().Query(dom.ByName(name))
}
