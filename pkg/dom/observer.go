package dom

// MutationRecord describes one child-list change on Target.
type MutationRecord struct {
	Target          *Node
	Added           []*Node
	Removed         []*Node
	PreviousSibling *Node
	NextSibling     *Node
}

// ObserveOptions selects what an observer watches. Only child-list changes
// are modelled; attribute and character data changes are never reported.
type ObserveOptions struct {
	ChildList bool
	Subtree   bool
}

// MutationCallback receives a batch of records gathered since the last
// delivery.
type MutationCallback func(records []MutationRecord, observer *MutationObserver)

// MutationObserver batches structural mutations and delivers them in a
// microtask after the synchronous work that caused them.
type MutationObserver struct {
	doc      *Document
	callback MutationCallback
	targets  map[*Node]ObserveOptions
	queue    []MutationRecord
}

// NewMutationObserver registers an observer on d.
func (d *Document) NewMutationObserver(callback MutationCallback) *MutationObserver {
	obs := &MutationObserver{
		doc:      d,
		callback: callback,
		targets:  make(map[*Node]ObserveOptions),
	}
	d.observers = append(d.observers, obs)
	return obs
}

// Observe starts watching target. Observing the same target again replaces
// its options.
func (o *MutationObserver) Observe(target *Node, opts ObserveOptions) {
	if o == nil || target == nil {
		return
	}
	o.targets[target] = opts
}

// Disconnect stops all observation and drops queued records.
func (o *MutationObserver) Disconnect() {
	if o == nil {
		return
	}
	o.targets = make(map[*Node]ObserveOptions)
	o.queue = nil
}

// TakeRecords returns and clears the queued records.
func (o *MutationObserver) TakeRecords() []MutationRecord {
	if o == nil {
		return nil
	}
	records := o.queue
	o.queue = nil
	return records
}

func (o *MutationObserver) interested(target *Node) bool {
	for observed, opts := range o.targets {
		if !opts.ChildList {
			continue
		}
		if observed == target {
			return true
		}
		if opts.Subtree && observed.Contains(target) {
			return true
		}
	}
	return false
}

func (d *Document) queueChildList(target *Node, added, removed []*Node, prev, next *Node) {
	if d == nil {
		return
	}
	record := MutationRecord{
		Target:          target,
		Added:           added,
		Removed:         removed,
		PreviousSibling: prev,
		NextSibling:     next,
	}
	queued := false
	for _, obs := range d.observers {
		if obs.interested(target) {
			obs.queue = append(obs.queue, record)
			queued = true
		}
	}
	if queued && !d.scheduled {
		d.scheduled = true
		d.loop.QueueMicrotask(d.deliver)
	}
}

func (d *Document) deliver() {
	d.scheduled = false
	for _, obs := range append([]*MutationObserver(nil), d.observers...) {
		records := obs.TakeRecords()
		if len(records) == 0 || obs.callback == nil {
			continue
		}
		obs.callback(records, obs)
	}
}

// ChildListSource delivers batched child-list changes for a target. The
// Document implements it; tests can substitute their own source.
type ChildListSource interface {
	ObserveChildList(target *Node, fn func(records []MutationRecord)) (stop func())
}

// ObserveChildList installs a direct child-list observation on target.
func (d *Document) ObserveChildList(target *Node, fn func(records []MutationRecord)) func() {
	obs := d.NewMutationObserver(func(records []MutationRecord, _ *MutationObserver) {
		fn(records)
	})
	obs.Observe(target, ObserveOptions{ChildList: true})
	return obs.Disconnect
}

var _ ChildListSource = (*Document)(nil)
