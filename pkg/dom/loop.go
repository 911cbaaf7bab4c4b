package dom

import (
	"sort"
	"time"
)

// TimerID identifies a pending timer.
type TimerID int

type timer struct {
	id   TimerID
	when time.Time
	seq  uint64
	fn   func()
}

// Loop is a single-threaded cooperative event loop running on virtual time.
// Tasks run one at a time and the microtask queue is drained after each task,
// so observers see the net effect of all synchronous work in that task.
type Loop struct {
	now        time.Time
	microtasks []func()
	timers     []timer
	nextID     TimerID
	seq        uint64
	draining   bool
}

// NewLoop creates a loop whose clock starts at the Unix epoch.
func NewLoop() *Loop {
	return &Loop{now: time.Unix(0, 0).UTC()}
}

// Now returns the loop's virtual time.
func (l *Loop) Now() time.Time {
	return l.now
}

// QueueMicrotask schedules fn to run when the current task completes.
func (l *Loop) QueueMicrotask(fn func()) {
	if fn == nil {
		return
	}
	l.microtasks = append(l.microtasks, fn)
}

// RunTask executes fn as a task and performs a microtask checkpoint. Calls
// from inside a running task or microtask execute inline.
func (l *Loop) RunTask(fn func()) {
	if fn != nil {
		fn()
	}
	l.Settle()
}

// Settle drains the microtask queue, including microtasks queued while
// draining.
func (l *Loop) Settle() {
	if l.draining {
		return
	}
	l.draining = true
	defer func() { l.draining = false }()
	for len(l.microtasks) > 0 {
		fn := l.microtasks[0]
		l.microtasks = l.microtasks[1:]
		fn()
	}
}

// SetTimeout schedules fn to run as a task once d of virtual time elapsed.
func (l *Loop) SetTimeout(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	l.nextID++
	l.seq++
	l.timers = append(l.timers, timer{id: l.nextID, when: l.now.Add(d), seq: l.seq, fn: fn})
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].when.Equal(l.timers[j].when) {
			return l.timers[i].seq < l.timers[j].seq
		}
		return l.timers[i].when.Before(l.timers[j].when)
	})
	return l.nextID
}

// ClearTimeout cancels a pending timer. Unknown ids are ignored.
func (l *Loop) ClearTimeout(id TimerID) {
	for idx, t := range l.timers {
		if t.id == id {
			l.timers = append(l.timers[:idx], l.timers[idx+1:]...)
			return
		}
	}
}

// PendingTimers reports the number of timers not yet fired.
func (l *Loop) PendingTimers() int {
	return len(l.timers)
}

// Advance moves the clock forward by d, firing due timers in order. Each
// timer runs as its own task.
func (l *Loop) Advance(d time.Duration) {
	l.Settle()
	target := l.now.Add(d)
	for len(l.timers) > 0 && !l.timers[0].when.After(target) {
		next := l.timers[0]
		l.timers = l.timers[1:]
		if next.when.After(l.now) {
			l.now = next.when
		}
		l.RunTask(next.fn)
	}
	l.now = target
}
