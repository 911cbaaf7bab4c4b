package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formsync/pkg/page"
)

// Action kinds understood by the replay script.
const (
	KindClick  = "click"
	KindInput  = "input"
	KindChange = "change"
	KindWait   = "wait"
)

// Action is one scripted user action.
type Action struct {
	Kind   string
	Target string
	Value  string
	Wait   time.Duration
}

// ParseAction parses "click:<id>", "input:<id>=<value>",
// "change:<id>=<value>" or "wait:<duration>".
func ParseAction(raw string) (Action, error) {
	kind, rest, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || rest == "" {
		return Action{}, fmt.Errorf("action %q: expected <kind>:<target>", raw)
	}
	kind = strings.ToLower(kind)
	switch kind {
	case KindClick:
		return Action{Kind: kind, Target: rest}, nil
	case KindInput, KindChange:
		target, value, ok := strings.Cut(rest, "=")
		if !ok || target == "" {
			return Action{}, fmt.Errorf("action %q: expected %s:<id>=<value>", raw, kind)
		}
		return Action{Kind: kind, Target: target, Value: value}, nil
	case KindWait:
		d, err := time.ParseDuration(rest)
		if err != nil {
			return Action{}, fmt.Errorf("action %q: %w", raw, err)
		}
		return Action{Kind: kind, Wait: d}, nil
	default:
		return Action{}, fmt.Errorf("action %q: unknown kind %q", raw, kind)
	}
}

// Apply runs the action against p and settles pending work.
func (a Action) Apply(p *page.Page) error {
	var err error
	switch a.Kind {
	case KindClick:
		err = p.Click(a.Target)
	case KindInput:
		err = p.Input(a.Target, a.Value)
	case KindChange:
		err = p.Change(a.Target, a.Value)
	case KindWait:
		p.Advance(a.Wait)
	default:
		err = fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if err != nil {
		return err
	}
	p.Settle()
	return nil
}

func (a Action) String() string {
	switch a.Kind {
	case KindClick:
		return a.Kind + ":" + a.Target
	case KindWait:
		return a.Kind + ":" + a.Wait.String()
	default:
		return a.Kind + ":" + a.Target + "=" + a.Value
	}
}
