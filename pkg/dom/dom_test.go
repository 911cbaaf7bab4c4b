package dom

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseString(markup, NewLoop())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestMutationObserverBatchesSynchronousEdits(t *testing.T) {
	doc := mustParse(t, `<ul id="list"><li>a</li></ul>`)
	list := doc.GetElementByID("list")

	var batches [][]MutationRecord
	stop := doc.ObserveChildList(list, func(records []MutationRecord) {
		batches = append(batches, records)
	})
	defer stop()

	doc.Loop().RunTask(func() {
		list.AppendChild(doc.CreateElement("li"))
		list.AppendChild(doc.CreateElement("li"))
		list.ElementChildren()[0].Remove()
	})

	if len(batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(batches))
	}
	if got := len(batches[0]); got != 3 {
		t.Fatalf("expected 3 records, got %d", got)
	}
	if len(batches[0][2].Removed) != 1 {
		t.Fatalf("expected last record to be a removal")
	}
}

func TestMutationObserverIgnoresDeepChanges(t *testing.T) {
	doc := mustParse(t, `<div id="list"><div class="item"><span></span></div></div>`)
	list := doc.GetElementByID("list")

	calls := 0
	doc.ObserveChildList(list, func([]MutationRecord) { calls++ })

	doc.Loop().RunTask(func() {
		item := list.ElementChildren()[0]
		item.AppendChild(doc.CreateElement("em"))
		item.SetAttr("data-x", "1")
	})

	if calls != 0 {
		t.Fatalf("expected nested edits to go unobserved, got %d batches", calls)
	}
}

func TestMoveProducesRemovalAndAddition(t *testing.T) {
	doc := mustParse(t, `<ol id="list"><li id="a"></li><li id="b"></li></ol>`)
	list := doc.GetElementByID("list")
	obs := doc.NewMutationObserver(nil)
	obs.Observe(list, ObserveOptions{ChildList: true})

	list.AppendChild(doc.GetElementByID("a"))

	records := obs.TakeRecords()
	if len(records) != 2 {
		t.Fatalf("expected removal+addition, got %d records", len(records))
	}
	if records[0].Removed[0].GetAttr("id") != "a" || records[1].Added[0].GetAttr("id") != "a" {
		t.Fatalf("unexpected records: %+v", records)
	}
	var ids []string
	for _, child := range list.ElementChildren() {
		ids = append(ids, child.GetAttr("id"))
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryAllSkipsTemplateContent(t *testing.T) {
	doc := mustParse(t, `<div>
		<p class="hit"></p>
		<template><p class="hit"></p></template>
	</div>`)

	hits := doc.QueryAll(ByClass("hit"))
	if len(hits) != 1 {
		t.Fatalf("expected template content to be inert, got %d hits", len(hits))
	}
	tpl := doc.Root().Query(ByTag("template"))
	if len(tpl.TemplateContent()) == 0 {
		t.Fatalf("expected template content to be reachable explicitly")
	}
}

func TestLoopAdvanceFiresTimersInOrder(t *testing.T) {
	loop := NewLoop()
	var fired []string

	loop.SetTimeout(300*time.Millisecond, func() { fired = append(fired, "late") })
	loop.SetTimeout(100*time.Millisecond, func() {
		fired = append(fired, "early")
		loop.QueueMicrotask(func() { fired = append(fired, "micro") })
	})
	cancelled := loop.SetTimeout(200*time.Millisecond, func() { fired = append(fired, "cancelled") })
	loop.ClearTimeout(cancelled)

	loop.Advance(250 * time.Millisecond)
	if diff := cmp.Diff([]string{"early", "micro"}, fired); diff != "" {
		t.Fatalf("fired mismatch (-want +got):\n%s", diff)
	}
	if loop.PendingTimers() != 1 {
		t.Fatalf("expected one pending timer, got %d", loop.PendingTimers())
	}

	loop.Advance(time.Second)
	if fired[len(fired)-1] != "late" {
		t.Fatalf("expected late timer to fire, got %v", fired)
	}
	if want := time.Unix(0, 0).UTC().Add(1250 * time.Millisecond); !loop.Now().Equal(want) {
		t.Fatalf("clock mismatch: want %v, got %v", want, loop.Now())
	}
}

func TestDispatchBubblesAndStops(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><button id="btn"></button></div>`)
	outer := doc.GetElementByID("outer")
	btn := doc.GetElementByID("btn")

	var seen []string
	btn.AddEventListener(EventClick, func(ev *Event) { seen = append(seen, "btn") })
	handle := outer.AddEventListener(EventClick, func(ev *Event) {
		seen = append(seen, "outer:"+ev.Target.GetAttr("id"))
	})

	btn.Dispatch(NewEvent(EventClick))
	handle.Remove()
	btn.Dispatch(NewEvent(EventClick))

	if diff := cmp.Diff([]string{"btn", "outer:btn", "btn"}, seen); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if outer.ListenerCount(EventClick) != 0 {
		t.Fatalf("expected listener removed")
	}
}

func TestRenderElement(t *testing.T) {
	doc := mustParse(t, `<p class="a">hi <b>there</b></p>`)
	p := doc.Root().Query(ByTag("p"))
	if got, want := p.OuterHTML(), `<p class="a">hi <b>there</b></p>`; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
	if got := p.InnerHTML(); !strings.HasPrefix(got, "hi ") {
		t.Fatalf("unexpected inner html %q", got)
	}
}

func TestParseFragmentUsesContainerContext(t *testing.T) {
	doc := mustParse(t, `<table><tbody id="rows"></tbody></table>`)
	rows := doc.GetElementByID("rows")

	nodes, err := doc.ParseFragment(`<tr class="row"><td>1</td></tr>`, rows)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	if len(nodes) != 1 || !nodes[0].IsElement("tr") {
		t.Fatalf("expected a single <tr>, got %+v", nodes)
	}
}

func TestFormValues(t *testing.T) {
	doc := mustParse(t, `<form id="f">
		<input name="q" value="schema">
		<input type="checkbox" name="c1" checked>
		<input type="checkbox" name="c2" value="x">
		<input type="submit" name="go" value="Go">
		<select name="fmt"><option value="md">Markdown</option><option value="rst" selected>RST</option></select>
		<textarea name="body">text</textarea>
		<input name="off" value="1" disabled>
	</form>
	<input name="outside" value="yes" form="f">`)

	values := FormValues(doc.GetElementByID("f"))
	want := map[string][]string{
		"q":       {"schema"},
		"c1":      {"on"},
		"fmt":     {"rst"},
		"body":    {"text"},
		"outside": {"yes"},
	}
	if diff := cmp.Diff(want, map[string][]string(values)); diff != "" {
		t.Fatalf("form values mismatch (-want +got):\n%s", diff)
	}
}

func TestSetSelectValue(t *testing.T) {
	doc := mustParse(t, `<select id="s"><option value="a">A</option><option>b</option></select>`)
	sel := doc.GetElementByID("s")

	if SelectValue(sel) != "a" {
		t.Fatalf("expected first option by default")
	}
	if !SetSelectValue(sel, "b") || SelectValue(sel) != "b" {
		t.Fatalf("expected option text to act as value")
	}
	if SetSelectValue(sel, "missing") {
		t.Fatalf("expected unknown value to be rejected")
	}
	if diff := cmp.Diff([]string{"a", "b"}, OptionValues(sel)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestClassHelpers(t *testing.T) {
	doc := NewDocument(nil)
	el := doc.CreateElement("DIV")
	el.AddClass("a")
	el.AddClass("b")
	el.AddClass("a")
	if el.GetAttr("class") != "a b" {
		t.Fatalf("unexpected class attr %q", el.GetAttr("class"))
	}
	if el.ToggleClass("a") {
		t.Fatalf("expected toggle to remove a")
	}
	el.RemoveClass("b")
	if el.HasAttr("class") {
		t.Fatalf("expected empty class attr to be dropped")
	}
	if el.Data != "div" {
		t.Fatalf("expected lower-cased tag, got %q", el.Data)
	}
}
