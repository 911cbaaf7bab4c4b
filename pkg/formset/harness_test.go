package formset

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/goliatone/go-formsync/pkg/dom"
)

type harness struct {
	t      *testing.T
	doc    *dom.Document
	engine *Engine
	inst   *Instantiator
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, markup string, opts ...InstantiatorOption) *harness {
	t.Helper()

	doc, err := dom.ParseString(markup, dom.NewLoop())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine := New(doc, WithLogger(logger))
	engine.InitializeAll(doc.Root())
	inst := NewInstantiator(engine, append([]InstantiatorOption{WithInstantiatorLogger(logger)}, opts...)...)
	NewAdapters(engine, inst).Wire(doc.Root())

	return &harness{t: t, doc: doc, engine: engine, inst: inst, logs: logs}
}

func (h *harness) task(fn func()) {
	h.doc.Loop().RunTask(fn)
}

func (h *harness) click(n *dom.Node) {
	h.t.Helper()
	if n == nil {
		h.t.Fatalf("click on nil node")
	}
	h.task(func() { n.Dispatch(dom.NewEvent(dom.EventClick)) })
}

func (h *harness) list(listID string) *List {
	h.t.Helper()
	list, ok := h.engine.List(listID)
	if !ok {
		h.t.Fatalf("list %q not initialized", listID)
	}
	return list
}

func (h *harness) items(listID string) []*dom.Node {
	return h.engine.Items(h.list(listID))
}

func (h *harness) counterValue(listID string) string {
	h.t.Helper()
	counter := h.doc.Root().Query(dom.ByName(listID + "-TOTAL_FORMS"))
	if counter == nil {
		h.t.Fatalf("counter for %q missing", listID)
	}
	return counter.GetAttr("value")
}

func (h *harness) fieldValues(listID, field string) []string {
	var out []string
	for _, item := range h.items(listID) {
		input := item.Query(func(n *dom.Node) bool {
			return n.IsElement("input") && strings.HasSuffix(n.GetAttr("name"), "-"+field)
		})
		out = append(out, dom.Value(input))
	}
	return out
}

// assertConsistent checks the counter and that every indexed attribute in
// every item embeds the item's position.
func (h *harness) assertConsistent(listID string) {
	h.t.Helper()
	list := h.list(listID)
	items := h.engine.Items(list)

	if got := h.counterValue(listID); got != strconv.Itoa(len(items)) {
		h.t.Fatalf("counter mismatch: want %d, got %s", len(items), got)
	}
	for position, item := range items {
		nodes := append([]*dom.Node{item}, item.QueryAll(dom.ByTag())...)
		for _, node := range nodes {
			for _, attr := range indexedAttrs {
				value, ok := node.Attr(attr)
				if !ok {
					continue
				}
				if strings.Contains(value, "__prefix__") {
					h.t.Fatalf("placeholder left in %s=%q", attr, value)
				}
				idx, ok := list.pattern.index(value)
				if !ok {
					continue
				}
				if idx != position {
					h.t.Fatalf("item %d: %s=%q embeds index %d", position, attr, value, idx)
				}
			}
		}
	}
}

func itemMarkup(listID string, index int, value string) string {
	return fmt.Sprintf(`<div class="js-formset-item" id="%[1]s-%[2]d">
	<label for="id_%[1]s-%[2]d-url">URL</label>
	<input id="id_%[1]s-%[2]d-url" name="%[1]s-%[2]d-url" value="%[3]s">
	<button class="js-formset-item-toggle" aria-expanded="true">Toggle</button>
	<button class="js-formset-item-close">Close</button>
</div>`, listID, index, value)
}

func formsetMarkup(listID string, values ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<form id="form">
<input type="hidden" name="%[1]s-TOTAL_FORMS" value="%[2]d">
<input type="hidden" name="%[1]s-INITIAL_FORMS" value="%[2]d">
<div class="js-formset-list" data-list-id="%[1]s">`, listID, len(values))
	for idx, value := range values {
		b.WriteString(itemMarkup(listID, idx, value))
	}
	fmt.Fprintf(&b, `</div>
<template data-formset-template-for="%[1]s">
<div class="js-formset-item" id="%[1]s-__prefix__">
	<label for="id_%[1]s-__prefix__-url">URL</label>
	<input id="id_%[1]s-__prefix__-url" name="%[1]s-__prefix__-url" value="">
	<button class="js-formset-item-close">Close</button>
</div>
</template>
<button id="append" data-formset-append="%[1]s">Add</button>
<button id="remove" data-formset-remove-last="%[1]s">Remove</button>
</form>`, listID)
	return b.String()
}
