package behaviors

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goliatone/go-formsync/pkg/config"
	"github.com/goliatone/go-formsync/pkg/dom"
)

type fixture struct {
	doc  *dom.Document
	loop *dom.Loop
	logs *bytes.Buffer
}

func load(t *testing.T, markup string, installs ...InstallFunc) *fixture {
	t.Helper()
	return loadWithConfig(t, markup, config.Default(), installs...)
}

func loadWithConfig(t *testing.T, markup string, cfg config.Config, installs ...InstallFunc) *fixture {
	t.Helper()
	loop := dom.NewLoop()
	doc, err := dom.ParseString(markup, loop)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	logs := &bytes.Buffer{}
	env := Env{
		Doc:    doc,
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	for _, install := range installs {
		if err := install(env); err != nil {
			t.Fatalf("install: %v", err)
		}
	}
	loop.Settle()
	return &fixture{doc: doc, loop: loop, logs: logs}
}

func (f *fixture) byID(t *testing.T, id string) *dom.Node {
	t.Helper()
	node := f.doc.GetElementByID(id)
	if node == nil {
		t.Fatalf("element #%s not found", id)
	}
	return node
}

func (f *fixture) fire(t *testing.T, id, typ string) {
	t.Helper()
	node := f.byID(t, id)
	f.loop.RunTask(func() { node.Dispatch(dom.NewEvent(typ)) })
}

func (f *fixture) input(t *testing.T, id, value string) {
	t.Helper()
	node := f.byID(t, id)
	f.loop.RunTask(func() {
		dom.SetValue(node, value)
		node.Dispatch(dom.NewEvent(dom.EventInput))
	})
}

func containsLog(f *fixture, msg string) bool {
	return bytes.Contains(f.logs.Bytes(), []byte(msg))
}
