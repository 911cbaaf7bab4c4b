package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-formsync/pkg/behaviors"
	"github.com/goliatone/go-formsync/pkg/config"
	"github.com/goliatone/go-formsync/pkg/dom"
)

// Behavior priorities of the built-in registry. Formsets install first so
// other behaviors see initialized lists.
const (
	PriorityFormsets        = 100
	PriorityAutoSubmit      = 90
	PriorityFlash           = 80
	PriorityTabs            = 70
	PriorityFormatInference = 60
	PriorityHighlight       = 50
)

// ErrElementNotFound is returned by the action helpers for unknown ids.
var ErrElementNotFound = errors.New("page: element not found")

// Submission is a form recorded by the default submitter.
type Submission struct {
	FormID string
	Action string
	Values url.Values
}

// Page is a loaded document with its behaviors installed.
type Page struct {
	doc      *dom.Document
	loop     *dom.Loop
	cfg      config.Config
	logger   *slog.Logger
	formsets *behaviors.Formsets

	installErr  error
	submissions []Submission
}

// Load parses r, dispatches DOMContentLoaded and installs the behaviors.
// Behavior install failures are logged and kept in InstallError; they do
// not fail the load.
func Load(r io.Reader, opts ...Option) (*Page, error) {
	o := &options{
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.selector != nil {
		selection, err := o.selector.Select(o.themeName, o.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("page: select theme: %w", err)
		}
		o.cfg = config.ApplyTheme(o.cfg, selection)
	}

	loop := dom.NewLoop()
	doc, err := dom.Parse(r, loop)
	if err != nil {
		return nil, err
	}
	p := &Page{
		doc:    doc,
		loop:   loop,
		cfg:    o.cfg,
		logger: o.logger,
	}

	registry := o.registry
	if registry == nil {
		registry = p.builtins(o)
	}
	for _, reg := range o.extra {
		registry.Register(reg.name, reg.priority, reg.install)
	}

	doc.AddEventListener(dom.EventDOMContentLoaded, func(*dom.Event) {
		p.installErr = registry.InstallAll(behaviors.Env{
			Doc:    doc,
			Config: p.cfg,
			Logger: p.logger,
		})
	})
	loop.RunTask(func() {
		doc.Dispatch(dom.NewEvent(dom.EventDOMContentLoaded))
	})
	return p, nil
}

// LoadFile loads the document stored at path.
func LoadFile(path string, opts ...Option) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("page: read %s: %w", path, err)
	}
	return Load(bytes.NewReader(data), opts...)
}

func (p *Page) builtins(o *options) *behaviors.Registry {
	submitter := o.submitter
	if submitter == nil {
		submitter = behaviors.SubmitterFunc(p.record)
	}
	formsetOpts := []behaviors.FormsetsOption{
		behaviors.WithItemRenderer(o.renderer),
		behaviors.WithItemSanitizer(o.sanitizer),
	}
	for listID, name := range o.templates {
		formsetOpts = append(formsetOpts, behaviors.WithItemTemplate(listID, name))
	}
	p.formsets = behaviors.NewFormsets(formsetOpts...)

	registry := behaviors.NewRegistry()
	registry.Register(behaviors.NameFormsets, PriorityFormsets, p.formsets.Install)
	registry.Register(behaviors.NameAutoSubmit, PriorityAutoSubmit, behaviors.AutoSubmit(submitter))
	registry.Register(behaviors.NameFlash, PriorityFlash, behaviors.Flash())
	registry.Register(behaviors.NameTabs, PriorityTabs, behaviors.Tabs())
	registry.Register(behaviors.NameFormatInference, PriorityFormatInference, behaviors.FormatInference())
	registry.Register(behaviors.NameHighlight, PriorityHighlight, behaviors.Highlight())
	return registry
}

func (p *Page) record(form *dom.Node) error {
	p.submissions = append(p.submissions, Submission{
		FormID: form.GetAttr("id"),
		Action: form.GetAttr("action"),
		Values: dom.FormValues(form),
	})
	p.logger.Info("form submitted", "form", form.GetAttr("id"), "action", form.GetAttr("action"))
	return nil
}

// Document returns the live document.
func (p *Page) Document() *dom.Document { return p.doc }

// Loop returns the page's event loop.
func (p *Page) Loop() *dom.Loop { return p.loop }

// Config returns the settings the behaviors were installed with.
func (p *Page) Config() config.Config { return p.cfg }

// Formsets returns the formset behavior, or nil when a custom registry
// replaced the built-ins.
func (p *Page) Formsets() *behaviors.Formsets { return p.formsets }

// InstallError reports the joined behavior install failures.
func (p *Page) InstallError() error { return p.installErr }

// Submissions returns the forms recorded by the default submitter.
func (p *Page) Submissions() []Submission {
	return append([]Submission(nil), p.submissions...)
}

// Element returns the element with id. A leading '#' is accepted.
func (p *Page) Element(id string) (*dom.Node, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "#")
	node := p.doc.GetElementByID(id)
	if node == nil {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return node, nil
}

// Click dispatches a click on the element as one task.
func (p *Page) Click(id string) error {
	node, err := p.Element(id)
	if err != nil {
		return err
	}
	p.loop.RunTask(func() {
		node.Dispatch(dom.NewEvent(dom.EventClick))
	})
	return nil
}

// Input sets the control's value and dispatches an input event.
func (p *Page) Input(id, value string) error {
	node, err := p.Element(id)
	if err != nil {
		return err
	}
	p.loop.RunTask(func() {
		dom.SetValue(node, value)
		node.Dispatch(dom.NewEvent(dom.EventInput))
	})
	return nil
}

// Change sets the control's value and dispatches input and change events,
// like a user picking an option. Checkboxes and radios are checked when
// value is "on" or matches their value attribute.
func (p *Page) Change(id, value string) error {
	node, err := p.Element(id)
	if err != nil {
		return err
	}
	if node.IsElement("select") && !dom.SetSelectValue(node, value) {
		return fmt.Errorf("page: #%s has no option %q", node.GetAttr("id"), value)
	}
	p.loop.RunTask(func() {
		switch strings.ToLower(node.GetAttr("type")) {
		case "checkbox", "radio":
			if value == "on" || value == node.GetAttr("value") {
				node.SetAttr("checked", "")
			} else {
				node.RemoveAttr("checked")
			}
		default:
			if !node.IsElement("select") {
				dom.SetValue(node, value)
			}
		}
		node.Dispatch(dom.NewEvent(dom.EventInput))
		node.Dispatch(dom.NewEvent(dom.EventChange))
	})
	return nil
}

// Settle drains pending microtasks.
func (p *Page) Settle() { p.loop.Settle() }

// Advance moves virtual time forward, firing due timers.
func (p *Page) Advance(d time.Duration) { p.loop.Advance(d) }

// Render writes the current document as HTML.
func (p *Page) Render(w io.Writer) error {
	p.loop.Settle()
	return dom.Render(w, p.doc.Root())
}

// HTML returns the current document as a string.
func (p *Page) HTML() (string, error) {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
