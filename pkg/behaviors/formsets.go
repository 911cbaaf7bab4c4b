package behaviors

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formsync/pkg/dom"
	"github.com/goliatone/go-formsync/pkg/formset"
	rendertemplate "github.com/goliatone/go-formsync/pkg/render/template"
)

// NamedTemplateAttr lets a list container name the renderer template used
// for its new items.
const NamedTemplateAttr = "data-formset-template"

// Formsets owns the formset engine of a page. Its fields are populated by
// Install.
type Formsets struct {
	Engine       *formset.Engine
	Instantiator *formset.Instantiator
	Adapters     *formset.Adapters

	renderer  rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy
	templates map[string]string
}

// FormsetsOption configures the formsets behavior.
type FormsetsOption func(*Formsets)

// WithItemRenderer renders named item templates.
func WithItemRenderer(renderer rendertemplate.TemplateRenderer) FormsetsOption {
	return func(f *Formsets) {
		f.renderer = renderer
	}
}

// WithItemSanitizer filters instantiated item markup.
func WithItemSanitizer(policy *bluemonday.Policy) FormsetsOption {
	return func(f *Formsets) {
		f.sanitizer = policy
	}
}

// WithItemTemplate binds a named template to listID.
func WithItemTemplate(listID, name string) FormsetsOption {
	return func(f *Formsets) {
		f.templates[listID] = name
	}
}

// NewFormsets prepares the formsets behavior.
func NewFormsets(options ...FormsetsOption) *Formsets {
	f := &Formsets{templates: make(map[string]string)}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Install initializes every list in the document and wires its triggers.
func (f *Formsets) Install(env Env) error {
	logger := env.logger()
	f.Engine = formset.New(env.Doc,
		formset.WithLogger(logger),
		formset.WithMarkers(env.Config.Formsets),
	)
	f.Instantiator = formset.NewInstantiator(f.Engine,
		formset.WithTemplateRenderer(f.renderer),
		formset.WithSanitizer(f.sanitizer),
		formset.WithInstantiatorLogger(logger),
	)
	f.Adapters = formset.NewAdapters(f.Engine, f.Instantiator)

	lists := f.Engine.InitializeAll(env.Doc.Root())
	for _, list := range lists {
		if name := strings.TrimSpace(list.Container.GetAttr(NamedTemplateAttr)); name != "" {
			f.Instantiator.RegisterTemplate(list.ID, name)
		}
	}
	for listID, name := range f.templates {
		f.Instantiator.RegisterTemplate(listID, name)
	}
	wired := f.Adapters.Wire(env.Doc.Root())
	logger.Debug("formsets installed", "lists", len(lists), "triggers", wired)
	return nil
}

// Items returns the current items of listID, or nil for unknown lists.
func (f *Formsets) Items(listID string) []*dom.Node {
	if f.Engine == nil {
		return nil
	}
	list, ok := f.Engine.List(listID)
	if !ok {
		return nil
	}
	return f.Engine.Items(list)
}
