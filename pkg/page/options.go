package page

import (
	"log/slog"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formsync/pkg/behaviors"
	"github.com/goliatone/go-formsync/pkg/config"
	rendertemplate "github.com/goliatone/go-formsync/pkg/render/template"
)

// Option customises page loading.
type Option func(*options)

type options struct {
	cfg          config.Config
	cfgSet       bool
	logger       *slog.Logger
	submitter    behaviors.Submitter
	registry     *behaviors.Registry
	extra        []registration
	renderer     rendertemplate.TemplateRenderer
	sanitizer    *bluemonday.Policy
	templates    map[string]string
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
}

type registration struct {
	name     string
	priority int
	install  behaviors.InstallFunc
}

// WithConfig replaces the default behavior settings.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg.WithDefaults()
		o.cfgSet = true
	}
}

// WithLogger sets the logger shared by every behavior.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSubmitter receives auto-submitted forms. Without one the page records
// submissions itself.
func WithSubmitter(submitter behaviors.Submitter) Option {
	return func(o *options) {
		o.submitter = submitter
	}
}

// WithRegistry installs the behaviors of registry instead of the built-ins.
func WithRegistry(registry *behaviors.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithBehavior registers an additional behavior next to the built-ins.
func WithBehavior(name string, priority int, install behaviors.InstallFunc) Option {
	return func(o *options) {
		o.extra = append(o.extra, registration{name: name, priority: priority, install: install})
	}
}

// WithItemRenderer enables named item templates for formset lists.
func WithItemRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(o *options) {
		o.renderer = renderer
	}
}

// WithItemTemplate binds a named item template to listID.
func WithItemTemplate(listID, name string) Option {
	return func(o *options) {
		if o.templates == nil {
			o.templates = make(map[string]string)
		}
		o.templates[listID] = name
	}
}

// WithSanitizer filters instantiated item markup through policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(o *options) {
		o.sanitizer = policy
	}
}

// WithThemeSelector resolves a go-theme selection at load time and overlays
// its tokens on the behavior settings.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *options) {
		o.selector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}
