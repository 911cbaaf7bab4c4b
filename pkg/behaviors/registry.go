package behaviors

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formsync/pkg/config"
	"github.com/goliatone/go-formsync/pkg/dom"
)

// Built-in behavior identifiers.
const (
	NameFormsets        = "formsets"
	NameAutoSubmit      = "autosubmit"
	NameFlash           = "flash"
	NameTabs            = "tabs"
	NameFormatInference = "format-inference"
	NameHighlight       = "highlight"
)

// Env is what a behavior sees when it is installed.
type Env struct {
	Doc    *dom.Document
	Config config.Config
	Logger *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// InstallFunc wires a behavior into a parsed document.
type InstallFunc func(env Env) error

type rule struct {
	name     string
	priority int
	install  InstallFunc
	order    int
}

// Registry orders behaviors for installation. Higher priority installs first;
// ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a behavior. Registering an existing name replaces it while
// keeping its original order.
func (r *Registry) Register(name string, priority int, install InstallFunc) {
	if r == nil || install == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rules {
		if r.rules[idx].name == trimmed {
			r.rules[idx].priority = priority
			r.rules[idx].install = install
			return
		}
	}
	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		install:  install,
		order:    len(r.rules),
	})
}

// Names returns the registered behaviors in installation order.
func (r *Registry) Names() []string {
	rules := r.sorted()
	names := make([]string, 0, len(rules))
	for _, entry := range rules {
		names = append(names, entry.name)
	}
	return names
}

// InstallAll installs every behavior. A failing behavior is logged and the
// rest still install; the joined errors are returned.
func (r *Registry) InstallAll(env Env) error {
	logger := env.logger()
	var errs []error
	for _, entry := range r.sorted() {
		if err := entry.install(env); err != nil {
			logger.Error("behavior install failed", "behavior", entry.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", entry.name, err))
			continue
		}
		logger.Debug("behavior installed", "behavior", entry.name)
	}
	return errors.Join(errs...)
}

func (r *Registry) sorted() []rule {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	return rules
}
