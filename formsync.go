// Package formsync keeps Django-style formset pages consistent as users add,
// remove and reorder items, and installs the small page behaviors that sit
// next to them. It re-exports the page loader with the embedded item
// templates wired in.
package formsync

import (
	"fmt"
	"io"

	"github.com/goliatone/go-formsync/pkg/config"
	"github.com/goliatone/go-formsync/pkg/formset"
	"github.com/goliatone/go-formsync/pkg/page"
	"github.com/goliatone/go-formsync/pkg/render/template/gotemplate"
)

// Page is a loaded document with its behaviors installed.
type Page = page.Page

// Option customises page loading.
type Option = page.Option

// Submission is a form recorded by the default submitter.
type Submission = page.Submission

// Config holds the behavior settings.
type Config = config.Config

// Load parses r and installs the page behaviors.
func Load(r io.Reader, opts ...Option) (*Page, error) {
	return page.Load(r, opts...)
}

// LoadFile loads the page stored at path.
func LoadFile(path string, opts ...Option) (*Page, error) {
	return page.LoadFile(path, opts...)
}

// NewItemRenderer builds a template renderer over the embedded item
// templates. Extra options, such as WithBaseDir, add further sources.
func NewItemRenderer(options ...gotemplate.Option) (*gotemplate.Engine, error) {
	opts := append([]gotemplate.Option{gotemplate.WithFS(EmbeddedTemplates())}, options...)
	engine, err := gotemplate.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("formsync: item renderer: %w", err)
	}
	return engine, nil
}

// DefaultOptions wires the embedded item templates and the form markup
// sanitizer.
func DefaultOptions() ([]Option, error) {
	renderer, err := NewItemRenderer()
	if err != nil {
		return nil, err
	}
	return []Option{
		page.WithItemRenderer(renderer),
		page.WithSanitizer(formset.FormMarkupPolicy()),
	}, nil
}

// WithConfig replaces the default behavior settings.
func WithConfig(cfg Config) Option {
	return page.WithConfig(cfg)
}
