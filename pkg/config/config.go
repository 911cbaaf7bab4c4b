// Package config loads page behavior settings from YAML or JSON(C) files and
// overlays presentation classes from a go-theme selection.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formsync/pkg/formset"
)

// Duration is a time.Duration that decodes from strings like "500ms" in
// both YAML and JSON.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

// UnmarshalJSON accepts a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		*d = Duration(time.Duration(ms * float64(time.Millisecond)))
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: duration must be a string or milliseconds: %w", err)
	}
	return d.parse(raw)
}

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// MarshalYAML encodes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// AutoSubmit configures debounced form submission.
type AutoSubmit struct {
	Class    string   `json:"class" yaml:"class"`
	Debounce Duration `json:"debounce" yaml:"debounce"`
}

// Flash configures dismissible flash messages.
type Flash struct {
	DismissClass string   `json:"dismiss_class" yaml:"dismiss_class"`
	MessageClass string   `json:"message_class" yaml:"message_class"`
	Expiry       Duration `json:"expiry" yaml:"expiry"`
}

// Tabs configures single-active tab groups.
type Tabs struct {
	GroupClass  string `json:"group_class" yaml:"group_class"`
	LinkClass   string `json:"link_class" yaml:"link_class"`
	PanelClass  string `json:"panel_class" yaml:"panel_class"`
	TargetAttr  string `json:"target_attr" yaml:"target_attr"`
	ActiveClass string `json:"active_class" yaml:"active_class"`
}

// FormatInference configures URL to format suggestions.
type FormatInference struct {
	TargetAttr string `json:"target_attr" yaml:"target_attr"`
}

// Highlight configures syntax highlighting of JSON Schema blocks.
type Highlight struct {
	Languages     []string `json:"languages" yaml:"languages"`
	Style         string   `json:"style" yaml:"style"`
	ExtraKeywords []string `json:"extra_keywords" yaml:"extra_keywords"`
}

// Config holds every behavior setting for a page.
type Config struct {
	AutoSubmit      AutoSubmit      `json:"autosubmit" yaml:"autosubmit"`
	Flash           Flash           `json:"flash" yaml:"flash"`
	Tabs            Tabs            `json:"tabs" yaml:"tabs"`
	FormatInference FormatInference `json:"format_inference" yaml:"format_inference"`
	Highlight       Highlight       `json:"highlight" yaml:"highlight"`
	Formsets        formset.Markers `json:"formsets" yaml:"formsets"`
}

// Default returns the settings matching the bundled templates.
func Default() Config {
	return Config{
		AutoSubmit: AutoSubmit{
			Class:    "js-autosubmit-input",
			Debounce: Duration(500 * time.Millisecond),
		},
		Flash: Flash{
			DismissClass: "message-dismissal-trigger",
			MessageClass: "js-flash-message",
			Expiry:       Duration(8 * time.Second),
		},
		Tabs: Tabs{
			GroupClass:  "js-tabs",
			LinkClass:   "js-tab-link",
			PanelClass:  "js-tab",
			TargetAttr:  "data-tab-target",
			ActiveClass: "is-active",
		},
		FormatInference: FormatInference{
			TargetAttr: "data-format-target",
		},
		Highlight: Highlight{
			Languages: []string{"json", "json-schema"},
			Style:     "github",
		},
		Formsets: formsetMarkers(formset.DefaultMarkers(), "data-format-target"),
	}
}

// formsetMarkers renumbers the format target attribute with the rest of an
// item's fields, so inference keeps pointing at the item's own select.
func formsetMarkers(m formset.Markers, formatAttr string) formset.Markers {
	if !slices.Contains(m.ExtraIndexedAttrs, formatAttr) {
		m.ExtraIndexedAttrs = append(slices.Clone(m.ExtraIndexedAttrs), formatAttr)
	}
	return m
}

// WithDefaults fills zero values from Default. A negative flash expiry
// disables expiry and is preserved.
func (c Config) WithDefaults() Config {
	def := Default()
	str := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	str(&c.AutoSubmit.Class, def.AutoSubmit.Class)
	if c.AutoSubmit.Debounce <= 0 {
		c.AutoSubmit.Debounce = def.AutoSubmit.Debounce
	}
	str(&c.Flash.DismissClass, def.Flash.DismissClass)
	str(&c.Flash.MessageClass, def.Flash.MessageClass)
	if c.Flash.Expiry == 0 {
		c.Flash.Expiry = def.Flash.Expiry
	}
	str(&c.Tabs.GroupClass, def.Tabs.GroupClass)
	str(&c.Tabs.LinkClass, def.Tabs.LinkClass)
	str(&c.Tabs.PanelClass, def.Tabs.PanelClass)
	str(&c.Tabs.TargetAttr, def.Tabs.TargetAttr)
	str(&c.Tabs.ActiveClass, def.Tabs.ActiveClass)
	str(&c.FormatInference.TargetAttr, def.FormatInference.TargetAttr)
	if len(c.Highlight.Languages) == 0 {
		c.Highlight.Languages = def.Highlight.Languages
	}
	str(&c.Highlight.Style, def.Highlight.Style)
	c.Formsets = formsetMarkers(c.Formsets.WithDefaults(), c.FormatInference.TargetAttr)
	return c
}

// Parse decodes data in the given format ("yaml", "yml", "json" or "jsonc")
// on top of the defaults.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode yaml: %w", err)
		}
	case "json", "jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q", format)
	}
	return cfg.WithDefaults(), nil
}

// Load reads a config file, choosing the decoder from its extension.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Config{}, errors.New("config: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
