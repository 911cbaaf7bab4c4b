package formset

import (
	"slices"
	"strings"
)

// Markers names the structural markers the server templates emit. Empty
// fields fall back to the defaults.
type Markers struct {
	ListClass      string `json:"list_class" yaml:"list_class"`
	ListIDAttr     string `json:"list_id_attr" yaml:"list_id_attr"`
	ItemClass      string `json:"item_class" yaml:"item_class"`
	TemplateAttr   string `json:"template_attr" yaml:"template_attr"`
	Placeholder    string `json:"placeholder" yaml:"placeholder"`
	CounterSuffix  string `json:"counter_suffix" yaml:"counter_suffix"`
	InitialSuffix  string `json:"initial_suffix" yaml:"initial_suffix"`
	MaxSuffix      string `json:"max_suffix" yaml:"max_suffix"`
	CloseClass     string `json:"close_class" yaml:"close_class"`
	ToggleClass    string `json:"toggle_class" yaml:"toggle_class"`
	CollapsedClass string `json:"collapsed_class" yaml:"collapsed_class"`
	AppendAttr     string `json:"append_attr" yaml:"append_attr"`
	RemoveLastAttr string `json:"remove_last_attr" yaml:"remove_last_attr"`

	// ExtraIndexedAttrs are renumbered along with name, id and for.
	ExtraIndexedAttrs []string `json:"extra_indexed_attrs,omitempty" yaml:"extra_indexed_attrs,omitempty"`
}

// DefaultMarkers returns the markers produced by the bundled templates.
func DefaultMarkers() Markers {
	return Markers{
		ListClass:      "js-formset-list",
		ListIDAttr:     "data-list-id",
		ItemClass:      "js-formset-item",
		TemplateAttr:   "data-formset-template-for",
		Placeholder:    "__prefix__",
		CounterSuffix:  "TOTAL_FORMS",
		InitialSuffix:  "INITIAL_FORMS",
		MaxSuffix:      "MAX_NUM_FORMS",
		CloseClass:     "js-formset-item-close",
		ToggleClass:    "js-formset-item-toggle",
		CollapsedClass: "is-collapsed",
		AppendAttr:     "data-formset-append",
		RemoveLastAttr: "data-formset-remove-last",
	}
}

// WithDefaults fills empty fields from DefaultMarkers.
func (m Markers) WithDefaults() Markers {
	def := DefaultMarkers()
	fill := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	fill(&m.ListClass, def.ListClass)
	fill(&m.ListIDAttr, def.ListIDAttr)
	fill(&m.ItemClass, def.ItemClass)
	fill(&m.TemplateAttr, def.TemplateAttr)
	fill(&m.Placeholder, def.Placeholder)
	fill(&m.CounterSuffix, def.CounterSuffix)
	fill(&m.InitialSuffix, def.InitialSuffix)
	fill(&m.MaxSuffix, def.MaxSuffix)
	fill(&m.CloseClass, def.CloseClass)
	fill(&m.ToggleClass, def.ToggleClass)
	fill(&m.CollapsedClass, def.CollapsedClass)
	fill(&m.AppendAttr, def.AppendAttr)
	fill(&m.RemoveLastAttr, def.RemoveLastAttr)
	return m
}

// IndexedAttrs lists every attribute rewritten when items are renumbered.
func (m Markers) IndexedAttrs() []string {
	attrs := slices.Clone(indexedAttrs)
	for _, attr := range m.ExtraIndexedAttrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr != "" && !slices.Contains(attrs, attr) {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// CounterName is the name of the total counter field for listID.
func (m Markers) CounterName(listID string) string {
	return listID + "-" + m.CounterSuffix
}

// InitialName is the name of the field holding the server-rendered count.
func (m Markers) InitialName(listID string) string {
	return listID + "-" + m.InitialSuffix
}

// MaxName is the name of the optional maximum field for listID.
func (m Markers) MaxName(listID string) string {
	return listID + "-" + m.MaxSuffix
}
