package config

import (
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
)

// Theme token keys read by ApplyTheme.
const (
	TokenActiveClass    = "formsync.active-class"
	TokenCollapsedClass = "formsync.collapsed-class"
	TokenFlashExpiry    = "formsync.flash-expiry"
	TokenHighlightStyle = "formsync.highlight-style"
)

// ThemeTokens merges the manifest tokens with the selected variant's tokens,
// the variant winning on conflicts.
func ThemeTokens(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

// ApplyTheme overlays presentation settings from a theme selection. Tokens
// that are absent or invalid leave the current values in place.
func ApplyTheme(cfg Config, selection *theme.Selection) Config {
	tokens := ThemeTokens(selection)
	if len(tokens) == 0 {
		return cfg
	}
	if v := strings.TrimSpace(tokens[TokenActiveClass]); v != "" {
		cfg.Tabs.ActiveClass = v
	}
	if v := strings.TrimSpace(tokens[TokenCollapsedClass]); v != "" {
		cfg.Formsets.CollapsedClass = v
	}
	if v := strings.TrimSpace(tokens[TokenHighlightStyle]); v != "" {
		cfg.Highlight.Style = v
	}
	if v := strings.TrimSpace(tokens[TokenFlashExpiry]); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Flash.Expiry = Duration(d)
		}
	}
	return cfg
}
