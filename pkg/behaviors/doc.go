// Package behaviors installs the page-level interactions that sit next to the
// formset engine: debounced auto submission, dismissible flash messages, tab
// groups, URL format inference and JSON Schema highlighting.
//
// Every behavior is an InstallFunc registered on a Registry with a priority.
// Installation happens once per page load, after the document is parsed.
package behaviors
