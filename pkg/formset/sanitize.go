package formset

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	formPolicyOnce sync.Once
	formPolicy     *bluemonday.Policy
)

// FormMarkupPolicy returns a shared policy that keeps form controls, their
// naming attributes and data-* markers while stripping scripts and handlers
// from instantiated item markup.
func FormMarkupPolicy() *bluemonday.Policy {
	formPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements(
			"form", "fieldset", "legend", "label", "input", "select", "option",
			"optgroup", "textarea", "button", "template",
		)
		policy.AllowAttrs(
			"name", "id", "for", "type", "value", "placeholder", "class",
			"checked", "selected", "required", "disabled", "readonly", "multiple",
			"maxlength", "minlength", "min", "max", "step", "rows", "cols",
			"hidden", "role", "aria-expanded", "aria-label", "aria-controls",
			"autocomplete",
		).Globally()
		policy.AllowDataAttributes()
		formPolicy = policy
	})
	return formPolicy
}
