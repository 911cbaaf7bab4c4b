package dom

import (
	"net/url"
	"strings"
)

// Value returns the current value of a form control.
func Value(n *Node) string {
	switch {
	case n.IsElement("select"):
		return SelectValue(n)
	case n.IsElement("textarea"):
		return n.TextContent()
	default:
		return n.GetAttr("value")
	}
}

// SetValue updates the current value of a form control.
func SetValue(n *Node, value string) {
	switch {
	case n.IsElement("select"):
		SetSelectValue(n, value)
	case n.IsElement("textarea"):
		n.SetTextContent(value)
	default:
		n.SetAttr("value", value)
	}
}

// SelectValue returns the value of the selected option, defaulting to the
// first option like a browser does for single selects.
func SelectValue(sel *Node) string {
	options := sel.QueryAll(ByTag("option"))
	if len(options) == 0 {
		return ""
	}
	for _, opt := range options {
		if opt.HasAttr("selected") {
			return optionValue(opt)
		}
	}
	return optionValue(options[0])
}

// SetSelectValue marks the option with value as selected. It reports whether
// a matching option exists; without one the selection is left unchanged.
func SetSelectValue(sel *Node, value string) bool {
	options := sel.QueryAll(ByTag("option"))
	var target *Node
	for _, opt := range options {
		if optionValue(opt) == value {
			target = opt
			break
		}
	}
	if target == nil {
		return false
	}
	for _, opt := range options {
		opt.RemoveAttr("selected")
	}
	target.SetAttr("selected", "")
	return true
}

// OptionValues lists the values of a select's options in order.
func OptionValues(sel *Node) []string {
	options := sel.QueryAll(ByTag("option"))
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, optionValue(opt))
	}
	return out
}

func optionValue(opt *Node) string {
	if val, ok := opt.Attr("value"); ok {
		return val
	}
	return strings.TrimSpace(opt.TextContent())
}

// FormValues collects the name/value pairs a browser would submit for form,
// including controls associated through the form attribute.
func FormValues(form *Node) url.Values {
	values := url.Values{}
	if !form.IsElement("form") {
		return values
	}
	controls := form.QueryAll(ByTag("input", "select", "textarea"))
	if id := form.GetAttr("id"); id != "" && form.doc != nil {
		for _, ctrl := range form.doc.root.QueryAll(ByAttrValue("form", id)) {
			if !form.Contains(ctrl) {
				controls = append(controls, ctrl)
			}
		}
	}
	for _, ctrl := range controls {
		name := ctrl.GetAttr("name")
		if name == "" || ctrl.HasAttr("disabled") {
			continue
		}
		if !ctrl.IsElement("input", "select", "textarea") {
			continue
		}
		if id := ctrl.GetAttr("form"); id != "" && id != form.GetAttr("id") {
			continue
		}
		switch {
		case ctrl.IsElement("input"):
			switch strings.ToLower(ctrl.GetAttr("type")) {
			case "submit", "button", "reset", "file", "image":
				continue
			case "checkbox", "radio":
				if !ctrl.HasAttr("checked") {
					continue
				}
				val, ok := ctrl.Attr("value")
				if !ok {
					val = "on"
				}
				values.Add(name, val)
			default:
				values.Add(name, ctrl.GetAttr("value"))
			}
		case ctrl.IsElement("select"):
			if ctrl.HasAttr("multiple") {
				for _, opt := range ctrl.QueryAll(ByTag("option")) {
					if opt.HasAttr("selected") {
						values.Add(name, optionValue(opt))
					}
				}
				continue
			}
			values.Add(name, SelectValue(ctrl))
		default:
			values.Add(name, ctrl.TextContent())
		}
	}
	return values
}
