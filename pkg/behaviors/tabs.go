package behaviors

import (
	"strings"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// Tabs keeps exactly one link and one panel active inside each tab group.
func Tabs() InstallFunc {
	return func(env Env) error {
		logger := env.logger()
		cfg := env.Config.Tabs
		for _, group := range env.Doc.QueryAll(dom.ByClass(cfg.GroupClass)) {
			links := owned(group, cfg.GroupClass, dom.And(dom.ByClass(cfg.LinkClass), dom.ByAttr(cfg.TargetAttr)))
			for _, link := range links {
				link.AddEventListener(dom.EventClick, func(ev *dom.Event) {
					ev.PreventDefault()
					target := strings.TrimSpace(link.GetAttr(cfg.TargetAttr))
					panel := env.Doc.GetElementByID(target)
					if panel == nil || !panel.HasClass(cfg.PanelClass) || !group.Contains(panel) {
						logger.Warn("tab target missing", "target", target)
						return
					}
					for _, other := range links {
						other.RemoveClass(cfg.ActiveClass)
						other.SetAttr("aria-selected", "false")
					}
					for _, other := range owned(group, cfg.GroupClass, dom.ByClass(cfg.PanelClass)) {
						other.RemoveClass(cfg.ActiveClass)
					}
					link.AddClass(cfg.ActiveClass)
					link.SetAttr("aria-selected", "true")
					panel.AddClass(cfg.ActiveClass)
				})
			}
		}
		return nil
	}
}

// owned returns the matches inside group that do not belong to a nested
// group.
func owned(group *dom.Node, groupClass string, match dom.Matcher) []*dom.Node {
	var out []*dom.Node
	for _, node := range group.QueryAll(match) {
		if node.Parent().Closest(dom.ByClass(groupClass)) == group {
			out = append(out, node)
		}
	}
	return out
}
