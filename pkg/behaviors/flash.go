package behaviors

import "github.com/goliatone/go-formsync/pkg/dom"

// Flash wires dismissal triggers and schedules expiry of flash messages.
// A non-positive expiry keeps messages until dismissed.
func Flash() InstallFunc {
	return func(env Env) error {
		cfg := env.Config.Flash
		for _, trigger := range env.Doc.QueryAll(dom.ByClass(cfg.DismissClass)) {
			trigger.AddEventListener(dom.EventClick, func(*dom.Event) {
				if parent := trigger.Parent(); parent.IsElement() {
					parent.Remove()
				}
			})
		}

		expiry := cfg.Expiry.Std()
		if expiry <= 0 {
			return nil
		}
		loop := env.Doc.Loop()
		for _, message := range env.Doc.QueryAll(dom.ByClass(cfg.MessageClass)) {
			loop.SetTimeout(expiry, message.Remove)
		}
		return nil
	}
}
