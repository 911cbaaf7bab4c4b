package behaviors

import (
	"time"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// Submitter receives forms that should be submitted.
type Submitter interface {
	Submit(form *dom.Node) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(form *dom.Node) error

// Submit calls f.
func (f SubmitterFunc) Submit(form *dom.Node) error { return f(form) }

// AutoSubmit submits the owning form of every auto-submit control once the
// user stops typing for the configured interval.
func AutoSubmit(submitter Submitter) InstallFunc {
	return func(env Env) error {
		logger := env.logger()
		cfg := env.Config.AutoSubmit
		loop := env.Doc.Loop()

		for _, control := range env.Doc.QueryAll(dom.ByClass(cfg.Class)) {
			if !control.IsElement("input", "select", "textarea") {
				continue
			}
			form := dom.FormOwner(control)
			if form == nil {
				logger.Debug("autosubmit control outside a form", "name", control.GetAttr("name"))
				continue
			}
			submit := debounce(loop, cfg.Debounce.Std(), func() {
				if submitter == nil {
					return
				}
				if err := submitter.Submit(form); err != nil {
					logger.Error("autosubmit failed", "form", form.GetAttr("id"), "error", err)
				}
			})
			control.AddEventListener(dom.EventInput, func(*dom.Event) { submit() })
			if control.IsElement("select") {
				control.AddEventListener(dom.EventChange, func(*dom.Event) { submit() })
			}
			if control.HasAttr("autofocus") {
				control.SetProp("selectionStart", len([]rune(dom.Value(control))))
			}
		}
		return nil
	}
}

// debounce returns a trigger that runs fn once wait has passed without
// another call.
func debounce(loop *dom.Loop, wait time.Duration, fn func()) func() {
	var (
		pending bool
		timer   dom.TimerID
	)
	return func() {
		if pending {
			loop.ClearTimeout(timer)
		}
		pending = true
		timer = loop.SetTimeout(wait, func() {
			pending = false
			fn()
		})
	}
}
