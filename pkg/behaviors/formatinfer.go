package behaviors

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// InferFormat guesses a format for the file a URL points at. The lexer
// registry is keyed by file name, and only aliases listed in choices are
// returned, in choice order. An empty string means no guess.
func InferFormat(rawURL string, choices []string) string {
	p := rawURL
	if parsed, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		p = parsed.Path
	}
	name := path.Base(p)
	if name == "" || name == "." || name == "/" {
		return ""
	}
	lexer := lexers.Match(name)
	if lexer == nil {
		return ""
	}
	aliases := lexer.Config().Aliases
	for _, choice := range choices {
		if choice != "" && slices.Contains(aliases, choice) {
			return choice
		}
	}
	return ""
}

// FormatInference fills a format select from the URL typed into the input
// that targets it. Once the user picks a format themselves, inference stops
// for that select. Listeners are delegated to the document so inputs added
// later, such as new formset items, are covered too.
func FormatInference() InstallFunc {
	return func(env Env) error {
		logger := env.logger()
		attr := env.Config.FormatInference.TargetAttr
		overridden := make(map[*dom.Node]bool)

		env.Doc.AddEventListener(dom.EventChange, func(ev *dom.Event) {
			if ev.Target.IsElement("select") {
				overridden[ev.Target] = true
			}
		})
		env.Doc.AddEventListener(dom.EventInput, func(ev *dom.Event) {
			input := ev.Target
			if !input.HasAttr(attr) {
				return
			}
			target := strings.TrimSpace(input.GetAttr(attr))
			sel := env.Doc.GetElementByID(target)
			if !sel.IsElement("select") {
				logger.Warn("format target missing", "target", target)
				return
			}
			if overridden[sel] {
				return
			}
			if format := InferFormat(dom.Value(input), dom.OptionValues(sel)); format != "" {
				dom.SetSelectValue(sel, format)
			}
		})
		return nil
	}
}
