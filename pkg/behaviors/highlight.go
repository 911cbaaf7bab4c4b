package behaviors

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/goliatone/go-formsync/pkg/dom"
)

// HighlightedAttr marks code blocks that were already highlighted.
const HighlightedAttr = "data-highlighted"

// ErrJSONUnsupported is returned when the lexer registry has no JSON lexer.
var ErrJSONUnsupported = errors.New("behaviors: chroma is missing a definition for JSON")

// JSONSchemaKeywords lists the keywords defined by JSON Schema 2020-12.
var JSONSchemaKeywords = []string{
	"$anchor", "$comment", "$defs", "$dynamicAnchor", "$dynamicRef", "$id",
	"$ref", "$schema", "$vocabulary", "additionalProperties", "allOf", "anyOf",
	"const", "contains", "contentEncoding", "contentMediaType", "contentSchema",
	"default", "dependentRequired", "dependentSchemas", "deprecated",
	"description", "else", "enum", "examples", "exclusiveMaximum",
	"exclusiveMinimum", "format", "if", "items", "maxContains", "maximum",
	"maxItems", "maxLength", "maxProperties", "minContains", "minimum",
	"minItems", "minLength", "minProperties", "multipleOf", "not", "oneOf",
	"pattern", "patternProperties", "prefixItems", "properties",
	"propertyNames", "readOnly", "required", "then", "title", "type",
	"unevaluatedItems", "unevaluatedProperties", "uniqueItems", "writeOnly",
}

// JSONSchemaLexer builds a JSON lexer that emits keyword tokens for the given
// keywords when they appear as object keys.
func JSONSchemaLexer(keywords []string) (chroma.Lexer, error) {
	if lexers.Get("json") == nil {
		return nil, ErrJSONUnsupported
	}
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	rules := []chroma.Rule{{Pattern: `\s+`, Type: chroma.Text}}
	if len(quoted) > 0 {
		rules = append(rules, chroma.Rule{
			Pattern: `"(` + strings.Join(quoted, "|") + `)"(?=\s*:)`,
			Type:    chroma.Keyword,
		})
	}
	rules = append(rules,
		chroma.Rule{Pattern: `"(\\.|[^"\\])*"(?=\s*:)`, Type: chroma.NameTag},
		chroma.Rule{Pattern: `"(\\.|[^"\\])*"`, Type: chroma.LiteralStringDouble},
		chroma.Rule{Pattern: `-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?`, Type: chroma.LiteralNumber},
		chroma.Rule{Pattern: `(true|false|null)\b`, Type: chroma.KeywordConstant},
		chroma.Rule{Pattern: `[{}\[\],:]`, Type: chroma.Punctuation},
		chroma.Rule{Pattern: `.`, Type: chroma.Error},
	)
	lexer, err := chroma.NewLexer(&chroma.Config{
		Name:      "JSON Schema",
		Aliases:   []string{"json-schema", "json"},
		Filenames: []string{"*.schema.json"},
		MimeTypes: []string{"application/schema+json"},
		DotAll:    true,
	}, func() chroma.Rules {
		return chroma.Rules{"root": rules}
	})
	if err != nil {
		return nil, fmt.Errorf("behaviors: build json schema lexer: %w", err)
	}
	return lexer, nil
}

// Highlighter renders JSON source as class-annotated HTML spans.
type Highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter builds a highlighter for the default keywords plus extra.
func NewHighlighter(style string, extra ...string) (*Highlighter, error) {
	keywords := slices.Concat(JSONSchemaKeywords, extra)
	lexer, err := JSONSchemaLexer(keywords)
	if err != nil {
		return nil, err
	}
	return &Highlighter{
		lexer:     lexer,
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true)),
	}, nil
}

// HighlightString returns the highlighted HTML for src.
func (h *Highlighter) HighlightString(src string) (string, error) {
	iterator, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("behaviors: tokenise: %w", err)
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", fmt.Errorf("behaviors: format: %w", err)
	}
	return b.String(), nil
}

// HighlightNode replaces the text of a code element with highlighted markup.
// Blocks already marked as highlighted are left alone; the return value
// reports whether code changed.
func (h *Highlighter) HighlightNode(code *dom.Node) (bool, error) {
	if !code.IsElement() || code.GetAttr(HighlightedAttr) == "yes" {
		return false, nil
	}
	out, err := h.HighlightString(code.TextContent())
	if err != nil {
		return false, err
	}
	nodes, err := code.Document().ParseFragment(out, code)
	if err != nil {
		return false, err
	}
	code.ReplaceChildren(nodes...)
	code.AddClass("chroma")
	code.SetAttr(HighlightedAttr, "yes")
	return true, nil
}

// Highlight highlights every code block tagged with a configured language.
func Highlight() InstallFunc {
	return func(env Env) error {
		cfg := env.Config.Highlight
		h, err := NewHighlighter(cfg.Style, cfg.ExtraKeywords...)
		if err != nil {
			return err
		}
		var errs []error
		count := 0
		for _, code := range env.Doc.QueryAll(codeBlocks(cfg.Languages)) {
			changed, err := h.HighlightNode(code)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if changed {
				count++
			}
		}
		env.logger().Debug("code blocks highlighted", "count", count)
		return errors.Join(errs...)
	}
}

func codeBlocks(languages []string) dom.Matcher {
	return func(n *dom.Node) bool {
		if !n.IsElement("code") {
			return false
		}
		for _, lang := range languages {
			if n.HasClass("language-" + lang) {
				return true
			}
		}
		return false
	}
}
