package page

import (
	"bytes"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formsync/pkg/behaviors"
	"github.com/goliatone/go-formsync/pkg/config"
	"github.com/goliatone/go-formsync/pkg/dom"
	"github.com/goliatone/go-formsync/pkg/testsupport"
)

const fixture = "testdata/schema_edit.html"

func loadFixture(t *testing.T, opts ...Option) *Page {
	t.Helper()
	p, err := LoadFile(fixture, opts...)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.InstallError(); err != nil {
		t.Fatalf("install: %v", err)
	}
	return p
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("action: %v", err)
	}
}

func formValues(t *testing.T, p *Page, id string) url.Values {
	t.Helper()
	form, err := p.Element(id)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	return dom.FormValues(form)
}

func TestLoad_InstallsBuiltinsOnDOMContentLoaded(t *testing.T) {
	p := loadFixture(t)

	if p.Formsets() == nil || p.Formsets().Engine == nil {
		t.Fatalf("expected formsets to be installed")
	}
	if got := len(p.Formsets().Items("documentation_items")); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
	code, _ := p.Element("schema-src")
	if code.GetAttr(behaviors.HighlightedAttr) != "yes" {
		t.Fatalf("expected schema source to be highlighted")
	}
	search, _ := p.Element("#search-q")
	if pos, ok := search.Prop("selectionStart"); !ok || pos != len("docker") {
		t.Fatalf("expected caret at end, got %v", pos)
	}
}

func TestPage_EditingDocumentationItems(t *testing.T) {
	p := loadFixture(t)

	mustDo(t, p.Click("add-doc"))
	mustDo(t, p.Input("id_documentation_items-2-url", "https://example.com/CHANGELOG.rst"))
	mustDo(t, p.Click("close-0"))
	p.Settle()

	values := formValues(t, p, "schema-form")
	want := url.Values{
		"csrfmiddlewaretoken":                 {"token"},
		"name":                                {"Docker Compose"},
		"documentation_items-TOTAL_FORMS":     {"2"},
		"documentation_items-INITIAL_FORMS":   {"2"},
		"documentation_items-MAX_NUM_FORMS":   {"4"},
		"documentation_items-0-url":           {"https://example.com/guide.rst"},
		"documentation_items-0-format":        {"rst"},
		"documentation_items-1-url":           {"https://example.com/CHANGELOG.rst"},
		"documentation_items-1-format":        {"rst"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	items := p.Formsets().Items("documentation_items")
	label := items[1].Query(dom.ByTag("label"))
	if got := label.GetAttr("for"); got != "id_documentation_items-1-url" {
		t.Fatalf("expected label to follow renumbering, got %q", got)
	}
}

func TestPage_AppendStopsAtMaxNumForms(t *testing.T) {
	p := loadFixture(t)

	for range 5 {
		mustDo(t, p.Click("add-doc"))
	}
	if got := len(p.Formsets().Items("documentation_items")); got != 4 {
		t.Fatalf("expected 4 items, got %d", got)
	}
	if got := formValues(t, p, "schema-form").Get("documentation_items-TOTAL_FORMS"); got != "4" {
		t.Fatalf("expected counter 4, got %q", got)
	}
	mustDo(t, p.Click("remove-doc"))
	if got := formValues(t, p, "schema-form").Get("documentation_items-TOTAL_FORMS"); got != "3" {
		t.Fatalf("expected counter 3, got %q", got)
	}
}

func TestPage_UserFormatChoiceSticks(t *testing.T) {
	p := loadFixture(t)

	mustDo(t, p.Change("id_documentation_items-0-format", ""))
	mustDo(t, p.Input("id_documentation_items-0-url", "https://example.com/other.rst"))

	if got := formValues(t, p, "schema-form").Get("documentation_items-0-format"); got != "" {
		t.Fatalf("expected user choice to stick, got %q", got)
	}
}

func TestPage_AutoSubmitRecordsSearch(t *testing.T) {
	p := loadFixture(t)

	mustDo(t, p.Input("search-q", "docker compose"))
	p.Advance(500 * time.Millisecond)

	want := []Submission{{
		FormID: "search",
		Action: "/schemas/",
		Values: url.Values{"q": {"docker compose"}},
	}}
	if diff := cmp.Diff(want, p.Submissions()); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_CustomSubmitter(t *testing.T) {
	var got []string
	p := loadFixture(t, WithSubmitter(behaviors.SubmitterFunc(func(form *dom.Node) error {
		got = append(got, form.GetAttr("id"))
		return nil
	})))

	mustDo(t, p.Input("search-q", "x"))
	p.Advance(time.Second)
	if diff := cmp.Diff([]string{"search"}, got); diff != "" {
		t.Fatalf("submitter calls mismatch (-want +got):\n%s", diff)
	}
	if len(p.Submissions()) != 0 {
		t.Fatalf("expected default recorder unused")
	}
}

func TestPage_FlashAndTabs(t *testing.T) {
	p := loadFixture(t)

	mustDo(t, p.Click("tab-link-docs"))
	docs, _ := p.Element("tab-docs")
	schema, _ := p.Element("tab-schema")
	if !docs.HasClass("is-active") || schema.HasClass("is-active") {
		t.Fatalf("expected docs tab to be the active panel")
	}

	p.Advance(8 * time.Second)
	if _, err := p.Element("flash-saved"); !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected flash message to expire, got %v", err)
	}
}

func TestPage_ThemeOverlay(t *testing.T) {
	selector := stubSelector{selection: &theme.Selection{
		Theme:   "admin",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "admin",
			Tokens: map[string]string{config.TokenActiveClass: "selected"},
		},
	}}
	p := loadFixture(t, WithThemeSelector(selector, "admin", "dark"))

	if got := p.Config().Tabs.ActiveClass; got != "selected" {
		t.Fatalf("expected themed active class, got %q", got)
	}
	mustDo(t, p.Click("tab-link-docs"))
	docs, _ := p.Element("tab-docs")
	if !docs.HasClass("selected") {
		t.Fatalf("expected themed class on panel, got %q", docs.GetAttr("class"))
	}
}

func TestPage_ThemeSelectorError(t *testing.T) {
	_, err := LoadFile(fixture, WithThemeSelector(stubSelector{err: errors.New("no theme")}, "x", ""))
	if err == nil || !strings.Contains(err.Error(), "no theme") {
		t.Fatalf("expected selector error, got %v", err)
	}
}

func TestPage_ExtraAndFailingBehaviors(t *testing.T) {
	var logs bytes.Buffer
	ran := false
	p, err := LoadFile(fixture,
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithBehavior("custom", 1, func(env behaviors.Env) error {
			ran = env.Doc != nil
			return nil
		}),
		WithBehavior("broken", 200, func(behaviors.Env) error {
			return errors.New("boom")
		}),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ran {
		t.Fatalf("expected custom behavior to run")
	}
	if p.InstallError() == nil || !strings.Contains(logs.String(), "behavior=broken") {
		t.Fatalf("expected broken behavior to be reported, logs:\n%s", logs.String())
	}
	if p.Formsets().Engine == nil {
		t.Fatalf("expected built-ins to install despite failure")
	}
}

func TestPage_ActionErrors(t *testing.T) {
	p := loadFixture(t)

	if err := p.Click("nope"); !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
	if err := p.Change("id_documentation_items-0-format", "pdf"); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}

func TestPage_RenderGolden(t *testing.T) {
	p := loadFixture(t, WithConfig(config.Config{Highlight: config.Highlight{Languages: []string{"none"}}}))

	mustDo(t, p.Click("add-doc"))
	mustDo(t, p.Click("close-1"))
	list, _ := p.Element("docs")
	got := testsupport.NormalizeHTML(list.OuterHTML())

	golden := "testdata/docs_after_edit.golden.html"
	if testsupport.WriteMaybeGolden(t, golden, []byte(got+"\n")) {
		return
	}
	want := testsupport.NormalizeHTML(testsupport.MustReadGoldenString(t, golden))
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("rendered list mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ReadError(t *testing.T) {
	if _, err := LoadFile("testdata/missing.html"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

type stubSelector struct {
	selection *theme.Selection
	err       error
}

func (s stubSelector) Select(string, string, ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, s.err
}
