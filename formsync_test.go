package formsync

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsync/pkg/dom"
)

func loadSample(t *testing.T) *Page {
	t.Helper()
	data, err := fs.ReadFile(SamplePagesFS(), "schema_edit.html")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	opts, err := DefaultOptions()
	if err != nil {
		t.Fatalf("default options: %v", err)
	}
	p, err := Load(strings.NewReader(string(data)), opts...)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.InstallError(); err != nil {
		t.Fatalf("install: %v", err)
	}
	return p
}

func TestEmbeddedTemplatesListed(t *testing.T) {
	names, err := fs.Glob(EmbeddedTemplates(), "*.tpl")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	want := []string{"documentation-item.tpl", "schema-ref-item.tpl"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestSamplePage_AppendsFromEmbeddedTemplates(t *testing.T) {
	p := loadSample(t)

	for _, id := range []string{"add-doc", "add-doc", "add-ref"} {
		if err := p.Click(id); err != nil {
			t.Fatalf("click %s: %v", id, err)
		}
	}
	if err := p.Input("id_documentation_items-1-url", "https://example.com/docs/README.md"); err != nil {
		t.Fatalf("input: %v", err)
	}
	p.Settle()

	form, err := p.Element("schema-form")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	values := dom.FormValues(form)
	checks := map[string]string{
		"documentation_items-TOTAL_FORMS": "2",
		"schema_refs-TOTAL_FORMS":         "1",
		"documentation_items-1-url":       "https://example.com/docs/README.md",
		"documentation_items-1-format":    "md",
		"documentation_items-0-format":    "",
		"schema_refs-0-format":            "json_schema",
	}
	for name, want := range checks {
		if got := values.Get(name); got != want {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}

	if err := p.Click("remove-doc"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := dom.FormValues(form).Get("documentation_items-TOTAL_FORMS"); got != "1" {
		t.Fatalf("expected counter 1 after remove-last, got %q", got)
	}
}

func TestSamplePage_RendersHighlightedSchema(t *testing.T) {
	p := loadSample(t)

	html, err := p.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(html, `data-highlighted="yes"`) {
		t.Fatalf("expected highlighted schema block in output")
	}
	if !strings.Contains(html, `<span class="k">&#34;$schema&#34;</span>`) {
		t.Fatalf("expected $schema keyword span in output")
	}
}
