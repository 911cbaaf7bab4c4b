package formset

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsync/pkg/dom"
)

func TestDecodeAfterEditing(t *testing.T) {
	h := newHarness(t, formsetMarkup("docs", "a", "b", "c"))
	items := h.items("docs")
	h.click(items[1].Query(dom.ByClass("js-formset-item-close")))
	h.click(h.doc.GetElementByID("append"))

	form := h.doc.Root().Query(dom.ByTag("form"))
	sub, err := DefaultMarkers().Decode(dom.FormValues(form), "docs")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Submission{
		ListID:  "docs",
		Total:   3,
		Initial: 3,
		Items: []url.Values{
			{"url": {"a"}},
			{"url": {"c"}},
			{"url": {""}},
		},
	}
	if diff := cmp.Diff(want, sub); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsInconsistentPayloads(t *testing.T) {
	cases := []struct {
		name   string
		values url.Values
		want   error
	}{
		{
			name:   "missing counter",
			values: url.Values{"docs-0-url": {"a"}},
			want:   ErrMissingCounter,
		},
		{
			name:   "negative counter",
			values: url.Values{"docs-TOTAL_FORMS": {"-1"}},
			want:   ErrInvalidCounter,
		},
		{
			name:   "bad initial",
			values: url.Values{"docs-TOTAL_FORMS": {"1"}, "docs-INITIAL_FORMS": {"x"}},
			want:   ErrInvalidCounter,
		},
		{
			name:   "stale counter",
			values: url.Values{"docs-TOTAL_FORMS": {"1"}, "docs-0-url": {"a"}, "docs-1-url": {"b"}},
			want:   ErrCounterMismatch,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DefaultMarkers().Decode(tc.values, "docs")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.ListID != "docs" {
				t.Fatalf("expected ConfigurationError for docs, got %#v", err)
			}
		})
	}
}

func TestDecodeIgnoresOtherLists(t *testing.T) {
	values := url.Values{
		"docs-TOTAL_FORMS":    {"1"},
		"docs-0-url":          {"a"},
		"more_docs-5-url":     {"x"},
		"docs-links-0-href":   {"y"},
		"docs-0-links-0-href": {"z"},
	}
	sub, err := DefaultMarkers().Decode(values, "docs")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []url.Values{{"url": {"a"}, "links-0-href": {"z"}}}
	if diff := cmp.Diff(want, sub.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}
