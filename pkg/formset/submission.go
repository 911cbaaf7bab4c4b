package formset

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Submission is the server-side view of one submitted list.
type Submission struct {
	ListID  string
	Total   int
	Initial int
	// Items holds each item's fields keyed by field name without the
	// <listId>-<n>- prefix. Items absent from the payload are empty.
	Items []url.Values
}

// Decode reads the counter and item fields of listID from submitted values.
// It is what the server does with the page's output: the counter must be a
// count and every item field must carry an index below it.
func (m Markers) Decode(values url.Values, listID string) (Submission, error) {
	m = m.WithDefaults()
	sub := Submission{ListID: listID}

	total, err := submittedCount(values, m.CounterName(listID), true)
	if err != nil {
		return Submission{}, &ConfigurationError{ListID: listID, Marker: m.CounterName(listID), Err: err}
	}
	initial, err := submittedCount(values, m.InitialName(listID), false)
	if err != nil {
		return Submission{}, &ConfigurationError{ListID: listID, Marker: m.InitialName(listID), Err: err}
	}
	sub.Total, sub.Initial = total, initial

	sub.Items = make([]url.Values, total)
	for idx := range sub.Items {
		sub.Items[idx] = url.Values{}
	}
	prefix := listID + "-"
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		rawIndex, field, ok := strings.Cut(rest, "-")
		if !ok {
			continue
		}
		index, err := strconv.Atoi(rawIndex)
		if err != nil || index < 0 {
			continue
		}
		if index >= total {
			return Submission{}, &ConfigurationError{
				ListID: listID,
				Marker: name,
				Err:    fmt.Errorf("%w: index %d, count %d", ErrCounterMismatch, index, total),
			}
		}
		sub.Items[index][field] = append(sub.Items[index][field], values[name]...)
	}
	return sub, nil
}

func submittedCount(values url.Values, name string, required bool) (int, error) {
	raw, ok := values[name]
	if !ok || len(raw) == 0 {
		if required {
			return 0, ErrMissingCounter
		}
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCounter, raw[0])
	}
	return n, nil
}
