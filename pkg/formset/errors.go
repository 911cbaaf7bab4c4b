package formset

import (
	"errors"
	"fmt"
)

var (
	// ErrNilContainer is reported when initialization receives no container.
	ErrNilContainer = errors.New("formset: container is nil")
	// ErrMissingListID is reported when a container lacks its list identifier.
	ErrMissingListID = errors.New("formset: list identifier missing")
	// ErrDuplicateList is reported when two containers share an identifier.
	ErrDuplicateList = errors.New("formset: duplicate list identifier")
	// ErrMissingCounter is reported when the total counter field is absent.
	ErrMissingCounter = errors.New("formset: counter field missing")
	// ErrInvalidCounter is reported when a submitted counter is not a count.
	ErrInvalidCounter = errors.New("formset: counter value invalid")
	// ErrCounterMismatch is reported when submitted item fields fall outside
	// the submitted count.
	ErrCounterMismatch = errors.New("formset: item index outside counter")
)

// ConfigurationError describes a required marker or field missing from the
// page markup. It only ever degrades the affected list.
type ConfigurationError struct {
	ListID string
	Marker string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.ListID != "" && e.Marker != "":
		return fmt.Sprintf("%v (list %q, marker %q)", e.Err, e.ListID, e.Marker)
	case e.ListID != "":
		return fmt.Sprintf("%v (list %q)", e.Err, e.ListID)
	case e.Marker != "":
		return fmt.Sprintf("%v (marker %q)", e.Err, e.Marker)
	default:
		return fmt.Sprint(e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
