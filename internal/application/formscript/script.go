// Package formscript runs the behaviour of record forms on the server.
//
// A Session holds one record being edited together with its field layout.
// Every mutation runs under the session lock; the kind's Script reacts to
// field changes by toggling field groups, recomputing totals and following
// link fields to copy attributes of the linked record.
package formscript

import (
	"errors"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

var (
	// ErrSessionNotFound is returned for unknown or evicted session ids
	ErrSessionNotFound = errors.New("form session not found")

	// ErrSessionClosed is returned when a closed session is mutated
	ErrSessionClosed = errors.New("form session closed")

	// ErrReadOnlyField is returned when a derived or system field is set directly
	ErrReadOnlyField = errors.New("field is read only")

	// ErrHiddenField is returned when a field of an inactive group is set
	ErrHiddenField = errors.New("field is hidden")

	// ErrUnknownItem is returned for item positions that do not exist
	ErrUnknownItem = errors.New("unknown item row")

	// ErrNoItems is returned for item operations on kinds without item rows
	ErrNoItems = errors.New("record has no item rows")

	// ErrNoScript is returned for kinds that have no form behaviour
	ErrNoScript = errors.New("no form script for record kind")
)

// Logger interface for form session logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Script is the form behaviour of one record kind. Its methods run with the
// session lock held and must not block.
type Script interface {
	Kind() entity.Kind
	New() entity.Record
	// Layout returns a fresh layout holding every managed field
	Layout() *form.Layout
	// Refresh runs when a session opens
	Refresh(s *Session)
	// Changed runs after field was assigned a new value
	Changed(s *Session, field string)
	// Links lists the link fields whose attributes are copied on change
	Links() []string
	// ReadOnly lists fields that are derived and cannot be set directly
	ReadOnly() []string
}

// Validator is implemented by scripts with save-time checks beyond required fields
type Validator interface {
	Validate(s *Session, verr *port.ValidationError)
}

// ItemScript is implemented by scripts of records with item rows.
// Rows are addressed by their 1-based position and tracked by row id.
type ItemScript interface {
	RowIDs(s *Session) []string
	RowID(s *Session, idx int) (string, bool)
	// Row returns a pointer to the row, or nil
	Row(s *Session, rowID string) interface{}
	AppendRow(s *Session) string
	RemoveRow(s *Session, rowID string) bool
	RowChanged(s *Session, rowID, field string)
	ItemLinks() []string
	ItemReadOnly() []string
}

// DefaultScripts returns the scripts of every form record kind
func DefaultScripts() []Script {
	return []Script{
		animalScript{},
		deliveryScript{},
		donationScript{},
		foodDemandScript{},
		personDemandScript{},
		personScript{},
	}
}
