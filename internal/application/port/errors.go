package port

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrRecordNotFound is returned when a linked or requested record does not exist
	ErrRecordNotFound = errors.New("record not found")

	// ErrValidation is wrapped by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrUnknownKind is returned for record kinds the service does not manage
	ErrUnknownKind = errors.New("unknown record kind")
)

// ValidationError collects one message per invalid field
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field, keeping the first message per field
func (e *ValidationError) Add(field, format string, args ...interface{}) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = fmt.Sprintf(format, args...)
}

// Merge copies the messages of other that are not set yet
func (e *ValidationError) Merge(other map[string]string) {
	for field, msg := range other {
		e.Add(field, "%s", msg)
	}
}

// Empty reports whether no field failed
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns e when it holds messages and nil otherwise
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+e.Fields[k])
	}
	return "validation error(s):\n" + strings.Join(lines, "\n")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
