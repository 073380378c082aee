// Package form holds the record-independent parts of form behaviour:
// per-field visibility metadata, discriminator-driven field groups and
// request tickets for asynchronous link lookups.
package form

import (
	"encoding/json"
	"sort"
)

// FieldState is the visibility metadata of one field
type FieldState struct {
	Hidden   bool `json:"hidden"`
	Required bool `json:"reqd"`
}

// Layout tracks field metadata for a single open record.
// It is not safe for concurrent use; the owning session serialises access.
type Layout struct {
	fields map[string]FieldState
}

// NewLayout creates a layout where all given fields are visible and optional
func NewLayout(fields ...string) *Layout {
	l := &Layout{fields: make(map[string]FieldState, len(fields))}
	for _, f := range fields {
		l.fields[f] = FieldState{}
	}
	return l
}

// Show marks fields visible
func (l *Layout) Show(fields ...string) {
	for _, f := range fields {
		st := l.fields[f]
		st.Hidden = false
		l.fields[f] = st
	}
}

// Hide marks fields hidden
func (l *Layout) Hide(fields ...string) {
	for _, f := range fields {
		st := l.fields[f]
		st.Hidden = true
		l.fields[f] = st
	}
}

// SetRequired toggles the mandatory flag of a field
func (l *Layout) SetRequired(field string, required bool) {
	st := l.fields[field]
	st.Required = required
	l.fields[field] = st
}

// State returns the metadata of a field
func (l *Layout) State(field string) (FieldState, bool) {
	st, ok := l.fields[field]
	return st, ok
}

// Visible reports whether a field is shown. Unknown fields are visible.
func (l *Layout) Visible(field string) bool {
	return !l.fields[field].Hidden
}

// Hidden returns the names of hidden fields, sorted
func (l *Layout) Hidden() []string {
	var out []string
	for name, st := range l.fields {
		if st.Hidden {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// MissingRequired lists visible mandatory fields for which isEmpty returns true.
// Hidden fields are never enforced.
func (l *Layout) MissingRequired(isEmpty func(field string) bool) []string {
	var out []string
	for name, st := range l.fields {
		if st.Required && !st.Hidden && isEmpty(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of all field metadata
func (l *Layout) Snapshot() map[string]FieldState {
	out := make(map[string]FieldState, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the layout as a field name to state object
func (l *Layout) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.fields)
}
