package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField is returned when a record has no field with the given name
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidFieldValue is returned when a value does not fit the field type
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// Assign sets one field of rec, addressed by its JSON name, from a raw JSON value.
// A JSON null resets the field to its zero value. Numeric fields also accept
// numbers encoded as strings.
func Assign(rec any, field string, raw json.RawMessage) error {
	v := reflect.ValueOf(rec)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("assign %s: record must be a non-nil pointer", field)
	}

	fv, ok := fieldByJSONName(v.Elem(), field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	if isNumeric(fv.Kind()) && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, field, err)
		}
		return setNumeric(fv, field, strings.TrimSpace(s))
	}

	target := reflect.New(fv.Type())
	if err := json.Unmarshal(raw, target.Interface()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, field, err)
	}
	fv.Set(target.Elem())
	return nil
}

// HasField reports whether rec has a field with the given JSON name
func HasField(rec any, field string) bool {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	_, ok := fieldByJSONName(v, field)
	return ok
}

// IsEmpty reports whether the named field holds its zero value.
// Unknown fields count as empty.
func IsEmpty(rec any, field string) bool {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	fv, ok := fieldByJSONName(v, field)
	if !ok {
		return true
	}
	if fv.Kind() == reflect.String {
		return strings.TrimSpace(fv.String()) == ""
	}
	return fv.IsZero()
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if fv, ok := fieldByJSONName(v.Field(i), name); ok {
				return fv, true
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		tag := strings.Split(sf.Tag.Get("json"), ",")[0]
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = sf.Name
		}
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func setNumeric(fv reflect.Value, field, s string) error {
	if s == "" {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, field, err)
		}
		fv.SetFloat(f)
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, field, err)
		}
		fv.SetInt(n)
	}
	return nil
}
