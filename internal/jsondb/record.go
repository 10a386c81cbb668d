package jsondb

import (
	"fmt"
	"strconv"
)

// Record is one row of a collection: a mapping from field name to a JSON
// value (string, number, bool, nil, or nested structure).
type Record map[string]any

// Clone returns a copy of the record. Nested maps and slices are copied one
// level deep, which covers everything the store actually writes.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		switch t := v.(type) {
		case map[string]any:
			m := make(map[string]any, len(t))
			for mk, mv := range t {
				m[mk] = mv
			}
			c[k] = m
		case []any:
			s := make([]any, len(t))
			copy(s, t)
			c[k] = s
		default:
			c[k] = v
		}
	}
	return c
}

// Int returns the field as an integer. JSON decoding yields float64, in-memory
// inserts may hold native ints; both are accepted.
func (r Record) Int(field string) (int, bool) {
	switch v := r[field].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Bool reports whether the field holds true, accepting the string "true" as
// the original store did for form-sourced values.
func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// Deleted reports whether the record carries a soft-delete marker.
func (r Record) Deleted() bool {
	v, ok := r["deleted_at"]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// asInt converts an arbitrary parameter value to an integer, failing closed
// on anything that does not parse.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// asBool interprets a parameter as a boolean the way the original store did:
// the bool true and the string "true" both count.
func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

// asString renders a parameter for string comparison.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
