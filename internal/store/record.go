package store

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one schemaless attribute bag. Values keep whatever JSON type they
// were written with; numbers often arrive as strings.
type Record map[string]any

// String returns the first present, non-empty key as text.
func (r Record) String(keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			s = t.String()
		case bool:
			s = strconv.FormatBool(t)
		default:
			b, err := json.Marshal(t)
			if err != nil {
				continue
			}
			s = string(b)
		}
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// StringOr returns String(keys...) or def.
func (r Record) StringOr(def string, keys ...string) string {
	if s, ok := r.String(keys...); ok {
		return s
	}
	return def
}

// Float reads the first key that holds a number or numeric text.
func (r Record) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch t := r[k].(type) {
		case float64:
			return t, true
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// FloatOr returns Float(keys...) or def.
func (r Record) FloatOr(def float64, keys ...string) float64 {
	if f, ok := r.Float(keys...); ok {
		return f
	}
	return def
}
