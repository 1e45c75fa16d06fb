// Package bridge provides the loosely-typed payload seam between the Go
// state core and its host collaborators (the declarative tree builder and
// the platform text field). Payloads are in-process key-value maps; keys
// are fixed by the state contract, values arrive as whatever the host's
// marshaling layer produced, so lookups tolerate the usual numeric type
// drift (JSON floats, native int32/int64, and so on).
package bridge

import "fmt"

// Payload is a loosely-typed key-value map exchanged across the boundary.
type Payload = map[string]any

// Has reports whether the payload contains the given key.
func Has(p Payload, key string) bool {
	_, ok := p[key]
	return ok
}

// Int64 extracts an int64 from the payload.
// The second result is false if the key is absent; the third is false
// if the key is present but holds a non-numeric value.
func Int64(p Payload, key string) (v int64, present, ok bool) {
	raw, exists := p[key]
	if !exists {
		return 0, false, true
	}
	n, ok := toInt64(raw)
	return n, true, ok
}

// Float64 extracts a float64 from the payload.
// The second result is false if the key is absent; the third is false
// if the key is present but holds a non-numeric value.
func Float64(p Payload, key string) (v float64, present, ok bool) {
	raw, exists := p[key]
	if !exists {
		return 0, false, true
	}
	f, ok := toFloat64(raw)
	return f, true, ok
}

// Bool extracts a bool from the payload.
func Bool(p Payload, key string) (v, present, ok bool) {
	raw, exists := p[key]
	if !exists {
		return false, false, true
	}
	b, ok := raw.(bool)
	return b, true, ok
}

// String extracts a string from the payload.
func String(p Payload, key string) (v string, present, ok bool) {
	raw, exists := p[key]
	if !exists {
		return "", false, true
	}
	switch s := raw.(type) {
	case string:
		return s, true, true
	case []byte:
		return string(s), true, true
	case fmt.Stringer:
		return s.String(), true, true
	default:
		return "", true, false
	}
}

// Map extracts a nested payload from the payload.
func Map(p Payload, key string) (v Payload, present, ok bool) {
	raw, exists := p[key]
	if !exists {
		return nil, false, true
	}
	m := parseMap(raw)
	return m, true, m != nil
}

// List extracts a slice of nested payloads from the payload.
func List(p Payload, key string) (v []Payload, present, ok bool) {
	raw, exists := p[key]
	if !exists {
		return nil, false, true
	}
	items, isSlice := raw.([]any)
	if !isSlice {
		return nil, true, false
	}
	out := make([]Payload, 0, len(items))
	for _, item := range items {
		m := parseMap(item)
		if m == nil {
			return nil, true, false
		}
		out = append(out, m)
	}
	return out, true, true
}

// toInt64 converts various numeric types to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// toFloat64 converts various numeric types to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

// parseMap extracts a map[string]any from an any value.
func parseMap(value any) map[string]any {
	if value == nil {
		return nil
	}
	if m, ok := value.(map[string]any); ok {
		return m
	}
	if m, ok := value.(map[any]any); ok {
		converted := make(map[string]any, len(m))
		for key, val := range m {
			if keyString, ok := key.(string); ok {
				converted[keyString] = val
			}
		}
		return converted
	}
	return nil
}
