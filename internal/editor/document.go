package editor

import "reflect"

// Document helpers operate on plain JSON-like values: map[string]any,
// []any, string, bool, nil, and the numeric kinds produced by JSON
// decoding or default synthesis.

// DeepCopy clones an arbitrary JSON-like value. Maps and slices are
// cloned recursively; primitives are returned as-is.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = DeepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = DeepCopy(child)
		}
		return out
	default:
		return v
	}
}

// DeepEqual compares two JSON-like values structurally: map keys are
// order-insensitive, sequences are order-sensitive, and numeric kinds are
// compared by value so that an in-memory int64 matches its float64 form
// after a JSON round-trip.
func DeepEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, achild := range av {
			bchild, ok := bv[k]
			if !ok || !DeepEqual(achild, bchild) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		if an, ok := asNumber(a); ok {
			bn, bok := asNumber(b)
			return bok && an == bn
		}
		return a == b
	}
}

// asNumber normalises the numeric kinds that appear in documents.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// sameIdentity reports whether two values are the same document node.
// Maps and slices compare by identity (same underlying storage),
// primitives by value. Used for selection repair after deletions.
func sameIdentity(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return false
		}
		return reflect.ValueOf(av).Pointer() == reflect.ValueOf(bv).Pointer()
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) || len(av) == 0 {
			return false
		}
		return &av[0] == &bv[0]
	default:
		return a == b
	}
}
