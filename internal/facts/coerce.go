package facts

import (
	"math"

	"github.com/spf13/cast"
)

// rows normalizes a ROW_* container. Firmware returns a single object when a table has
// one row and a list otherwise; both become a slice of row maps. Non-map list items are
// dropped.
func rows(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// lookup walks nested maps; it returns nil when any step is missing or not a map
func lookup(v any, keys ...string) any {
	cur := v
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// str reads key from row as a string. Numbers are formatted; maps, lists and null
// count as absent.
func str(row map[string]any, key string) (string, bool) {
	v, ok := row[key]
	if !ok || v == nil {
		return "", false
	}
	if kindOf(v) != KindScalar {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// toInt64 reads a scalar that may be a JSON number or a numeric string. Values that
// do not fit in an int64 are rejected.
func toInt64(v any) (int64, bool) {
	if kindOf(v) != KindScalar {
		return 0, false
	}
	switch t := v.(type) {
	case string, float64, float32:
		f, err := cast.ToFloat64E(t)
		if err != nil || !fitsInt64(f) {
			return 0, false
		}
		return int64(f), true
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func fitsInt64(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f >= math.MinInt64 && f < math.MaxInt64
}

// truthy mirrors the usual "present and non-empty" test applied to device fields
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		f, err := cast.ToFloat64E(t)
		return err != nil || f != 0
	}
}

// at returns responses[i] or nil when the runner returned fewer responses
func at(responses []any, i int) any {
	if i < 0 || i >= len(responses) {
		return nil
	}
	return responses[i]
}
