package facts

import (
	"encoding/json"
	"strings"

	"nxfacts/internal/logger"
)

// Kind is the container shape a Rule expects
type Kind int

const (
	KindMap Kind = iota
	KindList
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Rule is one step of a validation path: Key must exist with the given Kind,
// otherwise it is set to Default.
type Rule struct {
	Key     string
	Kind    Kind
	Default any
}

// Validate walks node along rules, inserting or replacing values that are missing or
// have the wrong kind, and returns the (possibly new) root map. A non-map node is
// rewritten as an empty map first. Validate never fails; each correction is logged at
// trace level.
func Validate(log logger.Logger, node any, rules ...Rule) map[string]any {
	root, ok := node.(map[string]any)
	if !ok {
		log.Trace().Str("got", describe(node)).Msg("response is not an object, using empty object")
		root = make(map[string]any)
	}

	cur := root
	path := make([]string, 0, len(rules))
	for i, rule := range rules {
		path = append(path, rule.Key)
		val, exists := cur[rule.Key]
		switch {
		case !exists:
			log.Trace().Str("path", strings.Join(path, ".")).Str("expected", rule.Kind.String()).
				Msg("missing key, inserting default")
			cur[rule.Key] = cloneValue(rule.Default)
		case kindOf(val) != rule.Kind:
			log.Trace().Str("path", strings.Join(path, ".")).Str("expected", rule.Kind.String()).
				Str("got", describe(val)).Msg("unexpected type, replacing with default")
			cur[rule.Key] = cloneValue(rule.Default)
		}

		if i == len(rules)-1 {
			break
		}
		next, ok := cur[rule.Key].(map[string]any)
		if !ok {
			break
		}
		cur = next
	}

	return root
}

// kindOf classifies a decoded JSON value; nil and unknown types match no Kind
func kindOf(v any) Kind {
	switch v.(type) {
	case map[string]any:
		return KindMap
	case []any:
		return KindList
	case nil:
		return -1
	case string, bool, float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return KindScalar
	default:
		return -1
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	default:
		if kindOf(v) == KindScalar {
			return "scalar"
		}
		return "unknown"
	}
}

// cloneValue deep-copies maps and lists so defaults are never shared between nodes
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
