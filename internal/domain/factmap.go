package domain

import (
	"fmt"
	"sort"
)

// DefaultFactPrefix is the namespace marker put in front of every fact key
const DefaultFactPrefix = "ansible_net_"

// Fragment is the partial fact map produced by one subset
type Fragment map[string]any

// FactMap is the merged, caller-facing result of a run
type FactMap map[string]any

// Merge copies every key of frag into m; later fragments win on key collision
func (m FactMap) Merge(frag Fragment) {
	for k, v := range frag {
		m[k] = v
	}
}

// WithPrefix returns a copy of m with prefix prepended to each key
func (m FactMap) WithPrefix(prefix string) FactMap {
	out := make(FactMap, len(m))
	for k, v := range m {
		out[prefix+k] = v
	}
	return out
}

// Keys returns the map keys sorted
func (m FactMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value at key when it is a string
func (m FactMap) String(key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// SubsetFailure records why one subset produced no facts
type SubsetFailure struct {
	Subset string `json:"subset" yaml:"subset"`
	Stage  string `json:"stage" yaml:"stage"` // dispatch or populate
	Err    error  `json:"-" yaml:"-"`
}

// Failure stages
const (
	StageDispatch = "dispatch"
	StagePopulate = "populate"
)

func (f SubsetFailure) Error() string {
	return fmt.Sprintf("subset %s failed during %s: %v", f.Subset, f.Stage, f.Err)
}

func (f SubsetFailure) Unwrap() error {
	return f.Err
}
