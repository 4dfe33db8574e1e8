package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nxfacts/internal/logger"
)

// pathValue follows keys through nested maps
func pathValue(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()
	var cur any = m
	for _, k := range keys {
		next, ok := cur.(map[string]any)
		require.Truef(t, ok, "expected map before key %q, got %T", k, cur)
		cur, ok = next[k]
		require.Truef(t, ok, "missing key %q", k)
	}
	return cur
}

func TestValidate_EmptyMapGetsEveryDefault(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		want  any
	}{
		{
			name:  "single map",
			rules: []Rule{{Key: "TABLE_interface", Kind: KindMap, Default: map[string]any{}}},
			want:  map[string]any{},
		},
		{
			name: "map then list",
			rules: []Rule{
				{Key: "TABLE_vrf", Kind: KindMap, Default: map[string]any{}},
				{Key: "ROW_vrf", Kind: KindList, Default: []any{}},
			},
			want: []any{},
		},
		{
			name: "three levels ending in scalar",
			rules: []Rule{
				{Key: "a", Kind: KindMap, Default: map[string]any{}},
				{Key: "b", Kind: KindMap, Default: map[string]any{}},
				{Key: "c", Kind: KindScalar, Default: "none"},
			},
			want: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(logger.NewTestLogger(), map[string]any{}, tt.rules...)

			keys := make([]string, 0, len(tt.rules))
			for _, r := range tt.rules {
				keys = append(keys, r.Key)
			}
			assert.Equal(t, tt.want, pathValue(t, got, keys...))
		})
	}
}

func TestValidate_NonMapRootIsReplaced(t *testing.T) {
	rules := []Rule{{Key: "TABLE_intf", Kind: KindMap, Default: map[string]any{}}}

	for _, input := range []any{nil, "error: command not supported", []any{1, 2}, float64(3)} {
		got := Validate(logger.NewTestLogger(), input, rules...)
		require.NotNil(t, got)
		assert.Equal(t, map[string]any{"TABLE_intf": map[string]any{}}, got, "input %v", input)
	}
}

func TestValidate_MapRootIsKept(t *testing.T) {
	input := map[string]any{
		"TABLE_intf": map[string]any{"ROW_intf": []any{map[string]any{"intf-name": "Vlan1"}}},
	}
	got := Validate(logger.NewTestLogger(), input, Rule{Key: "TABLE_intf", Kind: KindMap, Default: map[string]any{}})

	assert.Equal(t, input, got)
	assert.Len(t, pathValue(t, got, "TABLE_intf", "ROW_intf"), 1)
}

func TestValidate_WrongKindIsReplaced(t *testing.T) {
	input := map[string]any{
		"TABLE_vrf": "unexpected",
		"other":     "kept",
	}
	got := Validate(logger.NewTestLogger(), input, Rule{Key: "TABLE_vrf", Kind: KindMap, Default: map[string]any{}})

	assert.Equal(t, map[string]any{}, got["TABLE_vrf"])
	assert.Equal(t, "kept", got["other"])
}

func TestValidate_NullIsReplaced(t *testing.T) {
	got := Validate(logger.NewTestLogger(), map[string]any{"TABLE_vlanbrief": nil},
		Rule{Key: "TABLE_vlanbrief", Kind: KindMap, Default: map[string]any{}})
	assert.Equal(t, map[string]any{}, got["TABLE_vlanbrief"])
}

func TestValidate_ScalarKinds(t *testing.T) {
	for _, v := range []any{"x", float64(1), true} {
		got := Validate(logger.NewTestLogger(), map[string]any{"k": v}, Rule{Key: "k", Kind: KindScalar, Default: "d"})
		assert.Equal(t, v, got["k"])
	}

	got := Validate(logger.NewTestLogger(), map[string]any{"k": map[string]any{}}, Rule{Key: "k", Kind: KindScalar, Default: "d"})
	assert.Equal(t, "d", got["k"])
}

func TestValidate_DescendsIntoExistingMaps(t *testing.T) {
	input := map[string]any{"TABLE_vrf": map[string]any{"ROW_vrf": "bad"}}
	got := Validate(logger.NewTestLogger(), input,
		Rule{Key: "TABLE_vrf", Kind: KindMap, Default: map[string]any{}},
		Rule{Key: "ROW_vrf", Kind: KindList, Default: []any{}},
	)
	assert.Equal(t, []any{}, pathValue(t, got, "TABLE_vrf", "ROW_vrf"))
}

func TestValidate_DefaultsAreNotShared(t *testing.T) {
	rules := []Rule{{Key: "t", Kind: KindMap, Default: map[string]any{"inner": []any{}}}}

	a := Validate(logger.NewTestLogger(), nil, rules...)
	b := Validate(logger.NewTestLogger(), nil, rules...)

	a["t"].(map[string]any)["inner"] = []any{"changed"}
	assert.Equal(t, []any{}, b["t"].(map[string]any)["inner"])
	assert.Equal(t, []any{}, rules[0].Default.(map[string]any)["inner"])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
