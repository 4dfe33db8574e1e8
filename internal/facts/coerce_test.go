package facts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRows(t *testing.T) {
	single := map[string]any{"addr": "2620:6a:0:2841::1/64"}

	assert.Equal(t, []map[string]any{single}, rows(single))
	assert.Equal(t, []map[string]any{single, single}, rows([]any{single, "junk", single}))
	assert.Empty(t, rows([]any{}))
	assert.Nil(t, rows(nil))
	assert.Nil(t, rows("x"))
}

func TestLookup(t *testing.T) {
	data := map[string]any{"TABLE_addr": map[string]any{"ROW_addr": []any{"x"}}}

	assert.Equal(t, []any{"x"}, lookup(data, "TABLE_addr", "ROW_addr"))
	assert.Nil(t, lookup(data, "TABLE_addr", "missing"))
	assert.Nil(t, lookup(data, "TABLE_addr", "ROW_addr", "deeper"))
	assert.Nil(t, lookup(nil, "a"))
	assert.Equal(t, data, lookup(data))
}

func TestStr(t *testing.T) {
	row := map[string]any{
		"s":    "up",
		"n":    float64(24),
		"b":    true,
		"null": nil,
		"m":    map[string]any{},
	}

	v, ok := str(row, "s")
	assert.True(t, ok)
	assert.Equal(t, "up", v)

	v, ok = str(row, "n")
	assert.True(t, ok)
	assert.Equal(t, "24", v)

	v, ok = str(row, "b")
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	for _, k := range []string{"null", "m", "missing"} {
		_, ok = str(row, k)
		assert.False(t, ok, k)
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{float64(100000000), 100000000, true},
		{"100000000", 100000000, true},
		{"1e6", 1000000, true},
		{int64(5), 5, true},
		{"fast", 0, false},
		{"1e30", 0, false},
		{"-1e30", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{float64(1e19), 0, false},
		{math.Inf(1), 0, false},
		{float64(-5e9), -5000000000, true},
		{nil, 0, false},
		{map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := toInt64(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{"x", true, float64(1), map[string]any{"a": 1}, []any{1}} {
		assert.True(t, truthy(v), "%v", v)
	}
	for _, v := range []any{nil, "", false, float64(0), map[string]any{}, []any{}} {
		assert.False(t, truthy(v), "%v", v)
	}
}

func TestAt(t *testing.T) {
	responses := []any{"a", "b"}
	assert.Equal(t, "b", at(responses, 1))
	assert.Nil(t, at(responses, 2))
	assert.Nil(t, at(nil, 0))
	assert.Nil(t, at(responses, -1))
}
