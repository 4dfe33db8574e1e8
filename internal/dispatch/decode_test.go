package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   any
	}{
		{
			name:   "object",
			input:  `{"host_name": "r-test-1", "mem": 1024}`,
			wantOK: true,
			want:   map[string]any{"host_name": "r-test-1", "mem": float64(1024)},
		},
		{
			name:   "leading whitespace",
			input:  "\n\n  {\"a\": [1, \"2\"]}\n",
			wantOK: true,
			want:   map[string]any{"a": []any{float64(1), "2"}},
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
			want:   map[string]any{},
		},
		{
			name:   "cli error text",
			input:  "% Invalid command at '^' marker.",
			wantOK: false,
			want:   map[string]any{},
		},
		{
			name:   "truncated",
			input:  `{"TABLE_interface": {"ROW_interface": [`,
			wantOK: false,
			want:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeOutput(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixtureName(t *testing.T) {
	tests := map[string]string{
		"show version | json":               "show_version__json",
		"show ipv6 interface vrf all | json": "show_ipv6_interface_vrf_all__json",
		"show interface Ethernet1/1 | json":  "show_interface_Ethernet171__json",
	}
	for cmd, want := range tests {
		assert.Equal(t, want, FixtureName(cmd), cmd)
	}
}
