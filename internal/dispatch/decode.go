package dispatch

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DecodeOutput converts command output into generic JSON values (maps, slices,
// float64, string, bool). Empty or invalid output yields an empty map and ok=false.
func DecodeOutput(out string) (any, bool) {
	out = strings.TrimSpace(out)
	if out == "" || !gjson.Valid(out) {
		return map[string]any{}, false
	}
	return gjson.Parse(out).Value(), true
}

// FixtureName returns the fixture file name for a command
func FixtureName(command string) string {
	name := strings.ReplaceAll(command, "|", "")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "/", "7")
}
