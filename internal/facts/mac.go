package facts

import "strings"

// FormatMAC turns NX-OS dotted MACs (a411.bb40.c6b4, or a4.11.bb.40.c6.b4) into
// colon form (a4:11:bb:40:c6:b4). Input is not checked for hex; an odd trailing
// character ends up in its own group.
func FormatMAC(raw string) string {
	mac := strings.ReplaceAll(strings.TrimSpace(raw), ".", "")
	if mac == "" {
		return ""
	}

	groups := make([]string, 0, (len(mac)+1)/2)
	for i := 0; i < len(mac); i += 2 {
		end := i + 2
		if end > len(mac) {
			end = len(mac)
		}
		groups = append(groups, mac[i:end])
	}
	return strings.Join(groups, ":")
}
