package engine

import (
	"strings"
	"unicode"
)

// ToUsername maps a customer's display name to the canonical login username:
// all whitespace removed, remainder uppercased. Used both when
// auto-provisioning a customer account and when matching a logged-in
// customer against the records they may see.
func ToUsername(displayName string) string {
	var b strings.Builder
	for _, r := range displayName {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
