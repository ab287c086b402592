// Package normalize canonicalizes the identity strings the handbook
// compares: addresses, roles and the allowed domain.
package normalize

import "strings"

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Email is the stored and compared form of an address.
func Email(s string) string { return fold(s) }

// Role is the compared form of a role name.
func Role(s string) string { return fold(s) }

// Domain is the compared form of an e-mail domain; a leading "@" is dropped
// so "@example.com" and "example.com" configure the same thing.
func Domain(s string) string { return strings.TrimPrefix(fold(s), "@") }

// List splits a comma- or newline-separated value into trimmed, non-empty,
// de-duplicated items in first-seen order.
func List(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }) {
		if f = strings.TrimSpace(f); f != "" && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
