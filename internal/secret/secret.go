// Package secret provides helpers for sensitive values such as passwords
// and access tokens.
package secret

import "strings"

// Wipe overwrites the contents of the provided byte slice with zeros.
// Passwords read from the terminal are wiped once a request has been built
// from them.
//
// If the slice is nil, the function does nothing.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Mask shortens s for display, keeping only its first and last four
// characters. Values of twelve characters or fewer are fully masked.
func Mask(s string) string {
	const keep = 4
	if len(s) <= 3*keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + "..." + s[len(s)-keep:]
}
