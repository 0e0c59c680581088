// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied identifier strings at
// the handler boundary so stores only ever see one spelling of a value.
package normalize

import "strings"

// Email lower-cases and trims an email address. The email is the
// profile key, so every lookup and session comparison goes through this.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lower-cases and trims a role string ("admin", "faculty").
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Year trims a free-text year field. Years are stored as entered, so
// trimming is the only canonicalization applied.
func Year(s string) string {
	return strings.TrimSpace(s)
}
