package util

import "strings"

// MaskSecret hides a secret for display in logs. Strings no longer than
// visiblePrefix are fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if s == "" {
		return ""
	}
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// SanitizeEnvValue strips surrounding quotes and whitespace from an
// environment variable value.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
