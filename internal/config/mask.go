package config

import "strings"

// MaskAPIKey hides all but the last four characters of a key. Keys shorter
// than eight characters are fully masked.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) < 8 {
		return "****"
	}
	return strings.Repeat("*", 10) + key[len(key)-4:]
}
