package slugindex

import "strings"

// Normalize canonicalizes a raw slug into its lookup key: lowercase,
// underscores replaced by spaces, surrounding whitespace trimmed.
// It is pure, idempotent and total over arbitrary Unicode input;
// an empty slug normalizes to the empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	key := strings.ToLower(raw)
	key = strings.ReplaceAll(key, "_", " ")
	return strings.TrimSpace(key)
}

// tokenize splits a normalized name into its space-delimited tokens.
func tokenize(name string) []string {
	return strings.Fields(name)
}
