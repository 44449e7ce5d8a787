package usecase

import "strings"

// canonicalFoods rewrites ambiguous single-word food names into a more
// specific form before hitting an external nutrition lookup; generic names
// often resolve to a less appropriate database entry (dried mango instead of
// fresh, for example). Matching is deliberately substring-based so that
// "ripe mango" or "mango smoothie" also normalize. That means compound names
// like "mango chutney" are rewritten too; accepted imprecision for now.
var canonicalFoods = []struct {
	substring string
	canonical string
}{
	{"mango", "mango, raw"},
	{"apple", "apple, raw, with skin"},
}

// NormalizeFoodQuery canonicalizes an ambiguous food name for lookup. When
// no table entry matches, the original string is returned unchanged, case
// preserved.
func NormalizeFoodQuery(raw string) string {
	lowered := strings.ToLower(raw)
	for _, entry := range canonicalFoods {
		if strings.Contains(lowered, entry.substring) {
			return entry.canonical
		}
	}
	return raw
}
