// Package keyword implements the case-insensitive substring matching used by
// every text heuristic. There is no tokenisation: "car" matches "scarf".
package keyword

import "strings"

// ContainsAny reports whether text contains at least one of the keywords
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CountMatches returns how many of the keywords occur in text. Each keyword
// counts at most once no matter how often it repeats.
func CountMatches(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}
