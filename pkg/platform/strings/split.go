// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitList splits a separated list, trims each item and drops empty items
// and repeats. Order is preserved.
//
// Example:
//
//	SplitList(" a.example:9092, b.example:9092,,a.example:9092", ",")
//	// Returns: []string{"a.example:9092", "b.example:9092"}
func SplitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))

	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
