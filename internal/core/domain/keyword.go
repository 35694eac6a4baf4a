package domain

import "strings"

// Display defaults shared by the CLI, TUI and MCP adapters.
const (
	// DefaultHashtagLimit is the default number of tags produced for a keyword set.
	DefaultHashtagLimit = 20
	// DefaultRecentKeywords is how many ledger entries the UIs show.
	DefaultRecentKeywords = 10
)

// NormalizeKeyword lower-cases and trims a keyword for ledger storage and lookup.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// ParseKeywords splits comma-separated user input into keywords.
// Entries are trimmed and empty entries dropped; order and casing are preserved.
func ParseKeywords(input string) []string {
	parts := strings.Split(input, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if k := strings.TrimSpace(part); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// CleanKeywords trims every keyword and drops empty ones.
func CleanKeywords(keywords []string) []string {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return cleaned
}
