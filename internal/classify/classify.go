// Package classify assigns domain labels to task descriptions by keyword counting.
package classify

import "strings"

// DefaultDomain is assigned when no configured domain matches a description.
const DefaultDomain = "General"

// DomainKeywords binds one domain to its keyword set.
type DomainKeywords struct {
	Domain   string
	Keywords []string
}

// KeywordTable is an ordered mapping from domain name to keyword set.
// Order matters: when two domains tie on keyword hits, the one listed
// first wins, so classifier output depends on table order for ties.
type KeywordTable []DomainKeywords

// Domains returns the domain names in table order.
func (t KeywordTable) Domains() []string {
	names := make([]string, 0, len(t))
	for _, entry := range t {
		names = append(names, entry.Domain)
	}
	return names
}

// Classify returns the domain whose keywords occur most often in the
// description. Matching is case-insensitive substring counting with
// overlapping occurrences included. The comparison is strict, so the
// first domain evaluated keeps a tie. Returns DefaultDomain when no
// domain scores above zero.
func Classify(description string, table KeywordTable) string {
	lowered := strings.ToLower(description)

	best := DefaultDomain
	bestCount := 0

	for _, entry := range table {
		count := 0
		for _, kw := range entry.Keywords {
			count += countOccurrences(lowered, strings.ToLower(kw))
		}
		if count > bestCount {
			best = entry.Domain
			bestCount = count
		}
	}

	return best
}

// countOccurrences counts every occurrence of sub in s, overlapping
// occurrences included (strings.Count only counts non-overlapping).
func countOccurrences(s, sub string) int {
	if sub == "" {
		return 0
	}
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
