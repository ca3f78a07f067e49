package domain

import (
	"regexp"
	"strings"
)

var zipPlus4 = regexp.MustCompile(`-\d{4}$`)

// Index answers ZIP code queries against a converted ZipMap.
type Index struct {
	entries ZipMap
}

// NewIndex wraps m for lookups. The map is not copied.
func NewIndex(m ZipMap) *Index {
	if m == nil {
		m = ZipMap{}
	}
	return &Index{entries: m}
}

// Len returns the number of keys in the index.
func (ix *Index) Len() int { return len(ix.entries) }

// Lookup normalizes query with NormalizeQuery and returns its coordinate.
func (ix *Index) Lookup(query string) (Coordinate, bool) {
	key, ok := NormalizeQuery(query)
	if !ok {
		return Coordinate{}, false
	}
	c, ok := ix.entries[key]
	return c, ok
}

// NormalizeQuery turns user input into a lookup key: a trailing ZIP+4 suffix
// ("-1234") is cut, non-digit characters are dropped, the digits are left-padded with '0', and
// only the last KeyWidth digits are kept. It reports false when no digits
// remain.
func NormalizeQuery(query string) (NormalizedKey, bool) {
	query = zipPlus4.ReplaceAllString(strings.TrimSpace(query), "")

	var b strings.Builder
	for _, r := range query {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", false
	}
	if len(digits) < KeyWidth {
		digits = strings.Repeat("0", KeyWidth-len(digits)) + digits
	}
	return digits[len(digits)-KeyWidth:], true
}
