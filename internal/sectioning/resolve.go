package sectioning

import (
	"regexp"
	"strings"
)

var punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeTitle lowercases a heading candidate, strips punctuation and
// collapses whitespace runs.
func NormalizeTitle(candidate string) string {
	normalized := punctuationPattern.ReplaceAllString(strings.ToLower(candidate), "")
	return strings.Join(strings.Fields(normalized), " ")
}

// Resolve maps a heading candidate to a canonical section key. Exact
// variants win; otherwise the closest variant is accepted only when its
// score is strictly above the fuzzy threshold.
func (s *Segmenter) Resolve(candidate string) (SectionKey, bool) {
	normalized := NormalizeTitle(candidate)
	if normalized == "" {
		return "", false
	}

	if key, ok := s.table.Lookup(normalized); ok {
		return key, true
	}

	best := s.matcher.ExtractOne(normalized, s.table.variants())
	if best.Index < 0 || best.Score <= s.params.FuzzyThreshold {
		return "", false
	}
	return s.table.keyAt(best.Index), true
}

// resolveHeading combines heading detection and title resolution for one line.
func (s *Segmenter) resolveHeading(line string) (SectionKey, bool) {
	if !s.IsHeading(line) {
		return "", false
	}
	return s.Resolve(line)
}
