package sectioning

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// compileHeadingPattern builds the structural heading regex: a capitalised
// word followed by minLen..maxLen heading characters and an optional colon,
// or a line made only of uppercase words.
func compileHeadingPattern(minLen, maxLen int) (*regexp.Regexp, error) {
	pattern := fmt.Sprintf(`^[A-Z][A-Za-z0-9\s\-&()/]{%d,%d}(?::|\s*$)|^(?:[A-Z]+\s*)+$`, minLen, maxLen)
	return regexp.Compile(pattern)
}

// IsHeading reports whether a stripped, non-empty line looks like a section
// heading. Structural rules are tried first, then part-of-speech rules when a
// tagger is configured, then capitalisation heuristics. A tagger fault on
// the line falls through to the capitalisation heuristics.
func (s *Segmenter) IsHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.headingRe.MatchString(line) {
		return true
	}

	if s.tagger != nil {
		tokens, err := s.tagger.Tag(line)
		if err == nil {
			return s.taggedHeading(line, tokens)
		}
		s.logger.Debug().Err(err).Str("line", line).Msg("tagger failed, using capitalisation heuristics")
	}

	return degradedHeading(line)
}

func (s *Segmenter) taggedHeading(line string, tokens []Token) bool {
	n := len(tokens)
	if n == 0 {
		return false
	}

	// Short noun phrase
	if n < 6 && allPOS(tokens, POSNoun, POSProperNoun, POSAdjective) {
		return true
	}

	// Title case with a noun
	if isTitle(line) && anyPOS(tokens, POSNoun, POSProperNoun) {
		return true
	}

	// Mid-length phrase without a verb
	if s.params.TokenMin < n && n < s.params.TokenMax && !anyPOS(tokens, POSVerb) {
		return true
	}

	return false
}

// degradedHeading is used when no tagger is available.
func degradedHeading(line string) bool {
	words := len(strings.Fields(line))
	if words <= 5 && isUpper(line) {
		return true
	}
	if words <= 3 && isTitle(line) {
		return true
	}
	return false
}

func allPOS(tokens []Token, allowed ...PartOfSpeech) bool {
	for _, t := range tokens {
		if !containsPOS(allowed, t.POS) {
			return false
		}
	}
	return true
}

func anyPOS(tokens []Token, wanted ...PartOfSpeech) bool {
	for _, t := range tokens {
		if containsPOS(wanted, t.POS) {
			return true
		}
	}
	return false
}

func containsPOS(set []PartOfSpeech, pos PartOfSpeech) bool {
	for _, p := range set {
		if p == pos {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}

// isTitle reports whether every word starts with an uppercase letter followed
// only by lowercase letters. Non-letters separate words.
func isTitle(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}
