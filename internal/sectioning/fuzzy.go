package sectioning

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Match is the best-scoring choice returned by a Matcher
type Match struct {
	Choice string
	Index  int
	Score  float64 // 0-100
}

// Matcher finds the choice most similar to a query. Index is -1 when there
// are no choices. Among equal scores the earliest choice wins.
type Matcher interface {
	ExtractOne(query string, choices []string) Match
}

// TokenSortMatcher scores choices with TokenSortRatio.
type TokenSortMatcher struct{}

// ExtractOne implements Matcher.
func (TokenSortMatcher) ExtractOne(query string, choices []string) Match {
	best := Match{Index: -1}
	sortedQuery := sortTokens(query)
	for i, choice := range choices {
		score := ratio(sortedQuery, sortTokens(choice))
		if best.Index == -1 || score > best.Score {
			best = Match{Choice: choice, Index: i, Score: score}
		}
	}
	return best
}

// TokenSortRatio compares two strings after sorting their whitespace
// separated tokens, so word order does not affect the score.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is the normalized indel similarity: 200*LCS/(len(a)+len(b)).
func ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	lcs := edlib.LCS(a, b)
	return 200 * float64(lcs) / float64(total)
}
