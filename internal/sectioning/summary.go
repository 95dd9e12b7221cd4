package sectioning

import (
	"strings"
	"unicode/utf8"
)

// SectionStats describes one section of a SectionMap
type SectionStats struct {
	Key      SectionKey `json:"key"`
	Lines    int        `json:"lines"`
	Chars    int        `json:"chars"`
	Projects int        `json:"projects,omitempty"`
}

// Summary describes a segmentation result
type Summary struct {
	Sections []SectionStats `json:"sections"`
	Missing  []SectionKey   `json:"missing"`
	HasOther bool           `json:"has_other"`
}

// Summarize counts lines and characters per section and lists the canonical
// sections that were not found.
func Summarize(m SectionMap) Summary {
	summary := Summary{
		Sections: make([]SectionStats, 0, len(m)),
		Missing:  []SectionKey{},
	}

	for _, key := range m.Keys() {
		content := m[key]
		text := content.Text()
		stats := SectionStats{
			Key:   key,
			Lines: strings.Count(text, "\n") + 1,
			Chars: utf8.RuneCountInString(text),
		}
		if content.Kind() == KindProjectList {
			stats.Projects = len(content.Projects())
			stats.Lines = stats.Projects
		}
		summary.Sections = append(summary.Sections, stats)
	}

	for _, key := range CanonicalKeys() {
		if _, ok := m[key]; !ok {
			summary.Missing = append(summary.Missing, key)
		}
	}
	_, summary.HasOther = m[SectionOther]

	return summary
}

// Preview returns at most n runes of text.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}
