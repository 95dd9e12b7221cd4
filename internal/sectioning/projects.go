package sectioning

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// projectMarkerPattern matches numbering ("1." "2)") and bullet glyphs
// followed by whitespace.
var projectMarkerPattern = regexp.MustCompile(`^(\d+[.)]|[\x{2022}\x{25CF}*>-])\s+`)

// SplitProjects breaks projects section text into entries using the
// segmenter's length limits.
func (s *Segmenter) SplitProjects(text string) []string {
	return splitProjects(text, s.projectMarker, s.params.ProjectTitleMax, s.params.ProjectBreakMax)
}

// SplitProjects breaks projects section text into entries with the default
// length limits.
func SplitProjects(text string) []string {
	p := DefaultParams()
	return splitProjects(text, projectMarkerPattern, p.ProjectTitleMax, p.ProjectBreakMax)
}

// splitProjects opens a new entry on a bullet or numbering marker, on a
// short capitalised line, or after an unterminated line followed by a
// capitalised one. Other lines are joined onto the current entry.
// Over- and under-splitting are both possible; the output is advisory.
func splitProjects(text string, marker *regexp.Regexp, titleMax, breakMax int) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var projects []string
	var current []string

	for i, line := range lines {
		length := utf8.RuneCountInString(line)
		upper := startsUpper(line)

		starter := marker.MatchString(line) ||
			(upper && length < titleMax) ||
			(i > 0 && !endsClause(lines[i-1]) && length < breakMax && upper)

		if starter && len(current) > 0 {
			projects = append(projects, strings.Join(current, " "))
			current = []string{line}
			continue
		}
		current = append(current, line)
	}

	if len(current) > 0 {
		projects = append(projects, strings.Join(current, " "))
	}
	return projects
}

func startsUpper(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(r)
}

func endsClause(line string) bool {
	return strings.HasSuffix(line, ".") || strings.HasSuffix(line, ":") || strings.HasSuffix(line, ";")
}
