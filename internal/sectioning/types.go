// Package sectioning segments plain resume text into canonical sections.
//
// A Segmenter classifies each line as heading or content, resolves headings
// to a fixed set of section keys, routes content lines into per-section
// buffers, splits the projects section into entries and finally reconciles
// unattributed content into the best-matching section.
package sectioning

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SectionKey identifies a canonical resume section
type SectionKey string

const (
	// SectionEducation holds degrees, schools and coursework
	SectionEducation SectionKey = "education"
	// SectionExperience holds employment history
	SectionExperience SectionKey = "experience"
	// SectionAchievements holds awards, publications and activities
	SectionAchievements SectionKey = "achievements"
	// SectionProjects holds project entries
	SectionProjects SectionKey = "projects"
	// SectionTechnicalSkills holds languages, tools and frameworks
	SectionTechnicalSkills SectionKey = "technical_skills"
	// SectionCertifications holds certificates, licenses and courses
	SectionCertifications SectionKey = "certifications"
	// SectionOther collects content seen before any recognised heading
	SectionOther SectionKey = "other"
)

// CanonicalKeys returns the declared section keys in table order, without SectionOther.
func CanonicalKeys() []SectionKey {
	return []SectionKey{
		SectionEducation,
		SectionExperience,
		SectionAchievements,
		SectionProjects,
		SectionTechnicalSkills,
		SectionCertifications,
	}
}

// IsValid reports whether k is a canonical key or SectionOther.
func (k SectionKey) IsValid() bool {
	if k == SectionOther {
		return true
	}
	for _, c := range CanonicalKeys() {
		if k == c {
			return true
		}
	}
	return false
}

// ContentKind tags which variant a SectionContent carries.
type ContentKind int

const (
	// KindPlainText is newline-joined section text
	KindPlainText ContentKind = iota
	// KindProjectList is an ordered list of project entries
	KindProjectList
)

// SectionContent is either plain text or a list of project entries.
// The projects section always carries a project list; every other section
// carries plain text.
type SectionContent struct {
	kind     ContentKind
	text     string
	projects []string
}

// PlainText wraps joined section text.
func PlainText(text string) SectionContent {
	return SectionContent{kind: KindPlainText, text: text}
}

// ProjectList wraps an ordered list of project entries.
func ProjectList(entries []string) SectionContent {
	copied := make([]string, len(entries))
	copy(copied, entries)
	return SectionContent{kind: KindProjectList, projects: copied}
}

// Kind returns the variant tag.
func (c SectionContent) Kind() ContentKind {
	return c.kind
}

// Text returns the plain text, or the project entries joined by newlines.
func (c SectionContent) Text() string {
	if c.kind == KindProjectList {
		return strings.Join(c.projects, "\n")
	}
	return c.text
}

// Projects returns a copy of the project entries; nil for plain text.
func (c SectionContent) Projects() []string {
	if c.kind != KindProjectList {
		return nil
	}
	out := make([]string, len(c.projects))
	copy(out, c.projects)
	return out
}

// IsEmpty reports whether the content has no text and no entries.
func (c SectionContent) IsEmpty() bool {
	if c.kind == KindProjectList {
		return len(c.projects) == 0
	}
	return c.text == ""
}

// appendText merges extra into c following the reconciliation rules:
// lists gain a new entry, text is joined with a newline.
func (c SectionContent) appendText(extra string) SectionContent {
	if c.kind == KindProjectList {
		entries := append(c.Projects(), extra)
		return SectionContent{kind: KindProjectList, projects: entries}
	}
	if c.text == "" {
		return PlainText(extra)
	}
	return PlainText(c.text + "\n" + extra)
}

// MarshalJSON encodes plain text as a JSON string and project lists as an array.
func (c SectionContent) MarshalJSON() ([]byte, error) {
	if c.kind == KindProjectList {
		entries := c.projects
		if entries == nil {
			entries = []string{}
		}
		return json.Marshal(entries)
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (c *SectionContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = PlainText(text)
		return nil
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("section content must be a string or a list of strings: %w", err)
	}
	*c = ProjectList(entries)
	return nil
}

// SectionMap is the result of one segmentation pass. Missing keys mean no
// content was found for that section.
type SectionMap map[SectionKey]SectionContent

// Keys returns the present keys in canonical order, with SectionOther last.
func (m SectionMap) Keys() []SectionKey {
	keys := make([]SectionKey, 0, len(m))
	for _, k := range CanonicalKeys() {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []SectionKey
	for k := range m {
		if !k.IsValid() {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	keys = append(keys, extra...)
	if _, ok := m[SectionOther]; ok {
		keys = append(keys, SectionOther)
	}
	return keys
}
