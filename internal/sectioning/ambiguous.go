package sectioning

import "strings"

// keywordGroup maps a section to the words that suggest it
type keywordGroup struct {
	key      SectionKey
	keywords []string
}

// ambiguousKeywords is scanned in order; the first group with a hit wins.
// Certification words are checked before tooling words so that a sentence
// such as "AWS certification course" is filed as a certification.
var ambiguousKeywords = []keywordGroup{
	{SectionProjects, []string{"react", "node", "built", "developed", "github", "project"}},
	{SectionEducation, []string{"bachelor", "master", "phd", "university", "gpa", "degree"}},
	{SectionExperience, []string{"managed", "led", "responsible", "achieved", "experience"}},
	{SectionCertifications, []string{"certified", "certificate", "certification", "license", "course", "training"}},
	{SectionTechnicalSkills, []string{"python", "java", "sql", "aws", "docker", "skill"}},
	{SectionAchievements, []string{"award", "honor", "publication", "research", "grant"}},
}

// ClassifyAmbiguous guesses the section for text that appeared before any
// recognised heading. Matching is by lowercase substring. It returns
// SectionOther when no keyword is present.
func ClassifyAmbiguous(text string) SectionKey {
	lower := strings.ToLower(text)
	for _, group := range ambiguousKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.key
			}
		}
	}
	return SectionOther
}

// Reconcile moves SectionOther content into the section ClassifyAmbiguous
// picks for it. Existing content is kept: project lists gain a new entry and
// text sections gain a newline-separated tail. When no section fits, the
// SectionOther key is left in place.
func Reconcile(m SectionMap) {
	other, ok := m[SectionOther]
	if !ok {
		return
	}

	text := other.Text()
	target := ClassifyAmbiguous(text)
	if target == SectionOther {
		return
	}

	if existing, ok := m[target]; ok && !existing.IsEmpty() {
		m[target] = existing.appendText(text)
	} else if target == SectionProjects {
		m[target] = ProjectList([]string{text})
	} else {
		m[target] = PlainText(text)
	}
	delete(m, SectionOther)
}
