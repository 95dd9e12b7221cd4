package sectioning

import (
	"encoding/json"
	"strings"
)

// JDKey identifies a job description section
type JDKey string

const (
	// JDCompanyName holds lines about the hiring company
	JDCompanyName JDKey = "company_name"
	// JDRole holds the position title and designation
	JDRole JDKey = "role"
	// JDResponsibilities holds day-to-day duties
	JDResponsibilities JDKey = "responsibilities"
	// JDSkillsNeeded holds required skills and technical requirements
	JDSkillsNeeded JDKey = "skills_needed"
	// JDExperienceNeeded holds years and kind of prior experience
	JDExperienceNeeded JDKey = "experience_needed"
	// JDAchievementsFocus holds the recognition or awards the role values
	JDAchievementsFocus JDKey = "achievements_focus"
	// JDEligibility holds qualifications and eligibility criteria
	JDEligibility JDKey = "eligibility"
)

type jdPhrases struct {
	key     JDKey
	phrases []string
}

var jdSections = []jdPhrases{
	{JDCompanyName, []string{"company", "organization", "employer"}},
	{JDRole, []string{"role", "position", "designation"}},
	{JDResponsibilities, []string{"responsibilities", "job description", "tasks"}},
	{JDSkillsNeeded, []string{"skills", "requirements", "technical skills"}},
	{JDExperienceNeeded, []string{"experience", "years of experience"}},
	{JDAchievementsFocus, []string{"achievements", "recognition", "awards"}},
	{JDEligibility, []string{"eligibility", "qualifications", "criteria"}},
}

// JDKeys returns the job description keys in table order.
func JDKeys() []JDKey {
	keys := make([]JDKey, len(jdSections))
	for i, s := range jdSections {
		keys[i] = s.key
	}
	return keys
}

// JDSectionMap holds job description text per key. Every key is present;
// sections without content hold the empty string.
type JDSectionMap map[JDKey]string

// MarshalJSON writes keys in table order.
func (m JDSectionMap) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range JDKeys() {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, _ := json.Marshal(string(key))
		v, err := json.Marshal(m[key])
		if err != nil {
			return nil, err
		}
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(v)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// SegmentJobDescription files job description lines under sticky sections.
// A line containing a section phrase switches the current section; when
// several sections match, the last one in table order wins. Lines before
// the first match are dropped, and every filed line keeps a trailing
// newline.
func SegmentJobDescription(text string) JDSectionMap {
	result := make(JDSectionMap, len(jdSections))
	for _, s := range jdSections {
		result[s.key] = ""
	}

	var current JDKey
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		for _, s := range jdSections {
			for _, phrase := range s.phrases {
				if strings.Contains(lower, phrase) {
					current = s.key
					break
				}
			}
		}

		if current != "" {
			result[current] += line + "\n"
		}
	}
	return result
}
