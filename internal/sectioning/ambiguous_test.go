package sectioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAmbiguous(t *testing.T) {
	tests := []struct {
		text string
		want SectionKey
	}{
		{"Completed AWS certification course", SectionCertifications},
		{"Built a university portal in React", SectionProjects},
		{"GPA 3.9, Dean's list", SectionEducation},
		{"Led a platform migration", SectionExperience},
		{"Python, SQL and Docker", SectionTechnicalSkills},
		{"Best paper award, 2021", SectionAchievements},
		{"Knitting and hiking", SectionOther},
		{"", SectionOther},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAmbiguous(tt.text))
		})
	}
}

func TestReconcile(t *testing.T) {
	t.Run("appends to existing text", func(t *testing.T) {
		m := SectionMap{
			SectionOther:          PlainText("Completed AWS certification course"),
			SectionCertifications: PlainText("CKA"),
		}
		Reconcile(m)

		assert.NotContains(t, m, SectionOther)
		assert.Equal(t, "CKA\nCompleted AWS certification course", m[SectionCertifications].Text())
	})

	t.Run("adds an entry to an existing project list", func(t *testing.T) {
		m := SectionMap{
			SectionOther:    PlainText("github.com/jane/chess"),
			SectionProjects: ProjectList([]string{"Chess engine"}),
		}
		Reconcile(m)

		assert.Equal(t, []string{"Chess engine", "github.com/jane/chess"}, m[SectionProjects].Projects())
	})

	t.Run("creates an absent target", func(t *testing.T) {
		m := SectionMap{SectionOther: PlainText("Completed AWS certification course")}
		Reconcile(m)

		require.Contains(t, m, SectionCertifications)
		assert.Equal(t, KindPlainText, m[SectionCertifications].Kind())
		assert.Len(t, m, 1)
	})

	t.Run("absent projects become a list", func(t *testing.T) {
		m := SectionMap{SectionOther: PlainText("Built a CLI")}
		Reconcile(m)

		assert.Equal(t, []string{"Built a CLI"}, m[SectionProjects].Projects())
	})

	t.Run("unclassified stays", func(t *testing.T) {
		m := SectionMap{SectionOther: PlainText("Knitting")}
		Reconcile(m)

		assert.Equal(t, "Knitting", m[SectionOther].Text())
	})

	t.Run("nothing to do", func(t *testing.T) {
		m := SectionMap{SectionEducation: PlainText("BS")}
		Reconcile(m)

		assert.Equal(t, SectionMap{SectionEducation: PlainText("BS")}, m)
	})
}
