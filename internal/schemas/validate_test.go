package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/sectioning"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateNamed_ResumeSections(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		valid bool
	}{
		{"empty map", `{}`, true},
		{"text and projects", `{"education":"BS","projects":["Chess engine","Log shipper"]}`, true},
		{"other key", `{"other":"jane@example.com"}`, true},
		{"unknown key", `{"hobbies":"chess"}`, false},
		{"projects as text", `{"projects":"Chess engine"}`, false},
		{"education as list", `{"education":["BS"]}`, false},
		{"empty text", `{"experience":""}`, false},
		{"empty project list", `{"projects":[]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNamed(ResumeSections, tt.json)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateNamed_JDSections(t *testing.T) {
	full := `{"company_name":"Company: Acme\n","role":"","responsibilities":"","skills_needed":"",` +
		`"experience_needed":"","achievements_focus":"","eligibility":""}`
	assert.NoError(t, ValidateNamed(JDSections, full))

	err := ValidateNamed(JDSections, `{"company_name":"Acme"}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "role")
}

func TestValidateNamed_UnknownSchema(t *testing.T) {
	err := ValidateNamed("job-profile", `{}`)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "unknown schema")
	assert.Contains(t, err.Error(), ResumeSections)
}

func TestValidateNamed_MalformedJSON(t *testing.T) {
	err := ValidateNamed(ResumeSections, `{ invalid json }`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateSectionMap(t *testing.T) {
	s, err := sectioning.New(sectioning.Config{})
	require.NoError(t, err)

	m := s.Segment("EDUCATION\nBS Computer Science\nPROJECTS\n1) Chess engine\n2) Log shipper")
	assert.NoError(t, ValidateSectionMap(m))

	bad := sectioning.SectionMap{"hobbies": sectioning.PlainText("chess")}
	assert.Error(t, ValidateSectionMap(bad))
}

func TestValidateJDSectionMap(t *testing.T) {
	m := sectioning.SegmentJobDescription("Role: SRE\nOn call rotations")
	assert.NoError(t, ValidateJDSectionMap(m))
}

func TestValidateFile(t *testing.T) {
	valid := writeFile(t, "sections.json", `{"technical_skills":"Go, SQL"}`)
	assert.NoError(t, ValidateFile(ResumeSections, valid))

	invalid := writeFile(t, "bad.json", `{"technical_skills":42}`)
	err := ValidateFile(ResumeSections, invalid)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "technical_skills", validationErr.Errors[0].Field)

	err = ValidateFile(ResumeSections, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_Files(t *testing.T) {
	schema, err := Schema(ResumeSections)
	require.NoError(t, err)

	schemaPath := writeFile(t, "schema.json", schema)
	jsonPath := writeFile(t, "doc.json", `{"education":"BS"}`)
	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))

	err = ValidateJSON(filepath.Join(t.TempDir(), "nonexistent_schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(t.TempDir(), "nonexistent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 1)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "projects", Message: "Invalid type. Expected: array, given: string"},
		{Field: "(root)", Message: "Additional property hobbies is not allowed"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. projects: Invalid type")
	assert.Contains(t, msg, "2. (root): Additional property hobbies")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{JDSections, ResumeSections}, Names())
}
