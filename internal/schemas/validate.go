// Package schemas provides JSON Schema validation for segmentation output.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/resume-analyzer/schemas"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
)

// Names of the built-in schemas
const (
	ResumeSections = "resume-sections"
	JDSections     = "jd-sections"
)

var builtinFiles = map[string]string{
	ResumeSections: "resume_sections.schema.json",
	JDSections:     "jd_sections.schema.json",
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Names lists the built-in schema names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtinFiles))
	for name := range builtinFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the content of a built-in schema.
func Schema(name string) (string, error) {
	file, ok := builtinFiles[name]
	if !ok {
		return "", &SchemaLoadError{
			Path:    name,
			Message: fmt.Sprintf("unknown schema (want one of %s)", strings.Join(Names(), ", ")),
		}
	}
	data, err := schemafiles.Files.ReadFile(file)
	if err != nil {
		return "", &SchemaLoadError{Path: file, Message: "embedded schema missing", Cause: err}
	}
	return string(data), nil
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaAbsPath)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + jsonAbsPath)

	return validate(schemaAbsPath, schemaLoader, documentLoader)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
}

// ValidateNamed validates JSON content against a built-in schema.
func ValidateNamed(name, jsonContent string) error {
	schema, err := Schema(name)
	if err != nil {
		return err
	}
	return validate(name, gojsonschema.NewStringLoader(schema), gojsonschema.NewStringLoader(jsonContent))
}

// ValidateFile validates a JSON file against a built-in schema.
func ValidateFile(name, jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", jsonPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ValidateNamed(name, string(data))
}

// ValidateSectionMap checks a segmentation result against the resume
// sections schema.
func ValidateSectionMap(m sectioning.SectionMap) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal section map: %w", err)
	}
	return ValidateNamed(ResumeSections, string(data))
}

// ValidateJDSectionMap checks a job description result against the JD
// sections schema.
func ValidateJDSectionMap(m sectioning.JDSectionMap) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal job description sections: %w", err)
	}
	return ValidateNamed(JDSections, string(data))
}

func validate(schemaPath string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
