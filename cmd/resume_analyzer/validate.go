package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: "Validate a section map JSON file against a built-in schema (" +
		strings.Join(schemas.Names(), ", ") + ") or a schema file path.",
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Built-in schema name or schema file path (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "JSON file to validate (required)")

	validateCmd.MarkFlagRequired("schema")
	validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	err := validateAgainst(validateSchema, validateJSON)
	if err == nil {
		fmt.Fprintln(os.Stdout, "Validation passed")
		return nil
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(os.Stdout, "Validation failed")
		fmt.Fprint(os.Stdout, ve.Error())
		return fmt.Errorf("%d schema violation(s)", len(ve.Errors))
	}
	return err
}

// validateAgainst accepts either a built-in schema name or a schema path.
func validateAgainst(schema, jsonPath string) error {
	if _, err := schemas.Schema(schema); err == nil {
		return schemas.ValidateFile(schema, jsonPath)
	}
	return schemas.ValidateJSON(schema, jsonPath)
}
