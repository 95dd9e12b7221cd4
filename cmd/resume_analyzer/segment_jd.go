package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var segmentJDCmd = &cobra.Command{
	Use:   "segment-jd",
	Short: "Split a job description into sections",
	Long:  "Split a job description into company, role, responsibilities, skills, experience, achievements and eligibility sections.",
	RunE:  runSegmentJD,
}

var (
	jdFile   string
	jdOut    string
	jdFormat string
	jdStore  bool
)

func init() {
	segmentJDCmd.Flags().StringVarP(&jdFile, "file", "f", "", "Job description file, or - for stdin (required)")
	segmentJDCmd.Flags().StringVarP(&jdOut, "out", "o", "", "Output file (default stdout)")
	segmentJDCmd.Flags().StringVar(&jdFormat, "format", "json", "Output format: json or text")
	segmentJDCmd.Flags().BoolVar(&jdStore, "store", false, "Save the result to the database")

	segmentJDCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(segmentJDCmd)
}

func runSegmentJD(cmd *cobra.Command, _ []string) error {
	if jdFormat != "json" && jdFormat != "text" {
		return fmt.Errorf("--format must be json or text, got %q", jdFormat)
	}

	text, metadata, err := readInput(jdFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	result, err := segmentJD(text, metadata.Source, metadata.Hash)
	if err != nil {
		return err
	}

	if jdStore {
		if err := storeResult(cmd.Context(), db.KindJobDescription, &result.ID, result.SourceName, result.SourceHash, result.Sections); err != nil {
			return err
		}
	}

	var data []byte
	if jdFormat == "text" {
		var buf bytes.Buffer
		observability.NewPrinter(&buf).PrintJDSections(result.Sections)
		data = buf.Bytes()
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		data = append(data, '\n')
	}
	return writeOutput(jdOut, data)
}

func segmentJD(text, source, hash string) (types.JDSegmentResult, error) {
	sections := sectioning.SegmentJobDescription(text)
	if err := schemas.ValidateJDSectionMap(sections); err != nil {
		return types.JDSegmentResult{}, fmt.Errorf("job description output failed schema check: %w", err)
	}
	return types.JDSegmentResult{
		SourceName: source,
		SourceHash: hash,
		Sections:   sections,
	}, nil
}
