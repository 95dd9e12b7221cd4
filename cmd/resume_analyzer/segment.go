package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Split a resume into sections",
	Long: "Extract text from a resume (txt, md, pdf, docx or html; '-' reads stdin), split it into " +
		"canonical sections and print the result as JSON or as formatted text.",
	RunE: runSegment,
}

var (
	segmentFile    string
	segmentOut     string
	segmentFormat  string
	segmentStore   bool
	segmentPreview int
)

func init() {
	segmentCmd.Flags().StringVarP(&segmentFile, "file", "f", "", "Resume file, or - for stdin (required)")
	segmentCmd.Flags().StringVarP(&segmentOut, "out", "o", "", "Output file (default stdout)")
	segmentCmd.Flags().StringVar(&segmentFormat, "format", "json", "Output format: json or text")
	segmentCmd.Flags().BoolVar(&segmentStore, "store", false, "Save the result to the database")
	segmentCmd.Flags().IntVar(&segmentPreview, "preview", observability.DefaultPreviewLen, "Characters shown per section in text format (0 = all)")

	segmentCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, _ []string) error {
	if segmentFormat != "json" && segmentFormat != "text" {
		return fmt.Errorf("--format must be json or text, got %q", segmentFormat)
	}

	seg, err := newSegmenter(settings, &logging.Logger)
	if err != nil {
		return fmt.Errorf("failed to build segmenter: %w", err)
	}

	text, metadata, err := readInput(segmentFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	result, err := segmentResume(seg, text, metadata.Source, metadata.Hash)
	if err != nil {
		return err
	}

	if segmentStore {
		if err := storeResult(cmd.Context(), db.KindResume, &result.ID, result.SourceName, result.SourceHash, result.Sections); err != nil {
			return err
		}
	}

	logging.Logger.Debug().
		Str("source", metadata.Source).
		Str("format", string(metadata.Format)).
		Int("sections", len(result.Sections)).
		Msg("resume segmented")

	var data []byte
	if segmentFormat == "text" {
		data = renderText(result, segmentPreview)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		data = append(data, '\n')
	}
	return writeOutput(segmentOut, data)
}

// segmentResume runs the segmenter and checks the result against the
// resume sections schema.
func segmentResume(seg *sectioning.Segmenter, text, source, hash string) (types.SegmentResult, error) {
	sections := seg.Segment(text)
	if len(sections) > 0 {
		if err := schemas.ValidateSectionMap(sections); err != nil {
			return types.SegmentResult{}, fmt.Errorf("segmentation output failed schema check: %w", err)
		}
	}
	return types.SegmentResult{
		SourceName: source,
		SourceHash: hash,
		Sections:   sections,
		Summary:    sectioning.Summarize(sections),
		Degraded:   seg.Degraded(),
	}, nil
}

func renderText(result types.SegmentResult, preview int) []byte {
	var buf bytes.Buffer
	p := observability.NewPrinter(&buf).WithPreviewLen(preview)
	p.PrintSections(result.Sections)
	p.PrintSummary(result.Summary)
	if result.ID != "" {
		fmt.Fprintf(&buf, "Stored as %s\n", result.ID)
	}
	return buf.Bytes()
}

// storeResult saves sections and writes the new record ID into id.
func storeResult(ctx context.Context, kind string, id *string, name, hash string, sections any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer database.Close()

	record, err := database.SaveSegmentation(ctx, &db.SegmentationInput{
		Kind:       kind,
		SourceName: name,
		SourceHash: hash,
		Sections:   sections,
	})
	if err != nil {
		return err
	}
	*id = record.ID.String()
	fmt.Fprintf(os.Stderr, "Saved segmentation %s\n", *id)
	return nil
}
