package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Segment every resume in a directory",
	Long: "Segment every supported resume file in a directory. For each file the cleaned text, its metadata " +
		"and the section map are written to the output directory, followed by batch_report.json.",
	RunE: runBatch,
}

var (
	batchDir     string
	batchOut     string
	batchWorkers int
)

// batchReportFile is written to the output directory after every run
const batchReportFile = "batch_report.json"

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory of resume files (required)")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Output directory (required)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 4, "Files processed concurrently")

	batchCmd.MarkFlagRequired("dir")
	batchCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	seg, err := newSegmenter(settings, &logging.Logger)
	if err != nil {
		return fmt.Errorf("failed to build segmenter: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := segmentDir(ctx, seg, batchDir, batchOut, batchWorkers)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	observability.NewPrinter(&buf).PrintBatchReport(report)
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed, report.Total)
	}
	return nil
}

// batchInputs lists the supported files in dir in name order.
func batchInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := ingestion.DetectFormat(path); err != nil {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// segmentDir segments every supported file in dir with at most workers
// files in flight. Failures are recorded per file; the returned error is
// reserved for problems with the directories themselves or cancellation.
func segmentDir(ctx context.Context, seg *sectioning.Segmenter, dir, outDir string, workers int) (*types.BatchReport, error) {
	if workers < 1 {
		workers = 1
	}

	paths, err := batchInputs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	items := make([]types.BatchItem, len(paths))
	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	for i, path := range paths {
		if err := sem.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			items[i] = segmentOne(seg, path, outDir)

			if items[i].Error != "" {
				logging.Logger.Warn().Str("file", path).Str("error", items[i].Error).Msg("batch item failed")
			} else {
				logging.Logger.Debug().Str("file", path).Int("sections", items[i].Sections).Msg("batch item done")
			}
			return gCtx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	report := &types.BatchReport{Items: make([]types.BatchItem, 0, len(items))}
	for _, item := range items {
		report.Add(item)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, batchReportFile), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write batch report: %w", err)
	}
	return report, nil
}

// segmentOne ingests, segments and writes the outputs for one file as
// <name>.cleaned.txt, <name>.meta.json and <name>.sections.json, where name
// is the input file name with its extension.
func segmentOne(seg *sectioning.Segmenter, path, outDir string) types.BatchItem {
	item := types.BatchItem{Source: path}

	text, metadata, err := ingestion.IngestFromFile(path)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	// The extension stays in the base so jane.txt and jane.pdf do not collide.
	base := filepath.Base(path)
	if err := ingestion.WriteOutput(outDir, base, text, metadata); err != nil {
		item.Error = err.Error()
		return item
	}

	result, err := segmentResume(seg, text, metadata.Source, metadata.Hash)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		item.Error = fmt.Sprintf("failed to marshal result: %v", err)
		return item
	}
	outPath := filepath.Join(outDir, base+".sections.json")
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		item.Error = fmt.Sprintf("failed to write sections: %v", err)
		return item
	}

	item.Output = outPath
	item.Sections = len(result.Sections)
	return item
}
