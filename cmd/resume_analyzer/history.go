package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored segmentations",
	Long:  "List the most recent segmentations saved with --store or through the API. Requires DATABASE_URL.",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultListLimit, "Number of records to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.ListSegmentations(ctx, db.ClampLimit(historyLimit))
	if err != nil {
		return err
	}

	if historyJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		return writeOutput("", append(data, '\n'))
	}
	return printHistory(os.Stdout, records)
}

// printHistory writes one row per record.
func printHistory(w io.Writer, records []db.Segmentation) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No stored segmentations")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSOURCE\tHASH\tCREATED")
	for _, r := range records {
		hash := r.SourceHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		source := r.SourceName
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Kind, source, hash, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
