package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// settings is the merged configuration for the running command
var settings config.Config

// setup merges flags, config file, environment and defaults, then
// configures logging.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if noTagger {
		off := false
		cfg.UseTagger = &off
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings = cfg
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return nil
}

// loadSettings reads the optional config file and fills the rest from the
// environment and defaults.
func loadSettings(path string) (config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	return cfg.MergeWithDefaults(config.Default()), nil
}

// newSegmenter builds a segmenter from cfg.
func newSegmenter(cfg config.Config, logger *zerolog.Logger) (*sectioning.Segmenter, error) {
	segCfg := sectioning.Config{
		Params: cfg.SegmenterParams(),
		Logger: logger,
	}
	if cfg.TitlesFile != "" {
		table, err := sectioning.LoadVariantTable(cfg.TitlesFile)
		if err != nil {
			return nil, err
		}
		segCfg.Table = table
	}
	if cfg.TaggerEnabled() {
		segCfg.Tagger = sectioning.NewProseTagger()
	}
	return sectioning.New(segCfg)
}

// readInput returns cleaned text and metadata for a file, or for stdin when
// path is "-".
func readInput(path string) (string, *ingestion.Metadata, error) {
	if path != "-" {
		return ingestion.IngestFromFile(path)
	}

	data, truncated, err := ingestion.ReadAllLimited(os.Stdin, types.MaxTextBytes)
	if err != nil {
		return "", nil, err
	}
	if truncated {
		return "", nil, fmt.Errorf("stdin input exceeds %d bytes", types.MaxTextBytes)
	}
	cleaned := ingestion.CleanText(string(data))
	return cleaned, ingestion.NewMetadata(cleaned, "stdin", ingestion.FormatText), nil
}

// openStore connects to the configured database.
func openStore(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or database_url config is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
