// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/sectioning"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Segmentation thresholds
	FuzzyThreshold  float64 `json:"fuzzy_threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	HeadingMinLen   int     `json:"heading_min_len,omitempty" validate:"gte=0"`
	HeadingMaxLen   int     `json:"heading_max_len,omitempty" validate:"gte=0"`
	TokenMin        int     `json:"token_min,omitempty" validate:"gte=0"`
	TokenMax        int     `json:"token_max,omitempty" validate:"gte=0"`
	ProjectTitleMax int     `json:"project_title_max,omitempty" validate:"gte=0"`
	ProjectBreakMax int     `json:"project_break_max,omitempty" validate:"gte=0"`

	// Behavior
	UseTagger  *bool  `json:"use_tagger,omitempty"`  // POS tagger for heading detection (default true)
	TitlesFile string `json:"titles_file,omitempty"` // YAML override of the section title table

	// Services
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty" validate:"omitempty,gte=1,lte=65535"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	p := sectioning.DefaultParams()
	useTagger := true
	return Config{
		FuzzyThreshold:  p.FuzzyThreshold,
		HeadingMinLen:   p.HeadingMinLen,
		HeadingMaxLen:   p.HeadingMaxLen,
		TokenMin:        p.TokenMin,
		TokenMax:        p.TokenMax,
		ProjectTitleMax: p.ProjectTitleMax,
		ProjectBreakMax: p.ProjectBreakMax,
		UseTagger:       &useTagger,
		Port:            8080,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks field ranges and that referenced files exist. Cross-field
// rules on the segmentation thresholds are checked by the segmenter itself
// once defaults are merged.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed %q check", jsonName(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.TitlesFile != "" {
		if _, err := os.Stat(c.TitlesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: titles file not found: %s", c.TitlesFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.FuzzyThreshold == 0 {
		result.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if result.HeadingMinLen == 0 {
		result.HeadingMinLen = defaults.HeadingMinLen
	}
	if result.HeadingMaxLen == 0 {
		result.HeadingMaxLen = defaults.HeadingMaxLen
	}
	if result.TokenMin == 0 {
		result.TokenMin = defaults.TokenMin
	}
	if result.TokenMax == 0 {
		result.TokenMax = defaults.TokenMax
	}
	if result.ProjectTitleMax == 0 {
		result.ProjectTitleMax = defaults.ProjectTitleMax
	}
	if result.ProjectBreakMax == 0 {
		result.ProjectBreakMax = defaults.ProjectBreakMax
	}
	if result.UseTagger == nil {
		result.UseTagger = defaults.UseTagger
	}
	if result.TitlesFile == "" {
		result.TitlesFile = defaults.TitlesFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	return result
}

// ApplyEnv fills empty service and logging fields from the environment
// (DATABASE_URL, PORT, LOG_LEVEL, LOG_FORMAT, RESUME_TITLES_FILE).
func (c *Config) ApplyEnv() error {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.TitlesFile == "" {
		c.TitlesFile = os.Getenv("RESUME_TITLES_FILE")
	}
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv("LOG_LEVEL")
	}
	if c.LogFormat == "" {
		c.LogFormat = os.Getenv("LOG_FORMAT")
	}
	if c.Port == 0 {
		if v := os.Getenv("PORT"); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config error: PORT must be a number: %w", err)
			}
			c.Port = port
		}
	}
	return nil
}

// TaggerEnabled reports whether heading detection should use the POS tagger.
func (c *Config) TaggerEnabled() bool {
	return c.UseTagger == nil || *c.UseTagger
}

// SegmenterParams converts the thresholds into segmenter parameters. Zero
// fields take the segmenter defaults.
func (c *Config) SegmenterParams() sectioning.Params {
	d := sectioning.DefaultParams()
	p := sectioning.Params{
		FuzzyThreshold:  c.FuzzyThreshold,
		HeadingMinLen:   c.HeadingMinLen,
		HeadingMaxLen:   c.HeadingMaxLen,
		TokenMin:        c.TokenMin,
		TokenMax:        c.TokenMax,
		ProjectTitleMax: c.ProjectTitleMax,
		ProjectBreakMax: c.ProjectBreakMax,
	}
	if p.FuzzyThreshold == 0 {
		p.FuzzyThreshold = d.FuzzyThreshold
	}
	if p.HeadingMinLen == 0 {
		p.HeadingMinLen = d.HeadingMinLen
	}
	if p.HeadingMaxLen == 0 {
		p.HeadingMaxLen = d.HeadingMaxLen
	}
	if p.TokenMin == 0 {
		p.TokenMin = d.TokenMin
	}
	if p.TokenMax == 0 {
		p.TokenMax = d.TokenMax
	}
	if p.ProjectTitleMax == 0 {
		p.ProjectTitleMax = d.ProjectTitleMax
	}
	if p.ProjectBreakMax == 0 {
		p.ProjectBreakMax = d.ProjectBreakMax
	}
	return p
}

var jsonNames = map[string]string{
	"FuzzyThreshold":  "fuzzy_threshold",
	"HeadingMinLen":   "heading_min_len",
	"HeadingMaxLen":   "heading_max_len",
	"TokenMin":        "token_min",
	"TokenMax":        "token_max",
	"ProjectTitleMax": "project_title_max",
	"ProjectBreakMax": "project_break_max",
	"Port":            "port",
	"LogLevel":        "log_level",
	"LogFormat":       "log_format",
}

func jsonName(field string) string {
	if n, ok := jsonNames[field]; ok {
		return n
	}
	return field
}
