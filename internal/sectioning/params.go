package sectioning

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Params holds the tunable thresholds of the segmentation heuristics.
type Params struct {
	// FuzzyThreshold is the score a fuzzy title match must strictly exceed
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold" validate:"gte=0,lte=100"`
	// HeadingMinLen and HeadingMaxLen bound the characters after the leading
	// capital in the structural heading pattern
	HeadingMinLen int `json:"heading_min_len" yaml:"heading_min_len" validate:"gte=0"`
	HeadingMaxLen int `json:"heading_max_len" yaml:"heading_max_len" validate:"gtefield=HeadingMinLen"`
	// TokenMin and TokenMax are exclusive bounds for the verb-free phrase rule
	TokenMin int `json:"token_min" yaml:"token_min" validate:"gte=0"`
	TokenMax int `json:"token_max" yaml:"token_max" validate:"gtfield=TokenMin"`
	// ProjectTitleMax is the length under which a capitalised line opens a project
	ProjectTitleMax int `json:"project_title_max" yaml:"project_title_max" validate:"gt=0"`
	// ProjectBreakMax is the length under which an unterminated previous line
	// forces a paragraph break
	ProjectBreakMax int `json:"project_break_max" yaml:"project_break_max" validate:"gt=0"`
}

// DefaultParams returns the thresholds the heuristics were tuned with.
func DefaultParams() Params {
	return Params{
		FuzzyThreshold:  85,
		HeadingMinLen:   2,
		HeadingMaxLen:   20,
		TokenMin:        3,
		TokenMax:        10,
		ProjectTitleMax: 100,
		ProjectBreakMax: 80,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	err := validator.New().Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ConfigError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &ConfigError{Message: "invalid parameters", Cause: err}
}
