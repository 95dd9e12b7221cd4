// Package types provides the request and result records shared by the CLI and
// the HTTP API.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/jonathan/resume-analyzer/internal/sectioning"
)

// MaxTextBytes bounds the text accepted for one segmentation
const MaxTextBytes = 1 << 20

// SegmentRequest is the body of POST /segment
type SegmentRequest struct {
	Text       string `json:"text" validate:"required,max=1048576"`
	SourceName string `json:"source_name,omitempty" validate:"omitempty,max=255"`
	Store      bool   `json:"store,omitempty"`
}

// JDSegmentRequest is the body of POST /segment/jd
type JDSegmentRequest struct {
	Text       string `json:"text" validate:"required,max=1048576"`
	SourceName string `json:"source_name,omitempty" validate:"omitempty,max=255"`
	Store      bool   `json:"store,omitempty"`
}

// SegmentResult is a resume segmentation as returned to callers
type SegmentResult struct {
	ID         string                `json:"id,omitempty"`
	SourceName string                `json:"source_name,omitempty"`
	SourceHash string                `json:"source_hash,omitempty"`
	Sections   sectioning.SectionMap `json:"sections"`
	Summary    sectioning.Summary    `json:"summary"`
	Degraded   bool                  `json:"degraded"`
	Reused     bool                  `json:"reused,omitempty"` // served from an earlier stored result
}

// JDSegmentResult is a job description segmentation as returned to callers
type JDSegmentResult struct {
	ID         string                  `json:"id,omitempty"`
	SourceName string                  `json:"source_name,omitempty"`
	SourceHash string                  `json:"source_hash,omitempty"`
	Sections   sectioning.JDSectionMap `json:"sections"`
	Reused     bool                    `json:"reused,omitempty"`
}

// ExtractTextResult is the response of POST /extract-text. TextLength counts
// characters of the cleaned text.
type ExtractTextResult struct {
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	TextLength int    `json:"text_length"`
	Preview    string `json:"preview"`
	Text       string `json:"text"`
}

// StoredSegmentation is a persisted result. Sections holds either a resume
// section map or a job description section map depending on Kind.
type StoredSegmentation struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	SourceName string    `json:"source_name,omitempty"`
	SourceHash string    `json:"source_hash"`
	Sections   any       `json:"sections"`
	CreatedAt  time.Time `json:"created_at"`
}

// BatchItem records the outcome for one file of a batch run
type BatchItem struct {
	Source   string `json:"source"`
	Output   string `json:"output,omitempty"`
	Sections int    `json:"sections"`
	Error    string `json:"error,omitempty"`
}

// BatchReport summarises a batch run
type BatchReport struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

// Add appends an item and updates the counters.
func (r *BatchReport) Add(item BatchItem) {
	r.Items = append(r.Items, item)
	r.Total++
	if item.Error != "" {
		r.Failed++
	} else {
		r.Succeeded++
	}
}
