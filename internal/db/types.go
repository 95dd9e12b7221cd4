package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Segmentation kinds
const (
	KindResume         = "resume"
	KindJobDescription = "job_description"
)

// Segmentation is a stored segmentation result
type Segmentation struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	SourceName string          `json:"source_name,omitempty"`
	SourceHash string          `json:"source_hash"`
	Sections   json.RawMessage `json:"sections"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SegmentationInput holds the fields needed to store a result
type SegmentationInput struct {
	Kind       string
	SourceName string
	SourceHash string
	Sections   any // marshalled to JSONB
}

// DefaultListLimit caps ListSegmentations when no limit is given
const DefaultListLimit = 20

// MaxListLimit is the largest page ListSegmentations returns
const MaxListLimit = 200

// ClampLimit maps a requested page size onto [1, MaxListLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
