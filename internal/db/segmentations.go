package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveSegmentation stores a segmentation result and returns the new record
func (db *DB) SaveSegmentation(ctx context.Context, input *SegmentationInput) (*Segmentation, error) {
	if input.Kind != KindResume && input.Kind != KindJobDescription {
		return nil, fmt.Errorf("invalid segmentation kind %q", input.Kind)
	}

	sectionsJSON, err := json.Marshal(input.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sections: %w", err)
	}

	s := Segmentation{
		ID:         uuid.New(),
		Kind:       input.Kind,
		SourceName: input.SourceName,
		SourceHash: input.SourceHash,
		Sections:   sectionsJSON,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO segmentations (id, kind, source_name, source_hash, sections)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		s.ID, s.Kind, s.SourceName, s.SourceHash, sectionsJSON,
	).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save segmentation: %w", err)
	}
	return &s, nil
}

// GetSegmentation retrieves a segmentation by ID. Returns nil when not found.
func (db *DB) GetSegmentation(ctx context.Context, id uuid.UUID) (*Segmentation, error) {
	var s Segmentation
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, source_name, source_hash, sections, created_at
		 FROM segmentations WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Kind, &s.SourceName, &s.SourceHash, &s.Sections, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get segmentation: %w", err)
	}
	return &s, nil
}

// GetSegmentationByHash returns the newest segmentation of the same kind and
// source text. Returns nil when none exists.
func (db *DB) GetSegmentationByHash(ctx context.Context, kind, hash string) (*Segmentation, error) {
	var s Segmentation
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, source_name, source_hash, sections, created_at
		 FROM segmentations WHERE kind = $1 AND source_hash = $2
		 ORDER BY created_at DESC LIMIT 1`,
		kind, hash,
	).Scan(&s.ID, &s.Kind, &s.SourceName, &s.SourceHash, &s.Sections, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get segmentation by hash: %w", err)
	}
	return &s, nil
}

// ListSegmentations returns the newest segmentations first
func (db *DB) ListSegmentations(ctx context.Context, limit int) ([]Segmentation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, source_name, source_hash, sections, created_at
		 FROM segmentations ORDER BY created_at DESC LIMIT $1`,
		ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list segmentations: %w", err)
	}
	defer rows.Close()

	var results []Segmentation
	for rows.Next() {
		var s Segmentation
		if err := rows.Scan(&s.ID, &s.Kind, &s.SourceName, &s.SourceHash, &s.Sections, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segmentation: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segmentations: %w", err)
	}
	return results, nil
}

// DeleteSegmentation removes a segmentation. Deleting a missing ID is not an error.
func (db *DB) DeleteSegmentation(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM segmentations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete segmentation: %w", err)
	}
	return nil
}
