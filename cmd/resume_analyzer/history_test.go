package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/db"
)

func TestPrintHistory(t *testing.T) {
	id := uuid.MustParse("7d9f1c2e-0a4b-4c3d-8e5f-6a7b8c9d0e1f")
	records := []db.Segmentation{
		{
			ID:         id,
			Kind:       db.KindResume,
			SourceName: "jane.pdf",
			SourceHash: "0123456789abcdef0123",
			CreatedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:         uuid.New(),
			Kind:       db.KindJobDescription,
			SourceHash: "ffff",
			CreatedAt:  time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, records))
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, "jane.pdf")
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "2024-03-01 09:30")
	assert.Contains(t, out, "job_description")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Equal(t, "No stored segmentations\n", buf.String())
}
