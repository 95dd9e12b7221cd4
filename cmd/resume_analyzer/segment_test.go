package main

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
)

const sampleResume = `Jane Candidate
jane@example.com

EDUCATION
BS Physics, State University

EXPERIENCE
Backend engineer at Initech, 2019 - 2023

PROJECTS
1) Chess engine in Go
2) Static site generator
`

func TestSegmentResume(t *testing.T) {
	seg := degradedSegmenter(t)
	text := ingestion.CleanText(sampleResume)

	result, err := segmentResume(seg, text, "jane.txt", ingestion.ComputeHash(text))
	require.NoError(t, err)

	assert.Equal(t, "jane.txt", result.SourceName)
	assert.True(t, result.Degraded)
	assert.Equal(t, "BS Physics, State University", result.Sections[sectioning.SectionEducation].Text())
	assert.Equal(t, []string{"1) Chess engine in Go", "2) Static site generator"},
		result.Sections[sectioning.SectionProjects].Projects())
	assert.Len(t, result.Summary.Sections, len(result.Sections))
}

func TestSegmentResume_Empty(t *testing.T) {
	seg := degradedSegmenter(t)

	result, err := segmentResume(seg, "", "empty.txt", "")
	require.NoError(t, err)
	assert.Empty(t, result.Sections)
	assert.Len(t, result.Summary.Missing, len(sectioning.CanonicalKeys()))
}

func TestRenderText(t *testing.T) {
	seg := degradedSegmenter(t)
	result, err := segmentResume(seg, ingestion.CleanText(sampleResume), "jane.txt", "")
	require.NoError(t, err)
	result.ID = "0b6c4c8e-2a56-4d6f-9a43-4a3c4b9e2f10"

	out := string(renderText(result, 0))
	assert.Contains(t, out, "EDUCATION")
	assert.Contains(t, out, "PROJECTS (2)")
	assert.Contains(t, out, "SEGMENTATION SUMMARY")
	assert.Contains(t, out, "Stored as 0b6c4c8e-2a56-4d6f-9a43-4a3c4b9e2f10")
}

func TestReadInput_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.txt", "SKILLS  \r\nGo,   SQL\r\n")

	text, meta, err := readInput(path)
	require.NoError(t, err)
	assert.Equal(t, "SKILLS\nGo, SQL", text)
	assert.Equal(t, ingestion.FormatText, meta.Format)
	assert.Equal(t, ingestion.ComputeHash(text), meta.Hash)
}

func TestReadInput_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.odt", "x")

	_, _, err := readInput(path)
	require.Error(t, err)
	var unsupported *ingestion.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")
	t.Setenv("RESUME_TITLES_FILE", "")

	path := writeFile(t, t.TempDir(), "config.json", `{"fuzzy_threshold": 90, "log_level": "debug"}`)

	cfg, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.FuzzyThreshold)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
	assert.True(t, cfg.TaggerEnabled())
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := loadSettings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewSegmenter_CustomTitles(t *testing.T) {
	titles := writeFile(t, t.TempDir(), "titles.yaml", `
- key: experience
  variants: ["experience", "where i worked"]
- key: technical_skills
  variants: ["skills", "toolbox"]
`)
	off := false
	cfg := config.Default()
	cfg.UseTagger = &off
	cfg.TitlesFile = titles

	seg, err := newSegmenter(cfg, nil)
	require.NoError(t, err)

	result := seg.Segment("TOOLBOX\nGo, SQL")
	assert.Equal(t, "Go, SQL", result[sectioning.SectionTechnicalSkills].Text())
}

func TestNewSegmenter_TaggerToggle(t *testing.T) {
	cfg := config.Default()
	seg, err := newSegmenter(cfg, nil)
	require.NoError(t, err)
	assert.False(t, seg.Degraded())

	assert.True(t, degradedSegmenter(t).Degraded())
}

func TestSegmentCommand_Binary(t *testing.T) {
	binaryPath := getBinaryPath(t)
	path := writeFile(t, t.TempDir(), "resume.txt", sampleResume)

	cmd := exec.Command(binaryPath, "segment", "--file", path, "--no-tagger")
	output, err := cmd.Output()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(output, &decoded))
	sections := decoded["sections"].(map[string]any)
	assert.Equal(t, "BS Physics, State University", sections["education"])
}

func TestSegmentCommand_MissingFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "segment")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}
