package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// uploadField is the multipart part that carries the resume file
	uploadField = "resume"

	// maxUploadBytes bounds a multipart request, file and form fields together
	maxUploadBytes = 10 << 20

	// maxUploadMemory is kept in memory while parsing; the rest spills to disk
	maxUploadMemory = 4 << 20

	// extractPreviewLen is the length of the preview returned by /extract-text
	extractPreviewLen = 2000
)

// upload is a resume file read from a multipart request
type upload struct {
	Filename string
	Format   ingestion.Format
	Text     string
}

// readUpload parses a size-limited multipart request and extracts the text
// of its resume part. The format is picked from the file name.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	if r.ContentLength > maxUploadBytes {
		return nil, &ErrPayloadTooLarge{Limit: maxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrPayloadTooLarge{Limit: tooLarge.Limit}
		}
		return nil, &ErrValidation{Field: uploadField, Message: "expected a multipart/form-data body: " + err.Error()}
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &ErrValidation{Field: uploadField, Message: "file is required"}
		}
		return nil, &ErrValidation{Field: uploadField, Message: err.Error()}
	}
	defer file.Close()

	format, err := ingestion.DetectFormat(header.Filename)
	if err != nil {
		return nil, err
	}

	raw, err := readPart(file)
	if err != nil {
		return nil, err
	}

	text, err := ingestion.ExtractBytes(format, raw)
	if err != nil {
		return nil, &ErrValidation{Field: uploadField, Message: fmt.Sprintf("failed to extract text: %v", err)}
	}

	return &upload{
		Filename: header.Filename,
		Format:   format,
		Text:     ingestion.CleanText(text),
	}, nil
}

func readPart(file multipart.File) ([]byte, error) {
	data, truncated, err := ingestion.ReadAllLimited(file, maxUploadBytes)
	if err != nil {
		return nil, err
	}
	if truncated {
		return nil, &ErrPayloadTooLarge{Limit: maxUploadBytes}
	}
	return data, nil
}

// handleSegmentFile segments an uploaded resume file. Optional form fields:
// source_name (defaults to the file name) and store.
func (s *Server) handleSegmentFile(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	if strings.TrimSpace(up.Text) == "" {
		s.errorFrom(w, r, &ErrValidation{Field: uploadField, Message: "no text could be extracted"})
		return
	}
	if len(up.Text) > types.MaxTextBytes {
		s.errorFrom(w, r, &ErrPayloadTooLarge{Limit: types.MaxTextBytes})
		return
	}

	req := types.SegmentRequest{
		Text:       up.Text,
		SourceName: r.FormValue("source_name"),
	}
	if req.SourceName == "" {
		req.SourceName = up.Filename
	}
	if v := r.FormValue("store"); v != "" {
		store, err := strconv.ParseBool(v)
		if err != nil {
			s.errorFrom(w, r, &ErrValidation{Field: "store", Message: "must be true or false"})
			return
		}
		req.Store = store
	}
	if err := s.validateRequest(&req); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("filename", up.Filename).
		Str("format", string(up.Format)).
		Int("chars", len(up.Text)).
		Msg("resume uploaded")

	s.segmentResume(w, r, req)
}

// handleExtractText returns the text extracted from an uploaded resume
// without segmenting it.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	preview := sectioning.Preview(up.Text, extractPreviewLen)
	if preview != up.Text {
		preview += "..."
	}

	s.jsonResponse(w, http.StatusOK, types.ExtractTextResult{
		Filename:   up.Filename,
		Format:     string(up.Format),
		TextLength: len([]rune(up.Text)),
		Preview:    preview,
		Text:       up.Text,
	})
}
