package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// decodeBody reads a size-limited JSON body into dst and validates it.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrPayloadTooLarge{Limit: tooLarge.Limit}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}

	return s.validateRequest(dst)
}

// validateRequest runs the struct validator and reports the first failing
// field by its JSON name.
func (s *Server) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// handleSegment segments resume text and optionally stores the result
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req types.SegmentRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.segmentResume(w, r, req)
}

// segmentResume cleans and segments validated request text, stores the
// result when asked and writes the response.
func (s *Server) segmentResume(w http.ResponseWriter, r *http.Request, req types.SegmentRequest) {
	text := ingestion.CleanText(req.Text)
	sections := s.segmenter.Segment(text)

	result := types.SegmentResult{
		SourceName: req.SourceName,
		SourceHash: ingestion.ComputeHash(text),
		Sections:   sections,
		Summary:    sectioning.Summarize(sections),
		Degraded:   s.segmenter.Degraded(),
	}

	if req.Store {
		record, reused, err := s.persist(r, db.KindResume, req.SourceName, result.SourceHash, sections)
		if err != nil {
			s.errorFrom(w, r, err)
			return
		}
		result.ID = record.ID.String()
		result.Reused = reused
	}

	logging.Ctx(r.Context()).Debug().
		Int("sections", len(sections)).
		Bool("stored", result.ID != "").
		Msg("resume segmented")

	s.jsonResponse(w, http.StatusOK, result)
}

// handleSegmentJD segments job description text and optionally stores the result
func (s *Server) handleSegmentJD(w http.ResponseWriter, r *http.Request) {
	var req types.JDSegmentRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	text := ingestion.CleanText(req.Text)
	sections := sectioning.SegmentJobDescription(text)

	result := types.JDSegmentResult{
		SourceName: req.SourceName,
		SourceHash: ingestion.ComputeHash(text),
		Sections:   sections,
	}

	if req.Store {
		record, reused, err := s.persist(r, db.KindJobDescription, req.SourceName, result.SourceHash, sections)
		if err != nil {
			s.errorFrom(w, r, err)
			return
		}
		result.ID = record.ID.String()
		result.Reused = reused
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// persist saves sections unless a record for the same text already exists.
// The boolean reports whether an existing record was returned.
func (s *Server) persist(r *http.Request, kind, name, hash string, sections any) (*db.Segmentation, bool, error) {
	if s.store == nil {
		return nil, false, &ErrStorageUnavailable{}
	}
	ctx := r.Context()

	existing, err := s.store.GetSegmentationByHash(ctx, kind, hash)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up segmentation: %w", err)
	}
	if existing != nil {
		return existing, true, nil
	}

	record, err := s.store.SaveSegmentation(ctx, &db.SegmentationInput{
		Kind:       kind,
		SourceName: name,
		SourceHash: hash,
		Sections:   sections,
	})
	if err != nil {
		return nil, false, err
	}
	return record, false, nil
}

// handleGetSegmentation returns a stored segmentation by ID
func (s *Server) handleGetSegmentation(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Segmentation ID is required")
		return
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid segmentation ID")
		return
	}

	if s.store == nil {
		s.errorFrom(w, r, &ErrStorageUnavailable{})
		return
	}

	record, err := s.store.GetSegmentation(r.Context(), id)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	if record == nil {
		s.errorFrom(w, r, &ErrNotFound{Resource: "segmentation", ID: idStr})
		return
	}

	s.jsonResponse(w, http.StatusOK, toStored(record))
}

// handleListSegmentations returns the most recent stored segmentations
func (s *Server) handleListSegmentations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	if s.store == nil {
		s.errorFrom(w, r, &ErrStorageUnavailable{})
		return
	}

	records, err := s.store.ListSegmentations(r.Context(), db.ClampLimit(limit))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	out := make([]types.StoredSegmentation, 0, len(records))
	for i := range records {
		out = append(out, toStored(&records[i]))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"segmentations": out,
		"count":         len(out),
	})
}

func toStored(record *db.Segmentation) types.StoredSegmentation {
	return types.StoredSegmentation{
		ID:         record.ID.String(),
		Kind:       record.Kind,
		SourceName: record.SourceName,
		SourceHash: record.SourceHash,
		Sections:   record.Sections,
		CreatedAt:  record.CreatedAt,
	}
}
