package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
)

// postFile sends filename/content as the resume part of a multipart request
// together with the given form fields.
func postFile(t *testing.T, s *Server, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile(uploadField, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestSegmentFileEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/segment/file", "jane.txt", "EDUCATION\r\nBS Physics\nSKILLS\nGo, Rust\n", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode(t, w)
	assert.Equal(t, "jane.txt", resp["source_name"])
	assert.Equal(t, ingestion.ComputeHash("EDUCATION\nBS Physics\nSKILLS\nGo, Rust"), resp["source_hash"])

	sections := resp["sections"].(map[string]any)
	assert.Equal(t, "BS Physics", sections["education"])
	assert.Equal(t, "Go, Rust", sections["technical_skills"])
}

func TestSegmentFileEndpoint_HTML(t *testing.T) {
	s := newTestServer(t, nil)

	html := `<html><body><h2>EXPERIENCE</h2><p>Backend engineer at Initech</p><script>var x = 1;</script></body></html>`
	w := postFile(t, s, "/segment/file", "cv.html", html, map[string]string{"source_name": "portfolio"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode(t, w)
	assert.Equal(t, "portfolio", resp["source_name"])
	sections := resp["sections"].(map[string]any)
	assert.Equal(t, "Backend engineer at Initech", sections["experience"])
}

func TestSegmentFileEndpoint_UnsupportedFormat(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/segment/file", "cv.odt", "EDUCATION\nBS", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "unsupported file format")
}

func TestSegmentFileEndpoint_MissingFile(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/segment/file", "", "", map[string]string{"source_name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "file is required")
}

func TestSegmentFileEndpoint_NotMultipart(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/segment/file", `{"text": "SKILLS\nGo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "multipart/form-data")
}

func TestSegmentFileEndpoint_BrokenPDF(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/segment/file", "cv.pdf", "this is not a pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "failed to extract text")
}

func TestSegmentFileEndpoint_EmptyFile(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/segment/file", "cv.txt", " \n\n ", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "no text could be extracted")
}

func TestSegmentFileEndpoint_TooLarge(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/segment/file", "cv.txt", strings.Repeat("a", maxUploadBytes+1), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSegmentFileEndpoint_TextOverLimit(t *testing.T) {
	s := newTestServer(t, nil)

	text := "SKILLS\n" + strings.Repeat("a", 1<<20)
	w := postFile(t, s, "/segment/file", "cv.txt", text, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSegmentFileEndpoint_Store(t *testing.T) {
	store := newMockStore()
	s := newTestServer(t, store)

	first := postFile(t, s, "/segment/file", "cv.txt", "SKILLS\nGo", map[string]string{"store": "true"})
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := postFile(t, s, "/segment/file", "cv.txt", "SKILLS\nGo", map[string]string{"store": "true"})
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	a, b := decode(t, first), decode(t, second)
	assert.NotEmpty(t, a["id"])
	assert.Equal(t, a["id"], b["id"])
	assert.Equal(t, true, b["reused"])
	assert.Equal(t, 1, store.saves)
}

func TestSegmentFileEndpoint_InvalidStoreFlag(t *testing.T) {
	s := newTestServer(t, newMockStore())

	w := postFile(t, s, "/segment/file", "cv.txt", "SKILLS\nGo", map[string]string{"store": "sometimes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "store")
}

func TestExtractTextEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/extract-text", "notes.md", "EDUCATION\n\n\n\nBS  Physics", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode(t, w)
	assert.Equal(t, "notes.md", resp["filename"])
	assert.Equal(t, string(ingestion.FormatMarkdown), resp["format"])
	assert.Equal(t, "EDUCATION\n\nBS Physics", resp["text"])
	assert.Equal(t, resp["text"], resp["preview"])
	assert.EqualValues(t, len("EDUCATION\n\nBS Physics"), resp["text_length"])
}

func TestExtractTextEndpoint_LongTextPreview(t *testing.T) {
	s := newTestServer(t, nil)

	text := strings.Repeat("é", extractPreviewLen+50)
	w := postFile(t, s, "/extract-text", "cv.txt", text, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.EqualValues(t, extractPreviewLen+50, resp["text_length"])
	assert.Equal(t, strings.Repeat("é", extractPreviewLen)+"...", resp["preview"])
	assert.Equal(t, text, resp["text"])
}

func TestExtractTextEndpoint_UnsupportedFormat(t *testing.T) {
	s := newTestServer(t, nil)

	w := postFile(t, s, "/extract-text", "cv.doc", "binary", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
