package ingestion

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"cv.txt":      FormatText,
		"CV.TXT":      FormatText,
		"README":      FormatText,
		"cv.md":       FormatMarkdown,
		"cv.pdf":      FormatPDF,
		"cv.docx":     FormatDOCX,
		"cv.html":     FormatHTML,
		"dir/cv.htm":  FormatHTML,
		"cv.markdown": FormatMarkdown,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("cv.doc")
	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), ".doc")
}

func TestExtractBytes_HTML(t *testing.T) {
	html := `<!DOCTYPE html>
<html><head><title>CV</title><style>h2 { color: red }</style></head>
<body>
<nav>Home | About</nav>
<h2>Education</h2><p>BS Computer Science<br>XYZ University</p>
<h2>Skills</h2><ul><li>Go</li><li>SQL &amp; Postgres</li></ul>
<script>track()</script>
</body></html>`

	text, err := ExtractBytes(FormatHTML, []byte(html))
	require.NoError(t, err)

	assert.Equal(t, "Education\nBS Computer Science\nXYZ University\nSkills\nGo\nSQL & Postgres", text)
}

func TestExtractBytes_DOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>EXPERIENCE</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Acme &amp; Co</w:t></w:r><w:r><w:tab/><w:t>2020</w:t></w:r></w:p>`)

	text, err := ExtractBytes(FormatDOCX, data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "EXPERIENCE", lines[0])
	assert.Equal(t, "Acme & Co 2020", lines[1])
}

func TestExtractBytes_InvalidDocuments(t *testing.T) {
	_, err := ExtractBytes(FormatPDF, []byte("not a pdf"))
	assert.Error(t, err)

	_, err = ExtractBytes(FormatDOCX, []byte("not a zip"))
	assert.Error(t, err)

	_, err = ExtractBytes(Format("rtf"), []byte("{\\rtf1}"))
	assert.Error(t, err)
}

func TestExtractText_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.md")
	require.NoError(t, os.WriteFile(path, []byte("# Projects\n- Chess"), 0644))

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "# Projects\n- Chess", text)
}

func TestReadAllLimited(t *testing.T) {
	data, truncated, err := ReadAllLimited(strings.NewReader("abcdef"), 4)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, "abcd", string(data))

	data, truncated, err = ReadAllLimited(strings.NewReader("abc"), 4)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "abc", string(data))
}

// buildDOCX writes a minimal Word package around the given body XML.
func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body +
			`</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
