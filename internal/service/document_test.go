package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		filename string
		declared string
		want     string
	}{
		{"cv.pdf", "application/octet-stream", MimePDF},
		{"CV.DOCX", "", MimeDOCX},
		{"notes.txt", "", MimePlain},
		{"resume", "application/pdf", MimePDF},
		{"resume", "text/plain; charset=utf-8", MimePlain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectContentType(tt.filename, tt.declared), tt.filename)
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "pdf", ExtensionFor(MimePDF))
	assert.Equal(t, "docx", ExtensionFor(MimeDOCX))
	assert.Equal(t, "txt", ExtensionFor(MimePlain))
}

func TestExtractDocumentTextPlain(t *testing.T) {
	text, err := ExtractDocumentText(MimePlain, []byte("Go, SQL, Docker"))
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL, Docker", text)
}

func TestExtractDocumentTextUnsupported(t *testing.T) {
	_, err := ExtractDocumentText("image/png", []byte{0x89, 0x50})
	var unsupported *ErrUnsupportedDocument
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "image/png", unsupported.ContentType)
}

func TestExtractDocumentTextBadPDF(t *testing.T) {
	_, err := ExtractDocumentText(MimePDF, []byte("not a pdf"))
	assert.Error(t, err)
}

func TestStripXML(t *testing.T) {
	content := `<w:document><w:body><w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go &amp; PostgreSQL</w:t></w:r></w:p></w:body></w:document>`
	assert.Equal(t, "Senior Engineer\nGo & PostgreSQL", stripXML(content))
}
