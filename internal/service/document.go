package service

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePlain = "text/plain"
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedDocument is returned for uploads that are not PDF, DOCX, or plain text
type ErrUnsupportedDocument struct {
	ContentType string
}

func (e *ErrUnsupportedDocument) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.ContentType)
}

// DetectContentType resolves an upload's type, preferring the file extension
// since browsers often send application/octet-stream.
func DetectContentType(filename, declared string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt", ".md":
		return MimePlain
	}
	if i := strings.Index(declared, ";"); i != -1 {
		declared = declared[:i]
	}
	return strings.TrimSpace(declared)
}

// ExtensionFor returns the file extension used when archiving a document
func ExtensionFor(contentType string) string {
	switch contentType {
	case MimePDF:
		return "pdf"
	case MimeDOCX:
		return "docx"
	default:
		return "txt"
	}
}

// ExtractDocumentText returns the plain text of a CV upload
func ExtractDocumentText(contentType string, data []byte) (string, error) {
	switch contentType {
	case MimePlain:
		return string(data), nil
	case MimePDF:
		return extractPDFText(data)
	case MimeDOCX:
		return extractDocxText(data)
	default:
		return "", &ErrUnsupportedDocument{ContentType: contentType}
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing DOCX: %w", err)
	}
	defer doc.Close()

	return stripXML(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	blankRuns    = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n{2,}`)
)

// stripXML flattens WordprocessingML into text, one line per paragraph
func stripXML(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	content = blankRuns.ReplaceAllString(content, " ")
	content = blankLines.ReplaceAllString(content, "\n")
	replacer := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
	return strings.TrimSpace(replacer.Replace(content))
}
