// Package extract converts uploaded source documents into a plain-text
// corpus for prompting. Per-file failures never abort a flow: they surface
// as inline marker text so the reader can see what was skipped.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/docx"
	"github.com/meridian-research/memogen/internal/model"
)

// Extractor converts uploaded documents into a plain-text corpus.
type Extractor interface {
	Corpus(docs []model.SourceDoc) string
}

type fileExtractor struct{}

// New returns the standard extension-dispatching extractor.
func New() Extractor {
	return &fileExtractor{}
}

// Corpus extracts every document and concatenates the results with
// provenance headers so the model can attribute statements to files.
func (e *fileExtractor) Corpus(docs []model.SourceDoc) string {
	var b strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&b, "\n\n--- %s ---\n\n%s", doc.Name, e.file(doc))
	}
	return strings.TrimSpace(b.String())
}

func (e *fileExtractor) file(doc model.SourceDoc) string {
	switch strings.ToLower(filepath.Ext(doc.Name)) {
	case ".pdf":
		text, err := pdfText(doc.Data)
		if err != nil {
			zap.L().Warn("pdf extraction failed", zap.String("file", doc.Name), zap.Error(err))
			return fmt.Sprintf("[ERROR extracting PDF: %v]", err)
		}
		return text
	case ".docx":
		text, err := docxText(doc.Data)
		if err != nil {
			zap.L().Warn("docx extraction failed", zap.String("file", doc.Name), zap.Error(err))
			return fmt.Sprintf("[ERROR extracting DOCX: %v]", err)
		}
		return text
	default:
		zap.L().Warn("unsupported upload", zap.String("file", doc.Name))
		return fmt.Sprintf("[Unsupported file: %s]", doc.Name)
	}
}

// FailureCount reports how many per-file failure markers a corpus carries.
func FailureCount(corpus string) int {
	return strings.Count(corpus, "[ERROR extracting") + strings.Count(corpus, "[Unsupported file:")
}

// pdfText extracts page text joined by form feeds.
func pdfText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("extract: pdf reader panic: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open pdf")
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(pageText)
	}
	return buf.String(), nil
}

// docxText extracts paragraph text joined by newlines.
func docxText(data []byte) (string, error) {
	paras, err := docx.Paragraphs(data)
	if err != nil {
		return "", eris.Wrap(err, "extract: parse docx")
	}
	return strings.Join(paras, "\n"), nil
}
