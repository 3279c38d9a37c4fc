package docx

import (
	"bytes"
	"strings"

	docxlib "github.com/fumiama/go-docx"
	"github.com/rotisserie/eris"
)

// Paragraphs returns the trimmed text of every non-empty body paragraph of a
// .docx file, in document order.
func Paragraphs(data []byte) ([]string, error) {
	doc, err := docxlib.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "docx: parse document")
	}

	var paras []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docxlib.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			paras = append(paras, text)
		}
	}
	return paras, nil
}

func paragraphText(para *docxlib.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docxlib.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docxlib.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
