// Package docx renders section maps into styled memo documents and reads
// paragraph text back out of generated files.
package docx

import (
	"io"
	"strings"

	docxlib "github.com/fumiama/go-docx"
	"github.com/rotisserie/eris"

	"github.com/meridian-research/memogen/internal/model"
)

// Run sizes are half-points.
const (
	titleSize   = "40" // 20pt
	headingSize = "28" // 14pt
	bodySize    = "22" // 11pt
)

// Build assembles the styled memo document in memory: a centered bold title,
// then per section a bold heading, one body paragraph per blank-line block,
// and a spacer paragraph.
func Build(company, situationLabel string, sections *model.SectionMap) *docxlib.Docx {
	doc := docxlib.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.AddText(company + " – " + situationLabel + " Investment Memo").Size(titleSize).Bold()
	title.Justification("center")

	for _, key := range sections.Keys() {
		content, _ := sections.Get(key)

		heading := doc.AddParagraph()
		heading.AddText(key).Size(headingSize).Bold()

		for _, block := range strings.Split(content, "\n\n") {
			block = strings.TrimSpace(block)
			if block == "" {
				continue
			}
			doc.AddParagraph().AddText(block).Size(bodySize)
		}

		doc.AddParagraph()
	}

	return doc
}

// Render writes the assembled memo to w.
func Render(w io.Writer, company, situationLabel string, sections *model.SectionMap) error {
	if _, err := Build(company, situationLabel, sections).WriteTo(w); err != nil {
		return eris.Wrap(err, "docx: write memo")
	}
	return nil
}

// MemoFileName returns the artifact name for a memo, with path-unsafe runes
// replaced.
func MemoFileName(company, situationLabel string) string {
	return sanitizeFileName(company + "_" + situationLabel + "_Memo.docx")
}

func sanitizeFileName(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(name)
}
