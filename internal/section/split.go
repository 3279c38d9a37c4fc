// Package section carves memo text into ordered section maps keyed by an
// outline's canonical titles. Two extractors share the contract: Split works
// on normalized draft text, Walk on paragraphs read back from a document.
package section

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meridian-research/memogen/internal/model"
)

// fallbackTitle keys the whole draft when no outline heading is found.
const fallbackTitle = "Memo"

// Split carves normalized text into sections. A heading is a standalone line
// equal to one of the outline's canonical titles, case-insensitive, with
// surrounding spaces ignored. Text before the first heading is dropped, and
// a duplicated heading keeps its first position with the last content.
func Split(text string, outline model.Outline) *model.SectionMap {
	sections := model.NewSectionMap()

	titles := make([]string, 0, len(outline.Sections))
	for _, title := range outline.Titles() {
		if title != "" {
			titles = append(titles, regexp.QuoteMeta(title))
		}
	}
	if len(titles) == 0 {
		sections.Set(fallbackTitle, strings.TrimSpace(text))
		return sections
	}

	re := regexp.MustCompile(fmt.Sprintf(`(?im)^[ \t]*(%s)[ \t\r]*$`, strings.Join(titles, "|")))
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		sections.Set(fallbackTitle, strings.TrimSpace(text))
		return sections
	}

	canonical := outline.Titles()
	for i, m := range matches {
		matched := text[m[2]:m[3]]

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(text[m[1]:end])

		key := matched
		for _, title := range canonical {
			if strings.EqualFold(title, matched) {
				key = title
				break
			}
		}
		sections.Set(key, content)
	}
	return sections
}
