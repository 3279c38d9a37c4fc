package section

import (
	"strings"

	"github.com/meridian-research/memogen/internal/model"
)

// Walk reconstructs sections from document paragraphs. A paragraph is a
// heading iff its trimmed, lower-cased text exactly equals a canonical
// outline title's lower-casing. Paragraphs before the first heading are
// discarded, and headings that accumulate no content are dropped.
func Walk(paras []string, outline model.Outline) *model.SectionMap {
	canonical := make(map[string]string)
	for _, title := range outline.Titles() {
		canonical[strings.ToLower(title)] = title
	}

	sections := model.NewSectionMap()
	var current string
	var acc []string

	flush := func() {
		if current != "" && len(acc) > 0 {
			sections.Set(current, strings.TrimSpace(strings.Join(acc, "\n")))
		}
		acc = nil
	}

	for _, para := range paras {
		text := strings.TrimSpace(para)
		if text == "" {
			continue
		}
		if title, ok := canonical[strings.ToLower(text)]; ok {
			flush()
			current = title
			continue
		}
		if current != "" {
			acc = append(acc, text)
		}
	}
	flush()

	return sections
}
