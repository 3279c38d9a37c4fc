package pipeline

import (
	"regexp"
	"strings"
)

// Normalization steps run in a fixed order; later patterns assume earlier
// ones already collapsed.
var (
	reHorizontalRule = regexp.MustCompile(`(?m)^[ \t]*(?:[-*][ \t]*){3,}$`)
	reHeading        = regexp.MustCompile(`#+\s*`)
	reBold           = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic         = regexp.MustCompile(`\*(.*?)\*`)
	reCode           = regexp.MustCompile("`{1,3}(.*?)`{1,3}")
	reImage          = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	reLink           = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	reBlankRuns      = regexp.MustCompile(`\n{3,}`)
	reListMarker     = regexp.MustCompile(`(?m)^- `)
)

// Normalize strips generative-model markdown artifacts into plain text:
// horizontal rules, heading markers, emphasis, code markers, images, links,
// excess blank lines, and list markers. Pure and total; any input yields a
// usable string.
func Normalize(text string) string {
	text = reHorizontalRule.ReplaceAllString(text, "")
	text = reHeading.ReplaceAllString(text, "")
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reCode.ReplaceAllString(text, "$1")
	text = reImage.ReplaceAllString(text, "")
	text = reLink.ReplaceAllString(text, "$1")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	text = reListMarker.ReplaceAllString(text, "• ")
	return strings.TrimSpace(text)
}
