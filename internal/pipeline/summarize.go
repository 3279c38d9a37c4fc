package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/completion"
	"github.com/meridian-research/memogen/internal/model"
)

// summaryPlaceholderPrefix marks a bullet that stands in for a failed
// section summary.
const summaryPlaceholderPrefix = "Summary unavailable:"

// Usage accumulates completion token counts across calls.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Add folds one completion result into the totals.
func (u *Usage) Add(res *completion.Result) {
	if res == nil {
		return
	}
	u.PromptTokens += res.PromptTokens
	u.CompletionTokens += res.CompletionTokens
}

// SummarizeSections produces bullet summaries for every section in order.
// A failed section yields a single placeholder bullet; one section's
// failure never aborts the batch.
func SummarizeSections(ctx context.Context, c completion.Completer, sections *model.SectionMap) ([]model.SectionSummary, Usage) {
	var usage Usage
	summaries := make([]model.SectionSummary, 0, sections.Len())
	for _, title := range sections.Keys() {
		content, _ := sections.Get(title)

		bullets, err := summarizeSection(ctx, c, title, content, &usage)
		if err != nil {
			zap.L().Warn("pipeline: section summary failed",
				zap.String("section", title), zap.Error(err))
			bullets = []string{fmt.Sprintf("%s %v", summaryPlaceholderPrefix, err)}
		}
		summaries = append(summaries, model.SectionSummary{Title: title, Bullets: bullets})
	}
	return summaries, usage
}

func summarizeSection(ctx context.Context, c completion.Completer, title, content string, usage *Usage) ([]string, error) {
	res, err := c.Complete(ctx, SummaryPrompt(title, content))
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: summarize %q", title)
	}
	usage.Add(res)

	bullets := ParseBullets(res.Text)
	if len(bullets) == 0 {
		return nil, eris.Errorf("pipeline: summarize %q: empty response", title)
	}
	return bullets, nil
}

// placeholderCount reports how many sections fell back to a placeholder
// bullet.
func placeholderCount(summaries []model.SectionSummary) int {
	var n int
	for _, s := range summaries {
		if len(s.Bullets) == 1 && strings.HasPrefix(s.Bullets[0], summaryPlaceholderPrefix) {
			n++
		}
	}
	return n
}

// ParseBullets cleans a bullet-list completion into bare sentences:
// markdown glyphs removed, leading bullet and dash markers stripped, blank
// lines dropped.
func ParseBullets(text string) []string {
	cleaned := strings.NewReplacer("**", "", "###", "", "##", "", "#", "").Replace(text)

	var bullets []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "•*- "))
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}
