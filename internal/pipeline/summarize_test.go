package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meridian-research/memogen/internal/completion"
	"github.com/meridian-research/memogen/internal/model"
)

func promptFor(title string) any {
	return mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `section titled "`+title+`"`)
	})
}

func TestSummarizeSections_OrderAndUsage(t *testing.T) {
	t.Parallel()

	sections := model.NewSectionMap()
	sections.Set("Transaction Overview", "ParentCo will distribute SpinCo shares.")
	sections.Set("Risks and Overhangs", "Forced selling is likely early on.")

	comp := &mockCompleter{}
	comp.On("Complete", mock.Anything, promptFor("Transaction Overview")).Return(&completion.Result{
		Text:             "- Tax-free distribution\n- One share per share held",
		PromptTokens:     5,
		CompletionTokens: 7,
	}, nil)
	comp.On("Complete", mock.Anything, promptFor("Risks and Overhangs")).Return(&completion.Result{
		Text:             "- Forced selling pressure",
		PromptTokens:     5,
		CompletionTokens: 7,
	}, nil)

	summaries, usage := SummarizeSections(context.Background(), comp, sections)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Transaction Overview", summaries[0].Title)
	assert.Equal(t, []string{"Tax-free distribution", "One share per share held"}, summaries[0].Bullets)
	assert.Equal(t, "Risks and Overhangs", summaries[1].Title)

	assert.Equal(t, 10, usage.PromptTokens)
	assert.Equal(t, 14, usage.CompletionTokens)
	assert.Zero(t, placeholderCount(summaries))
}

func TestSummarizeSections_FailureYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	sections := model.NewSectionMap()
	sections.Set("Transaction Overview", "ParentCo will distribute SpinCo shares.")
	sections.Set("Risks and Overhangs", "Forced selling is likely early on.")

	comp := &mockCompleter{}
	comp.On("Complete", mock.Anything, promptFor("Transaction Overview")).Return(nil, eris.New("model overloaded"))
	comp.On("Complete", mock.Anything, promptFor("Risks and Overhangs")).Return(&completion.Result{
		Text: "- Forced selling pressure",
	}, nil)

	summaries, _ := SummarizeSections(context.Background(), comp, sections)
	require.Len(t, summaries, 2)

	require.Len(t, summaries[0].Bullets, 1)
	assert.True(t, strings.HasPrefix(summaries[0].Bullets[0], "Summary unavailable:"))
	assert.Contains(t, summaries[0].Bullets[0], "model overloaded")

	assert.Equal(t, []string{"Forced selling pressure"}, summaries[1].Bullets)
	assert.Equal(t, 1, placeholderCount(summaries))
}

func TestSummarizeSections_EmptyResponseYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	sections := model.NewSectionMap()
	sections.Set("Transaction Overview", "ParentCo will distribute SpinCo shares.")

	comp := &mockCompleter{}
	comp.On("Complete", mock.Anything, mock.Anything).Return(&completion.Result{Text: "  \n  "}, nil)

	summaries, _ := SummarizeSections(context.Background(), comp, sections)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, placeholderCount(summaries))
	assert.Contains(t, summaries[0].Bullets[0], "empty response")
}

func TestParseBullets(t *testing.T) {
	t.Parallel()

	bullets := ParseBullets("• **Strong** start\n- Second point\n\n* Third point\n### Fourth header\n   ")
	assert.Equal(t, []string{"Strong start", "Second point", "Third point", "Fourth header"}, bullets)
}

func TestParseBullets_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseBullets(""))
	assert.Empty(t, ParseBullets("  \n\n  "))
}
