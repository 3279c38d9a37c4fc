package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-research/memogen/internal/docx"
	"github.com/meridian-research/memogen/internal/model"
)

func TestWalk_Basic(t *testing.T) {
	t.Parallel()

	paras := []string{
		"Globex – Mergers & Acquisitions Investment Memo",
		"Deal Summary",
		"Acme acquires Globex.",
		"All-cash consideration.",
		"Target Company Analysis",
		"Discount to offer price.",
	}

	got := Walk(paras, maOutline())

	assert.Equal(t, []string{"Deal Summary", "Target Company Analysis"}, got.Keys())
	assert.Equal(t, "Acme acquires Globex.\nAll-cash consideration.", mustGet(t, got, "Deal Summary"))
	assert.Equal(t, "Discount to offer price.", mustGet(t, got, "Target Company Analysis"))
}

func TestWalk_CaseInsensitiveHeadings(t *testing.T) {
	t.Parallel()

	got := Walk([]string{"DEAL SUMMARY", "body"}, maOutline())

	assert.Equal(t, []string{"Deal Summary"}, got.Keys())
	assert.Equal(t, "body", mustGet(t, got, "Deal Summary"))
}

func TestWalk_HeadingWithoutContentDropped(t *testing.T) {
	t.Parallel()

	paras := []string{"Deal Summary", "Target Company Analysis", "only this one has content"}

	got := Walk(paras, maOutline())

	assert.Equal(t, []string{"Target Company Analysis"}, got.Keys())
}

func TestWalk_EmptyOutline(t *testing.T) {
	t.Parallel()

	got := Walk([]string{"Deal Summary", "body"}, model.Outline{})

	assert.Equal(t, 0, got.Len())
}

func TestWalk_BlankParagraphsSkipped(t *testing.T) {
	t.Parallel()

	got := Walk([]string{"Deal Summary", "   ", "body", ""}, maOutline())

	assert.Equal(t, "body", mustGet(t, got, "Deal Summary"))
}

func TestWalk_HeadingInsideSentenceIsContent(t *testing.T) {
	t.Parallel()

	got := Walk([]string{"Deal Summary", "the Deal Summary section explains terms"}, maOutline())

	assert.Equal(t, []string{"Deal Summary"}, got.Keys())
	assert.Equal(t, "the Deal Summary section explains terms", mustGet(t, got, "Deal Summary"))
}

func TestWalk_RenderRoundTrip(t *testing.T) {
	t.Parallel()

	outline := maOutline()
	want := model.NewSectionMap()
	want.Set("Deal Summary", "Acme acquires Globex for $12 per share.")
	want.Set("Target Company Analysis", "Shares trade 4% below the offer.")
	want.Set("Spread Analysis and Arbitrage Opportunity", "Annualized spread near 11%.")

	var buf bytes.Buffer
	require.NoError(t, docx.Render(&buf, "Globex", "Mergers & Acquisitions", want))

	paras, err := docx.Paragraphs(buf.Bytes())
	require.NoError(t, err)

	got := Walk(paras, outline)

	assert.Equal(t, want.Keys(), got.Keys())
	for _, key := range want.Keys() {
		assert.Equal(t, mustGet(t, want, key), mustGet(t, got, key))
	}
}
