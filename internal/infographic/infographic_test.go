package infographic

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-research/memogen/internal/model"
)

func render(t *testing.T, company string, summaries []model.SectionSummary) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, company, summaries))
	return buf.String()
}

func TestRender_PageChrome(t *testing.T) {
	t.Parallel()

	html := render(t, "Acme Corp", []model.SectionSummary{
		{Title: "Executive Summary", Bullets: []string{"Spin-off unlocks value.", "Catalysts within 12 months."}},
	})

	assert.Contains(t, html, "<title>Acme Corp – Infographic</title>")
	assert.Contains(t, html, "Acme Corp – Investment Memo Infographic")
	assert.Contains(t, html, `<script src="https://cdn.tailwindcss.com"></script>`)
	assert.Contains(t, html, "fonts.googleapis.com/css2?family=Inter")
	assert.Contains(t, html, "This document is for informational purposes only. Not investment advice.")
}

func TestRender_CardContent(t *testing.T) {
	t.Parallel()

	html := render(t, "Acme Corp", []model.SectionSummary{
		{Title: "Executive Summary", Bullets: []string{"First point.", "Second point."}},
	})

	assert.Contains(t, html, "border-l-4 border-blue-600 bg-blue-50")
	assert.Contains(t, html, `<span class="section-icon">💼</span>Executive Summary`)
	assert.Contains(t, html, "<li>First point.</li>")
	assert.Contains(t, html, "<li>Second point.</li>")
}

func TestRender_PaletteCycles(t *testing.T) {
	t.Parallel()

	summaries := make([]model.SectionSummary, 11)
	for i := range summaries {
		summaries[i] = model.SectionSummary{
			Title:   fmt.Sprintf("Section %d", i+1),
			Bullets: []string{"Point."},
		}
	}
	html := render(t, "Acme Corp", summaries)

	// Sections 1 and 11 share the first palette entry.
	assert.Equal(t, 2, strings.Count(html, "border-blue-600"))
	assert.Equal(t, 1, strings.Count(html, "border-sky-600"))
	assert.Equal(t, 1, strings.Count(html, "border-gray-600"))
}

func TestRender_EscapesContent(t *testing.T) {
	t.Parallel()

	html := render(t, "Acme & Sons", []model.SectionSummary{
		{Title: "M&A Outlook", Bullets: []string{`Upside <b>large</b> & "material".`}},
	})

	assert.Contains(t, html, "Acme &amp; Sons – Investment Memo Infographic")
	assert.Contains(t, html, "M&amp;A Outlook")
	assert.Contains(t, html, "&lt;b&gt;large&lt;/b&gt;")
	assert.NotContains(t, html, "<b>large</b>")
}

func TestRender_NoSections(t *testing.T) {
	t.Parallel()

	html := render(t, "Acme Corp", nil)

	assert.Contains(t, html, "Acme Corp – Investment Memo Infographic")
	assert.NotContains(t, html, "<li>")
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme Corp_Infographic.html", FileName("Acme Corp"))
	assert.Equal(t, "Acme-Corp_Infographic.html", FileName("Acme/Corp"))
	assert.Equal(t, "A-B-C_Infographic.html", FileName(`A/B:C`))
}
