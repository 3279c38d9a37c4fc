// Package infographic renders section summaries into a standalone Tailwind
// HTML page, one card per memo section.
package infographic

import (
	"html/template"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/meridian-research/memogen/internal/model"
)

// Card styling cycles through ten icon and color pairings, repeating when a
// memo has more than ten sections.
var cardMeta = []struct {
	icon, border, bg string
}{
	{"💼", "border-blue-600", "bg-blue-50"},
	{"🏢", "border-sky-600", "bg-sky-50"},
	{"🌐", "border-indigo-600", "bg-indigo-50"},
	{"🧩", "border-purple-600", "bg-purple-50"},
	{"📊", "border-green-600", "bg-green-50"},
	{"📈", "border-emerald-600", "bg-emerald-50"},
	{"👥", "border-yellow-600", "bg-yellow-50"},
	{"⚠️", "border-red-600", "bg-red-50"},
	{"💡", "border-pink-600", "bg-pink-50"},
	{"🧠", "border-gray-600", "bg-gray-50"},
}

type card struct {
	Title   string
	Icon    string
	Border  string
	Bg      string
	Bullets []string
}

type page struct {
	Company string
	Cards   []card
}

var pageTemplate = template.Must(template.New("infographic").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
    <title>{{.Company}} – Infographic</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap" rel="stylesheet">
    <style>
        body { font-family: 'Inter', sans-serif; background-color: #f9fafb; color: #1f2937; }
        .section-icon { font-size: 1.4rem; margin-right: 0.6rem; }
    </style>
</head>
<body class="px-4 py-8 md:px-6 md:py-10 max-w-7xl mx-auto">
    <header class="text-center mb-12">
        <h1 class="text-3xl md:text-4xl font-bold text-gray-800 mb-2">{{.Company}} – Investment Memo Infographic</h1>
    </header>
    <main class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-6">
{{- range .Cards}}
        <div class="shadow-lg rounded-xl p-5 transition-transform hover:scale-[1.02] duration-300 ease-in-out border-l-4 {{.Border}} {{.Bg}}">
            <h2 class="text-lg font-semibold text-gray-800 mb-3 flex items-center">
                <span class="section-icon">{{.Icon}}</span>{{.Title}}
            </h2>
            <ul class="list-disc text-sm text-gray-700 space-y-2 pl-5 leading-relaxed">
{{- range .Bullets}}
                <li>{{.}}</li>
{{- end}}
            </ul>
        </div>
{{- end}}
    </main>
    <footer class="text-center mt-12">
        <p class="text-xs text-gray-400">This document is for informational purposes only. Not investment advice.</p>
    </footer>
</body>
</html>
`

// Render writes the assembled infographic page to w.
func Render(w io.Writer, company string, summaries []model.SectionSummary) error {
	p := page{Company: company, Cards: make([]card, 0, len(summaries))}
	for i, s := range summaries {
		m := cardMeta[i%len(cardMeta)]
		p.Cards = append(p.Cards, card{
			Title:   s.Title,
			Icon:    m.icon,
			Border:  m.border,
			Bg:      m.bg,
			Bullets: s.Bullets,
		})
	}
	return eris.Wrap(pageTemplate.Execute(w, p), "infographic: render page")
}

// FileName returns the artifact name for an infographic, with path-unsafe
// runes replaced.
func FileName(company string) string {
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(company + "_Infographic.html")
}
