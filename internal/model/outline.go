package model

import "strings"

// OutlineSection is one section of a memo outline: a title line, optionally
// carrying a parenthetical annotation, plus hint lines that guide the draft
// but never act as section boundaries.
type OutlineSection struct {
	Title string   `json:"title" yaml:"title"`
	Hints []string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Outline is the ordered section structure for one situation type.
type Outline struct {
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}

// CanonicalTitle strips a parenthetical annotation from a title line:
// "Buyback Analysis (if applicable)" becomes "Buyback Analysis".
func CanonicalTitle(raw string) string {
	if idx := strings.Index(raw, "("); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// Titles returns the canonical section titles in outline order.
func (o Outline) Titles() []string {
	titles := make([]string, 0, len(o.Sections))
	for _, s := range o.Sections {
		titles = append(titles, CanonicalTitle(s.Title))
	}
	return titles
}

// Structure renders the prompt-facing outline text: each title line followed
// by its hint lines, annotations preserved.
func (o Outline) Structure() string {
	var b strings.Builder
	for _, s := range o.Sections {
		b.WriteString(s.Title)
		b.WriteString("\n")
		for _, h := range s.Hints {
			b.WriteString(h)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
