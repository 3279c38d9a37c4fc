package pipeline

import (
	"fmt"
	"strings"

	"github.com/meridian-research/memogen/internal/model"
)

// Valuation sub-prompt modes for spin-off memos.
const (
	ValuationTickers  = "tickers"
	ValuationAuto     = "auto"
	ValuationResolved = "resolved"
	ValuationNone     = "none"
)

const memoPromptTemplate = `
You are an institutional investment analyst writing a professional memo on a special situation involving %s.
The situation is: **%s**

Below is the internal company information extracted from various files:
"""%s"""

%s

Using the structure below, generate a well-written investment memo. Be factual, insightful, and clear.
Structure:
%s
`

const tickerValuationTemplate = `
# Valuation Analysis
The user has provided the following peer tickers:
- ParentCo Peers: %s
- SpinCo Peers: %s

Please fetch or approximate public LTM EV/EBITDA and P/E multiples for these peers.
Then apply these multiples to the extracted LTM financials of ParentCo and SpinCo to estimate standalone valuations.
Compare the sum of these to the pre-spin ParentCo's market cap to estimate the value unlock potential.
`

const autoValuationPrompt = `
# Valuation Analysis
Based on the business descriptions of ParentCo and SpinCo, identify 3–5 appropriate public peer companies for each.
Then, estimate their LTM EV/EBITDA and P/E multiples, apply them to the extracted financials of ParentCo and SpinCo,
and compute implied valuations. Finally, compare the combined value to the pre-spin ParentCo market cap and indicate
the potential value unlock.
`

const resolvedValuationTemplate = `
# Valuation Analysis
Peer multiples and fundamentals were resolved from live market data:
- Peer EV/EBITDA multiples: %s
- Average peer EV/EBITDA multiple: %.1fx
- Market capitalization: %s
- Net debt: %s
- Trailing EBITDA: %s
- Implied enterprise value: %s
- Implied equity value: %s
- Implied upside versus current market cap: %s

Write the Valuation Analysis section from these figures. Explain the peer-multiple method,
note any peers that could not be resolved, and qualify the estimate appropriately.
`

const summaryPromptTemplate = `
You are an institutional research analyst preparing a financial infographic.
Summarize the section titled "%s" into 3 to 5 concise bullet points.
Each point should be a single sentence, highlighting key insights clearly and professionally.
Section:
"""%s"""
`

// MemoInput carries everything the memo prompt embeds.
type MemoInput struct {
	Company        string
	Situation      model.SituationType
	Outline        model.Outline
	Corpus         string
	Mode           string
	ParentPeers    []string
	SpincoPeers    []string
	Valuation      *Summary
	MaxCorpusChars int
}

// MemoPrompt assembles the single completion request for memo generation.
// The corpus is truncated to MaxCorpusChars runes; prompt instructions are
// never truncated.
func MemoPrompt(in MemoInput) string {
	return fmt.Sprintf(memoPromptTemplate,
		in.Company,
		in.Situation.Label(),
		truncateRunes(in.Corpus, in.MaxCorpusChars),
		valuationSection(in),
		in.Outline.Structure(),
	)
}

// SummaryPrompt assembles the per-section summarization request for the
// infographic.
func SummaryPrompt(title, content string) string {
	return fmt.Sprintf(summaryPromptTemplate, title, content)
}

func valuationSection(in MemoInput) string {
	if !in.Situation.SupportsValuation() {
		return ""
	}
	switch in.Mode {
	case ValuationTickers:
		return fmt.Sprintf(tickerValuationTemplate,
			strings.Join(in.ParentPeers, ", "),
			strings.Join(in.SpincoPeers, ", "),
		)
	case ValuationAuto:
		return autoValuationPrompt
	case ValuationResolved:
		if in.Valuation == nil {
			return ""
		}
		return resolvedSection(in.Valuation)
	default:
		return ""
	}
}

func resolvedSection(s *Summary) string {
	var resolved []string
	var unresolved []string
	for _, p := range s.Peers {
		if p.Resolved {
			resolved = append(resolved, fmt.Sprintf("%s %.1fx", p.Symbol, p.Multiple))
		} else {
			unresolved = append(unresolved, p.Peer)
		}
	}

	peerLine := strings.Join(resolved, ", ")
	if peerLine == "" {
		peerLine = "none resolved"
	}
	if len(unresolved) > 0 {
		peerLine += fmt.Sprintf(" (unresolved: %s)", strings.Join(unresolved, ", "))
	}

	return fmt.Sprintf(resolvedValuationTemplate,
		peerLine,
		s.AverageMultiple,
		millions(s.MarketCap),
		millions(s.NetDebt),
		millions(s.TrailingEBITDA),
		millions(s.ImpliedEV),
		millions(s.ImpliedEquity),
		s.UpsideString(),
	)
}

func millions(v float64) string {
	return fmt.Sprintf("$%.0fM", v/1e6)
}

// truncateRunes cuts s to at most limit runes. A non-positive limit
// disables truncation.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
