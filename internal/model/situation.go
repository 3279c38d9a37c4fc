package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// SituationType identifies the special-situation category a memo covers.
type SituationType string

const (
	SituationSpinOff       SituationType = "spinoff"
	SituationMA            SituationType = "ma"
	SituationRestructuring SituationType = "restructuring"
	SituationActivist      SituationType = "activist"
	SituationRegulatory    SituationType = "regulatory"
	SituationAssetSale     SituationType = "asset_sale"
	SituationCapitalRaise  SituationType = "capital_raise"
)

var situationLabels = map[SituationType]string{
	SituationSpinOff:       "Spin-Off or Split-Up",
	SituationMA:            "Mergers & Acquisitions",
	SituationRestructuring: "Bankruptcy / Distressed / Restructuring",
	SituationActivist:      "Activist Campaign",
	SituationRegulatory:    "Regulatory or Legal Catalyst",
	SituationAssetSale:     "Asset Sales or Carve-Outs",
	SituationCapitalRaise:  "Capital Raising or Buyback Catalyst",
}

// AllSituations returns the supported situation types in display order.
func AllSituations() []SituationType {
	return []SituationType{
		SituationSpinOff,
		SituationMA,
		SituationRestructuring,
		SituationActivist,
		SituationRegulatory,
		SituationAssetSale,
		SituationCapitalRaise,
	}
}

// Label returns the human-readable name used in prompts and artifacts.
func (s SituationType) Label() string {
	if label, ok := situationLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known situation type.
func (s SituationType) Valid() bool {
	_, ok := situationLabels[s]
	return ok
}

// SupportsValuation reports whether memos for this situation type carry a
// peer-multiple valuation module.
func (s SituationType) SupportsValuation() bool {
	return s == SituationSpinOff
}

// ParseSituation resolves a user-supplied value to a SituationType. It
// accepts the short identifier ("ma") or the full label ("Mergers &
// Acquisitions"), case-insensitively.
func ParseSituation(raw string) (SituationType, error) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for st, label := range situationLabels {
		if needle == string(st) || needle == strings.ToLower(label) {
			return st, nil
		}
	}
	ids := make([]string, 0, len(situationLabels))
	for _, st := range AllSituations() {
		ids = append(ids, string(st))
	}
	return "", eris.Errorf("model: unknown situation type %q (expected one of: %s)", raw, strings.Join(ids, ", "))
}
