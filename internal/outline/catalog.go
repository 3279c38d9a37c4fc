package outline

import "github.com/meridian-research/memogen/internal/model"

// builtins holds the memo outline for each supported situation type. Title
// lines may carry parenthetical annotations; hint lines steer the draft but
// are never treated as section boundaries.
var builtins = map[model.SituationType]model.Outline{
	model.SituationSpinOff: {Sections: []model.OutlineSection{
		{Title: "Transaction Overview", Hints: []string{
			"ParentCo and SpinCo details",
			"Rationale (regulatory, strategic unlock, valuation arbitrage)",
			"Distribution terms (ratio, eligibility, tax treatment)",
		}},
		{Title: "ParentCo Post-Spin Outlook", Hints: []string{
			"Strategic focus",
			"Financial profile and valuation",
		}},
		{Title: "SpinCo Investment Case", Hints: []string{
			"Business model, growth drivers",
			"Historical and pro forma financials",
			"Independent valuation (e.g., Sum-of-the-Parts)",
		}},
		{Title: "Valuation Analysis"},
		{Title: "Risks and Overhangs", Hints: []string{
			"Forced selling, low float, governance concerns",
		}},
	}},

	model.SituationMA: {Sections: []model.OutlineSection{
		{Title: "Deal Summary", Hints: []string{
			"Parties involved, consideration (cash/stock), premium",
			"Regulatory/antitrust/board approval status",
		}},
		{Title: "Target Company Analysis", Hints: []string{
			"Valuation vs. offer",
			"Control premium vs. peers",
		}},
		{Title: "Buyer's Rationale and Financing", Hints: []string{
			"Strategic fit",
			"Synergies and pro forma financials",
			"Deal financing (debt, equity)",
		}},
		{Title: "Shareholder Vote & Antitrust Risk", Hints: []string{
			"Key holders' stance",
			"Timing and likelihood of deal closure",
		}},
		{Title: "Spread Analysis and Arbitrage Opportunity", Hints: []string{
			"Deal spread",
			"IRR scenarios based on timing/risk",
		}},
	}},

	model.SituationRestructuring: {Sections: []model.OutlineSection{
		{Title: "Situation Summary", Hints: []string{
			"Cause of distress",
			"Filing date, jurisdiction, DIP terms",
		}},
		{Title: "Capital Structure Analysis", Hints: []string{
			"Pre- and post-reorg structure",
			"Seniority waterfall",
			"Creditor classes and recovery potential",
		}},
		{Title: "Valuation and Recovery Scenarios", Hints: []string{
			"Estimated Enterprise Value",
			"Recovery per instrument (bonds, equity, unsecured)",
		}},
		{Title: "Reorganization Plan and Exit Timeline", Hints: []string{
			"Conversion to equity, rights offering, warrants",
			"Exit multiples",
		}},
		{Title: "Catalysts and Legal Risks", Hints: []string{
			"Judge approval, creditor objections, asset sales",
		}},
	}},

	model.SituationActivist: {Sections: []model.OutlineSection{
		{Title: "Activist Background", Hints: []string{
			"Fund profile, history, prior campaigns",
		}},
		{Title: "Campaign Details", Hints: []string{
			"Demands (board seat, spin, buyback, etc.)",
			"Timeline of engagement",
		}},
		{Title: "Company's Response and Governance Profile", Hints: []string{
			"Management alignment, shareholder defense",
		}},
		{Title: "Scenario Analysis", Hints: []string{
			"Status quo vs. activist success",
			"Proxy fight implications",
		}},
		{Title: "Valuation Impact", Hints: []string{
			"NPV of potential changes (e.g., spin-off value, ROIC uplift)",
		}},
	}},

	model.SituationRegulatory: {Sections: []model.OutlineSection{
		{Title: "Legal/Regulatory Background", Hints: []string{
			"Case/issue summary",
			"Historical legal proceedings",
		}},
		{Title: "Outcome Scenarios", Hints: []string{
			"Win, loss, settlement",
			"Timeline",
		}},
		{Title: "Financial and Strategic Implications", Hints: []string{
			"Fines, product approval, license loss",
			"Revenue/EBITDA impact",
		}},
		{Title: "Market Reaction History (if any)", Hints: []string{
			"Past similar cases",
		}},
	}},

	model.SituationAssetSale: {Sections: []model.OutlineSection{
		{Title: "Transaction Overview", Hints: []string{
			"Buyer, price, structure",
			"Valuation vs. book and peers",
		}},
		{Title: "Strategic Impact", Hints: []string{
			"Focus shift, deleveraging, margin profile",
		}},
		{Title: "Use of Proceeds", Hints: []string{
			"Debt repayment, dividends, buybacks, capex",
		}},
		{Title: "Re-rating Potential", Hints: []string{
			"EBITDA margin uplift, return metrics",
		}},
	}},

	model.SituationCapitalRaise: {Sections: []model.OutlineSection{
		{Title: "Transaction Mechanics", Hints: []string{
			"Size, dilution, instrument type",
		}},
		{Title: "Capital Structure Post-Deal", Hints: []string{
			"Leverage ratios, interest burden",
		}},
		{Title: "Shareholder Implications", Hints: []string{
			"Accretion/dilution",
			"EPS impact",
		}},
		{Title: "Buyback Analysis (if applicable)", Hints: []string{
			"Repurchase pace, valuation support",
		}},
	}},
}
