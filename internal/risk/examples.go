package risk

import "github.com/a11yscan/a11yscan/internal/model"

// SettlementPrecedents are publicized ADA web-accessibility outcomes
// included in reports for context. Amounts are the publicly reported
// settlement or damages figures, not including defense costs.
var SettlementPrecedents = []model.SettlementPrecedent{
	{
		Company:     "Domino's Pizza",
		Settlement:  "Undisclosed (est. $4M+ in legal costs)",
		Year:        "2022",
		Description: "Blind customer could not order through the website or app; the Supreme Court declined to hear the appeal, cementing that the ADA covers websites.",
	},
	{
		Company:     "Winn-Dixie",
		Settlement:  "$250,000 remediation order",
		Year:        "2017",
		Description: "First trial verdict holding a grocery chain's website to ADA standards; ordered to adopt WCAG 2.0 and fund remediation.",
	},
	{
		Company:     "Target",
		Settlement:  "$6,000,000",
		Year:        "2008",
		Description: "Class action over an inaccessible e-commerce site; settlement plus roughly $3.7M in plaintiff attorney fees.",
	},
	{
		Company:     "H&R Block",
		Settlement:  "$100,000 plus compliance program",
		Year:        "2014",
		Description: "DOJ consent decree requiring WCAG 2.0 AA conformance across web and mobile tax products.",
	},
}
