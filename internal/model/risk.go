package model

import "fmt"

// RiskAssessment is the deterministic legal/financial assessment derived
// from a ScanResult. It is stateless and recomputable at any time; callers
// that want persistence store it alongside the scan it was derived from.
type RiskAssessment struct {
	// CleanSite is true when the assessment took the zero-violation branch.
	CleanSite bool `json:"clean_site"`

	// FinancialExposure is the severity-weighted exposure range.
	FinancialExposure FinancialExposure `json:"financial_exposure"`

	// SettlementBreakdown itemizes the likely settlement costs.
	// Nil for clean sites; the breakdown only exists when there is
	// something to settle.
	SettlementBreakdown *SettlementBreakdown `json:"settlement_breakdown"`

	// LawsuitProbability is the synthetic 0-95 probability heuristic.
	LawsuitProbability LawsuitProbability `json:"lawsuit_probability"`

	// Urgency is the recommended response tier.
	Urgency Urgency `json:"urgency"`

	// ComplianceStatus summarizes the overall compliance posture.
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
}

// FinancialExposure is a min/max dollar range.
type FinancialExposure struct {
	// Min is the low end of the exposure estimate in dollars.
	Min float64 `json:"min_amount"`

	// Max is the high end of the exposure estimate in dollars.
	Max float64 `json:"max_amount"`

	// FormattedRange is the display form, e.g. "$18,000 - $40,000".
	FormattedRange string `json:"formatted_range"`
}

// SettlementBreakdown itemizes the components of a likely settlement.
// The attorney and compliance figures are fixed multiples of the settlement
// amount; TotalExposure is the sum of all three.
type SettlementBreakdown struct {
	// SettlementAmount is the likely settlement for a comparable business.
	SettlementAmount float64 `json:"settlement_amount"`

	// AttorneyFees covers legal fees and court costs.
	AttorneyFees float64 `json:"attorney_fees"`

	// ComplianceCosts covers remediation and ongoing compliance work.
	ComplianceCosts float64 `json:"compliance_costs"`

	// TotalExposure is SettlementAmount + AttorneyFees + ComplianceCosts.
	TotalExposure float64 `json:"total_exposure"`
}

// LawsuitProbability is a heuristic percentage, not a calibrated estimate.
type LawsuitProbability struct {
	// Percentage is the 0-95 heuristic probability, rounded.
	Percentage int `json:"percentage"`

	// RiskLevel buckets the percentage: NONE, LOW, MODERATE, HIGH, EXTREME.
	RiskLevel string `json:"risk_level"`

	// Description is a one-line explanation of the level.
	Description string `json:"description"`
}

// Urgency is the recommended response tier.
type Urgency struct {
	// Level is one of NONE, LOW, MEDIUM, HIGH, CRITICAL.
	Level string `json:"level"`

	// RecommendedAction describes what the site owner should do.
	RecommendedAction string `json:"recommended_action"`

	// Timeline is the suggested remediation window, e.g. "30 days".
	Timeline string `json:"timeline"`
}

// ComplianceStatus summarizes the compliance posture of the scanned site.
type ComplianceStatus struct {
	// ADACompliant is true only when the scan found zero violations.
	ADACompliant bool `json:"ada_compliant"`

	// WCAGLevel is "AA" when violations stay under the passing threshold,
	// otherwise "Fails".
	WCAGLevel string `json:"wcag_level"`

	// RiskCategory bands the violation count: Compliant, Minor Issues,
	// Moderate Risk, High Risk, Critical Risk.
	RiskCategory string `json:"risk_category"`
}

// SettlementPrecedent is a reference data point shown in reports to give
// the dollar figures context. These are static, not computed.
type SettlementPrecedent struct {
	// Company describes the defendant.
	Company string `json:"company"`

	// Settlement is the settlement amount or range.
	Settlement string `json:"settlement"`

	// Year is when the case settled.
	Year string `json:"year"`

	// Description gives one line of context.
	Description string `json:"description"`
}

// FormatDollars renders a dollar amount with thousands separators and no
// cents, e.g. 1234567 -> "$1,234,567".
func FormatDollars(amount float64) string {
	n := int64(amount + 0.5)
	neg := n < 0
	if neg {
		n = -n
	}

	s := fmt.Sprintf("%d", n)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	if neg {
		return "-$" + string(out)
	}
	return "$" + string(out)
}

// FormatDollarRange renders a min/max pair, collapsing equal bounds.
func FormatDollarRange(minAmount, maxAmount float64) string {
	if minAmount == maxAmount {
		return FormatDollars(minAmount)
	}
	return FormatDollars(minAmount) + " - " + FormatDollars(maxAmount)
}
