package risk

import (
	"math"

	"github.com/a11yscan/a11yscan/internal/config"
	"github.com/a11yscan/a11yscan/internal/model"
)

// Urgency level constants.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
	UrgencyLow      = "LOW"
	UrgencyNone     = "NONE"
)

// Lawsuit probability risk level constants.
const (
	RiskLevelExtreme  = "EXTREME"
	RiskLevelHigh     = "HIGH"
	RiskLevelModerate = "MODERATE"
	RiskLevelLow      = "LOW"
)

// Engine computes risk assessments from scan results.
//
// Design decision: The engine is a pure function of its inputs because:
//  1. Identical scans must produce identical assessments
//  2. Determinism makes the formulas testable without fixtures
//  3. Callers can re-run assessments on stored results at any time
type Engine struct {
	// tuning holds the cost bands, multipliers, and caps behind every
	// formula. Never mutated after construction.
	tuning config.RiskTuning
}

// NewEngine creates an Engine with the given tuning tables.
func NewEngine(tuning config.RiskTuning) *Engine {
	return &Engine{tuning: tuning}
}

// Assess produces a risk assessment for a scan result. It never fails:
// a nil result yields a conservative fallback assessment so downstream
// reporting always has something to show.
func (e *Engine) Assess(result *model.ScanResult) *model.RiskAssessment {
	if result == nil {
		return e.fallbackAssessment()
	}

	total := result.TotalViolations
	if total == 0 {
		return e.cleanAssessment()
	}

	exposure := e.financialExposure(result)
	settlement := e.settlementBreakdown(total)
	probability := e.lawsuitProbability(total, result.PagesScanned)
	urgency := e.urgency(total, probability.Percentage)

	return &model.RiskAssessment{
		FinancialExposure:   exposure,
		SettlementBreakdown: settlement,
		LawsuitProbability:  probability,
		Urgency:             urgency,
		ComplianceStatus:    e.complianceStatus(total),
	}
}

// financialExposure estimates the total cost range of the violations.
//
// Each severity tier contributes its cost band times a diminishing-returns
// multiplier: the first incidents of a class carry full legal weight,
// repeats beyond the threshold carry half. A fixed litigation cost floor
// is added to both ends since defending even a small claim is not free.
func (e *Engine) financialExposure(result *model.ScanResult) model.FinancialExposure {
	var minExposure, maxExposure float64

	for _, severity := range model.Severities {
		count := result.SeverityCount(severity)
		if count == 0 {
			continue
		}
		band, ok := e.tuning.CostBands[severity.String()]
		if !ok {
			continue
		}

		multiplier := e.diminishingMultiplier(count)
		minExposure += band.Min * multiplier
		maxExposure += band.Max * multiplier
	}

	minExposure += e.tuning.BaseLitigationCost
	maxExposure += e.tuning.BaseLitigationCost

	minExposure = math.Round(minExposure)
	maxExposure = math.Round(maxExposure)

	return model.FinancialExposure{
		Min:            minExposure,
		Max:            maxExposure,
		FormattedRange: model.FormatDollarRange(minExposure, maxExposure),
	}
}

// diminishingMultiplier weights an incident count so that repeats beyond
// the threshold count at the diminishing factor.
func (e *Engine) diminishingMultiplier(count int) float64 {
	threshold := e.tuning.DiminishingThreshold
	full := math.Min(float64(count), float64(threshold))
	excess := math.Max(0, float64(count-threshold))
	return full + excess*e.tuning.DiminishingFactor
}

// settlementBreakdown computes the tiered settlement estimate and its
// derived attorney and compliance costs.
func (e *Engine) settlementBreakdown(totalViolations int) *model.SettlementBreakdown {
	settlement := e.settlementAmount(totalViolations)
	attorney := settlement * e.tuning.AttorneyFeeMultiplier
	compliance := settlement * e.tuning.ComplianceCostMultiplier

	return &model.SettlementBreakdown{
		SettlementAmount: settlement,
		AttorneyFees:     attorney,
		ComplianceCosts:  compliance,
		TotalExposure:    settlement + attorney + compliance,
	}
}

// settlementAmount applies the violation-count-tiered settlement formula.
func (e *Engine) settlementAmount(totalViolations int) float64 {
	var amount float64
	for _, tier := range e.tuning.SettlementTiers {
		if tier.UpTo == 0 || totalViolations < tier.UpTo {
			amount = tier.Base + tier.PerViolation*float64(totalViolations)
			break
		}
	}

	return math.Min(amount, e.tuning.SettlementCap)
}

// lawsuitProbability estimates the chance of litigation within a year.
//
// Three additive factors: violation volume (capped so a single bad page
// cannot saturate the estimate), site size (larger sites draw more
// serial-plaintiff attention), and the industry baseline. The result is
// hard-capped below certainty.
func (e *Engine) lawsuitProbability(totalViolations, pagesScanned int) model.LawsuitProbability {
	violationFactor := math.Min(
		float64(totalViolations)*e.tuning.ProbabilityPerViolation,
		e.tuning.ProbabilityViolationCap,
	)
	sizeFactor := math.Min(
		float64(pagesScanned)/e.tuning.ProbabilitySizeDivisor,
		e.tuning.ProbabilitySizeCap,
	)

	raw := violationFactor + sizeFactor + e.tuning.ProbabilityBaseline
	percentage := int(math.Round(math.Min(raw, e.tuning.ProbabilityCeiling)))

	level := riskLevel(percentage)

	return model.LawsuitProbability{
		Percentage:  percentage,
		RiskLevel:   level,
		Description: probabilityDescription(level),
	}
}

// riskLevel maps a probability percentage to a named risk level.
func riskLevel(percentage int) string {
	switch {
	case percentage >= 80:
		return RiskLevelExtreme
	case percentage >= 60:
		return RiskLevelHigh
	case percentage >= 30:
		return RiskLevelModerate
	default:
		return RiskLevelLow
	}
}

// probabilityDescription explains a risk level in plain language.
func probabilityDescription(level string) string {
	switch level {
	case RiskLevelExtreme:
		return "Litigation is highly likely; sites with this profile are frequent serial-plaintiff targets."
	case RiskLevelHigh:
		return "Litigation risk is well above the industry baseline."
	case RiskLevelModerate:
		return "Litigation risk is elevated but manageable with prompt remediation."
	default:
		return "Litigation risk is near the industry baseline."
	}
}

// urgency derives the remediation urgency tier from violation volume and
// lawsuit probability. Either signal alone can escalate the tier.
func (e *Engine) urgency(totalViolations, probability int) model.Urgency {
	var level string
	switch {
	case totalViolations > 50 || probability > 80:
		level = UrgencyCritical
	case totalViolations > 20 || probability > 60:
		level = UrgencyHigh
	case totalViolations > 5 || probability > 30:
		level = UrgencyMedium
	default:
		level = UrgencyLow
	}

	return model.Urgency{
		Level:             level,
		RecommendedAction: recommendedAction(level),
		Timeline:          remediationTimeline(level),
	}
}

// recommendedAction returns the remediation advice for an urgency tier.
func recommendedAction(level string) string {
	switch level {
	case UrgencyCritical:
		return "Begin remediation immediately and engage an accessibility specialist."
	case UrgencyHigh:
		return "Prioritize remediation of serious violations in the next development cycle."
	case UrgencyMedium:
		return "Schedule remediation into the current quarter's roadmap."
	default:
		return "Fold accessibility fixes into regular development work."
	}
}

// remediationTimeline returns the recommended remediation window for an
// urgency tier.
func remediationTimeline(level string) string {
	switch level {
	case UrgencyCritical:
		return "7-14 days"
	case UrgencyHigh:
		return "30 days"
	case UrgencyMedium:
		return "90 days"
	default:
		return "6 months"
	}
}

// complianceStatus summarizes how the site stands against WCAG AA.
func (e *Engine) complianceStatus(totalViolations int) model.ComplianceStatus {
	wcagLevel := "Fails AA"
	if totalViolations < 5 {
		wcagLevel = "AA"
	}

	return model.ComplianceStatus{
		ADACompliant: totalViolations == 0,
		WCAGLevel:    wcagLevel,
		RiskCategory: riskCategory(totalViolations),
	}
}

// riskCategory names the overall risk bucket for a violation count.
func riskCategory(totalViolations int) string {
	switch {
	case totalViolations == 0:
		return "Compliant"
	case totalViolations < 5:
		return "Minor Issues"
	case totalViolations < 20:
		return "Moderate Risk"
	case totalViolations < 50:
		return "High Risk"
	default:
		return "Critical Risk"
	}
}

// cleanAssessment is the branch for scans with zero violations.
// Exposure drops to zero and probability falls to the residual floor;
// even fully compliant sites attract the occasional meritless claim.
func (e *Engine) cleanAssessment() *model.RiskAssessment {
	floor := int(math.Round(e.tuning.ProbabilityFloor))

	return &model.RiskAssessment{
		CleanSite: true,
		FinancialExposure: model.FinancialExposure{
			Min:            0,
			Max:            0,
			FormattedRange: model.FormatDollarRange(0, 0),
		},
		SettlementBreakdown: nil,
		LawsuitProbability: model.LawsuitProbability{
			Percentage:  floor,
			RiskLevel:   RiskLevelLow,
			Description: "No violations detected; only residual risk from meritless claims remains.",
		},
		Urgency: model.Urgency{
			Level:             UrgencyNone,
			RecommendedAction: "Maintain current practices and re-scan after significant site changes.",
			Timeline:          "Ongoing",
		},
		ComplianceStatus: model.ComplianceStatus{
			ADACompliant: true,
			WCAGLevel:    "AA",
			RiskCategory: "Compliant",
		},
	}
}

// fallbackAssessment is the conservative estimate used when no scan data
// is available. The figures deliberately overshoot so a missing scan is
// never presented as low risk.
func (e *Engine) fallbackAssessment() *model.RiskAssessment {
	return &model.RiskAssessment{
		FinancialExposure: model.FinancialExposure{
			Min:            25000,
			Max:            85000,
			FormattedRange: model.FormatDollarRange(25000, 85000),
		},
		SettlementBreakdown: &model.SettlementBreakdown{
			SettlementAmount: 25000,
			AttorneyFees:     62500,
			ComplianceCosts:  37500,
			TotalExposure:    125000,
		},
		LawsuitProbability: model.LawsuitProbability{
			Percentage:  65,
			RiskLevel:   RiskLevelHigh,
			Description: "No scan data available; assuming elevated risk until the site is scanned.",
		},
		Urgency: model.Urgency{
			Level:             UrgencyHigh,
			RecommendedAction: "Run a full accessibility scan to replace this estimate with measured data.",
			Timeline:          "30 days",
		},
		ComplianceStatus: model.ComplianceStatus{
			ADACompliant: false,
			WCAGLevel:    "Unknown",
			RiskCategory: "High Risk",
		},
	}
}
