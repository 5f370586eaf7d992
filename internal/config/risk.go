package config

// RiskTuning holds every business-tuning constant used by the risk scoring
// engine. The defaults reproduce settlement heuristics calibrated against
// 2024-2025 ADA web-accessibility settlement data, but none of them are
// actuarial ground truth, so all of them can be recalibrated through the
// .a11yscan file without code changes.
type RiskTuning struct {
	// CostBands maps severity names to per-incident cost bands.
	CostBands map[string]CostBand `yaml:"costBands"`

	// BaseLitigationCost is the fixed legal-fee floor added to both ends
	// of the exposure range whenever there is at least one violation.
	BaseLitigationCost float64 `yaml:"baseLitigationCost"`

	// DiminishingThreshold is the incident count per severity tier that
	// counts at full weight; incidents beyond it count at DiminishingFactor.
	DiminishingThreshold int `yaml:"diminishingThreshold"`

	// DiminishingFactor is the marginal weight of incidents beyond the
	// threshold. Repeated identical violations carry less marginal legal
	// risk than the first occurrences.
	DiminishingFactor float64 `yaml:"diminishingFactor"`

	// ProbabilityPerViolation is the probability contribution of each
	// violation, in percentage points.
	ProbabilityPerViolation float64 `yaml:"probabilityPerViolation"`

	// ProbabilityViolationCap caps the violation-driven contribution.
	ProbabilityViolationCap float64 `yaml:"probabilityViolationCap"`

	// ProbabilitySizeDivisor converts page count into the size factor
	// (pages / divisor, capped at ProbabilitySizeCap).
	ProbabilitySizeDivisor float64 `yaml:"probabilitySizeDivisor"`

	// ProbabilitySizeCap caps the size factor contribution.
	ProbabilitySizeCap float64 `yaml:"probabilitySizeCap"`

	// ProbabilityBaseline is the industry-average baseline added to every
	// non-clean assessment.
	ProbabilityBaseline float64 `yaml:"probabilityBaseline"`

	// ProbabilityCeiling is the hard cap on the final probability.
	ProbabilityCeiling float64 `yaml:"probabilityCeiling"`

	// ProbabilityFloor is the residual probability reported for sites with
	// zero violations. Even compliant sites carry some risk; the model
	// never claims absolute zero.
	ProbabilityFloor float64 `yaml:"probabilityFloor"`

	// SettlementTiers is the violation-count-tiered settlement formula,
	// evaluated in order; the first tier whose UpTo exceeds the count wins.
	SettlementTiers []SettlementTier `yaml:"settlementTiers"`

	// SettlementCap is the ceiling on the settlement amount regardless of
	// violation count.
	SettlementCap float64 `yaml:"settlementCap"`

	// AttorneyFeeMultiplier scales the settlement amount into attorney fees.
	AttorneyFeeMultiplier float64 `yaml:"attorneyFeeMultiplier"`

	// ComplianceCostMultiplier scales the settlement amount into
	// remediation and ongoing compliance costs.
	ComplianceCostMultiplier float64 `yaml:"complianceCostMultiplier"`
}

// CostBand is a per-incident min/max cost range for one severity tier.
type CostBand struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SettlementTier is one step of the tiered settlement formula:
// settlement = Base + PerViolation * totalViolations, applied when
// totalViolations < UpTo. A zero UpTo marks the open-ended final tier.
type SettlementTier struct {
	UpTo         int     `yaml:"upTo"`
	Base         float64 `yaml:"base"`
	PerViolation float64 `yaml:"perViolation"`
}

// DefaultRiskTuning returns the stock tuning tables.
func DefaultRiskTuning() RiskTuning {
	return RiskTuning{
		CostBands: map[string]CostBand{
			"critical": {Min: 8000, Max: 25000},
			"serious":  {Min: 3000, Max: 12000},
			"moderate": {Min: 1000, Max: 5000},
			"minor":    {Min: 500, Max: 2000},
		},
		BaseLitigationCost:       15000,
		DiminishingThreshold:     10,
		DiminishingFactor:        0.5,
		ProbabilityPerViolation:  2,
		ProbabilityViolationCap:  70,
		ProbabilitySizeDivisor:   10,
		ProbabilitySizeCap:       3,
		ProbabilityBaseline:      15,
		ProbabilityCeiling:       95,
		ProbabilityFloor:         5,
		SettlementTiers: []SettlementTier{
			{UpTo: 10, Base: 8000, PerViolation: 1000},
			{UpTo: 50, Base: 15000, PerViolation: 500},
			{UpTo: 100, Base: 25000, PerViolation: 300},
			{UpTo: 0, Base: 45000, PerViolation: 200},
		},
		SettlementCap:            75000,
		AttorneyFeeMultiplier:    2.5,
		ComplianceCostMultiplier: 1.5,
	}
}

// merge overlays non-zero fields of override onto the receiver.
// Only the fields a user actually set in the .a11yscan file replace the
// defaults; everything else keeps its stock value.
func (t RiskTuning) merge(override RiskTuning) RiskTuning {
	result := t

	if len(override.CostBands) > 0 {
		merged := make(map[string]CostBand, len(result.CostBands))
		for k, v := range result.CostBands {
			merged[k] = v
		}
		for k, v := range override.CostBands {
			merged[k] = v
		}
		result.CostBands = merged
	}
	if override.BaseLitigationCost > 0 {
		result.BaseLitigationCost = override.BaseLitigationCost
	}
	if override.DiminishingThreshold > 0 {
		result.DiminishingThreshold = override.DiminishingThreshold
	}
	if override.DiminishingFactor > 0 {
		result.DiminishingFactor = override.DiminishingFactor
	}
	if override.ProbabilityPerViolation > 0 {
		result.ProbabilityPerViolation = override.ProbabilityPerViolation
	}
	if override.ProbabilityViolationCap > 0 {
		result.ProbabilityViolationCap = override.ProbabilityViolationCap
	}
	if override.ProbabilitySizeDivisor > 0 {
		result.ProbabilitySizeDivisor = override.ProbabilitySizeDivisor
	}
	if override.ProbabilitySizeCap > 0 {
		result.ProbabilitySizeCap = override.ProbabilitySizeCap
	}
	if override.ProbabilityBaseline > 0 {
		result.ProbabilityBaseline = override.ProbabilityBaseline
	}
	if override.ProbabilityCeiling > 0 {
		result.ProbabilityCeiling = override.ProbabilityCeiling
	}
	if override.ProbabilityFloor > 0 {
		result.ProbabilityFloor = override.ProbabilityFloor
	}
	if len(override.SettlementTiers) > 0 {
		result.SettlementTiers = override.SettlementTiers
	}
	if override.SettlementCap > 0 {
		result.SettlementCap = override.SettlementCap
	}
	if override.AttorneyFeeMultiplier > 0 {
		result.AttorneyFeeMultiplier = override.AttorneyFeeMultiplier
	}
	if override.ComplianceCostMultiplier > 0 {
		result.ComplianceCostMultiplier = override.ComplianceCostMultiplier
	}

	return result
}
