// Package risk converts scan results into a legal risk assessment.
//
// The assessment covers estimated financial exposure, lawsuit probability,
// remediation urgency, and a settlement cost breakdown. All figures come
// from deterministic formulas over the violation counts: the same scan
// result always produces the same assessment, and the engine performs no
// I/O. The tuning tables behind the formulas are calibrated against
// published ADA web-accessibility settlement data and can be overridden
// through configuration.
//
// The output is an estimate for prioritization, not legal advice.
package risk
