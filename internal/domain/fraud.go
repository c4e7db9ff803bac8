package domain

import "strings"

// RiskLevel classifies a fraud risk score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Risk score contributions per rule and the level thresholds.
const (
	ScoreLargeAmount    = 30
	ScoreHighFrequency  = 40
	ScoreSuspiciousHour = 20
	ScoreRepeatTarget   = 15

	RiskThresholdHigh   = 70
	RiskThresholdMedium = 40
)

// Fraud rule identifiers used in the audit trace.
const (
	RuleLargeAmount    = "LARGE_AMOUNT"
	RuleHighFrequency  = "HIGH_FREQUENCY"
	RuleSuspiciousHour = "SUSPICIOUS_HOUR"
	RuleRepeatTarget   = "VELOCITY_CHECK"
)

// FraudResult is the outcome of scoring a single transfer.
type FraudResult struct {
	RiskScore  int
	RiskLevel  RiskLevel
	IsFraud    bool
	RulesFired []string
	Details    string
}

// ClassifyRisk maps a score to a risk level. Both MEDIUM and HIGH are
// treated as fraud: blocking starts at the MEDIUM threshold, not HIGH.
func ClassifyRisk(score int) (RiskLevel, bool) {
	switch {
	case score >= RiskThresholdHigh:
		return RiskLevelHigh, true
	case score >= RiskThresholdMedium:
		return RiskLevelMedium, true
	default:
		return RiskLevelLow, false
	}
}

// NewFraudResult builds a FraudResult from a score and the fired rule trace.
func NewFraudResult(score int, rules []string, details []string) FraudResult {
	level, isFraud := ClassifyRisk(score)

	detail := strings.Join(details, " ")
	if detail == "" {
		detail = "No fraud indicators detected."
	}

	return FraudResult{
		RiskScore:  score,
		RiskLevel:  level,
		IsFraud:    isFraud,
		RulesFired: rules,
		Details:    detail,
	}
}
