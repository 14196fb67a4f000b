package score

import (
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/rules"
)

// Output ranges of the two scores
const (
	MaxRisk         = 99
	MaxCompleteness = 100
)

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Level buckets a fraud-risk score. Each floor is inclusive.
func Level(risk int, r *rules.Rules) model.RiskLevel {
	switch {
	case risk >= r.RiskThresholds.HighMin:
		return model.RiskHigh
	case risk >= r.RiskThresholds.LowMax+1:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// Route picks the processing queue. The investigation risk floor is a
// separate threshold from the High level floor, so a Medium claim in the gap
// between them still goes to Investigation. Incomplete claims that are not
// risky land in Standard Review.
func Route(completeness, risk int, level model.RiskLevel, r *rules.Rules) model.Queue {
	q := r.QueueRules
	switch {
	case completeness >= q.FastTrackMinCompleteness && level == model.RiskLow:
		return model.QueueFastTrack
	case level == model.RiskHigh || risk >= q.InvestigationMinRisk:
		return model.QueueInvestigation
	default:
		return model.QueueStandard
	}
}

// Aggregate folds analyzer deltas into the final result. Scores are summed
// from their base values first and clamped once at the end.
func Aggregate(deltas []Delta, r *rules.Rules) model.AnalysisResult {
	risk := r.BaseRisk
	completeness := r.BaseCompleteness
	factors := []string{}
	issues := []string{}
	var contributions []model.Contribution
	simulated := false

	for _, d := range deltas {
		risk += d.Risk
		completeness -= d.Deduction
		factors = append(factors, d.Factors...)
		issues = append(issues, d.Issues...)
		if !d.Empty() || d.Skipped {
			contributions = append(contributions, d.Contribution())
		}
		if d.Source == SourceHistory && d.Risk > 0 {
			simulated = true
		}
	}

	risk = Clamp(risk, 0, MaxRisk)
	completeness = Clamp(completeness, 0, MaxCompleteness)
	level := Level(risk, r)

	return model.AnalysisResult{
		CompletenessScore:  completeness,
		FraudRiskScore:     risk,
		RiskLevel:          level,
		RiskFactors:        factors,
		CompletenessIssues: issues,
		RecommendedQueue:   Route(completeness, risk, level, r),
		Contributions:      contributions,
		Simulated:          simulated,
	}
}
