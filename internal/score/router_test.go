package score

import (
	"testing"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	r := rules.Default()
	tests := []struct {
		risk int
		want model.RiskLevel
	}{
		{0, model.RiskLow},
		{39, model.RiskLow},
		{40, model.RiskMedium},
		{69, model.RiskMedium},
		{70, model.RiskHigh},
		{99, model.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.risk, r), "risk %d", tt.risk)
	}
}

func TestRoute(t *testing.T) {
	r := rules.Default()
	tests := []struct {
		name         string
		completeness int
		risk         int
		want         model.Queue
	}{
		{"complete and low risk", 85, 20, model.QueueFastTrack},
		{"fast track floor", 80, 39, model.QueueFastTrack},
		{"medium in investigation gap", 85, 67, model.QueueInvestigation},
		{"high", 100, 70, model.QueueInvestigation},
		{"incomplete low risk", 50, 30, model.QueueStandard},
		{"just under fast track", 79, 10, model.QueueStandard},
		{"medium below investigation floor", 90, 64, model.QueueStandard},
		{"incomplete and high", 10, 95, model.QueueInvestigation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := Level(tt.risk, r)
			assert.Equal(t, tt.want, Route(tt.completeness, tt.risk, level, r))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-15, 0, MaxCompleteness))
	assert.Equal(t, 99, Clamp(180, 0, MaxRisk))
	assert.Equal(t, 42, Clamp(42, 0, MaxRisk))
}

func TestAggregate_ClampsOnceAtTheEnd(t *testing.T) {
	r := rules.Default()
	deltas := []Delta{
		{Source: SourceNarrative, Risk: 120, Deduction: 150},
		{Source: SourceLocation, Risk: -50, Deduction: -80},
	}

	result := Aggregate(deltas, r)

	// 10+120-50 and 100-150+80 are both in range, so nothing is clamped
	assert.Equal(t, 80, result.FraudRiskScore)
	assert.Equal(t, 30, result.CompletenessScore)
}

func TestAggregate_PreservesExplanationOrder(t *testing.T) {
	r := rules.Default()
	deltas := []Delta{
		{Source: SourceNarrative, Factors: []string{"a", "b"}, Issues: []string{"x"}},
		{Source: SourceConsistency},
		{Source: SourceDocuments, Factors: []string{"c"}, Issues: []string{"y", "z"}},
	}

	result := Aggregate(deltas, r)

	assert.Equal(t, []string{"a", "b", "c"}, result.RiskFactors)
	assert.Equal(t, []string{"x", "y", "z"}, result.CompletenessIssues)
	assert.Len(t, result.Contributions, 2, "empty deltas are not reported")
}

func TestAggregate_UsesConfiguredThresholds(t *testing.T) {
	r := rules.Default()
	r.RiskThresholds.LowMax = 9
	r.RiskThresholds.HighMin = 50
	r.QueueRules.InvestigationMinRisk = 50

	result := Aggregate(nil, r)

	assert.Equal(t, 10, result.FraudRiskScore)
	assert.Equal(t, model.RiskMedium, result.RiskLevel)
	assert.Equal(t, model.QueueStandard, result.RecommendedQueue)
}
