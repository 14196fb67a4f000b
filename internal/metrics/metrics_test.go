package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums every sample of the named counter
func counterValue(t *testing.T, r *Recorder, name string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecorder_Observe(t *testing.T) {
	r := New()
	low := model.AnalysisResult{FraudRiskScore: 10, CompletenessScore: 100, RiskLevel: model.RiskLow, RecommendedQueue: model.QueueFastTrack}
	high := model.AnalysisResult{FraudRiskScore: 99, CompletenessScore: 20, RiskLevel: model.RiskHigh, RecommendedQueue: model.QueueInvestigation}

	r.Observe(low, false)
	r.Observe(high, true)
	r.Observe(high, false)
	r.ObserveUnruled(model.ClaimType("Pet"))
	r.ObserveFailure("load")

	assert.Equal(t, 3.0, counterValue(t, r, "claimsure_claims_analyzed_total"))
	assert.Equal(t, 1.0, counterValue(t, r, "claimsure_cache_hits_total"))
	assert.Equal(t, 1.0, counterValue(t, r, "claimsure_unruled_claim_types_total"))
	assert.Equal(t, 1.0, counterValue(t, r, "claimsure_claims_failed_total"))
}

func TestRecorder_RegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveFailure("analyze")
	assert.Zero(t, counterValue(t, b, "claimsure_claims_failed_total"))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Observe(model.AnalysisResult{FraudRiskScore: 45, CompletenessScore: 80, RiskLevel: model.RiskMedium, RecommendedQueue: model.QueueStandard}, false)

	path := filepath.Join(t.TempDir(), "claimsure.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `claimsure_claims_analyzed_total{queue="Standard Review",risk_level="Medium"} 1`)
	assert.Contains(t, string(data), "claimsure_fraud_risk_score_bucket")
}
