// Package metrics records triage outcomes as Prometheus metrics. Each
// Recorder owns its registry, so the CLI can dump a node-exporter textfile at
// the end of a run without a long-lived HTTP endpoint.
package metrics

import (
	"fmt"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	registry *prometheus.Registry

	analyzed     *prometheus.CounterVec
	failed       *prometheus.CounterVec
	cacheHits    prometheus.Counter
	riskScore    prometheus.Histogram
	completeness prometheus.Histogram
	unruled      *prometheus.CounterVec
}

var scoreBuckets = prometheus.LinearBuckets(10, 10, 9)

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analyzed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsure_claims_analyzed_total",
				Help: "Claims analyzed, by recommended queue and risk level",
			},
			[]string{"queue", "risk_level"},
		),
		failed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsure_claims_failed_total",
				Help: "Claims that could not be loaded or analyzed, by stage",
			},
			[]string{"stage"},
		),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimsure_cache_hits_total",
			Help: "Analyses served from the result cache",
		}),
		riskScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claimsure_fraud_risk_score",
			Help:    "Distribution of fraud-risk scores",
			Buckets: scoreBuckets,
		}),
		completeness: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claimsure_completeness_score",
			Help:    "Distribution of completeness scores",
			Buckets: scoreBuckets,
		}),
		unruled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsure_unruled_claim_types_total",
				Help: "Claims analyzed without a claim-type rule, by declared type",
			},
			[]string{"type"},
		),
	}
}

// Observe records one finished analysis
func (r *Recorder) Observe(result model.AnalysisResult, cached bool) {
	r.analyzed.WithLabelValues(string(result.RecommendedQueue), string(result.RiskLevel)).Inc()
	r.riskScore.Observe(float64(result.FraudRiskScore))
	r.completeness.Observe(float64(result.CompletenessScore))
	if cached {
		r.cacheHits.Inc()
	}
}

// ObserveUnruled records a claim whose type has no consistency rule
func (r *Recorder) ObserveUnruled(claimType model.ClaimType) {
	r.unruled.WithLabelValues(string(claimType)).Inc()
}

// ObserveFailure records a claim lost at the given stage (load, analyze)
func (r *Recorder) ObserveFailure(stage string) {
	r.failed.WithLabelValues(stage).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric in the textfile-collector format. The
// file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
