// Package pipeline wires the scoring engine to its runtime surroundings:
// result caching, simulated processing latency, metrics and logging.
package pipeline

import (
	"context"
	"time"

	"github.com/ppiankov/claimsure/internal/cache"
	"github.com/ppiankov/claimsure/internal/metrics"
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/score"
	"go.uber.org/zap"
)

// Pipeline analyzes one claim at a time and is safe for concurrent use
type Pipeline struct {
	engine  *score.Engine
	store   *cache.ResultStore // nil when caching is off
	metrics *metrics.Recorder  // nil when metrics are off
	logger  *zap.Logger
	latency time.Duration
	now     func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// WithResultStore replaces the cache built from the configuration
func WithResultStore(s *cache.ResultStore) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithLatency overrides the configured simulated latency
func WithLatency(d time.Duration) Option {
	return func(p *Pipeline) { p.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline. When cfg enables the cache and no store is given,
// a memory-over-disk cache is built from cfg and scoped to the engine's rules.
func New(cfg *model.Config, engine *score.Engine, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	p := &Pipeline{
		engine:  engine,
		logger:  zap.NewNop(),
		latency: cfg.Simulation.Latency,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.store == nil && cfg.Cache.Enabled {
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL, p.logger)
		p.store = cache.NewResultStore(layered, 0, engine.Rules().Digest())
	}
	return p
}

// Analyze triages one claim and returns the analyzed copy wrapped in a
// report. A cached result skips the simulated latency. Cancelling ctx
// during the latency wait returns ctx.Err(); scoring itself is not
// interruptible.
func (p *Pipeline) Analyze(ctx context.Context, claim model.Claim) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.logger.With(zap.String("claim_id", claim.ID), zap.String("type", string(claim.Type)))

	if p.store != nil {
		if result, analyzedAt, ok := p.store.Get(claim); ok {
			log.Debug("cache hit")
			p.observe(result, true)
			return &model.Report{
				Claim:      claim.WithAnalysis(result),
				AnalyzedAt: analyzedAt,
				Cached:     true,
			}, nil
		}
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	result := p.engine.Analyze(claim)
	analyzedAt := p.now().UTC()

	if consistencySkipped(result) {
		log.Warn("no consistency rule for claim type, check skipped")
		if p.metrics != nil {
			p.metrics.ObserveUnruled(claim.Type)
		}
	}

	if p.store != nil {
		if err := p.store.Put(claim, result, analyzedAt); err != nil {
			log.Warn("failed to cache analysis", zap.Error(err))
		}
	}
	p.observe(result, false)

	log.Info("claim analyzed",
		zap.Int("fraud_risk", result.FraudRiskScore),
		zap.Int("completeness", result.CompletenessScore),
		zap.String("risk_level", string(result.RiskLevel)),
		zap.String("queue", string(result.RecommendedQueue)),
		zap.Bool("simulated", result.Simulated),
	)

	return &model.Report{
		Claim:      claim.WithAnalysis(result),
		AnalyzedAt: analyzedAt,
	}, nil
}

func (p *Pipeline) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(p.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pipeline) observe(result model.AnalysisResult, cached bool) {
	if p.metrics != nil {
		p.metrics.Observe(result, cached)
	}
}

func consistencySkipped(result model.AnalysisResult) bool {
	for _, c := range result.Contributions {
		if c.Source == score.SourceConsistency && c.Skipped {
			return true
		}
	}
	return false
}
