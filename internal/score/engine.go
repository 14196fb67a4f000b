package score

import (
	"time"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/rules"
)

// Engine runs every analyzer against a claim and aggregates the result.
// It holds no per-claim state and may be shared across goroutines as long as
// its RandomSource is safe for concurrent use (the default one is).
type Engine struct {
	rules  *rules.Rules
	random RandomSource
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithRandomSource replaces the source used by the historical-pattern
// simulator
func WithRandomSource(src RandomSource) Option {
	return func(e *Engine) {
		e.random = src
	}
}

// WithClock sets the clock used when a claim carries no submission time
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine over the given rules. Nil rules mean the
// built-in defaults.
func NewEngine(r *rules.Rules, opts ...Option) *Engine {
	if r == nil {
		r = rules.Default()
	}
	e := &Engine{
		rules: r,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.random == nil {
		e.random = NewRandomSource(0)
	}
	return e
}

// Rules returns the rule tables the engine was built with
func (e *Engine) Rules() *rules.Rules {
	return e.rules
}

// Analyze computes the triage result for one claim. It never fails for a
// structurally valid claim and never modifies it.
func (e *Engine) Analyze(claim model.Claim) model.AnalysisResult {
	deltas := e.Deterministic(claim)
	deltas = append(deltas, SimulateHistory(e.random, e.rules))
	return Aggregate(deltas, e.rules)
}

// Deterministic runs every analyzer except the historical-pattern simulator.
// Repeated calls on the same claim return identical deltas.
func (e *Engine) Deterministic(claim model.Claim) []Delta {
	submitted := claim.SubmittedAt
	if submitted.IsZero() {
		submitted = e.now()
	}

	return []Delta{
		AnalyzeNarrative(claim.Description, e.rules),
		CheckConsistency(claim.Description, claim.Type, e.rules),
		AnalyzeDocuments(claim.Documents, claim.Type, e.rules),
		AnalyzeTemporal(claim.IncidentDate.Time, submitted, claim.Description, e.rules),
		AnalyzeLocation(claim.Location, e.rules),
	}
}
