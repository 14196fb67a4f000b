package score

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ppiankov/claimsure/internal/rules"
)

// RandomSource supplies uniform draws in [0, 1). Implementations used from
// several goroutines must be safe for concurrent use.
type RandomSource interface {
	Float64() float64
}

// LockedSource is a seeded math/rand source guarded by a mutex
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a concurrency-safe source. A zero seed is replaced
// by the current time.
func NewRandomSource(seed int64) *LockedSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// SequenceSource replays a fixed list of draws, wrapping around at the end.
// An empty sequence always returns 1, which never fires a simulated bump.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 1
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// SimulateHistory stands in for claimant and policy history that the system
// does not have. It makes two independent draws per call: one for a repeat
// claimant and one for a newly issued policy.
func SimulateHistory(src RandomSource, r *rules.Rules) Delta {
	d := Delta{Source: SourceHistory}
	if !r.History.Enabled || src == nil {
		d.Skipped = true
		return d
	}

	repeat := src.Float64()
	newPolicy := src.Float64()

	if repeat < r.History.RepeatClaimantProbability {
		d.addRisk(r.RiskDeltas.RepeatClaimant, "Claimant has submitted multiple claims recently.")
	}
	if newPolicy < r.History.NewPolicyProbability {
		d.addRisk(r.RiskDeltas.NewPolicy, "Policy is newly issued (less than 90 days old).")
	}
	return d
}
