package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
)

// ResultStore caches analysis results per claim fingerprint. The salt scopes
// entries to one set of rules, so editing the rules file invalidates them.
type ResultStore struct {
	cache Cache
	ttl   time.Duration
	salt  string
}

type storedResult struct {
	Result     model.AnalysisResult `json:"result"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
}

func NewResultStore(c Cache, ttl time.Duration, salt string) *ResultStore {
	return &ResultStore{cache: c, ttl: ttl, salt: salt}
}

func (s *ResultStore) key(claim model.Claim) string {
	return Key(Fingerprint(claim), s.salt)
}

// Get returns the cached result for claim and when it was computed.
// Undecodable entries count as misses.
func (s *ResultStore) Get(claim model.Claim) (model.AnalysisResult, time.Time, bool) {
	raw, ok := s.cache.Get(s.key(claim))
	if !ok {
		return model.AnalysisResult{}, time.Time{}, false
	}
	var stored storedResult
	if err := json.Unmarshal(raw, &stored); err != nil {
		return model.AnalysisResult{}, time.Time{}, false
	}
	return stored.Result, stored.AnalyzedAt, true
}

func (s *ResultStore) Put(claim model.Claim, result model.AnalysisResult, analyzedAt time.Time) error {
	raw, err := json.Marshal(storedResult{Result: result, AnalyzedAt: analyzedAt})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.cache.Set(s.key(claim), raw, s.ttl)
}
