package rules

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/ppiankov/claimsure/internal/model"
)

// Validate checks the invariants the analyzers rely on: every delta and
// deduction is a non-negative constant, thresholds are ordered and
// probabilities are probabilities.
func (r *Rules) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for name, v := range intFields(r.RiskDeltas) {
		if v < 0 {
			fail("risk_deltas.%s must be non-negative, got %d", name, v)
		}
	}
	for name, v := range intFields(r.Deductions) {
		if v < 0 {
			fail("deductions.%s must be non-negative, got %d", name, v)
		}
	}

	if r.RiskThresholds.LowMax < 0 || r.RiskThresholds.LowMax >= r.RiskThresholds.HighMin {
		fail("risk_thresholds: low_max (%d) must be in [0, high_min (%d))", r.RiskThresholds.LowMax, r.RiskThresholds.HighMin)
	}
	if r.Narrative.VeryShortLength > r.Narrative.MinLength {
		fail("narrative: very_short_length (%d) exceeds min_length (%d)", r.Narrative.VeryShortLength, r.Narrative.MinLength)
	}
	if r.Narrative.VagueMaxCount < 1 || r.Narrative.VagueMaxCount > 2 {
		fail("narrative.vague_max_count must be 1 or 2, got %d", r.Narrative.VagueMaxCount)
	}
	t := r.Temporal
	if t.DelayedDays < 0 || t.DelayedDays > t.SignificantDays || t.SignificantDays > t.SevereDays {
		fail("temporal: bands must satisfy 0 <= delayed (%d) <= significant (%d) <= severe (%d)", t.DelayedDays, t.SignificantDays, t.SevereDays)
	}
	for name, p := range map[string]float64{
		"repeat_claimant_probability": r.History.RepeatClaimantProbability,
		"new_policy_probability":      r.History.NewPolicyProbability,
	} {
		if p < 0 || p > 1 {
			fail("history.%s must be within [0, 1], got %g", name, p)
		}
	}

	for claimType, rule := range r.ClaimTypes {
		if rule == nil {
			continue
		}
		if len(rule.RequiredKeywords) == 0 {
			fail("claim_types.%s: required_keywords is empty", claimType)
		}
		if rule.MinDocuments < 0 {
			fail("claim_types.%s: min_documents must be non-negative, got %d", claimType, rule.MinDocuments)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return fmt.Errorf("%w: %w", ErrInvalidRules, errors.Join(errs...))
}

// Gaps returns the enumerated claim types that have no rule record. Claims of
// these types are analysed without consistency or minimum-document checks.
func (r *Rules) Gaps() []model.ClaimType {
	var gaps []model.ClaimType
	for _, t := range model.ClaimTypes() {
		if _, ok := r.RuleFor(t); !ok {
			gaps = append(gaps, t)
		}
	}
	return gaps
}

// intFields maps the yaml names of a struct's int fields to their values
func intFields(v any) map[string]int {
	out := make(map[string]int)
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Type.Kind() != reflect.Int {
			continue
		}
		name := f.Tag.Get("yaml")
		if name == "" {
			name = f.Name
		}
		out[name] = int(rv.Field(i).Int())
	}
	return out
}
