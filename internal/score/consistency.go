package score

import (
	"fmt"

	"github.com/ppiankov/claimsure/internal/keyword"
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/rules"
)

// CheckConsistency verifies that the description mentions at least one of
// the declared claim type's required keywords.
//
// A claim type with no rule record fails open: the check is skipped without
// penalty and the returned delta is marked Skipped so callers can surface
// the gap in the rule tables.
func CheckConsistency(description string, claimType model.ClaimType, r *rules.Rules) Delta {
	d := Delta{Source: SourceConsistency}

	rule, ok := r.RuleFor(claimType)
	if !ok {
		d.Skipped = true
		return d
	}

	if !keyword.ContainsAny(description, rule.RequiredKeywords) {
		d.addRisk(r.RiskDeltas.InconsistentNarrative,
			fmt.Sprintf("Claim labeled as %s but description doesn't match claim type.", claimType))
	}
	return d
}
