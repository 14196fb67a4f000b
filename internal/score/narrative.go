package score

import (
	"unicode/utf8"

	"github.com/ppiankov/claimsure/internal/keyword"
	"github.com/ppiankov/claimsure/internal/rules"
)

// AnalyzeNarrative scores the incident description for length, vagueness,
// timing, urgency, emotional tone and high-value language. Each check is
// independent; their deltas add up.
func AnalyzeNarrative(description string, r *rules.Rules) Delta {
	d := Delta{Source: SourceNarrative}
	kw := r.Keywords

	length := utf8.RuneCountInString(description)
	switch {
	case length < r.Narrative.VeryShortLength:
		d.deduct(r.Deductions.VeryShortDescription, "Incident description is extremely brief.")
	case length < r.Narrative.MinLength:
		d.deduct(r.Deductions.ShortDescription, "Incident description is too brief.")
	}

	if keyword.ContainsAny(description, kw.Cash) {
		d.addRisk(r.RiskDeltas.Cash, "High-risk asset claimed (Cash/Currency).")
	}

	if vague := keyword.CountMatches(description, kw.VagueDetails); vague > 0 {
		d.addRisk(r.RiskDeltas.VagueDetails*min(vague, r.Narrative.VagueMaxCount), "Vague details regarding incident cause.")
		d.deduct(r.Deductions.IncompleteNarrative, "Description lacks specific details.")
	}

	if keyword.ContainsAny(description, kw.HighRiskTimes) {
		d.addRisk(r.RiskDeltas.HighRiskHours, "Incident occurred during high-risk hours.")
	}

	if keyword.ContainsAny(description, kw.Urgency) {
		d.addRisk(r.RiskDeltas.Urgency, "Claim shows urgency pressure indicators.")
	}

	// no factor text for emotional language
	if keyword.ContainsAny(description, kw.Emotional) {
		d.addRisk(r.RiskDeltas.Emotional, "")
	}

	if keyword.ContainsAny(description, kw.HighValue) {
		d.addRisk(r.RiskDeltas.HighValue, "Claim indicates high-value or total loss.")
	}

	return d
}
