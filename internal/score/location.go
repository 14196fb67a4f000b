package score

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/claimsure/internal/keyword"
	"github.com/ppiankov/claimsure/internal/rules"
)

// AnalyzeLocation scores the free-text incident location
func AnalyzeLocation(location string, r *rules.Rules) Delta {
	d := Delta{Source: SourceLocation}

	if keyword.ContainsAny(location, r.Keywords.VagueLocations) {
		d.addRisk(r.RiskDeltas.VagueLocation, "Location description is vague or suspicious.")
		d.deduct(r.Deductions.VagueLocation, "Location lacks specificity.")
	}

	if utf8.RuneCountInString(strings.TrimSpace(location)) < r.Location.MinLength {
		d.deduct(r.Deductions.MissingLocation, "Location information incomplete.")
	}

	if keyword.ContainsAny(location, r.Keywords.HighRiskLocations) {
		d.addRisk(r.RiskDeltas.HighRiskLocation, "Incident occurred in high-risk location.")
	}

	return d
}
