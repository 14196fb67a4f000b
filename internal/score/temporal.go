package score

import (
	"fmt"
	"time"

	"github.com/ppiankov/claimsure/internal/keyword"
	"github.com/ppiankov/claimsure/internal/rules"
)

const day = 24 * time.Hour

// DaysBetween returns the absolute distance between a and b in days,
// rounding any partial day up: 23 hours is one day.
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

// AnalyzeTemporal scores the delay between the incident and its report.
// Bands are checked from the longest delay down and only the first match
// applies.
func AnalyzeTemporal(incident, submitted time.Time, description string, r *rules.Rules) Delta {
	d := Delta{Source: SourceTemporal}
	days := DaysBetween(incident, submitted)
	t := r.Temporal

	switch {
	case days > t.SevereDays:
		d.addRisk(r.RiskDeltas.Delayed90, fmt.Sprintf("Severely delayed reporting: %d days after incident.", days))
	case days > t.SignificantDays:
		d.addRisk(r.RiskDeltas.Delayed60, fmt.Sprintf("Significantly delayed reporting: %d days after incident.", days))
	case days > t.DelayedDays:
		d.addRisk(r.RiskDeltas.Delayed30, fmt.Sprintf("Delayed reporting: %d days after incident.", days))
	}

	if days == 0 && keyword.ContainsAny(description, r.Keywords.HighValue) {
		d.addRisk(r.RiskDeltas.SameDayHighValue, "")
	}

	return d
}
