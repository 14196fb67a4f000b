// Package score implements the claim-triage analyzers and the aggregator that
// folds their output into a single AnalysisResult.
//
// Every analyzer is a pure function of the claim fields it reads plus the
// shared rule tables, and returns a Delta. Analyzers never see each other's
// output, so the order they run in only affects the order of the explanation
// strings.
package score

import "github.com/ppiankov/claimsure/internal/model"

// Analyzer sources, as they appear in AnalysisResult.Contributions
const (
	SourceNarrative   = "narrative"
	SourceConsistency = "consistency"
	SourceDocuments   = "documents"
	SourceTemporal    = "temporal"
	SourceLocation    = "location"
	SourceHistory     = "history"
)

// Delta is what one analyzer contributes to the final result
type Delta struct {
	Source    string
	Risk      int      // added to the fraud-risk score
	Deduction int      // subtracted from the completeness score
	Factors   []string // risk explanations, in the order they fired
	Issues    []string // completeness explanations, in the order they fired

	// Skipped is set when the analyzer had no rule to apply
	Skipped bool
}

// addRisk adds n to the risk and records factor, if any. An empty factor
// is a silent contribution: it moves the score without explaining it.
func (d *Delta) addRisk(n int, factor string) {
	d.Risk += n
	if factor != "" {
		d.Factors = append(d.Factors, factor)
	}
}

func (d *Delta) deduct(n int, issue string) {
	d.Deduction += n
	if issue != "" {
		d.Issues = append(d.Issues, issue)
	}
}

// Contribution converts the delta into its reportable form
func (d Delta) Contribution() model.Contribution {
	return model.Contribution{
		Source:       d.Source,
		Risk:         d.Risk,
		Completeness: -d.Deduction,
		Skipped:      d.Skipped,
	}
}

// Empty reports whether the delta changes nothing
func (d Delta) Empty() bool {
	return d.Risk == 0 && d.Deduction == 0 && len(d.Factors) == 0 && len(d.Issues) == 0
}
