package model

import "time"

// AnalysisResult is the triage outcome for one claim. It is created once and
// never mutated afterwards; the dashboard renders its fields verbatim.
type AnalysisResult struct {
	CompletenessScore  int       `json:"completenessScore"` // 0-100, higher is more complete
	FraudRiskScore     int       `json:"fraudRiskScore"`    // 0-99, higher is worse
	RiskLevel          RiskLevel `json:"riskLevel"`
	RiskFactors        []string  `json:"riskFactors"`
	CompletenessIssues []string  `json:"completenessIssues"`
	RecommendedQueue   Queue     `json:"recommendedQueue"`

	// Contributions is the per-analyzer breakdown of the scores, including
	// contributions that carry no factor text.
	Contributions []Contribution `json:"contributions,omitempty"`

	// Simulated is set when the historical-pattern simulator fired
	Simulated bool `json:"simulated,omitempty"`
}

// Contribution records how much one analyzer moved each score
type Contribution struct {
	Source       string `json:"source"`
	Risk         int    `json:"risk"`
	Completeness int    `json:"completeness"` // negative for deductions
	Skipped      bool   `json:"skipped,omitempty"`
}

// RiskLevel is the coarse bucket derived from the fraud-risk score
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Queue is the destination for human processing
type Queue string

const (
	QueueFastTrack     Queue = "Fast-Track"
	QueueStandard      Queue = "Standard Review"
	QueueInvestigation Queue = "Investigation"
)

// Report is the unit written by the renderers
type Report struct {
	Claim      Claim     `json:"claim"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	Cached     bool      `json:"cached"`
	Source     string    `json:"source,omitempty"` // file path or URL the claim came from
}

// Result returns the attached analysis, or the zero value if absent
func (r *Report) Result() AnalysisResult {
	if r == nil || r.Claim.Analysis == nil {
		return AnalysisResult{}
	}
	return *r.Claim.Analysis
}
