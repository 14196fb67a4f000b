// Package rules holds the scoring tables that parameterise every analyzer.
//
// A Rules value is built once per process (Default, optionally overlaid with
// LoadFile) and then shared read-only by pointer. Nothing in the analysis path
// writes to it.
package rules

import "github.com/ppiankov/claimsure/internal/model"

// Rules is the complete set of named thresholds, deltas and keyword lists
type Rules struct {
	BaseRisk         int `yaml:"base_risk"`
	BaseCompleteness int `yaml:"base_completeness"`

	RiskThresholds RiskThresholds `yaml:"risk_thresholds"`
	QueueRules     QueueRules     `yaml:"queue_rules"`
	Narrative      NarrativeRules `yaml:"narrative"`
	Location       LocationRules  `yaml:"location"`
	Temporal       TemporalRules  `yaml:"temporal"`
	RiskDeltas     RiskDeltas     `yaml:"risk_deltas"`
	Deductions     Deductions     `yaml:"deductions"`
	Keywords       Keywords       `yaml:"keywords"`
	History        HistoryRules   `yaml:"history"`

	// ClaimTypes maps a claim type to its consistency rule. A type with no
	// entry is analysed without the consistency and minimum-document checks.
	ClaimTypes map[model.ClaimType]*ClaimTypeRule `yaml:"claim_types"`
}

// RiskThresholds bucket the fraud-risk score. Scores up to LowMax are Low,
// HighMin and above are High, anything between is Medium.
type RiskThresholds struct {
	LowMax  int `yaml:"low_max"`
	HighMin int `yaml:"high_min"`
}

// QueueRules drive the routing decision table
type QueueRules struct {
	FastTrackMinCompleteness int `yaml:"fast_track_min_completeness"`
	InvestigationMinRisk     int `yaml:"investigation_min_risk"`
}

type NarrativeRules struct {
	VeryShortLength int `yaml:"very_short_length"`
	MinLength       int `yaml:"min_length"`
	VagueMaxCount   int `yaml:"vague_max_count"` // cap on the vague-detail multiplier
}

type LocationRules struct {
	MinLength int `yaml:"min_length"`
}

// TemporalRules are the reporting-delay band floors, in days (exclusive)
type TemporalRules struct {
	DelayedDays     int `yaml:"delayed_days"`
	SignificantDays int `yaml:"significant_days"`
	SevereDays      int `yaml:"severe_days"`
}

// RiskDeltas are added to the fraud-risk score when a factor fires
type RiskDeltas struct {
	Cash                  int `yaml:"cash"`
	VagueDetails          int `yaml:"vague_details"`
	HighRiskHours         int `yaml:"high_risk_hours"`
	Urgency               int `yaml:"urgency"`
	Emotional             int `yaml:"emotional"`
	HighValue             int `yaml:"high_value"`
	InconsistentNarrative int `yaml:"inconsistent_narrative"`
	NoDocuments           int `yaml:"no_documents"`
	SingleDocument        int `yaml:"single_document"`
	GenericFilenames      int `yaml:"generic_filenames"`
	Delayed30             int `yaml:"delayed_30"`
	Delayed60             int `yaml:"delayed_60"`
	Delayed90             int `yaml:"delayed_90"`
	SameDayHighValue      int `yaml:"same_day_high_value"`
	VagueLocation         int `yaml:"vague_location"`
	HighRiskLocation      int `yaml:"high_risk_location"`
	RepeatClaimant        int `yaml:"repeat_claimant"`
	NewPolicy             int `yaml:"new_policy"`
}

// Deductions are subtracted from the completeness score when an issue fires
type Deductions struct {
	VeryShortDescription int `yaml:"very_short_description"`
	ShortDescription     int `yaml:"short_description"`
	IncompleteNarrative  int `yaml:"incomplete_narrative"`
	NoDocuments          int `yaml:"no_documents"`
	SingleDocument       int `yaml:"single_document"`
	VagueLocation        int `yaml:"vague_location"`
	MissingLocation      int `yaml:"missing_location"`
}

// Keywords are matched case-insensitively as substrings
type Keywords struct {
	Cash              []string `yaml:"cash"`
	VagueDetails      []string `yaml:"vague_details"`
	HighRiskTimes     []string `yaml:"high_risk_times"`
	Urgency           []string `yaml:"urgency"`
	Emotional         []string `yaml:"emotional"`
	HighValue         []string `yaml:"high_value"`
	VagueLocations    []string `yaml:"vague_locations"`
	HighRiskLocations []string `yaml:"high_risk_locations"`
	GenericFilenames  []string `yaml:"generic_filenames"`
}

// ClaimTypeRule is the per-type expectation used for consistency checks
type ClaimTypeRule struct {
	RequiredKeywords []string `yaml:"required_keywords"`
	MinDocuments     int      `yaml:"min_documents"`
}

// HistoryRules parameterise the historical-pattern simulator
type HistoryRules struct {
	Enabled                   bool    `yaml:"enabled"`
	RepeatClaimantProbability float64 `yaml:"repeat_claimant_probability"`
	NewPolicyProbability      float64 `yaml:"new_policy_probability"`
}

// Default returns the built-in rule tables
func Default() *Rules {
	return &Rules{
		BaseRisk:         10,
		BaseCompleteness: 100,
		RiskThresholds: RiskThresholds{
			LowMax:  39,
			HighMin: 70,
		},
		QueueRules: QueueRules{
			FastTrackMinCompleteness: 80,
			InvestigationMinRisk:     65,
		},
		Narrative: NarrativeRules{
			VeryShortLength: 30,
			MinLength:       50,
			VagueMaxCount:   2,
		},
		Location: LocationRules{
			MinLength: 5,
		},
		Temporal: TemporalRules{
			DelayedDays:     30,
			SignificantDays: 60,
			SevereDays:      90,
		},
		RiskDeltas: RiskDeltas{
			Cash:                  30,
			VagueDetails:          15,
			HighRiskHours:         10,
			Urgency:               5,
			Emotional:             10,
			HighValue:             20,
			InconsistentNarrative: 25,
			NoDocuments:           20,
			SingleDocument:        5,
			GenericFilenames:      10,
			Delayed30:             25,
			Delayed60:             35,
			Delayed90:             45,
			SameDayHighValue:      10,
			VagueLocation:         15,
			HighRiskLocation:      20,
			RepeatClaimant:        20,
			NewPolicy:             15,
		},
		Deductions: Deductions{
			VeryShortDescription: 30,
			ShortDescription:     20,
			IncompleteNarrative:  15,
			NoDocuments:          40,
			SingleDocument:       10,
			VagueLocation:        10,
			MissingLocation:      15,
		},
		Keywords: Keywords{
			Cash:              []string{"cash", "money", "currency", "bills", "wallet full"},
			VagueDetails:      []string{"unknown", "don't know", "can't remember", "not sure", "maybe", "possibly"},
			HighRiskTimes:     []string{"night", "2am", "3am", "4am", "late night", "midnight"},
			Urgency:           []string{"immediately", "urgent", "need money now", "asap"},
			Emotional:         []string{"devastated", "desperate", "emergency"},
			HighValue:         []string{"total loss", "completely destroyed", "totaled", "brand new", "expensive"},
			VagueLocations:    []string{"downtown", "near", "around", "somewhere", "parking lot", "alley"},
			HighRiskLocations: []string{"alley", "abandoned", "dark"},
			GenericFilenames:  []string{"image", "photo", "picture", "document", "file", "scan"},
		},
		History: HistoryRules{
			Enabled:                   true,
			RepeatClaimantProbability: 0.10,
			NewPolicyProbability:      0.05,
		},
		ClaimTypes: map[model.ClaimType]*ClaimTypeRule{
			model.ClaimTypeAuto: {
				RequiredKeywords: []string{"vehicle", "car", "truck", "auto", "driving"},
				MinDocuments:     2,
			},
			model.ClaimTypeHome: {
				RequiredKeywords: []string{"house", "home", "property", "residence"},
				MinDocuments:     2,
			},
			model.ClaimTypeGadget: {
				RequiredKeywords: []string{"phone", "laptop", "tablet", "device", "electronics"},
				MinDocuments:     1,
			},
			model.ClaimTypeTravel: {
				RequiredKeywords: []string{"flight", "trip", "travel", "vacation", "luggage"},
				MinDocuments:     1,
			},
		},
	}
}

// RuleFor looks up the rule for t. The second return value is false
// when the rule tables have no record for the type; callers must branch on
// it rather than assume a default.
func (r *Rules) RuleFor(t model.ClaimType) (*ClaimTypeRule, bool) {
	rule, ok := r.ClaimTypes[t]
	if !ok || rule == nil {
		return nil, false
	}
	return rule, true
}
