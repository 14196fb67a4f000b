package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claim represents an insurance claim as submitted by the intake form
type Claim struct {
	ID           string             `json:"id"`
	ClaimantName string             `json:"claimantName"`
	PolicyNumber string             `json:"policyNumber"`
	Type         ClaimType          `json:"type"`
	IncidentDate Date               `json:"incidentDate"`
	Description  string             `json:"incidentDescription"`
	Location     string             `json:"location"`
	Documents    []DocumentMetadata `json:"documents"`
	SubmittedAt  time.Time          `json:"submissionDate"`
	Status       ClaimStatus        `json:"status"`
	Analysis     *AnalysisResult    `json:"analysis,omitempty"`
}

// WithAnalysis returns a copy of the claim with the result attached and the
// status moved to Analyzed. The receiver is left untouched.
func (c Claim) WithAnalysis(result AnalysisResult) Claim {
	out := c
	out.Documents = append([]DocumentMetadata(nil), c.Documents...)
	out.Analysis = &result
	out.Status = StatusAnalyzed
	return out
}

// ClaimType is the declared line of business of a claim
type ClaimType string

const (
	ClaimTypeAuto   ClaimType = "Auto"
	ClaimTypeHome   ClaimType = "Home"
	ClaimTypeGadget ClaimType = "Gadget"
	ClaimTypeTravel ClaimType = "Travel"
)

// ClaimTypes lists the enumerated claim types in display order
func ClaimTypes() []ClaimType {
	return []ClaimType{ClaimTypeAuto, ClaimTypeHome, ClaimTypeGadget, ClaimTypeTravel}
}

// ParseClaimType maps a case-insensitive name onto an enumerated claim type.
// Unknown names are returned verbatim with ok=false; they are still valid
// input, the engine just has no rules for them.
func ParseClaimType(s string) (ClaimType, bool) {
	for _, t := range ClaimTypes() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return ClaimType(s), false
}

// ClaimStatus tracks the claim lifecycle
type ClaimStatus string

const (
	StatusSubmitted ClaimStatus = "Submitted"
	StatusAnalyzed  ClaimStatus = "Analyzed"
	StatusApproved  ClaimStatus = "Approved" // set by human reviewers
	StatusRejected  ClaimStatus = "Rejected" // set by human reviewers
)

// Date is a calendar date. It accepts "2006-01-02" or RFC 3339 on input
// and always encodes as "2006-01-02" in UTC.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate returns midnight UTC of the given calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in either supported layout
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return Date{t.UTC()}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("incident date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
