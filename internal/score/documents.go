package score

import (
	"fmt"

	"github.com/ppiankov/claimsure/internal/keyword"
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/rules"
)

// AnalyzeDocuments scores evidence quantity and naming. Only metadata is
// read; documents are never opened.
func AnalyzeDocuments(docs []model.DocumentMetadata, claimType model.ClaimType, r *rules.Rules) Delta {
	d := Delta{Source: SourceDocuments}

	switch len(docs) {
	case 0:
		d.deduct(r.Deductions.NoDocuments, "No supporting evidence uploaded.")
		d.addRisk(r.RiskDeltas.NoDocuments, "Missing visual evidence or documentation.")
	case 1:
		d.deduct(r.Deductions.SingleDocument, "Low evidence count (only 1 document).")
		d.addRisk(r.RiskDeltas.SingleDocument, "")
	}

	// fires once per claim however many files match
	for _, doc := range docs {
		if keyword.ContainsAny(doc.Name, r.Keywords.GenericFilenames) {
			d.addRisk(r.RiskDeltas.GenericFilenames, "Documents have generic filenames (potential stock images).")
			break
		}
	}

	if rule, ok := r.RuleFor(claimType); ok && len(docs) < rule.MinDocuments {
		d.deduct(0, fmt.Sprintf("%s claims typically require at least %d documents.", claimType, rule.MinDocuments))
	}

	return d
}
