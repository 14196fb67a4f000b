package score

import (
	"testing"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeNarrative(t *testing.T) {
	r := rules.Default()
	long := "The rear bumper was scraped against a concrete pillar while reversing slowly out of the bay."

	tests := []struct {
		name        string
		description string
		risk        int
		deduction   int
		factors     int
		issues      int
	}{
		{name: "detailed and clean", description: long},
		{name: "very short", description: "Scratched bumper", deduction: 30, issues: 1},
		{name: "short", description: "The bumper was scratched in the car park bay.", deduction: 20, issues: 1},
		{name: "cash", description: long + " Cash was taken.", risk: 30, factors: 1},
		{
			name:        "two vague keywords",
			description: "Cause unknown. The other driver was unknown and maybe drove a car.",
			risk:        30, deduction: 15, factors: 1, issues: 1,
		},
		{
			name:        "vague keywords capped",
			description: long + " unknown, maybe, possibly, not sure.",
			risk:        30, deduction: 15, factors: 1, issues: 1,
		},
		{name: "night", description: long + " It was late at night.", risk: 10, factors: 1},
		{name: "urgency", description: long + " Please pay asap.", risk: 5, factors: 1},
		{name: "emotional is silent", description: long + " I am desperate.", risk: 10},
		{name: "high value", description: long + " The car is a total loss.", risk: 20, factors: 1},
		{name: "case insensitive", description: long + " CASH", risk: 30, factors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AnalyzeNarrative(tt.description, r)
			assert.Equal(t, SourceNarrative, d.Source)
			assert.Equal(t, tt.risk, d.Risk)
			assert.Equal(t, tt.deduction, d.Deduction)
			assert.Len(t, d.Factors, tt.factors)
			assert.Len(t, d.Issues, tt.issues)
		})
	}
}

func TestAnalyzeNarrative_LengthCountsRunes(t *testing.T) {
	r := rules.Default()
	// 29 runes, more than 30 bytes
	d := AnalyzeNarrative("Téléphone cassé près du café.", r)
	assert.Equal(t, []string{"Incident description is extremely brief."}, d.Issues)
}

func TestCheckConsistency(t *testing.T) {
	r := rules.Default()

	d := CheckConsistency("My laptop screen cracked", model.ClaimTypeGadget, r)
	assert.Zero(t, d.Risk)
	assert.False(t, d.Skipped)

	d = CheckConsistency("My luggage was lost", model.ClaimTypeHome, r)
	assert.Equal(t, 25, d.Risk)
	assert.Equal(t, []string{"Claim labeled as Home but description doesn't match claim type."}, d.Factors)

	// substring match: "scarf" contains "car"
	d = CheckConsistency("Lost my scarf", model.ClaimTypeAuto, r)
	assert.Zero(t, d.Risk)

	d = CheckConsistency("anything", model.ClaimType("Marine"), r)
	assert.True(t, d.Skipped)
	assert.True(t, d.Empty())
}

func TestAnalyzeDocuments(t *testing.T) {
	r := rules.Default()
	doc := func(name string) model.DocumentMetadata {
		return model.DocumentMetadata{Name: name, Type: "image/jpeg", Size: 1024}
	}

	t.Run("none", func(t *testing.T) {
		d := AnalyzeDocuments(nil, model.ClaimTypeTravel, r)
		assert.Equal(t, 20, d.Risk)
		assert.Equal(t, 40, d.Deduction)
		assert.Equal(t, []string{"Missing visual evidence or documentation."}, d.Factors)
		assert.Equal(t, []string{
			"No supporting evidence uploaded.",
			"Travel claims typically require at least 1 documents.",
		}, d.Issues)
	})

	t.Run("single", func(t *testing.T) {
		d := AnalyzeDocuments([]model.DocumentMetadata{doc("boarding_pass.jpg")}, model.ClaimTypeTravel, r)
		assert.Equal(t, 5, d.Risk)
		assert.Equal(t, 10, d.Deduction)
		assert.Empty(t, d.Factors)
		assert.Equal(t, []string{"Low evidence count (only 1 document)."}, d.Issues)
	})

	t.Run("generic names fire once", func(t *testing.T) {
		docs := []model.DocumentMetadata{doc("IMG_photo1.jpg"), doc("scan_02.pdf"), doc("image.png")}
		d := AnalyzeDocuments(docs, model.ClaimTypeGadget, r)
		assert.Equal(t, 10, d.Risk)
		assert.Len(t, d.Factors, 1)
		assert.Zero(t, d.Deduction)
	})

	t.Run("below minimum is advisory", func(t *testing.T) {
		d := AnalyzeDocuments([]model.DocumentMetadata{doc("dent_front.jpg")}, model.ClaimTypeAuto, r)
		assert.Equal(t, 10, d.Deduction)
		assert.Contains(t, d.Issues, "Auto claims typically require at least 2 documents.")
	})

	t.Run("unknown type skips minimum", func(t *testing.T) {
		docs := []model.DocumentMetadata{doc("a.jpg"), doc("b.jpg")}
		d := AnalyzeDocuments(docs, model.ClaimType("Pet"), r)
		assert.True(t, d.Empty())
	})
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		b    time.Time
		want int
	}{
		{"same instant", base, 0},
		{"one second", base.Add(time.Second), 1},
		{"23 hours", base.Add(23 * time.Hour), 1},
		{"exactly a day", base.Add(24 * time.Hour), 1},
		{"25 hours", base.Add(25 * time.Hour), 2},
		{"backwards", base.Add(-36 * time.Hour), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(base, tt.b))
		})
	}
}

func TestAnalyzeTemporal(t *testing.T) {
	r := rules.Default()
	sub := time.Date(2026, time.June, 30, 9, 0, 0, 0, time.UTC)
	at := func(days int) time.Time { return sub.Add(-time.Duration(days) * day) }

	tests := []struct {
		name   string
		days   int
		risk   int
		factor string
	}{
		{"prompt", 2, 0, ""},
		{"30 is not late", 30, 0, ""},
		{"31", 31, 25, "Delayed reporting: 31 days after incident."},
		{"60", 60, 25, "Delayed reporting: 60 days after incident."},
		{"61", 61, 35, "Significantly delayed reporting: 61 days after incident."},
		{"90", 90, 35, "Significantly delayed reporting: 90 days after incident."},
		{"91", 91, 45, "Severely delayed reporting: 91 days after incident."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AnalyzeTemporal(at(tt.days), sub, "", r)
			assert.Equal(t, tt.risk, d.Risk)
			if tt.factor == "" {
				assert.Empty(t, d.Factors)
			} else {
				assert.Equal(t, []string{tt.factor}, d.Factors)
			}
		})
	}
}

func TestAnalyzeTemporal_SameDayHighValue(t *testing.T) {
	r := rules.Default()
	sub := time.Date(2026, time.June, 30, 9, 0, 0, 0, time.UTC)

	d := AnalyzeTemporal(sub, sub, "My brand new bike", r)
	assert.Equal(t, 10, d.Risk)
	assert.Empty(t, d.Factors)

	// any partial day already counts as one
	d = AnalyzeTemporal(sub.Add(-time.Hour), sub, "My brand new bike", r)
	assert.Zero(t, d.Risk)

	d = AnalyzeTemporal(sub, sub, "My old bike", r)
	assert.Zero(t, d.Risk)
}

func TestAnalyzeLocation(t *testing.T) {
	r := rules.Default()

	tests := []struct {
		name      string
		location  string
		risk      int
		deduction int
		factors   []string
		issues    []string
	}{
		{name: "specific", location: "14 Rue de Rivoli, Paris"},
		{
			name: "vague", location: "somewhere in town",
			risk: 15, deduction: 10,
			factors: []string{"Location description is vague or suspicious."},
			issues:  []string{"Location lacks specificity."},
		},
		{
			name: "missing", location: "  ",
			deduction: 15,
			issues:    []string{"Location information incomplete."},
		},
		{
			name: "alley is vague and high risk", location: "back alley",
			risk: 35, deduction: 10,
			factors: []string{"Location description is vague or suspicious.", "Incident occurred in high-risk location."},
			issues:  []string{"Location lacks specificity."},
		},
		{
			name: "abandoned", location: "abandoned warehouse on Dock Road",
			risk: 20,
			factors: []string{"Incident occurred in high-risk location."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AnalyzeLocation(tt.location, r)
			assert.Equal(t, tt.risk, d.Risk)
			assert.Equal(t, tt.deduction, d.Deduction)
			assert.Equal(t, tt.factors, d.Factors)
			assert.Equal(t, tt.issues, d.Issues)
		})
	}
}

func TestSimulateHistory(t *testing.T) {
	r := rules.Default()

	d := SimulateHistory(NewSequenceSource(0.05, 0.01), r)
	assert.Equal(t, 35, d.Risk)
	assert.Len(t, d.Factors, 2)

	d = SimulateHistory(NewSequenceSource(0.05, 0.5), r)
	assert.Equal(t, 20, d.Risk)

	d = SimulateHistory(NewSequenceSource(0.5, 0.5), r)
	assert.True(t, d.Empty())
	assert.False(t, d.Skipped)

	d = SimulateHistory(nil, r)
	assert.True(t, d.Skipped)

	r.History.Enabled = false
	d = SimulateHistory(NewSequenceSource(0), r)
	assert.True(t, d.Skipped)
	assert.Zero(t, d.Risk)
}

func TestSequenceSource_Wraps(t *testing.T) {
	src := NewSequenceSource(0.1, 0.2)
	assert.Equal(t, 0.1, src.Float64())
	assert.Equal(t, 0.2, src.Float64())
	assert.Equal(t, 0.1, src.Float64())

	assert.Equal(t, 1.0, NewSequenceSource().Float64())
}

func TestRandomSource_SeedIsReproducible(t *testing.T) {
	a := NewRandomSource(7)
	b := NewRandomSource(7)
	for range 5 {
		v := a.Float64()
		assert.Equal(t, v, b.Float64())
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
