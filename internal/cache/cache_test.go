package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
)

func sampleClaim() model.Claim {
	return model.Claim{
		ID:           "CL-1",
		ClaimantName: "John Doe",
		PolicyNumber: "POL-9921",
		Type:         model.ClaimTypeGadget,
		IncidentDate: model.NewDate(2026, time.March, 8),
		Description:  "Dropped my phone.",
		Location:     "221 Baker Street",
		Documents:    []model.DocumentMetadata{{Name: "crack.jpg", Size: 10}},
		SubmittedAt:  time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestFingerprint_IgnoresIdentityFields(t *testing.T) {
	a := sampleClaim()
	b := sampleClaim()
	b.ID = "CL-2"
	b.ClaimantName = "Someone Else"
	b.Status = model.StatusAnalyzed

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("Expected identity fields not to change the fingerprint")
	}
}

func TestFingerprint_TracksAnalysisFields(t *testing.T) {
	base := Fingerprint(sampleClaim())
	mutations := map[string]func(*model.Claim){
		"description": func(c *model.Claim) { c.Description += " cash" },
		"location":    func(c *model.Claim) { c.Location = "downtown" },
		"type":        func(c *model.Claim) { c.Type = model.ClaimTypeHome },
		"incident":    func(c *model.Claim) { c.IncidentDate = model.NewDate(2025, time.March, 8) },
		"submitted":   func(c *model.Claim) { c.SubmittedAt = c.SubmittedAt.Add(time.Hour) },
		"documents":   func(c *model.Claim) { c.Documents = nil },
		"policy":      func(c *model.Claim) { c.PolicyNumber = "POL-1" },
	}
	for name, mutate := range mutations {
		c := sampleClaim()
		mutate(&c)
		if Fingerprint(c) == base {
			t.Errorf("Expected %s to change the fingerprint", name)
		}
	}
}

func TestKey(t *testing.T) {
	k := Key("abc", "rules1")
	if !strings.HasPrefix(k, "claimsure:v1:") {
		t.Errorf("Unexpected key prefix: %s", k)
	}
	if k == Key("abc", "rules2") {
		t.Error("Expected salt to change the key")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Expected part boundaries to matter")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	buf := []byte(`{"a":1}`)
	if err := c.Set("k", buf, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	buf[0] = 'X'

	got, ok := c.Get("k")
	if !ok || string(got) != `{"a":1}` {
		t.Errorf("Expected stored copy, got %q (found=%v)", got, ok)
	}

	_ = c.Set("short", []byte("1"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to expire")
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to be deleted")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("claimsure:v1:abc", []byte(`{"x":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("claimsure:v1:abc")
	if !ok || string(got) != `{"x":1}` {
		t.Fatalf("Expected hit, got %q (found=%v)", got, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get("claimsure:v1:abc"); ok {
		t.Error("Expected entry to expire")
	}
	if _, err := os.Stat(filepath.Join(dir, "claimsure_v1_abc.cache")); !os.IsNotExist(err) {
		t.Error("Expected expired file to be removed")
	}
}

func TestDiskCache_ClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	_ = c.Set("a", []byte(`1`), 0)
	_ = c.Set("b", []byte(`2`), 0)
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Expected cache to be empty")
	}
	if _, err := os.Stat(filepath.Join(dir, "README")); err != nil {
		t.Error("Expected unrelated file to survive Clear")
	}
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Expected deleting a missing key to succeed, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	first := NewLayeredCache(time.Minute, dir, time.Hour, nil)
	if err := first.Set("k", []byte(`"v"`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// a new process starts with an empty memory layer
	second := NewLayeredCache(time.Minute, dir, time.Hour, nil)
	got, ok := second.Get("k")
	if !ok || string(got) != `"v"` {
		t.Fatalf("Expected disk hit, got %q (found=%v)", got, ok)
	}
	if _, ok := second.memory.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}
}

func TestResultStore(t *testing.T) {
	store := NewResultStore(NewMemoryCache(time.Minute, time.Minute), 0, "rules-a")
	claim := sampleClaim()

	if _, _, ok := store.Get(claim); ok {
		t.Fatal("Expected miss on empty store")
	}

	result := model.AnalysisResult{
		CompletenessScore:  90,
		FraudRiskScore:     15,
		RiskLevel:          model.RiskLow,
		RiskFactors:        []string{},
		CompletenessIssues: []string{"Low evidence count (only 1 document)."},
		RecommendedQueue:   model.QueueFastTrack,
	}
	at := time.Date(2026, time.March, 10, 9, 0, 2, 0, time.UTC)
	if err := store.Put(claim, result, at); err != nil {
		t.Fatalf("Put: %v", err)
	}

	resubmitted := claim
	resubmitted.ID = "CL-99"
	got, gotAt, ok := store.Get(resubmitted)
	if !ok {
		t.Fatal("Expected hit for unchanged claim")
	}
	if got.FraudRiskScore != 15 || got.RecommendedQueue != model.QueueFastTrack || len(got.CompletenessIssues) != 1 {
		t.Errorf("Unexpected cached result: %+v", got)
	}
	if !gotAt.Equal(at) {
		t.Errorf("Expected analyzed time %v, got %v", at, gotAt)
	}

	otherRules := NewResultStore(store.cache, 0, "rules-b")
	if _, _, ok := otherRules.Get(claim); ok {
		t.Error("Expected different rules to miss")
	}
}
