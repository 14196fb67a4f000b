package intake

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalClaim = `{
  "claimantName": "Jane Roe",
  "policyNumber": "POL-1",
  "type": "travel",
  "incidentDate": "2026-02-14",
  "incidentDescription": "My luggage never arrived after the flight.",
  "location": "Heathrow Terminal 5",
  "documents": [{"name": "baggage_tag.jpg", "size": 1200}]
}`

func TestDecode_FillsDefaults(t *testing.T) {
	before := time.Now().UTC()
	claim, err := Decode([]byte(minimalClaim))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^CL-[0-9A-F]{8}$`), claim.ID)
	assert.Equal(t, model.StatusSubmitted, claim.Status)
	assert.Equal(t, model.ClaimTypeTravel, claim.Type)
	assert.False(t, claim.SubmittedAt.Before(before))
	assert.Equal(t, model.NewDate(2026, time.February, 14), claim.IncidentDate)
	require.Len(t, claim.Documents, 1)
	assert.Equal(t, "baggage_tag.jpg", claim.Documents[0].Name)
}

func TestDecode_KeepsProvidedFields(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "stolen_car.json"))
	require.NoError(t, err)

	claim, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "CL-100001", claim.ID)
	assert.Equal(t, time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC), claim.SubmittedAt)
	assert.Empty(t, claim.Documents)
	assert.NotNil(t, claim.Documents)
}

func TestDecode_UnknownTypeIsKept(t *testing.T) {
	doc := regexp.MustCompile(`"travel"`).ReplaceAllString(minimalClaim, `"Pet"`)
	claim, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, model.ClaimType("Pet"), claim.Type)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `claim please`},
		{"missing policy", `{"claimantName":"A","type":"Auto","incidentDate":"2026-01-01","incidentDescription":"x","location":"y","documents":[]}`},
		{"documents not array", `{"claimantName":"A","policyNumber":"P","type":"Auto","incidentDate":"2026-01-01","incidentDescription":"x","location":"y","documents":"none"}`},
		{"bad date", `{"claimantName":"A","policyNumber":"P","type":"Auto","incidentDate":"last tuesday","incidentDescription":"x","location":"y","documents":[]}`},
		{"bad status", `{"claimantName":"A","policyNumber":"P","type":"Auto","incidentDate":"2026-01-01","incidentDescription":"x","location":"y","documents":[],"status":"Lost"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidClaim)
		})
	}
}

func TestDecodeAll_Array(t *testing.T) {
	claims, err := DecodeAll([]byte("[" + minimalClaim + "," + minimalClaim + "]"))
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.NotEqual(t, claims[0].ID, claims[1].ID)
}

func TestDecodeAll_ReportsRecordNumber(t *testing.T) {
	_, err := DecodeAll([]byte(minimalClaim + "\n" + `{"claimantName":"B"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidClaim)
	assert.Contains(t, err.Error(), "record 2")
}

func TestReadFile_JSONLines(t *testing.T) {
	claims, err := ReadFile(filepath.Join("testdata", "gadgets.jsonl"))
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "John Doe", claims[0].ClaimantName)
	assert.Equal(t, model.ClaimTypeGadget, claims[0].Type)
	assert.Equal(t, "Ana Silva", claims[1].ClaimantName)
}

func TestReadDir_OrdersByFileName(t *testing.T) {
	dir := t.TempDir()
	write := func(name, policy string) {
		doc := regexp.MustCompile(`"POL-1"`).ReplaceAllString(minimalClaim, `"`+policy+`"`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644))
	}
	write("c.json", "POL-C")
	write("a.json", "POL-A")
	write("b.JSON", "POL-B")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	claims, err := ReadDir(context.Background(), dir, 2)
	require.NoError(t, err)
	require.Len(t, claims, 3)
	assert.Equal(t, "POL-A", claims[0].PolicyNumber)
	assert.Equal(t, "POL-B", claims[1].PolicyNumber)
	assert.Equal(t, "POL-C", claims[2].PolicyNumber)
}

func TestReadDir_FailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(minimalClaim), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"oops":`), 0o644))

	_, err := ReadDir(context.Background(), dir, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestLoader_DispatchesOnSource(t *testing.T) {
	l := &Loader{Concurrency: 2}

	claims, err := l.Load(context.Background(), filepath.Join("testdata", "stolen_car.json"))
	require.NoError(t, err)
	assert.Len(t, claims, 1)

	claims, err = l.Load(context.Background(), "testdata")
	require.NoError(t, err)
	assert.Len(t, claims, 3)

	_, err = l.Load(context.Background(), "https://claims.example.com/batch.json")
	assert.Error(t, err)

	_, err = l.Load(context.Background(), filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}
