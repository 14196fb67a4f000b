// Package intake turns raw claim submissions into model.Claim values. It
// validates structure against an embedded JSON schema before decoding, so
// analyzers only ever see claims whose required fields are present.
package intake

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidClaim is wrapped by every structural or decoding failure
var ErrInvalidClaim = errors.New("invalid claim")

//go:embed claim.schema.json
var claimSchema []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(claimSchema))
	})
	return schema, schemaErr
}

// Validate checks a raw JSON document against the claim schema
func Validate(data []byte) error {
	s, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load claim schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidClaim, strings.Join(errs, "; "))
	}
	return nil
}

// Decode validates and decodes one claim. Missing identifiers, submission
// times and statuses are filled in; the claim type is kept as written so
// that unknown types reach the engine and fail open there.
func Decode(data []byte) (model.Claim, error) {
	var claim model.Claim
	if err := Validate(data); err != nil {
		return claim, err
	}
	if err := json.Unmarshal(data, &claim); err != nil {
		return claim, fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}

	if claim.ID == "" {
		claim.ID = NewClaimID()
	}
	if claim.SubmittedAt.IsZero() {
		claim.SubmittedAt = time.Now().UTC()
	}
	if claim.Status == "" {
		claim.Status = model.StatusSubmitted
	}
	if claim.Documents == nil {
		claim.Documents = []model.DocumentMetadata{}
	}
	if canonical, ok := model.ParseClaimType(string(claim.Type)); ok {
		claim.Type = canonical
	}
	return claim, nil
}

// NewClaimID returns a short random claim identifier such as CL-9F86D081
func NewClaimID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CL-" + strings.ToUpper(id[:8])
}
