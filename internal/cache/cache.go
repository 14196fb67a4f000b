// Package cache stores analysis results keyed by a fingerprint of the claim
// fields the analyzers read. Backends deal in opaque bytes; ResultStore adds
// the typed layer on top.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
)

const keyPrefix = "claimsure:v1:"

// Cache is a byte-level key/value store with per-entry expiry. A zero TTL
// means the backend's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from one or more fingerprint parts
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// fingerprinted lists every claim field that can change an analysis result.
// Identity fields such as the claim ID and claimant name are left out, so a
// resubmitted claim hits the cache.
type fingerprinted struct {
	PolicyNumber string                   `json:"p"`
	Type         model.ClaimType          `json:"t"`
	IncidentDate string                   `json:"i"`
	SubmittedAt  string                   `json:"s"`
	Description  string                   `json:"d"`
	Location     string                   `json:"l"`
	Documents    []model.DocumentMetadata `json:"f"`
}

// Fingerprint hashes the analysis-relevant fields of a claim
func Fingerprint(claim model.Claim) string {
	data, _ := json.Marshal(fingerprinted{
		PolicyNumber: claim.PolicyNumber,
		Type:         claim.Type,
		IncidentDate: claim.IncidentDate.String(),
		SubmittedAt:  claim.SubmittedAt.UTC().Format(time.RFC3339Nano),
		Description:  claim.Description,
		Location:     claim.Location,
		Documents:    claim.Documents,
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
