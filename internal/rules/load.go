package rules

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/claimsure/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRules is wrapped by every load and validation failure
var ErrInvalidRules = errors.New("invalid rules")

// LoadFile overlays the YAML document at path onto the defaults. Fields the
// document does not mention keep their default value, so an operator can
// override a single threshold or keyword list. A claim_types entry replaces
// the whole record for that type.
func LoadFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse overlays a YAML document onto the defaults and validates the result
func Parse(data []byte) (*Rules, error) {
	r := Default()

	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(r); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRules, err)
		}
	}

	r.normalizeClaimTypes()

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Marshal renders the rules as YAML, suitable for feeding back into Parse
func (r *Rules) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeClaimTypes folds keys such as "auto" onto their canonical
// enumerated spelling. Keys that are not enumerated types are kept as written.
// A differently-spelled key can only have come from the file, so it wins over
// the default entry it collides with. A null entry disables the type's rule.
func (r *Rules) normalizeClaimTypes() {
	if len(r.ClaimTypes) == 0 {
		return
	}
	normalized := make(map[model.ClaimType]*ClaimTypeRule, len(r.ClaimTypes))
	for _, exact := range []bool{true, false} {
		for key, rule := range r.ClaimTypes {
			canonical, _ := model.ParseClaimType(string(key))
			if (canonical == key) == exact {
				normalized[canonical] = rule
			}
		}
	}
	r.ClaimTypes = normalized
}

// Digest is a stable hash of the effective rules, used to scope cached
// results to the rules that produced them
func (r *Rules) Digest() string {
	data, err := r.Marshal()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
