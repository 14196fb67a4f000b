package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/claimsure/internal/model"
	"golang.org/x/sync/errgroup"
)

// ReadFile loads every claim in a file. The file may hold a single claim
// object, an array of claims, or one claim per line (JSON Lines).
func ReadFile(path string) ([]model.Claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}
	claims, err := DecodeAll(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return claims, nil
}

// DecodeAll decodes a claim document that may hold one or many claims
func DecodeAll(data []byte) ([]model.Claim, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidClaim)
	}

	var raws []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidClaim, err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		for {
			var raw json.RawMessage
			err := dec.Decode(&raw)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidClaim, len(raws)+1, err)
			}
			raws = append(raws, raw)
		}
	}

	claims := make([]model.Claim, 0, len(raws))
	for i, raw := range raws {
		claim, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// IsClaimFile reports whether a file name looks like a claim document
func IsClaimFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}

// ReadDir loads every claim file directly inside dir, reading up to limit
// files at once. Claims come back ordered by file name, then by position
// within the file. The first failing file aborts the load.
func ReadDir(ctx context.Context, dir string, limit int) ([]model.Claim, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read claims directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsClaimFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	perFile := make([][]model.Claim, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			claims, err := ReadFile(path)
			if err != nil {
				return err
			}
			perFile[i] = claims
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Claim
	for _, claims := range perFile {
		all = append(all, claims...)
	}
	return all, nil
}
