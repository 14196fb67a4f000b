package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/claimsure/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	outJSON string
	outMD   string
	timeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|dir|url>",
	Short: "Analyze claims and recommend a processing queue",
	Long: `Analyze scores every claim found at the source:
- Check narrative, documents, timing and location for risk signals
- Check the claim is complete for its type
- Classify the fraud risk and recommend Fast-Track, Standard Review or Investigation
- Explain every score with plain-language factors and issues

The source is a JSON claim file (single object, array or JSON lines), a
directory of claim files, or an http(s) URL serving one of those.

Example:
  claimsure analyze claim.json
  claimsure analyze claim.json --json report.json --md report.md
  claimsure analyze https://intake.example.com/claims/today --latency 0`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	addRunFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	src := args[0]
	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	if cfg.Output.Verbose {
		fmt.Fprintf(stderr, "Analyzing: %s\n", src)
		fmt.Fprintf(stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintf(stderr, "History simulation: %v\n", cfg.Simulation.History)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	rec := metrics.New()
	defer writeMetrics(cmd, rec, cfg.Metrics.File)

	claims, err := newLoader(cfg).Load(ctx, src)
	if err != nil {
		rec.ObserveFailure("load")
		return fmt.Errorf("load claims: %w", err)
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims found in %s", src)
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(stderr, "✓ Loaded %d claim(s)\n", len(claims))
	}

	p := newPipeline(cfg, engine, rec)
	renderer := newRenderer(cmd, cfg)
	many := len(claims) > 1

	for _, claim := range claims {
		report, err := p.Analyze(ctx, claim)
		if err != nil {
			rec.ObserveFailure("analyze")
			return fmt.Errorf("analyze %s: %w", claim.ID, err)
		}
		report.Source = src

		jsonPath := perClaimPath(outJSON, claim.ID, many)
		mdPath := perClaimPath(outMD, claim.ID, many)
		if err := renderer.Render(report, jsonPath, mdPath); err != nil {
			rec.ObserveFailure("render")
			return err
		}
	}
	return nil
}

// perClaimPath keeps one output file per claim when a source holds several:
// report.json becomes report-CL-1A2B3C4D.json
func perClaimPath(path, claimID string, many bool) string {
	if path == "" || !many {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + sanitizeFilename(claimID) + ext
}

// sanitizeFilename makes an identifier safe to use as a file name
func sanitizeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		case ' ':
			return '-'
		}
		return r
	}, s)
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." || s == ".." {
		s = "claim"
	}
	return s
}
