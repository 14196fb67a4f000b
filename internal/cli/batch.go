package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/claimsure/internal/metrics"
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/pipeline"
	"github.com/ppiankov/claimsure/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	batchTimeout time.Duration
	sourceList   string
	formats      []string
)

var batchCmd = &cobra.Command{
	Use:   "batch [file|dir|url]...",
	Short: "Analyze claims from many sources in parallel",
	Long: `Batch analyzes claims concurrently:
- Load claims from files, directories and URLs (or a --list file of them)
- Analyze claims in parallel with a configurable worker count
- Rate-limit analyses per policy number
- Write a JSON and Markdown report per claim, named by claim ID
- Optionally export prometheus metrics as a textfile

Example:
  claimsure batch claims/
  claimsure batch a.json b.jsonl --concurrency 8 --output-dir ./reports
  claimsure batch --list sources.txt --rate 2 --metrics-file claimsure.prom`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	flags := batchCmd.Flags()
	flags.Int("concurrency", model.DefaultConfig().Concurrency.Workers, "number of concurrent workers")
	flags.String("output-dir", model.DefaultConfig().Output.Dir, "output directory for reports")
	flags.Float64("rate", 0, "analyses per second per policy number (0 = unlimited)")
	flags.Int("burst", model.DefaultConfig().Concurrency.BurstSize, "rate limiter burst size")
	flags.String("metrics-file", "", "write prometheus metrics to this textfile")
	flags.DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	flags.StringVar(&sourceList, "list", "", "file listing claim sources, one per line")
	flags.StringSliceVar(&formats, "format", []string{"json", "md"}, "report formats to write (json, md)")
	addRunFlags(batchCmd)

	_ = viper.BindPFlag("concurrency.workers", flags.Lookup("concurrency"))
	_ = viper.BindPFlag("output.dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("concurrency.requests_per_second", flags.Lookup("rate"))
	_ = viper.BindPFlag("concurrency.burst_size", flags.Lookup("burst"))
	_ = viper.BindPFlag("metrics.file", flags.Lookup("metrics-file"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	sources := append([]string(nil), args...)
	if sourceList != "" {
		listed, err := worker.ReadSourceList(sourceList)
		if err != nil {
			return err
		}
		sources = append(sources, listed...)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no claim sources given (pass files, directories, URLs or --list)")
	}

	writeJSON, writeMD, err := parseFormats(formats)
	if err != nil {
		return err
	}

	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("latency") && !latencyConfigured() {
		cfg.Simulation.Latency = 0
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n%s\n", banner)
	fmt.Fprintf(stderr, "  claimsure Batch Analysis\n")
	fmt.Fprintf(stderr, "%s\n\n", banner)
	fmt.Fprintf(stderr, "  Sources:      %d\n", len(sources))
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.Concurrency.RequestsPerSecond > 0 {
		fmt.Fprintf(stderr, "  Rate limit:   %.2f/s per policy (burst %d)\n", cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.BurstSize)
	}
	fmt.Fprintf(stderr, "\n")

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	rec := metrics.New()
	defer writeMetrics(cmd, rec, cfg.Metrics.File)

	processor := worker.NewBatchProcessor(
		newPipeline(cfg, engine, rec),
		cfg.Concurrency.Workers,
		worker.WithLoader(newLoader(cfg)),
		worker.WithLimiter(worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.BurstSize)),
		worker.WithLogger(logger),
	)

	fmt.Fprintf(stderr, "⚙️  Analyzing claims with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessSources(ctx, sources)
	if err != nil {
		return fmt.Errorf("process sources: %w", err)
	}

	renderer := newRenderer(cmd, cfg)
	for _, result := range results {
		if result.Error != nil {
			if result.Claim.ID == "" {
				rec.ObserveFailure("load")
				fmt.Fprintf(stderr, "✗ %s: %v\n", result.Source, result.Error)
			} else {
				rec.ObserveFailure("analyze")
				fmt.Fprintf(stderr, "✗ %s (%s): %v\n", result.Claim.ID, result.Source, result.Error)
			}
			continue
		}

		base := filepath.Join(cfg.Output.Dir, sanitizeFilename(result.Report.Claim.ID))
		if writeJSON {
			if err := renderer.RenderJSON(result.Report, base+".json"); err != nil {
				rec.ObserveFailure("render")
				result.Error = err
				fmt.Fprintf(stderr, "✗ %s: failed to write JSON: %v\n", result.Report.Claim.ID, err)
				continue
			}
		}
		if writeMD {
			if err := renderer.RenderMarkdown(result.Report, base+".md"); err != nil {
				rec.ObserveFailure("render")
				result.Error = err
				fmt.Fprintf(stderr, "✗ %s: failed to write Markdown: %v\n", result.Report.Claim.ID, err)
				continue
			}
		}

		fmt.Fprintf(stderr, "✓ %s\n", pipeline.Summary(result.Report))
	}

	summary := worker.Summarize(results)
	fmt.Fprintf(stderr, "\n%s\n", banner)
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "%s\n\n", banner)
	fmt.Fprintf(stderr, "  Total:          %d claims\n", summary.Total)
	fmt.Fprintf(stderr, "  Success:        %d\n", summary.Total-summary.Failed)
	fmt.Fprintf(stderr, "  Failures:       %d\n", summary.Failed)
	fmt.Fprintf(stderr, "  Cached:         %d\n", summary.Cached)
	for _, q := range []model.Queue{model.QueueFastTrack, model.QueueStandard, model.QueueInvestigation} {
		fmt.Fprintf(stderr, "  %-15s %d\n", string(q)+":", summary.ByQueue[q])
	}
	fmt.Fprintf(stderr, "  Output:         %s\n\n", cfg.Output.Dir)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d claims failed", summary.Failed, summary.Total)
	}
	return nil
}

// latencyConfigured reports whether the operator asked for a simulated
// latency through the config file or environment
func latencyConfigured() bool {
	_, inEnv := os.LookupEnv("CLAIMSURE_SIMULATION_LATENCY")
	return inEnv || viper.InConfig("simulation.latency")
}

func parseFormats(values []string) (writeJSON, writeMD bool, err error) {
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "json":
			writeJSON = true
		case "md", "markdown":
			writeMD = true
		default:
			return false, false, fmt.Errorf("unknown report format %q (want json or md)", v)
		}
	}
	return writeJSON, writeMD, nil
}
