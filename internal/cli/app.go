package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/claimsure/internal/intake"
	"github.com/ppiankov/claimsure/internal/metrics"
	"github.com/ppiankov/claimsure/internal/model"
	"github.com/ppiankov/claimsure/internal/pipeline"
	"github.com/ppiankov/claimsure/internal/rules"
	"github.com/ppiankov/claimsure/internal/score"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Run flags shared by analyze and batch. They override the loaded config
// only when set on the command line.
var (
	latency    time.Duration
	seed       int64
	noCache    bool
	noHistory  bool
	noFooter   bool
	httpProxy  string
	httpsProxy string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&latency, "latency", model.DefaultConfig().Simulation.Latency, "simulated processing delay per claim")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the claimant-history simulator (0 = from clock)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force fresh analysis)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "disable simulated claimant-history signals")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// runConfig loads the merged config and applies the run flags that were set
func runConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("latency") {
		cfg.Simulation.Latency = latency
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if noHistory {
		cfg.Simulation.History = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if httpProxy != "" {
		cfg.Intake.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.Intake.HTTPSProxy = httpsProxy
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// buildEngine loads the rule tables named by cfg, or the built-in ones
func buildEngine(cfg *model.Config) (*score.Engine, error) {
	r := rules.Default()
	if cfg.RulesFile != "" {
		loaded, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		r = loaded
	}
	if !cfg.Simulation.History {
		r.History.Enabled = false
	}

	for _, t := range r.Gaps() {
		logger.Warn("claim type has no consistency rule; its claims skip the consistency check",
			zap.String("type", string(t)))
	}

	return score.NewEngine(r, score.WithRandomSource(score.NewRandomSource(cfg.Simulation.Seed))), nil
}

func newLoader(cfg *model.Config) *intake.Loader {
	return &intake.Loader{
		Fetcher: intake.NewFetcher(
			cfg.Intake.Timeout,
			cfg.Intake.UserAgent,
			cfg.Intake.MaxBodyBytes,
			cfg.Intake.HTTPProxy,
			cfg.Intake.HTTPSProxy,
			cfg.Intake.NoProxy,
		),
		Concurrency: cfg.Concurrency.Workers,
	}
}

func newPipeline(cfg *model.Config, engine *score.Engine, rec *metrics.Recorder) *pipeline.Pipeline {
	return pipeline.New(cfg, engine,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(rec),
	)
}

func newRenderer(cmd *cobra.Command, cfg *model.Config) *pipeline.Renderer {
	var progress io.Writer
	if cfg.Output.Verbose {
		progress = cmd.ErrOrStderr()
	}
	return pipeline.NewRenderer(cfg.Output.IncludeFooter, cmd.OutOrStdout(), progress)
}

func writeMetrics(cmd *cobra.Command, rec *metrics.Recorder, path string) {
	if path == "" {
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not write metrics: %v\n", err)
		return
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote metrics: %s\n", path)
	}
}
