package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/claimsure/internal/model"
	"go.uber.org/zap"
)

// Analyzer triages one claim
type Analyzer interface {
	Analyze(ctx context.Context, claim model.Claim) (*model.Report, error)
}

// Loader resolves a claim source (file, directory or URL) into claims
type Loader interface {
	Load(ctx context.Context, src string) ([]model.Claim, error)
}

// ClaimJob analyzes one claim, waiting on the limiter first
type ClaimJob struct {
	Claim    model.Claim
	Source   string
	Analyzer Analyzer
	Limiter  *Limiter
}

func (j *ClaimJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &ClaimResult{Claim: j.Claim, Source: j.Source}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Claim.PolicyNumber); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	report, err := j.Analyzer.Analyze(ctx, j.Claim)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	report.Source = j.Source
	res.Report = report
	return res
}

// ClaimResult is the outcome for one claim, or for a source that failed to
// load (Claim is then zero)
type ClaimResult struct {
	Claim    model.Claim
	Source   string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many claims concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	loader      Loader
	limiter     *Limiter
	concurrency int
	logger      *zap.Logger
}

// BatchOption configures a BatchProcessor
type BatchOption func(*BatchProcessor)

func WithLimiter(l *Limiter) BatchOption {
	return func(b *BatchProcessor) { b.limiter = l }
}

func WithLoader(l Loader) BatchOption {
	return func(b *BatchProcessor) { b.loader = l }
}

func WithLogger(l *zap.Logger) BatchOption {
	return func(b *BatchProcessor) { b.logger = l }
}

func NewBatchProcessor(analyzer Analyzer, concurrency int, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ProcessClaims analyzes claims and returns one result per claim, in input
// order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []model.Claim) []*ClaimResult {
	sources := make([]string, len(claims))
	return b.process(ctx, claims, sources)
}

// ProcessSources loads every source, then analyzes the claims found.
// Results follow source order, then claim order within each source. A
// source that fails to load yields a single failed result.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) ([]*ClaimResult, error) {
	if b.loader == nil {
		return nil, fmt.Errorf("batch processor has no loader")
	}

	var (
		claims  []model.Claim
		origins []string
		failed  = make(map[int]*ClaimResult) // position in the final result list
	)
	for _, src := range sources {
		loaded, err := b.loader.Load(ctx, src)
		if err != nil {
			b.logger.Warn("failed to load claims", zap.String("source", src), zap.Error(err))
			failed[len(claims)+len(failed)] = &ClaimResult{Source: src, Error: fmt.Errorf("load: %w", err)}
			continue
		}
		b.logger.Debug("loaded claims", zap.String("source", src), zap.Int("count", len(loaded)))
		for _, c := range loaded {
			claims = append(claims, c)
			origins = append(origins, src)
		}
	}

	analyzed := b.process(ctx, claims, origins)

	results := make([]*ClaimResult, 0, len(analyzed)+len(failed))
	next := 0
	for len(results) < cap(results) {
		if f, ok := failed[len(results)]; ok {
			results = append(results, f)
			continue
		}
		results = append(results, analyzed[next])
		next++
	}
	return results, nil
}

func (b *BatchProcessor) process(ctx context.Context, claims []model.Claim, sources []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for i, claim := range claims {
		pool.Submit(&ClaimJob{
			Claim:    claim,
			Source:   sources[i],
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
		})
	}
	raw := pool.Wait()

	results := make([]*ClaimResult, len(claims))
	for i := range claims {
		if i < len(raw) && raw[i] != nil {
			results[i] = raw[i].(*ClaimResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("not processed")
		}
		results[i] = &ClaimResult{Claim: claims[i], Source: sources[i], Error: err}
	}
	return results
}

// Summary tallies a finished batch
type Summary struct {
	Total   int
	Failed  int
	Cached  int
	ByQueue map[model.Queue]int
	ByLevel map[model.RiskLevel]int
}

func Summarize(results []*ClaimResult) Summary {
	s := Summary{
		Total:   len(results),
		ByQueue: make(map[model.Queue]int),
		ByLevel: make(map[model.RiskLevel]int),
	}
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			s.Failed++
			continue
		}
		if r.Report.Cached {
			s.Cached++
		}
		result := r.Report.Result()
		s.ByQueue[result.RecommendedQueue]++
		s.ByLevel[result.RiskLevel]++
	}
	return s
}

// ReadSourceList reads claim sources from a file, one per line. Blank lines
// and # comments are skipped and duplicates dropped.
func ReadSourceList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}
	return sources, nil
}
