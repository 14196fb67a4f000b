package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the runtime settings of the claimsure CLI. Scoring rules live
// in a separate rules file (see RulesFile) so they can be tuned and reviewed
// independently of operational settings.
type Config struct {
	RulesFile   string            `yaml:"rules_file" mapstructure:"rules_file"`
	Simulation  SimulationConfig  `yaml:"simulation" mapstructure:"simulation"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Intake      IntakeConfig      `yaml:"intake" mapstructure:"intake"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}

// SimulationConfig controls the stand-ins for unavailable backend behaviour
type SimulationConfig struct {
	Latency time.Duration `yaml:"latency" mapstructure:"latency"` // simulated processing delay per claim
	Seed    int64         `yaml:"seed" mapstructure:"seed"`       // 0 means seed from the clock
	History bool          `yaml:"history" mapstructure:"history"` // enable the historical-pattern simulator
}

// CacheConfig controls the analysis result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // per policy number, 0 disables
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// IntakeConfig controls how claims are fetched from remote sources
type IntakeConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig selects the zap logger flavour
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// MetricsConfig controls prometheus textfile export
type MetricsConfig struct {
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "claimsure-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".claimsure", "cache")
	}

	return &Config{
		Simulation: SimulationConfig{
			Latency: 2 * time.Second,
			History: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:   runtime.NumCPU(),
			BurstSize: 5,
		},
		Intake: IntakeConfig{
			Timeout:      30 * time.Second,
			MaxBodyBytes: 2_000_000,
			UserAgent:    "claimsure/0.1 (+https://github.com/ppiankov/claimsure)",
		},
		Output: OutputConfig{
			Dir:           "./claimsure-reports",
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
