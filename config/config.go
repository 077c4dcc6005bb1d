// Package config holds the lsgap settings unmarshalled from Viper: the
// settings file named by --config, LSGAP_* environment variables and the
// command line flags bound in cmd.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/lsgap/gapsolve"
	"github.com/katalvlaran/lsgap/logging"
	"github.com/katalvlaran/lsgap/matrix"
)

// ErrInvalid indicates a setting outside its allowed range.
var ErrInvalid = errors.New("config: invalid setting")

// EnvPrefix is the prefix of environment overrides (LSGAP_ESTIMATE_MARK_EDGES).
const EnvPrefix = "LSGAP"

// EstimateConfig are the estimator settings.
type EstimateConfig struct {
	// chi-square cutoff for trusting an edge
	ChiSquareThreshold float64 `mapstructure:"chi-square-threshold"`

	// edges with a larger variance are labelled large-variance
	MaxEdgeVariance float64 `mapstructure:"max-edge-variance"`

	// MaxEdgeVariance multiplier applied when UseGuides is set
	GuideVarianceFactor float64 `mapstructure:"guide-variance-factor"`
	UseGuides           bool    `mapstructure:"use-guides"`

	// variance ceiling of the audit run before every recompute
	AuditMaxVariance float64 `mapstructure:"audit-max-variance"`

	// most negative gap allowed without overlap evidence
	MinAllowedGap float64 `mapstructure:"min-allowed-gap"`

	OverlapSlop      float64 `mapstructure:"overlap-slop"`
	OverlapErrorRate float64 `mapstructure:"overlap-error-rate"`

	// bounds of the relaxed edge test
	MaxAbsoluteSlop float64 `mapstructure:"max-absolute-slop"`
	MaxSigmaSlop    float64 `mapstructure:"max-sigma-slop"`

	MaxAttempts   int     `mapstructure:"max-attempts"`
	CloneGrowth   float64 `mapstructure:"clone-growth"`
	InitialClones int     `mapstructure:"initial-clones"`
	ProgressEvery int     `mapstructure:"progress-every"`

	// relative Cholesky pivot threshold
	PivotTolerance float64 `mapstructure:"pivot-tolerance"`

	MarkEdges         bool `mapstructure:"mark-edges"`
	ForceNonOverlaps  bool `mapstructure:"force-non-overlaps"`
	CheckConnectivity bool `mapstructure:"check-connectivity"`
	RequireTwoEdge    bool `mapstructure:"require-two-edge"`
	AbortOnSingular   bool `mapstructure:"abort-on-singular"`
	Verbose           bool `mapstructure:"verbose"`

	// band solver backend: native or gonum
	Backend string `mapstructure:"backend"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// MetricsConfig is the optional Prometheus Pushgateway target.
type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway"`
	Job         string `mapstructure:"job"`
}

// Config is the root-level settings struct.
type Config struct {
	Input    string         `mapstructure:"input"`
	Output   string         `mapstructure:"output"`
	Estimate EstimateConfig `mapstructure:"estimate"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// SetDefaults registers the documented defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("estimate.chi-square-threshold", gapsolve.DefaultChiSquareThreshold)
	v.SetDefault("estimate.max-edge-variance", gapsolve.DefaultMaxEdgeVariance)
	v.SetDefault("estimate.guide-variance-factor", gapsolve.DefaultGuideVarianceFactor)
	v.SetDefault("estimate.use-guides", false)
	v.SetDefault("estimate.audit-max-variance", gapsolve.DefaultAuditMaxVariance)
	v.SetDefault("estimate.min-allowed-gap", gapsolve.DefaultMinAllowedGap)
	v.SetDefault("estimate.overlap-slop", gapsolve.DefaultOverlapSlop)
	v.SetDefault("estimate.overlap-error-rate", gapsolve.DefaultOverlapErrorRate)
	v.SetDefault("estimate.max-absolute-slop", gapsolve.DefaultMaxAbsoluteSlop)
	v.SetDefault("estimate.max-sigma-slop", gapsolve.DefaultMaxSigmaSlop)
	v.SetDefault("estimate.max-attempts", gapsolve.DefaultMaxAttempts)
	v.SetDefault("estimate.clone-growth", gapsolve.DefaultCloneGrowth)
	v.SetDefault("estimate.initial-clones", gapsolve.DefaultInitialClones)
	v.SetDefault("estimate.progress-every", gapsolve.DefaultProgressEvery)
	v.SetDefault("estimate.pivot-tolerance", gapsolve.DefaultPivotTolerance)
	v.SetDefault("estimate.mark-edges", true)
	v.SetDefault("estimate.force-non-overlaps", true)
	v.SetDefault("estimate.check-connectivity", true)
	v.SetDefault("estimate.require-two-edge", false)
	v.SetDefault("estimate.abort-on-singular", false)
	v.SetDefault("estimate.verbose", false)
	v.SetDefault("estimate.backend", matrix.BackendNative)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("metrics.job", "lsgap")
}

// New returns a Viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the settings file (when path is non-empty) into v and
// unmarshals and validates the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks every range the estimator options would otherwise
// reject with a panic.
func (c Config) Validate() error {
	e := c.Estimate
	checks := []struct {
		ok   bool
		name string
	}{
		{e.ChiSquareThreshold > 0, "chi-square-threshold must be > 0"},
		{e.MaxEdgeVariance > 0, "max-edge-variance must be > 0"},
		{e.GuideVarianceFactor >= 1, "guide-variance-factor must be >= 1"},
		{e.AuditMaxVariance > 0, "audit-max-variance must be > 0"},
		{e.MinAllowedGap <= 0, "min-allowed-gap must be <= 0"},
		{e.OverlapSlop > 0, "overlap-slop must be > 0"},
		{e.OverlapErrorRate >= 0 && e.OverlapErrorRate < 1, "overlap-error-rate must be in [0,1)"},
		{e.MaxAbsoluteSlop > 0 && e.MaxSigmaSlop > 0, "relaxed slops must be > 0"},
		{e.MaxAttempts >= 1, "max-attempts must be >= 1"},
		{e.CloneGrowth > 1, "clone-growth must be > 1"},
		{e.InitialClones >= 1, "initial-clones must be >= 1"},
		{e.ProgressEvery >= 1, "progress-every must be >= 1"},
		{e.PivotTolerance > 0 && e.PivotTolerance < 1, "pivot-tolerance must be in (0,1)"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%w: estimate.%s", ErrInvalid, ch.name)
		}
	}
	if _, err := matrix.SolverByName(e.Backend); err != nil {
		return fmt.Errorf("%w: estimate.backend: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}

	return nil
}

// Logger builds the logger described by c.Log writing to w. Verbose
// estimation forces the debug level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	if c.Estimate.Verbose {
		lvl = logging.LevelDebug
	}
	return logging.New(logging.Config{Level: lvl, JSON: c.Log.JSON, Output: w, Service: "lsgap"})
}

// Options translates c into estimator options. c must be valid.
func (c Config) Options(log *slog.Logger) ([]gapsolve.Option, error) {
	e := c.Estimate
	solver, err := matrix.SolverByName(e.Backend)
	if err != nil {
		return nil, err
	}

	return []gapsolve.Option{
		gapsolve.WithChiSquareThreshold(e.ChiSquareThreshold),
		gapsolve.WithMaxEdgeVariance(e.MaxEdgeVariance),
		gapsolve.WithGuideVarianceFactor(e.GuideVarianceFactor),
		gapsolve.WithUseGuides(e.UseGuides),
		gapsolve.WithAuditMaxVariance(e.AuditMaxVariance),
		gapsolve.WithMinAllowedGap(e.MinAllowedGap),
		gapsolve.WithOverlapSlop(e.OverlapSlop),
		gapsolve.WithOverlapErrorRate(e.OverlapErrorRate),
		gapsolve.WithRelaxedSlop(e.MaxAbsoluteSlop, e.MaxSigmaSlop),
		gapsolve.WithMaxAttempts(e.MaxAttempts),
		gapsolve.WithCloneGrowth(e.CloneGrowth),
		gapsolve.WithInitialClones(e.InitialClones),
		gapsolve.WithProgressEvery(e.ProgressEvery),
		gapsolve.WithPivotTolerance(e.PivotTolerance),
		gapsolve.WithMarkEdges(e.MarkEdges),
		gapsolve.WithForceNonOverlaps(e.ForceNonOverlaps),
		gapsolve.WithCheckConnectivity(e.CheckConnectivity),
		gapsolve.WithRequireTwoEdgeConnected(e.RequireTwoEdge),
		gapsolve.WithAbortOnSingular(e.AbortOnSingular),
		gapsolve.WithVerbose(e.Verbose),
		gapsolve.WithSolver(solver),
		gapsolve.WithLogger(log),
	}, nil
}
