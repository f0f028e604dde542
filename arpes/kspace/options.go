package kspace

import (
	"math"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"go.uber.org/zap"
)

// Slit is the orientation of the analyzer entrance slit relative to the
// sample rotation axis.
type Slit int

const (
	Horizontal Slit = iota
	Vertical
)

func (s Slit) String() string {
	if s == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Config holds the 3D conversion settings.
type Config struct {
	Slit Slit
	// Bias is the azimuthal offset in degrees.
	Bias          float64
	Workers       int
	MaxIterations int
	Tolerance     float64
	Logger        *zap.Logger
	Metrics       *Metrics
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a horizontal slit with zero bias, half the logical
// CPUs as workers, 30 Newton iterations and a tolerance of 1e-7.
func DefaultConfig() Config {
	return Config{
		Slit:          Horizontal,
		Workers:       defaultWorkers(),
		MaxIterations: 30,
		Tolerance:     1e-7,
		Logger:        zap.NewNop(),
	}
}

func defaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	return max(n/2, 1)
}

// WithSlit sets the slit orientation.
func WithSlit(slit Slit) Option {
	return func(cfg *Config) {
		if slit == Horizontal || slit == Vertical {
			cfg.Slit = slit
		}
	}
}

// WithBias sets the azimuthal bias angle in degrees.
func WithBias(bias float64) Option {
	return func(cfg *Config) {
		if !math.IsNaN(bias) && !math.IsInf(bias, 0) {
			cfg.Bias = bias
		}
	}
}

// WithWorkers sets the number of slices converted concurrently.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithMaxIterations bounds the Newton iteration per grid cell.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithTolerance sets the Newton convergence threshold on the normalized
// residual.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 0 && !math.IsInf(tol, 0) {
			cfg.Tolerance = tol
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithMetrics enables metric collection.
func WithMetrics(m *Metrics) Option {
	return func(cfg *Config) {
		cfg.Metrics = m
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
