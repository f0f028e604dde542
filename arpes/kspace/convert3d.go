package kspace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-arpes/arpes/interp"
	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EventKind distinguishes the messages sent on Task.Events.
type EventKind int

const (
	// Progress reports that the first Completed slices are finished.
	Progress EventKind = iota
	// Done is sent once after the Spectrum has been updated.
	Done
	// Failed is sent once when the conversion aborted; Err says why.
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Progress:
		return "progress"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a progress or completion notification of a 3D conversion.
type Event struct {
	Kind      EventKind
	Completed int
	Total     int
	Err       error
}

// Task is a running 3D conversion.
type Task struct {
	events chan Event
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// Events returns the notification channel. It carries at most one Progress
// event per slice, in increasing Completed order, followed by exactly one
// Done or Failed event, and is then closed. The channel is buffered for the
// whole conversion, so a caller that never reads it does not stall the task.
func (t *Task) Events() <-chan Event {
	return t.events
}

// Wait blocks until the conversion has finished and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Failed blocks until the conversion has finished and reports whether it
// aborted.
func (t *Task) Failed() bool {
	return t.Wait() != nil
}

// Cancel aborts the conversion. The Spectrum is left unchanged unless the
// conversion had already committed.
func (t *Task) Cancel() {
	t.cancel()
}

// Convert3D runs Start3D and waits for the result.
func Convert3D(ctx context.Context, s *spectrum.Spectrum, opts ...Option) error {
	return Start3D(ctx, s, opts...).Wait()
}

// Start3D converts a 3D angle × angle × energy Spectrum (energy on Z, slit
// angle on X, sweep angle on Y) to kx × ky × energy in the background.
//
// Each energy slice is resampled independently on a pool of cfg.Workers
// goroutines. A slice without a single valid sample fails the whole
// conversion with ErrDomain; cancelling ctx fails it with the context's
// error. The Spectrum is only written after every slice has succeeded and
// must not be accessed by the caller until the task has finished.
func Start3D(ctx context.Context, s *spectrum.Spectrum, opts ...Option) *Task {
	cfg := ApplyOptions(opts...)
	ctx, cancel := context.WithCancel(ctx)

	total := 0
	if s.Dims() == 3 {
		total = s.Dimension[spectrum.Z]
	}
	t := &Task{
		events: make(chan Event, total+1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go t.run(ctx, s, cfg, total)
	return t
}

func (t *Task) run(ctx context.Context, s *spectrum.Spectrum, cfg Config, total int) {
	defer close(t.done)
	defer t.cancel()

	start := time.Now()
	log := cfg.Logger.With(zap.String("spectrum", s.Name))

	err := func() error {
		c, err := newConverter(s, cfg)
		if err != nil {
			return err
		}
		log.Info("momentum conversion started",
			zap.Int("slices", total),
			zap.Int("workers", cfg.Workers),
			zap.Stringer("slit", cfg.Slit),
			zap.Float64("bias", cfg.Bias),
			zap.Int("kx_points", len(c.kx)),
			zap.Int("ky_points", len(c.ky)),
		)
		out, err := c.convert(ctx, t.events, log)
		if err != nil {
			return err
		}
		c.commit(s, out)
		return nil
	}()

	if err != nil {
		t.err = err
		cfg.Metrics.conversion(outcome(err))
		log.Warn("momentum conversion failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		t.events <- Event{Kind: Failed, Total: total, Err: err}
	} else {
		cfg.Metrics.conversion(OutcomeSuccess)
		log.Info("momentum conversion finished", zap.Duration("elapsed", time.Since(start)))
		t.events <- Event{Kind: Done, Completed: total, Total: total}
	}
	close(t.events)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrDomain):
		return OutcomeDomain
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	}
	return OutcomeError
}

// converter holds the read-only inputs of one 3D conversion.
type converter struct {
	cfg        Config
	data       []float64
	nx, ny, nz int
	// xs is the slit-angle scale, shifted by the bias for a horizontal slit.
	xs, ys, zs []float64
	kx, ky     []float64
	seedAlpha  float64
	seedTheta  float64
}

func newConverter(s *spectrum.Spectrum, cfg Config) (*converter, error) {
	if s.Dims() != 3 {
		return nil, fmt.Errorf("%w: 3D conversion needs 3D data, got %dD", ErrRank, s.Dims())
	}
	if s.SpaceMode == spectrum.Momentum {
		return nil, ErrAlreadyMomentum
	}
	if s.EnergyAxis != spectrum.NoAxis && s.EnergyAxis != spectrum.Z {
		return nil, fmt.Errorf("%w: 3D conversion needs energy on Z, got %q", ErrNoEnergyAxis, s.EnergyAxis)
	}

	c := &converter{
		cfg:  cfg,
		data: s.Data,
		nx:   s.Dimension[spectrum.X],
		ny:   s.Dimension[spectrum.Y],
		nz:   s.Dimension[spectrum.Z],
		xs:   s.Scale(spectrum.X),
		ys:   s.Scale(spectrum.Y),
		zs:   s.Scale(spectrum.Z),
	}
	c.seedAlpha = (c.xs[0] + c.xs[c.nx-1]) / 2 * deg
	c.seedTheta = (c.ys[0] + c.ys[c.ny-1]) / 2 * deg

	if cfg.Slit == Horizontal && cfg.Bias != 0 {
		shifted := make([]float64, c.nx)
		for i, x := range c.xs {
			shifted[i] = x + cfg.Bias
		}
		c.xs = shifted
	}

	b := bounds3D(cfg.Slit, cfg.Bias, s.Scale(spectrum.X), c.ys, c.zs)
	if !b.valid() {
		return nil, fmt.Errorf("%w: momentum bounds kx=(%v, %v) ky=(%v, %v)",
			ErrDomain, b.kxmin, b.kxmax, b.kymin, b.kymax)
	}
	nky := int(math.Round(float64(c.nx) * (b.kymax - b.kymin) / (b.kxmax - b.kxmin)))
	if nky < 2 {
		return nil, fmt.Errorf("%w: ky grid of %d points", ErrDomain, nky)
	}
	c.kx = interp.Linspace(b.kxmin, b.kxmax, c.nx)
	c.ky = interp.Linspace(b.kymin, b.kymax, nky)
	return c, nil
}

// convert runs the slices on the worker pool and assembles the result in
// x, y, z order.
func (c *converter) convert(ctx context.Context, events chan<- Event, log *zap.Logger) ([]float64, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	results := make([][]float64, c.nz)
	completed := make(chan int, c.nz)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		ready := make([]bool, c.nz)
		next := 0
		for k := range completed {
			ready[k] = true
			for next < c.nz && ready[next] {
				next++
				events <- Event{Kind: Progress, Completed: next, Total: c.nz}
			}
		}
	}()

	for k := range c.nz {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			start := time.Now()
			slice, err := c.slice(gctx, k)
			if err != nil {
				return err
			}
			results[k] = slice
			c.cfg.Metrics.observeSlice(time.Since(start))
			log.Debug("slice converted", zap.Int("slice", k), zap.Float64("energy", c.zs[k]))
			completed <- k
			return nil
		})
	}
	err := g.Wait()
	close(completed)
	<-collected

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	nky := len(c.ky)
	out := make([]float64, c.nx*nky*c.nz)
	for k, slice := range results {
		for ij, v := range slice {
			out[ij*c.nz+k] = v
		}
	}
	return out, nil
}

// slice converts energy slice k to a row-major kx × ky grid.
func (c *converter) slice(ctx context.Context, k int) ([]float64, error) {
	values := make([]float64, c.nx*c.ny)
	for ij := range values {
		values[ij] = c.data[ij*c.nz+k]
	}
	grid, err := interp.NewGrid2D(c.xs, c.ys, values)
	if err != nil {
		return nil, fmt.Errorf("kspace: slice %d: %w", k, err)
	}

	e := c.zs[k]
	n := kNorm(e)
	phi := c.cfg.Bias * deg
	nky := len(c.ky)
	out := make([]float64, c.nx*nky)
	valid := 0
	for i, kx := range c.kx {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j, ky := range c.ky {
			var a, t float64
			if c.cfg.Slit == Horizontal {
				a, t = KxKyToAngles(e, kx, ky)
			} else {
				ar, tr, ok := Solve(kx/n, ky/n, phi, c.seedAlpha, c.seedTheta,
					c.cfg.MaxIterations, c.cfg.Tolerance)
				if !ok {
					out[i*nky+j] = math.NaN()
					continue
				}
				a, t = ar*rad, tr*rad
			}
			v := grid.At(a, t)
			if !math.IsNaN(v) {
				valid++
			}
			out[i*nky+j] = v
		}
	}
	if valid == 0 {
		return nil, fmt.Errorf("%w: slice %d at E=%g has no valid sample", ErrDomain, k, e)
	}
	return out, nil
}

func (c *converter) commit(s *spectrum.Spectrum, out []float64) {
	s.Data = out
	s.Dimension = []int{len(c.kx), len(c.ky), c.nz}
	s.SetScale(spectrum.X, c.kx)
	s.SetScale(spectrum.Y, c.ky)
	s.EnergyAxis = spectrum.Z
	s.SpaceMode = spectrum.Momentum
	s.MarkModified()
}
