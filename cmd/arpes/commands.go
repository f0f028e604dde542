package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-arpes/arpes/kspace"
	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/arpes/transform"
	"github.com/cwbudde/algo-arpes/format"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func runInfo(a *app, args []string) error {
	fs := a.newFlagSet("info", "FILE...")
	props := fs.Bool("props", false, "also print the property map of every spectrum")
	if err := a.parse(fs, args, 1, -1); err != nil {
		return err
	}

	var specs []*spectrum.Spectrum
	for _, path := range fs.Args() {
		loaded, err := format.Load(path)
		if err != nil {
			return err
		}
		specs = append(specs, loaded...)
	}
	if err := printInfo(a, specs); err != nil {
		return err
	}
	if *props {
		for _, s := range specs {
			fmt.Fprintf(a.stdout, "\n%s:\n", s.Name)
			for _, line := range s.Property.Lines() {
				fmt.Fprintf(a.stdout, "  %s\n", line)
			}
		}
	}
	return nil
}

func printInfo(a *app, specs []*spectrum.Spectrum) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tDimension\tX\tY\tZ\tT\tSpace\tEnergy\tType\n")
	fmt.Fprintf(tw, "----\t---------\t-\t-\t-\t-\t-----\t------\t----\n")
	for _, s := range specs {
		ranges := make([]string, spectrum.MaxDims)
		for i := range ranges {
			ranges[i] = "-"
			if i < s.Dims() {
				ax := s.Axes[i]
				ranges[i] = fmt.Sprintf("%.4g..%.4g", ax.Min, ax.Max)
			}
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Name,
			spectrum.FormatDimension(s.Dimension),
			ranges[0], ranges[1], ranges[2], ranges[3],
			orDash(s.SpaceMode.String()),
			orDash(s.EnergyAxis.String()),
			s.DataType,
		); err != nil {
			return fmt.Errorf("write output row: %w", err)
		}
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runConvert(a *app, args []string) error {
	fs := a.newFlagSet("convert", "-o OUT FILE")
	out := fs.String("o", "", "output file; the format follows its extension")
	if err := a.parse(fs, args, 1, 1); err != nil {
		return err
	}
	if *out == "" {
		fmt.Fprintln(a.stderr, "error: convert: -o is required")
		return errUsage
	}
	specs, err := format.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	a.log.Info("converting", zap.String("in", fs.Arg(0)), zap.String("out", *out), zap.Int("spectra", len(specs)))
	return format.Save(*out, specs...)
}

func runKSpace2D(a *app, args []string) error {
	fs := a.newFlagSet("kspace2d", "[-energy X|Y] -o OUT FILE")
	energy := fs.String("energy", "", "axis carrying kinetic energy (default: the spectrum's tag)")
	out := fs.String("o", "", "output file")
	if err := a.parse(fs, args, 1, 1); err != nil {
		return err
	}
	axis, err := spectrum.ParseAxis(*energy)
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Fprintln(a.stderr, "error: kspace2d: -o is required")
		return errUsage
	}

	specs, err := format.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, s := range specs {
		if err := kspace.Convert2D(s, axis); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		a.log.Info("converted cut", zap.String("spectrum", s.Name), zap.Ints("dimension", s.Dimension))
	}
	return format.Save(*out, specs...)
}

func parseSlit(text string) (kspace.Slit, error) {
	switch strings.ToUpper(text) {
	case "H", "HORIZONTAL":
		return kspace.Horizontal, nil
	case "V", "VERTICAL":
		return kspace.Vertical, nil
	}
	return kspace.Horizontal, fmt.Errorf("unknown slit %q (want H or V)", text)
}

func runKSpace3D(a *app, args []string) error {
	def := kspace.DefaultConfig()
	fs := a.newFlagSet("kspace3d", "[flags] -o OUT FILE")
	slit := fs.String("slit", "H", "slit orientation: H (horizontal) or V (vertical)")
	bias := fs.Float64("bias", 0, "azimuthal bias in degrees")
	workers := fs.Int("workers", def.Workers, "number of slices converted in parallel")
	maxIter := fs.Int("maxiter", def.MaxIterations, "Newton iterations per grid point (vertical slit)")
	tol := fs.Float64("tol", def.Tolerance, "Newton residual tolerance (vertical slit)")
	quiet := fs.Bool("q", false, "do not print progress")
	stats := fs.Bool("stats", false, "print conversion statistics")
	out := fs.String("o", "", "output file")
	if err := a.parse(fs, args, 1, 1); err != nil {
		return err
	}
	orientation, err := parseSlit(*slit)
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Fprintln(a.stderr, "error: kspace3d: -o is required")
		return errUsage
	}

	specs, err := format.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := []kspace.Option{
		kspace.WithSlit(orientation),
		kspace.WithBias(*bias),
		kspace.WithWorkers(*workers),
		kspace.WithMaxIterations(*maxIter),
		kspace.WithTolerance(*tol),
		kspace.WithLogger(a.log),
		kspace.WithMetrics(kspace.NewMetrics(reg)),
	}
	for _, s := range specs {
		task := kspace.Start3D(a.ctx, s, opts...)
		for ev := range task.Events() {
			if ev.Kind == kspace.Progress && !*quiet {
				fmt.Fprintf(a.stderr, "\r%s: slice %d/%d", s.Name, ev.Completed, ev.Total)
			}
		}
		if !*quiet {
			fmt.Fprintln(a.stderr)
		}
		if err := task.Wait(); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	if *stats {
		if err := printStats(a, reg); err != nil {
			return err
		}
	}
	return format.Save(*out, specs...)
}

// printStats writes the counters and histogram sums gathered from reg.
func printStats(a *app, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	tw := tabwriter.NewWriter(a.stderr, 0, 0, 2, ' ', 0)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := mf.GetName()
			for _, lp := range m.GetLabel() {
				label += fmt.Sprintf("{%s=%s}", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(tw, "%s\t%g\n", label, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				avg := time.Duration(0)
				if n := h.GetSampleCount(); n > 0 {
					avg = time.Duration(h.GetSampleSum() / float64(n) * float64(time.Second))
				}
				fmt.Fprintf(tw, "%s\tcount=%d\tavg=%s\n", label, h.GetSampleCount(), avg)
			}
		}
	}
	return tw.Flush()
}

const transformOps = "transpose|zaxis|mirror|crop|merge|normalize|offset|smooth|replacenan|restore"

func runTransform(a *app, args []string) error {
	fs := a.newFlagSet("transform", "-op "+transformOps+" [flags] -o OUT FILE")
	op := fs.String("op", "", "operation: "+transformOps)
	axisText := fs.String("axis", "X", "axis for zaxis, mirror, normalize, offset and smooth")
	rangeText := fs.String("range", "", "crop ranges lo:hi, one per axis, comma separated")
	factorText := fs.String("factor", "", "merge factors, one per axis, comma separated")
	sigma := fs.Float64("sigma", 1, "Gaussian width in samples for smooth")
	delta := fs.Float64("delta", 0, "scale shift for offset")
	value := fs.Float64("value", 0, "replacement for NaN samples")
	out := fs.String("o", "", "output file")
	if err := a.parse(fs, args, 1, 1); err != nil {
		return err
	}
	if *out == "" {
		fmt.Fprintln(a.stderr, "error: transform: -o is required")
		return errUsage
	}
	axis, err := spectrum.ParseAxis(*axisText)
	if err != nil {
		return err
	}

	var apply func(s *spectrum.Spectrum) error
	switch *op {
	case "transpose":
		apply = transform.Transpose
	case "zaxis":
		apply = func(s *spectrum.Spectrum) error { return transform.ChangeZAxis(s, axis) }
	case "mirror":
		apply = func(s *spectrum.Spectrum) error { return transform.Mirror(s, axis) }
	case "normalize":
		apply = func(s *spectrum.Spectrum) error { return transform.Normalize(s, axis) }
	case "offset":
		apply = func(s *spectrum.Spectrum) error { return transform.Offset(s, axis, *delta) }
	case "smooth":
		apply = func(s *spectrum.Spectrum) error { return transform.Smooth(s, axis, *sigma) }
	case "crop":
		ranges, err := parseRanges(*rangeText)
		if err != nil {
			return err
		}
		apply = func(s *spectrum.Spectrum) error { return transform.Crop(s, ranges...) }
	case "merge":
		factors, err := parseInts(*factorText)
		if err != nil {
			return err
		}
		apply = func(s *spectrum.Spectrum) error { return transform.Merge(s, factors...) }
	case "replacenan":
		apply = func(s *spectrum.Spectrum) error {
			n := transform.ReplaceNaN(s, *value)
			a.log.Info("replaced NaN samples", zap.String("spectrum", s.Name), zap.Int("count", n))
			return nil
		}
	case "restore":
		apply = (*spectrum.Spectrum).Restore
	default:
		fmt.Fprintf(a.stderr, "error: transform: unknown operation %q\n", *op)
		fs.Usage()
		return errUsage
	}

	specs, err := format.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, s := range specs {
		if err := apply(s); err != nil {
			return fmt.Errorf("%s: %s: %w", s.Name, *op, err)
		}
		a.log.Info("transformed", zap.String("spectrum", s.Name), zap.String("op", *op),
			zap.Ints("dimension", s.Dimension), zap.Bool("raw", s.IsRaw()))
	}
	return format.Save(*out, specs...)
}

// parseRanges parses "lo:hi,lo:hi,...".
func parseRanges(text string) ([]transform.Range, error) {
	if text == "" {
		return nil, fmt.Errorf("crop needs -range")
	}
	var out []transform.Range
	for _, part := range strings.Split(text, ",") {
		lo, hi, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("range %q: want lo:hi", part)
		}
		l, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", part, err)
		}
		h, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", part, err)
		}
		out = append(out, transform.Range{Lo: l, Hi: h})
	}
	return out, nil
}

// parseInts parses "2,2,1".
func parseInts(text string) ([]int, error) {
	if text == "" {
		return nil, fmt.Errorf("merge needs -factor")
	}
	var out []int
	for _, part := range strings.Split(text, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("factor %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

