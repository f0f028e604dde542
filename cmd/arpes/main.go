// Command arpes inspects, converts and transforms ARPES spectra stored as
// .arpy, .pxt, .pxp or .ig2py files.
//
// Usage:
//
//	arpes [-log-level LEVEL] [-dev] <command> [flags] FILE...
//
// Commands:
//
//	info        print a summary table of every spectrum in the files
//	convert     re-encode a file into another format
//	kspace2d    convert angle × energy cuts to momentum
//	kspace3d    convert angle × angle × energy maps to momentum
//	transform   apply an axis operation (transpose, crop, merge, ...)
//
// Examples:
//
//	arpes info scan.pxp
//	arpes convert -o scan.arpy scan.pxt
//	arpes kspace2d -energy Y -o cut_k.pxt cut.pxt
//	arpes kspace3d -slit V -bias 2.5 -workers 8 -o map_k.arpy map.arpy
//	arpes transform -op crop -range -10:10,16.5:17 -o small.arpy cut.arpy
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-arpes/internal/logging"
	"go.uber.org/zap"
)

// errUsage signals a command line error that has already been reported.
var errUsage = errors.New("usage error")

type app struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
}

type command struct {
	name    string
	summary string
	run     func(a *app, args []string) error
}

var commands = []command{
	{"info", "print a summary table of every spectrum in the files", runInfo},
	{"convert", "re-encode a file into another format", runConvert},
	{"kspace2d", "convert angle × energy cuts to momentum", runKSpace2D},
	{"kspace3d", "convert angle × angle × energy maps to momentum", runKSpace3D},
	{"transform", "apply an axis operation", runTransform},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("arpes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	level := fs.String("log-level", "warn", "minimum log level (debug, info, warn, error)")
	dev := fs.Bool("dev", false, "human-readable development logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: arpes [flags] <command> [command flags] FILE...\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-10s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(stderr, "\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nRun 'arpes <command> -h' for command flags.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "error: unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	logger, err := logging.New(
		logging.WithLevel(*level),
		logging.WithDevelopment(*dev),
		logging.WithFields(map[string]any{"command": name}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	a := &app{ctx: ctx, stdout: stdout, stderr: stderr, log: logger}
	if err := cmd.run(a, fs.Args()[1:]); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// newFlagSet returns a subcommand flag set reporting to a.stderr.
func (a *app) newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: arpes %s %s\n\nFlags:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args and requires between lo and hi positional arguments
// (hi < 0 means unbounded).
func (a *app) parse(fs *flag.FlagSet, args []string, lo, hi int) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if fs.NArg() < lo || (hi >= 0 && fs.NArg() > hi) {
		fmt.Fprintf(a.stderr, "error: %s: wrong number of files\n", fs.Name())
		fs.Usage()
		return errUsage
	}
	return nil
}
