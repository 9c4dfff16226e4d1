// Package main is the entry point for the multisplice command-line tool.
//
// multisplice applies a declarative splice plan to an input text. Every rule
// addresses the ORIGINAL input by byte offsets or by pattern, so rules never
// have to account for the output shifts of earlier rules.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/dshills/multisplice/internal/rules"
	"github.com/dshills/multisplice/internal/script"
	"github.com/dshills/multisplice/internal/watch"
	"github.com/dshills/multisplice/splice"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Options holds the parsed command-line configuration.
type Options struct {
	RulesPath  string
	OutputPath string
	RangeArg   string
	InputPath  string // empty means stdin
	Watch      bool
	Verbose    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	window, err := parseRange(opts.RangeArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -range: %v\n", err)
		return 2
	}

	if !opts.Watch {
		if err := applyOnce(opts, window, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if opts.InputPath == "" || opts.OutputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -watch requires a file input and -o")
		return 2
	}
	if err := runWatch(opts, window, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyOnce loads the input and the plan, applies every rule, and writes the
// rendered result.
func applyOnce(opts Options, window *splice.RangeSpec, logger *log.Logger) error {
	input, err := readInput(opts.InputPath)
	if err != nil {
		return err
	}

	plan, err := rules.Load(opts.RulesPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded plan", "rules", len(plan.Rules), "input_bytes", len(input))

	sp := splice.New(input)
	if err := plan.Apply(sp, script.New()); err != nil {
		return err
	}
	logger.Debug("registered splices", "count", sp.EditCount())

	var out string
	if window != nil {
		out, err = sp.SliceRange(*window)
		if err != nil {
			return err
		}
	} else {
		out = sp.String()
	}

	return writeOutput(opts.OutputPath, out)
}

// runWatch re-applies the plan whenever the input or the rule file changes.
// Apply failures are logged and watching continues; only watcher failures
// end the loop.
func runWatch(opts Options, window *splice.RangeSpec, logger *log.Logger) error {
	w, err := watch.New([]string{opts.InputPath, opts.RulesPath})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := applyOnce(opts, window, logger); err != nil {
		logger.Error("apply failed", "err", err)
	} else {
		logger.Info("applied", "output", opts.OutputPath)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("watching", "input", opts.InputPath, "rules", opts.RulesPath)
	for {
		select {
		case ev := <-w.Events():
			logger.Debug("change detected", "path", ev.Path)
			if err := applyOnce(opts, window, logger); err != nil {
				logger.Error("apply failed", "err", err)
				continue
			}
			logger.Info("applied", "output", opts.OutputPath)
		case err := <-w.Errors():
			logger.Error("watch error", "err", err)
		case <-signals:
			logger.Info("shutting down")
			return nil
		}
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func writeOutput(path, text string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// parseRange turns "start:end" (either side optional) into a RangeSpec.
// Returns nil for the empty string, meaning the full input.
func parseRange(arg string) (*splice.RangeSpec, error) {
	if arg == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(arg, ":")
	if !ok {
		return nil, fmt.Errorf("want start:end, got %q", arg)
	}

	spec := splice.All()
	switch {
	case lo != "" && hi != "":
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bad start %q: %w", lo, err)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bad end %q: %w", hi, err)
		}
		spec = splice.Span(start, end)
	case lo != "":
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bad start %q: %w", lo, err)
		}
		spec = splice.From(start)
	case hi != "":
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bad end %q: %w", hi, err)
		}
		spec = splice.To(end)
	}
	return &spec, nil
}

func parseFlags() Options {
	var opts Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.RulesPath, "rules", "", "Path to the splice plan (.toml, .yaml)")
	flag.StringVar(&opts.RulesPath, "r", "", "Path to the splice plan (shorthand)")
	flag.StringVar(&opts.OutputPath, "o", "", "Output path (default stdout)")
	flag.StringVar(&opts.RangeArg, "range", "", "Render only start:end of the original input")
	flag.BoolVar(&opts.Watch, "watch", false, "Re-apply when the input or plan changes")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "multisplice - offset-addressed text splicing\n\n")
		fmt.Fprintf(os.Stderr, "Usage: multisplice -rules PLAN [options] [input]\n\n")
		fmt.Fprintf(os.Stderr, "Applies the splice plan to the input file (or stdin).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  multisplice -rules plan.toml input.txt          Splice a file to stdout\n")
		fmt.Fprintf(os.Stderr, "  cat input.txt | multisplice -rules plan.yaml    Splice stdin\n")
		fmt.Fprintf(os.Stderr, "  multisplice -rules plan.toml -range 3:7 in.txt  Render a window\n")
		fmt.Fprintf(os.Stderr, "  multisplice -rules plan.toml -watch -o out.txt in.txt\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("multisplice %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.RulesPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -rules is required")
		flag.Usage()
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one input file")
		flag.Usage()
		os.Exit(1)
	}
	opts.InputPath = flag.Arg(0)

	return opts
}
