package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/tui"
	"github.com/sheikhrachel/go-life/utils"
)

const defaultConfigFile = "config.json"

// cliError carries the exit code for a failed run.
type cliError struct {
	Code    int
	Message string
}

func (e *cliError) Error() string {
	return e.Message
}

// options holds the parsed command line.
type options struct {
	configPath       string
	noWrap           bool
	headless         bool
	size             string
	load             string
	random           bool
	probability      float64
	seed             uint64
	generations      int
	savePath         string
	quiet            bool
	stopOnStagnation bool
	logLevel         string
	logFormat        string
	logFile          string

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cliError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseArgs(args []string, output io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	flagSet := flag.NewFlagSet("go-life", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
go-life - Conway's Game of Life in the terminal.

Usage:
  go-life [options]

Without -headless, and when attached to a terminal, an interactive menu asks
for a random grid size or a grid file. Otherwise the simulation runs in batch
mode and prints every generation.

Options:
`)
		flagSet.PrintDefaults()
	}

	flagSet.StringVar(&opts.configPath, "config", defaultConfigFile, "Path to a JSON or HCL settings file.")
	flagSet.BoolVar(&opts.noWrap, "nw", false, "Run the game without wrapping edges (shorthand).")
	flagSet.BoolVar(&opts.noWrap, "no-wrapping", false, "Run the game without wrapping edges.")
	flagSet.BoolVar(&opts.headless, "headless", false, "Run without the interactive terminal interface.")
	flagSet.StringVar(&opts.size, "size", "", "Headless: grid size as height,width.")
	flagSet.StringVar(&opts.load, "load", "", "Headless: grid file to load (.txt or .rle).")
	flagSet.BoolVar(&opts.random, "random", true, "Headless: fill a sized grid randomly instead of leaving it dead.")
	flagSet.Float64Var(&opts.probability, "p", 0, "Probability that a random cell starts alive.")
	flagSet.Uint64Var(&opts.seed, "seed", 0, "Seed for reproducible random grids.")
	flagSet.IntVar(&opts.generations, "generations", 0, "Headless: number of generations to run, 0 for no limit.")
	flagSet.StringVar(&opts.savePath, "save", "", "Headless: save the final grid to this path. Interactive: path used by the s key.")
	flagSet.BoolVar(&opts.quiet, "quiet", false, "Headless: do not print frames.")
	flagSet.BoolVar(&opts.stopOnStagnation, "stop-on-stagnation", false, "Headless: stop once the grid is stagnant.")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, &cliError{Code: 0}
		}
		return nil, &cliError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, &cliError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", flagSet.Args())}
	}
	flagSet.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig reads the settings file and applies flag overrides. A missing
// default config file is not an error.
func loadConfig(opts *options) (utils.Config, error) {
	config, err := utils.LoadConfig(opts.configPath)
	if err != nil {
		if opts.set["config"] || !errors.Is(err, os.ErrNotExist) {
			return config, &cliError{Code: 2, Message: err.Error()}
		}
		config = utils.DefaultConfig()
	}

	if opts.set["nw"] || opts.set["no-wrapping"] {
		config.NoWrap = opts.noWrap
	}
	if opts.set["p"] {
		config.AliveProbability = opts.probability
	}
	if opts.set["seed"] {
		seed := opts.seed
		config.Seed = &seed
	}
	if opts.set["generations"] {
		config.MaxGenerations = opts.generations
	}
	if opts.savePath != "" {
		config.SavePath = opts.savePath
	}
	if err := config.Validate(); err != nil {
		return config, &cliError{Code: 2, Message: err.Error()}
	}
	return config, nil
}

// setupLogger builds the logger. The interactive interface owns the
// terminal, so without -log-file its logs are discarded.
func setupLogger(opts *options, interactive bool) (*slog.Logger, func(), error) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	switch {
	case opts.logFile != "":
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[setupLogger] failed to open log file: %+v", opts.logFile)
		}
		w, closeFn = f, func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger, err := utils.NewLogger(w, opts.logLevel, opts.logFormat)
	if err != nil {
		closeFn()
		return nil, nil, &cliError{Code: 2, Message: err.Error()}
	}
	return logger, closeFn, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// run encapsulates the main application logic for easier testing and error handling.
func run(out io.Writer, args []string) error {
	opts, err := parseArgs(args, out)
	if err != nil {
		return err
	}

	config, err := loadConfig(opts)
	if err != nil {
		return err
	}

	interactive := !opts.headless && isTerminal(os.Stdin) && isTerminal(os.Stdout)
	logger, closeLog, err := setupLogger(opts, interactive)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = utils.WithLogger(ctx, logger)

	if !interactive {
		return runHeadless(ctx, out, opts, config)
	}
	return runInteractive(ctx, config)
}

func runInteractive(ctx context.Context, config utils.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "[runInteractive] failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "[runInteractive] failed to initialize screen")
	}
	defer screen.Fini()

	return tui.New(screen, config).Run(ctx)
}
