package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/game"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/tui"
	"github.com/sheikhrachel/go-life/utils"
)

const (
	defaultHeadlessHeight = 30
	defaultHeadlessWidth  = 60
)

// headlessGameConfig turns the batch mode flags into a game config.
func headlessGameConfig(opts *options, config utils.Config) (game.GameConfig, error) {
	cfg := game.GameConfig{
		Random:           opts.random,
		AliveProbability: config.AliveProbability,
		Seed:             config.Seed,
		Path:             opts.load,
	}
	switch {
	case opts.size != "":
		height, width, err := tui.ParseDimensions(opts.size)
		if err != nil {
			return cfg, &cliError{Code: 2, Message: err.Error()}
		}
		cfg.Height, cfg.Width = height, width
	case opts.load == "":
		cfg.Height, cfg.Width = defaultHeadlessHeight, defaultHeadlessWidth
	}
	return cfg, nil
}

// runHeadless runs the simulation without the interactive interface,
// printing each generation unless -quiet is set.
func runHeadless(ctx context.Context, out io.Writer, opts *options, config utils.Config) error {
	logger := utils.LoggerFromContext(ctx)

	cfg, err := headlessGameConfig(opts, config)
	if err != nil {
		return err
	}
	session, err := game.New(cfg, game.WithWrap(!config.NoWrap), game.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "[runHeadless] failed to start game")
	}

	outFile, isFile := out.(*os.File)
	live := !opts.quiet && isFile && isTerminal(outFile)
	renderer := &model.TerminalRenderer{Out: out, ClearScreen: live}
	stats := utils.NewStats()

	displayGameInfo(out, session)

	var (
		stagnantCount = 0
		lastFrameTime = time.Now()
		reason        = "generation limit reached"
	)
	for {
		grid := session.Current()
		stats.Update(session.Generation(), grid.CountLivingCells(), time.Since(lastFrameTime))
		lastFrameTime = time.Now()

		if session.Stagnant() {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		if !opts.quiet {
			if err := renderer.Clear(); err != nil {
				logger.Warn("Failed to clear terminal.", "error", err)
			}
			displayGameStatus(out, session, grid, stats, stagnantCount > 0)
			if err := renderer.Display(grid); err != nil {
				return err
			}
		}

		if stop, why := checkStopConditions(session, grid, stagnantCount, config, opts); stop {
			reason = why
			break
		}

		if ctx.Err() != nil {
			reason = "interrupted"
			break
		}

		session.Step()
		if live {
			time.Sleep(config.FrameRate)
		}
	}

	fmt.Fprintf(out, "Stopped: %s\n", reason)
	fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds\n",
		session.Generation(), stats.Elapsed().Seconds())
	fmt.Fprintf(out, "Average: %.1f gen/sec, %.1f avg population, %d peak population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.PeakPopulation)

	if opts.savePath != "" {
		if err := session.Save(opts.savePath); err != nil {
			return errors.Wrap(err, "[runHeadless] failed to save grid")
		}
		fmt.Fprintf(out, "Grid saved to %s\n", opts.savePath)
	}
	return nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, session *game.Session) {
	grid := session.Current()
	fmt.Fprintf(out, "Grid: %dx%d | Wrap: %v | Initial living cells: %d\n",
		grid.GetHeight(), grid.GetWidth(), session.Wrap(), grid.CountLivingCells())
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, session *game.Session, grid *model.Grid, stats *utils.Stats, stagnant bool) {
	living := grid.CountLivingCells()
	density := float64(living) / float64(grid.GetWidth()*grid.GetHeight()) * 100

	status := "Active"
	switch {
	case living == 0:
		status = "Extinct"
	case stagnant:
		status = "Stagnant"
	}
	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s | Avg Pop: %.1f\n",
		session.Generation(), living, density, status, stats.AveragePopulation)
}

// checkStopConditions determines if the batch run should end
func checkStopConditions(
	session *game.Session,
	grid *model.Grid,
	stagnantCount int,
	config utils.Config,
	opts *options,
) (bool, string) {
	if config.MaxGenerations > 0 && session.Generation() >= config.MaxGenerations {
		return true, "generation limit reached"
	}
	if opts.stopOnStagnation {
		if grid.CountLivingCells() == 0 {
			return true, "extinction"
		}
		if stagnantCount >= max(1, config.StagnationThreshold) {
			return true, "stagnation detected"
		}
	}
	return false, ""
}
