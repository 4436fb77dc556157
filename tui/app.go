// Package tui is the interactive terminal front end: a main menu, input
// prompts for the grid size or file, and the running game view. It only
// talks to the simulation through game.Session.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/game"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

const (
	minScreenHeight = 12
	minScreenWidth  = 20

	eventQueueSize = 64
)

var (
	// ErrWindowTooSmall is returned when the terminal cannot hold the menu.
	ErrWindowTooSmall = errors.New("window is too small")
	// ErrGridTooLarge is returned when the grid does not fit on the terminal.
	ErrGridTooLarge = errors.New("grid larger than the terminal screen")

	// errQuit unwinds the screens when the user asks to leave.
	errQuit = errors.New("quit")
)

// App runs the interactive shell on a tcell screen. The caller owns the
// screen and must have called Init on it.
type App struct {
	screen tcell.Screen
	config utils.Config
	wrap   bool
	events chan tcell.Event
}

// New returns an App drawing on screen with the given shell settings.
func New(screen tcell.Screen, config utils.Config) *App {
	return &App{
		screen: screen,
		config: config,
		wrap:   !config.NoWrap,
		events: make(chan tcell.Event, eventQueueSize),
	}
}

// Run shows the menu and plays the chosen game until the user quits or ctx
// is cancelled. Quitting is not an error.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return a.pollEvents(gctx)
	})
	g.Go(func() error {
		defer func() {
			cancel()
			// wake pollEvents, which is blocked in PollEvent
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}()
		return a.interact(gctx)
	})

	err := g.Wait()
	cancel()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) pollEvents(ctx context.Context) error {
	for {
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		select {
		case a.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// nextEvent waits for the next terminal event. Resizes are applied to the
// screen before being returned.
func (a *App) nextEvent(ctx context.Context) (tcell.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev := <-a.events:
		if _, ok := ev.(*tcell.EventResize); ok {
			a.screen.Sync()
		}
		return ev, nil
	}
}

// nextKey waits for a key press, skipping every other event.
func (a *App) nextKey(ctx context.Context) (*tcell.EventKey, error) {
	for {
		ev, err := a.nextEvent(ctx)
		if err != nil {
			return nil, err
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			return key, nil
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func (a *App) interact(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	if err := a.ensureWindowSize(ctx); err != nil {
		return err
	}

	option, err := a.mainMenu(ctx)
	if err != nil {
		return err
	}

	var session *game.Session
	switch option {
	case optionRandomGrid:
		session, err = a.promptSession(ctx, sizePrompt, a.sizeConfig)
	case optionFileGrid:
		session, err = a.promptSession(ctx, pathPrompt, a.fileConfig)
	default:
		logger.Info("Exit selected from the main menu.")
		return errQuit
	}
	if err != nil {
		return err
	}

	return a.play(ctx, session)
}

func (a *App) ensureWindowSize(ctx context.Context) error {
	width, height := a.screen.Size()
	if height > minScreenHeight && width > minScreenWidth {
		return nil
	}

	utils.LoggerFromContext(ctx).Error("Window is too small.", "width", width, "height", height)
	a.screen.Clear()
	a.drawText(0, 0, "Window is too small.", styleNormal)
	a.drawText(0, 1, "Press any key to exit.", styleNormal)
	a.screen.Show()
	if _, err := a.nextKey(ctx); err != nil {
		return err
	}
	return errors.Wrapf(ErrWindowTooSmall, "[ensureWindowSize] %dx%d", width, height)
}

func (a *App) mainMenu(ctx context.Context) (menuOption, error) {
	var m menu
	for {
		a.drawMenu(m)
		ev, err := a.nextKey(ctx)
		if err != nil {
			return 0, err
		}
		switch ev.Key() {
		case tcell.KeyUp:
			m.up()
		case tcell.KeyDown:
			m.down()
		case tcell.KeyEnter:
			return m.selected, nil
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return 0, errQuit
		}
	}
}

// readInput shows p and returns the confirmed text. errorMsg, if set, is
// shown under the input box.
func (a *App) readInput(ctx context.Context, p prompt, errorMsg string) (string, error) {
	box := textbox{limit: textboxSize - 1}
	for {
		a.drawPrompt(p, &box, errorMsg)
		ev, err := a.nextKey(ctx)
		if err != nil {
			return "", err
		}
		switch ev.Key() {
		case tcell.KeyEnter:
			return box.String(), nil
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return "", errQuit
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			box.backspace()
		case tcell.KeyRune:
			// q only quits on an empty box so file names may contain it
			if ev.Rune() == 'q' && box.empty() {
				return "", errQuit
			}
			box.insert(ev.Rune())
		}
	}
}

// promptSession asks for input until toConfig accepts it and a session can
// be built from the resulting config.
func (a *App) promptSession(
	ctx context.Context,
	p prompt,
	toConfig func(text string) (game.GameConfig, error),
) (*game.Session, error) {
	logger := utils.LoggerFromContext(ctx)

	errorMsg := ""
	for {
		text, err := a.readInput(ctx, p, errorMsg)
		if err != nil {
			return nil, err
		}

		cfg, err := toConfig(text)
		if errors.Is(err, ErrGridTooLarge) {
			return nil, a.gridTooLarge(ctx, err)
		}
		if err != nil {
			logger.Warn("Rejected input.", "input", text, "error", err)
			errorMsg = p.errorMsg
			continue
		}

		session, err := game.New(cfg, game.WithWrap(a.wrap), game.WithLogger(logger))
		if err != nil {
			errorMsg = describeLoadError(err, p)
			continue
		}
		return session, nil
	}
}

func describeLoadError(err error, p prompt) string {
	var cfgErr *game.ConfigError
	if errors.As(err, &cfgErr) {
		return p.errorMsg
	}
	return "Could not load grid. Try another file."
}

func (a *App) sizeConfig(text string) (game.GameConfig, error) {
	height, width, err := ParseDimensions(text)
	if err != nil {
		return game.GameConfig{}, err
	}
	// checked before the grid is allocated
	if height > 0 && width > 0 {
		if _, fits := a.layoutFor(height, width); !fits {
			return game.GameConfig{}, errors.Wrapf(ErrGridTooLarge, "[sizeConfig] %dx%d", height, width)
		}
	}
	return game.GameConfig{
		Height:           height,
		Width:            width,
		Random:           true,
		AliveProbability: a.config.AliveProbability,
		Seed:             a.config.Seed,
	}, nil
}

func (a *App) fileConfig(text string) (game.GameConfig, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return game.GameConfig{}, errors.New("[fileConfig] empty file name")
	}
	path := filepath.Join(a.config.DataDir, name)
	info, err := os.Stat(path)
	if err != nil {
		return game.GameConfig{}, errors.Wrapf(err, "[fileConfig] %+v", path)
	}
	if !info.Mode().IsRegular() {
		return game.GameConfig{}, errors.Errorf("[fileConfig] %+v is not a regular file", path)
	}
	return game.GameConfig{Path: path}, nil
}

// play runs the game view: one generation per frame until the user quits.
func (a *App) play(ctx context.Context, session *game.Session) error {
	logger := utils.LoggerFromContext(ctx)
	stats := utils.NewStats()

	ticker := time.NewTicker(a.config.FrameRate)
	defer ticker.Stop()

	var (
		grid      = session.Current()
		paused    bool
		message   string
		lastFrame = time.Now()
	)
	stats.Update(0, grid.CountLivingCells(), 0)

	for {
		layout, fits := a.layoutGrid(grid)
		if !fits {
			return a.gridTooLarge(ctx, errors.Wrapf(ErrGridTooLarge, "[play] %dx%d", grid.GetHeight(), grid.GetWidth()))
		}
		a.drawGrid(grid, layout, a.status(session, grid, stats, paused, message))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if paused {
				continue
			}
			grid = session.Step()
			stats.Update(session.Generation(), grid.CountLivingCells(), time.Since(lastFrame))
			lastFrame = time.Now()
		case ev := <-a.events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
			case *tcell.EventKey:
				switch {
				case isQuitKey(ev):
					logger.Info("Game stopped.", "generation", session.Generation())
					return errQuit
				case ev.Key() == tcell.KeyRune && ev.Rune() == 's':
					message = a.save(session)
				case ev.Key() == tcell.KeyRune && (ev.Rune() == 'p' || ev.Rune() == ' '):
					paused = !paused
				}
			}
		}
	}
}

func (a *App) save(session *game.Session) string {
	if err := session.Save(a.config.SavePath); err != nil {
		return "Save failed: " + errors.Cause(err).Error()
	}
	return "Saved to " + a.config.SavePath
}

func (a *App) status(session *game.Session, grid *model.Grid, stats *utils.Stats, paused bool, message string) string {
	mode := "wrap"
	if !session.Wrap() {
		mode = "no-wrap"
	}
	state := "running"
	switch {
	case paused:
		state = "paused"
	case session.Stagnant():
		state = "stagnant"
	}
	status := fmt.Sprintf("Gen: %d | Living: %d | Avg Pop: %.1f | %s | %s",
		session.Generation(), grid.CountLivingCells(), stats.AveragePopulation, mode, state)
	if message != "" {
		status += " | " + message
	}
	return status
}

// gridTooLarge shows the grid-too-large message and returns cause once a key
// is pressed.
func (a *App) gridTooLarge(ctx context.Context, cause error) error {
	const text = "Grid larger than the terminal screen. Press a key to exit."
	utils.LoggerFromContext(ctx).Error(text, slog.Any("error", cause))
	a.drawMessage(text)
	if _, err := a.nextKey(ctx); err != nil {
		return err
	}
	return cause
}
