package game

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/gridio"
	"github.com/sheikhrachel/go-life/model"
)

// historySize is how many past generations Stagnant compares against, and so
// the longest oscillator period it detects.
const historySize = 3

// Session owns the current grid of one game. It is not safe for concurrent use.
type Session struct {
	config     GameConfig
	wrap       bool
	grid       *model.Grid
	generation int
	history    []string
	logger     *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithWrap sets the edge policy: true (the default) makes the grid a torus,
// false treats cells beyond the edges as dead.
func WithWrap(wrap bool) Option {
	return func(s *Session) { s.wrap = wrap }
}

// WithLogger sets the logger used by the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New validates cfg and builds the initial grid from it. Validation failures
// are returned as *ConfigError before any grid is created; loading failures
// carry gridio's error types.
func New(cfg GameConfig, opts ...Option) (*Session, error) {
	cfg.Seed = copySeed(cfg.Seed)
	s := &Session{
		config: cfg,
		wrap:   true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Error("Invalid game config.", "error", err)
		return nil, err
	}

	grid, err := initialGrid(cfg)
	if err != nil {
		s.logger.Error("Failed to initialize grid.", "error", err)
		return nil, err
	}
	s.grid = grid

	s.logger.Info("Session created.",
		"height", grid.GetHeight(),
		"width", grid.GetWidth(),
		"wrap", s.wrap,
		"living", grid.CountLivingCells(),
	)
	return s, nil
}

func initialGrid(cfg GameConfig) (*model.Grid, error) {
	switch {
	case cfg.Path != "":
		grid, err := gridio.LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		if cfg.HasDimensions() {
			if err := gridio.CheckShape(grid, cfg.Height, cfg.Width); err != nil {
				return nil, errors.Wrapf(err, "[initialGrid] grid file %+v", cfg.Path)
			}
		}
		return grid, nil
	case cfg.Random:
		return gridio.GenerateRandom(cfg.Height, cfg.Width, cfg.AliveProbability, cfg.Seed), nil
	default:
		return gridio.GenerateBlank(cfg.Height, cfg.Width), nil
	}
}

// Step advances the session by one generation and returns a copy of the new grid.
func (s *Session) Step() *model.Grid {
	s.history = append(s.history, s.grid.GetGridHash())
	if len(s.history) > historySize {
		s.history = s.history[1:]
	}

	s.grid = s.grid.NextGeneration(s.wrap)
	s.generation++
	s.logger.Debug("Generation advanced.", "generation", s.generation, "living", s.grid.CountLivingCells())
	return s.grid.Clone()
}

// Current returns a copy of the current grid.
func (s *Session) Current() *model.Grid {
	return s.grid.Clone()
}

// Save writes the current grid to path as plain text.
func (s *Session) Save(path string) error {
	if err := gridio.SaveFile(path, s.grid); err != nil {
		s.logger.Error("Failed to save grid.", "path", path, "error", err)
		return err
	}
	s.logger.Info("Grid successfully saved.", "path", path, "generation", s.generation)
	return nil
}

// Generation returns how many times Step has been called.
func (s *Session) Generation() int {
	return s.generation
}

// Wrap reports the session's edge policy.
func (s *Session) Wrap() bool {
	return s.wrap
}

// Config returns the config the session was created from.
func (s *Session) Config() GameConfig {
	cfg := s.config
	cfg.Seed = copySeed(cfg.Seed)
	return cfg
}

func copySeed(seed *uint64) *uint64 {
	if seed == nil {
		return nil
	}
	v := *seed
	return &v
}

// Stagnant reports whether the current grid repeats one of the last few
// generations: a still life, an extinct grid, or an oscillator of period 3 or less.
func (s *Session) Stagnant() bool {
	current := s.grid.GetGridHash()
	for _, h := range s.history {
		if h == current {
			return true
		}
	}
	return false
}
