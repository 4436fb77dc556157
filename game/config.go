package game

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNonPositiveDimensions = errors.New("grid height and width must be positive if specified")
	ErrPartialDimensions     = errors.New("grid height and width must both be specified if one of them is")
	ErrMissingSource         = errors.New("either grid size or file path must be specified")
	ErrInvalidProbability    = errors.New("alive probability must be between 0 and 1")
)

// ConfigError reports an invalid or contradictory GameConfig. Reason is one
// of the Err* values of this package and can be matched with errors.Is.
type ConfigError struct {
	Reason error
	Height int
	Width  int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid game config (height=%d, width=%d): %v", e.Height, e.Width, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Reason }

// GameConfig fixes how the initial grid of a session is produced:
//
//   - Height and Width with Random unset: an all-dead grid.
//   - Height and Width with Random set: cells alive with AliveProbability,
//     reproducible when Seed is set.
//   - Path: a grid loaded from file. Height and Width may be left at zero to
//     take the file's shape; if given, the file must match them.
//
// Zero Height/Width means "not specified".
type GameConfig struct {
	Height           int
	Width            int
	Random           bool
	AliveProbability float64
	Seed             *uint64
	Path             string
}

// DefaultAliveProbability is used by shells that do not ask for one.
const DefaultAliveProbability = 0.5

// HasDimensions reports whether an explicit size was given.
func (c GameConfig) HasDimensions() bool {
	return c.Height != 0 || c.Width != 0
}

// Validate checks the invariants of c and returns a *ConfigError on failure.
func (c GameConfig) Validate() error {
	fail := func(reason error) error {
		return &ConfigError{Reason: reason, Height: c.Height, Width: c.Width}
	}

	if c.Height < 0 || c.Width < 0 {
		return fail(ErrNonPositiveDimensions)
	}
	if (c.Height == 0) != (c.Width == 0) {
		return fail(ErrPartialDimensions)
	}
	if !c.HasDimensions() && c.Path == "" {
		return fail(ErrMissingSource)
	}
	if c.Path == "" && c.Random && !(c.AliveProbability >= 0 && c.AliveProbability <= 1) {
		return fail(ErrInvalidProbability)
	}
	return nil
}
