package game

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-life/gridio"
)

func writeGridFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    GameConfig
		reason error
	}{
		{name: "zero height", cfg: GameConfig{Height: 0, Width: 1}, reason: ErrPartialDimensions},
		{name: "zero width", cfg: GameConfig{Height: 1, Width: 0}, reason: ErrPartialDimensions},
		{name: "negative height", cfg: GameConfig{Height: -1, Width: 1}, reason: ErrNonPositiveDimensions},
		{name: "negative width", cfg: GameConfig{Height: 1, Width: -1}, reason: ErrNonPositiveDimensions},
		{name: "negative height with path", cfg: GameConfig{Height: -3, Width: 3, Path: "x.txt"}, reason: ErrNonPositiveDimensions},
		{name: "height only with path", cfg: GameConfig{Height: 3, Path: "x.txt"}, reason: ErrPartialDimensions},
		{name: "no size and no path", cfg: GameConfig{}, reason: ErrMissingSource},
		{name: "probability above one", cfg: GameConfig{Height: 2, Width: 2, Random: true, AliveProbability: 1.5}, reason: ErrInvalidProbability},
		{name: "probability below zero", cfg: GameConfig{Height: 2, Width: 2, Random: true, AliveProbability: -0.1}, reason: ErrInvalidProbability},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.True(t, errors.Is(err, tc.reason), "got %v", err)

			_, err = New(tc.cfg)
			assert.True(t, errors.Is(err, tc.reason))
		})
	}
}

func TestValidConfigs(t *testing.T) {
	configs := []GameConfig{
		{Height: 3, Width: 4},
		{Height: 3, Width: 4, Random: true, AliveProbability: 0},
		{Height: 3, Width: 4, Random: true, AliveProbability: 1},
		{Path: "grid.txt"},
		{Path: "grid.txt", Height: 3, Width: 3},
		{Path: "grid.txt", Random: true, AliveProbability: 7},
	}
	for _, cfg := range configs {
		assert.NoError(t, cfg.Validate(), "%+v", cfg)
	}
}

func TestNewDeadGrid(t *testing.T) {
	for _, shape := range [][2]int{{100, 100}, {50, 20}, {20, 50}} {
		s, err := New(GameConfig{Height: shape[0], Width: shape[1]})
		require.NoError(t, err)

		g := s.Current()
		assert.Equal(t, shape[0], g.GetHeight())
		assert.Equal(t, shape[1], g.GetWidth())
		assert.Zero(t, g.CountLivingCells())
		assert.True(t, s.Wrap())
		assert.Zero(t, s.Generation())
	}
}

func TestNewRandomGridIsSeeded(t *testing.T) {
	seed := uint64(42)
	cfg := GameConfig{Height: 40, Width: 30, Random: true, AliveProbability: 0.5, Seed: &seed}

	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)

	assert.True(t, a.Current().Equal(b.Current()))
	assert.Positive(t, a.Current().CountLivingCells())
	assert.Equal(t, cfg, a.Config())
}

func TestNewFromFile(t *testing.T) {
	path := writeGridFile(t, "test_grid_1.txt", "00000\n00000\n01110\n00000\n")

	s, err := New(GameConfig{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Current().GetHeight())
	assert.Equal(t, 5, s.Current().GetWidth())
	assert.Equal(t, 3, s.Current().CountLivingCells())

	_, err = New(GameConfig{Path: path, Height: 4, Width: 5})
	require.NoError(t, err)
}

func TestNewFromFileIgnoresRandomFlag(t *testing.T) {
	path := writeGridFile(t, "grid.txt", "010\n010\n010\n")

	s, err := New(GameConfig{Path: path, Random: true, AliveProbability: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Current().CountLivingCells())
}

func TestNewFromFileShapeMismatch(t *testing.T) {
	path := writeGridFile(t, "grid.txt", "000\n010\n000\n")

	_, err := New(GameConfig{Path: path, Height: 4, Width: 3})
	var shapeErr *gridio.ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
	assert.Equal(t, 3, shapeErr.GotHeight)
}

func TestNewFromFileErrors(t *testing.T) {
	bad := writeGridFile(t, "bad.txt", "000\n020\n000\n")
	_, err := New(GameConfig{Path: bad})
	var formatErr *gridio.FormatError
	assert.True(t, errors.As(err, &formatErr), "got %v", err)

	_, err = New(GameConfig{Path: filepath.Join(t.TempDir(), "missing.txt")})
	var ioErr *gridio.IOError
	assert.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestNewFromRLEFile(t *testing.T) {
	path := writeGridFile(t, "blinker.rle", "#N Blinker\nx = 3, y = 1, rule = B3/S23\n3o!\n")

	s, err := New(GameConfig{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1+2*gridio.DefaultVerticalPadding, s.Current().GetHeight())
	assert.Equal(t, 3+2*gridio.DefaultHorizontalPadding, s.Current().GetWidth())
	assert.Equal(t, 3, s.Current().CountLivingCells())
}

func TestStepBlinker(t *testing.T) {
	path := writeGridFile(t, "blinker.txt", "00000\n00000\n01110\n00000\n00000\n")
	s, err := New(GameConfig{Path: path})
	require.NoError(t, err)

	initial := s.Current()
	next := s.Step()
	assert.Equal(t, 1, s.Generation())
	assert.False(t, initial.Equal(next))
	assert.True(t, next.Get(1, 2))
	assert.True(t, next.Get(2, 2))
	assert.True(t, next.Get(3, 2))
	assert.Equal(t, 3, next.CountLivingCells())

	assert.True(t, initial.Equal(s.Step()))
	assert.True(t, s.Stagnant())
}

func TestStepReturnsSnapshots(t *testing.T) {
	s, err := New(GameConfig{Height: 3, Width: 3})
	require.NoError(t, err)

	a := s.Step()
	a.Set(1, 1, true)
	assert.Zero(t, s.Current().CountLivingCells())

	b := s.Step()
	assert.NotSame(t, a, b)
}

func TestStagnantDetectsStillLife(t *testing.T) {
	path := writeGridFile(t, "block.txt", "0000\n0110\n0110\n0000\n")
	s, err := New(GameConfig{Path: path}, WithWrap(false))
	require.NoError(t, err)
	assert.False(t, s.Wrap())

	assert.False(t, s.Stagnant())
	s.Step()
	assert.True(t, s.Stagnant())
}

func TestStagnantFalseForGlider(t *testing.T) {
	path := writeGridFile(t, "glider.txt", "01000000\n00100000\n11100000\n00000000\n00000000\n00000000\n00000000\n00000000\n")
	s, err := New(GameConfig{Path: path})
	require.NoError(t, err)

	for range 8 {
		s.Step()
		assert.False(t, s.Stagnant())
	}
}

func TestWrapPolicyIsFixedPerSession(t *testing.T) {
	// Only survives on a torus, see the model package edge tests.
	path := writeGridFile(t, "edge.txt", "11000\n00000\n00000\n00000\n10000\n")

	wrapped, err := New(GameConfig{Path: path})
	require.NoError(t, err)
	flat, err := New(GameConfig{Path: path}, WithWrap(false))
	require.NoError(t, err)

	assert.Positive(t, wrapped.Step().CountLivingCells())
	assert.Zero(t, flat.Step().CountLivingCells())
}

func TestSaveRoundTrip(t *testing.T) {
	seed := uint64(3)
	s, err := New(GameConfig{Height: 12, Width: 9, Random: true, AliveProbability: 0.4, Seed: &seed})
	require.NoError(t, err)
	s.Step()

	path := filepath.Join(t.TempDir(), "saved.txt")
	require.NoError(t, s.Save(path))

	loaded, err := New(GameConfig{Path: path, Height: 12, Width: 9})
	require.NoError(t, err)
	assert.True(t, s.Current().Equal(loaded.Current()))
}

func TestSaveFailure(t *testing.T) {
	s, err := New(GameConfig{Height: 2, Width: 2})
	require.NoError(t, err)

	err = s.Save(filepath.Join(t.TempDir(), "missing", "dir", "grid.txt"))
	var ioErr *gridio.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestStagnantLooksBackThreeGenerations(t *testing.T) {
	s, err := New(GameConfig{Height: 4, Width: 4})
	require.NoError(t, err)
	current := s.grid.GetGridHash()

	s.history = []string{current, "b", "c"}
	assert.True(t, s.Stagnant())

	s.history = []string{"a", "b", "c"}
	assert.False(t, s.Stagnant())
}

func TestHistoryIsBounded(t *testing.T) {
	path := writeGridFile(t, "glider.txt", "01000000\n00100000\n11100000\n00000000\n00000000\n00000000\n00000000\n00000000\n")
	s, err := New(GameConfig{Path: path})
	require.NoError(t, err)

	for range 10 {
		s.Step()
		assert.LessOrEqual(t, len(s.history), historySize)
	}
}

func TestConfigDoesNotShareSeed(t *testing.T) {
	seed := uint64(42)
	s, err := New(GameConfig{Height: 3, Width: 3, Random: true, AliveProbability: 0.5, Seed: &seed})
	require.NoError(t, err)

	seed = 7
	require.NotNil(t, s.Config().Seed)
	assert.Equal(t, uint64(42), *s.Config().Seed)

	*s.Config().Seed = 9
	assert.Equal(t, uint64(42), *s.Config().Seed)
}
