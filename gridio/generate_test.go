package gridio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBlank(t *testing.T) {
	for _, shape := range [][2]int{{100, 100}, {50, 20}, {20, 50}} {
		g := GenerateBlank(shape[0], shape[1])
		assert.Equal(t, shape[0], g.GetHeight())
		assert.Equal(t, shape[1], g.GetWidth())
		assert.Zero(t, g.CountLivingCells())
	}
}

func TestGenerateRandomHasBothStates(t *testing.T) {
	for _, shape := range [][2]int{{100, 100}, {50, 20}, {20, 50}} {
		g := GenerateRandom(shape[0], shape[1], 0.5, nil)
		assert.Equal(t, shape[0], g.GetHeight())
		assert.Equal(t, shape[1], g.GetWidth())
		living := g.CountLivingCells()
		assert.Positive(t, living)
		assert.Less(t, living, shape[0]*shape[1])
	}
}

func TestGenerateRandomIsDeterministicWithSeed(t *testing.T) {
	seed := uint64(42)
	a := GenerateRandom(64, 48, 0.3, &seed)
	b := GenerateRandom(64, 48, 0.3, &seed)
	assert.True(t, a.Equal(b))

	other := uint64(43)
	c := GenerateRandom(64, 48, 0.3, &other)
	assert.False(t, a.Equal(c))
}

func TestGenerateRandomProbability(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1000x1000 calibration in short mode")
	}
	for _, p := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		seed := uint64(p * 1000)
		g := GenerateRandom(1000, 1000, p, &seed)
		fraction := float64(g.CountLivingCells()) / 1e6
		assert.Less(t, math.Abs(fraction-p), 0.1, "p=%v fraction=%v", p, fraction)
	}
}

func TestGenerateRandomExtremes(t *testing.T) {
	assert.Zero(t, GenerateRandom(30, 30, 0, nil).CountLivingCells())
	assert.Equal(t, 900, GenerateRandom(30, 30, 1, nil).CountLivingCells())
}
