package gridio

import (
	"math/rand/v2"

	"github.com/sheikhrachel/go-life/model"
)

// GenerateBlank returns an all-dead grid.
func GenerateBlank(height, width int) *model.Grid {
	return model.NewGrid(height, width)
}

// GenerateRandom returns a grid where every cell is independently alive with
// probability aliveProbability. Cells are drawn row by row from a PCG source
// seeded with (seed, seed), so the same seed and shape always give the same
// grid in this implementation. A nil seed draws a fresh one.
func GenerateRandom(height, width int, aliveProbability float64, seed *uint64) *model.Grid {
	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := model.NewGrid(height, width)
	for row := range g.GetHeight() {
		for col := range g.GetWidth() {
			g.Set(row, col, rng.Float64() < aliveProbability)
		}
	}
	return g
}
