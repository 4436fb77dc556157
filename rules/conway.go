package rules

/*
ApplyConwayRules applies Conway's Game of Life rules (B3/S23) to determine the next state of a cell.

A dead cell with exactly 3 living neighbors is born; a living cell with 2 or 3 living neighbors survives.
Every other cell is dead in the next generation.
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}
