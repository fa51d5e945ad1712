package engine

// DefaultExpansions are the classic growth thresholds
var DefaultExpansions = []ExpansionRule{
	{MinTile: 64, Size: 5},
	{MinTile: 512, Size: 6},
	{MinTile: 2048, Size: 7},
}

// ExpansionTarget returns the size the board should grow to, or the current
// size when no rule applies. Several rules crossed at once collapse into the
// largest size.
func (gs *GameState) ExpansionTarget(rules []ExpansionRule) int {
	highest := gs.HighestTileValue()
	target := gs.Size
	for _, rule := range rules {
		if highest >= rule.MinTile && rule.Size > target {
			target = rule.Size
		}
	}
	return target
}

// MaybeExpand grows the board once if the highest tile crossed a threshold.
// Existing tiles keep their coordinates and spawnCount tiles are added to the
// enlarged board. It reports whether the board grew.
func (gs *GameState) MaybeExpand(rules []ExpansionRule, spawnCount int, rng Rand) bool {
	newSize := gs.ExpansionTarget(rules)
	if newSize <= gs.Size {
		return false
	}

	board := NewBoard(newSize)
	for r, row := range gs.Board {
		copy(board[r], row)
	}
	gs.Board = board
	gs.refresh()

	gs.AddRandomTiles(spawnCount, rng)
	return true
}
