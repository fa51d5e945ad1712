package engine

// scan walks from row,col in direction d, skipping empty cells, and returns
// the first occupied cell. ok is false when the walk leaves the board.
func (gs *GameState) scan(row, col int, d Direction) (Position, bool) {
	dr, dc, valid := d.delta()
	if !valid {
		return Position{}, false
	}
	r, c := row+dr, col+dc
	for gs.InBounds(r, c) {
		if gs.Board[r][c] != 0 {
			return Position{Row: r, Col: c}, true
		}
		r += dr
		c += dc
	}
	return Position{}, false
}

// mergeTarget returns the cell row,col would merge into when moved in d
func (gs *GameState) mergeTarget(row, col int, d Direction) (Position, bool) {
	value := gs.Board[row][col]
	if value == 0 {
		return Position{}, false
	}
	next, ok := gs.scan(row, col, d)
	if !ok || gs.Board[next.Row][next.Col] != value {
		return Position{}, false
	}
	return next, true
}

// MoveTile moves the tile at row,col in direction d. The tile passes over
// empty cells and merges into the first tile of equal value; a different value
// or the board edge blocks it and leaves the board untouched.
func (gs *GameState) MoveTile(row, col int, d Direction) MoveResult {
	if !gs.InBounds(row, col) {
		return MoveResult{Kind: OutOfBounds}
	}
	current := gs.Board[row][col]
	if current == 0 {
		return MoveResult{Kind: EmptySource}
	}

	target, ok := gs.mergeTarget(row, col, d)
	if !ok {
		return MoveResult{Kind: Blocked}
	}

	gs.Board[target.Row][target.Col] = current * 2
	gs.Board[row][col] = 0
	gs.Score += current * 2
	gs.refresh()

	return MoveResult{Kind: Success, To: target}
}

// CanMove reports whether any tile has a legal merge in any direction
func (gs *GameState) CanMove() bool {
	for r := 0; r < gs.Size; r++ {
		for c := 0; c < gs.Size; c++ {
			if gs.hasMerge(r, c) {
				return true
			}
		}
	}
	return false
}

// FindHintCandidates returns every tile that is a legal move source, in
// row-major order. It does not modify the state.
func (gs *GameState) FindHintCandidates() []Position {
	candidates := []Position{}
	for r := 0; r < gs.Size; r++ {
		for c := 0; c < gs.Size; c++ {
			if gs.hasMerge(r, c) {
				candidates = append(candidates, Position{Row: r, Col: c})
			}
		}
	}
	return candidates
}

// LegalDirections returns the directions in which the tile at row,col merges
func (gs *GameState) LegalDirections(row, col int) []Direction {
	if !gs.InBounds(row, col) {
		return nil
	}
	var dirs []Direction
	for _, d := range Directions {
		if _, ok := gs.mergeTarget(row, col, d); ok {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (gs *GameState) hasMerge(row, col int) bool {
	if gs.Board[row][col] == 0 {
		return false
	}
	for _, d := range Directions {
		if _, ok := gs.mergeTarget(row, col, d); ok {
			return true
		}
	}
	return false
}
