package engine

// CountTiles counts the non-empty cells of a board
func CountTiles(board [][]int) int {
	count := 0
	for _, row := range board {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// SumTiles adds up every value on the board
func SumTiles(board [][]int) int {
	sum := 0
	for _, row := range board {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// IsPowerOfTwo reports whether v is a power of two of at least 2
func IsPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// ValidBoard reports whether every cell is empty or a power of two
func ValidBoard(board [][]int) bool {
	for _, row := range board {
		if len(row) != len(board) {
			return false
		}
		for _, v := range row {
			if v != 0 && !IsPowerOfTwo(v) {
				return false
			}
		}
	}
	return true
}

// CloneBoard returns a deep copy of board
func CloneBoard(board [][]int) [][]int {
	out := make([][]int, len(board))
	for i, row := range board {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Snapshot returns a deep copy of the state that later moves will not touch
func (gs *GameState) Snapshot() *GameState {
	cp := *gs
	cp.Board = CloneBoard(gs.Board)
	cp.MoveHistory = make([]MoveHistoryEntry, len(gs.MoveHistory))
	copy(cp.MoveHistory, gs.MoveHistory)
	return &cp
}
