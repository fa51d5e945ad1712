package engine

import (
	"errors"
	"fmt"
)

// ErrInitializationExhausted is returned when no playable board was generated
var ErrInitializationExhausted = errors.New("no playable starting board")

// Rand is the subset of *rand.Rand the engine draws from
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewBoard allocates a zero-filled size×size board
func NewBoard(size int) [][]int {
	board := make([][]int, size)
	for i := range board {
		board[i] = make([]int, size)
	}
	return board
}

// NewStateFromBoard wraps an existing square board in a fresh state
func NewStateFromBoard(board [][]int) *GameState {
	gs := &GameState{
		Board:       board,
		Size:        len(board),
		MoveHistory: []MoveHistoryEntry{},
	}
	gs.refresh()
	return gs
}

// Initialize creates a board filled to the configured ratio that has at least
// one legal merge. Generation is retried up to MaxInitAttempts times.
func Initialize(config *GameConfig, rng Rand) (*GameState, error) {
	if config == nil {
		config = DefaultConfig()
	}
	size := config.InitialSize
	attempts := config.MaxInitAttempts
	if attempts <= 0 {
		attempts = MaxInitAttempts
	}

	cells := allPositions(size)
	fillCount := int(config.InitialFillRatio * float64(size*size))

	for attempt := 0; attempt < attempts; attempt++ {
		board := NewBoard(size)
		rng.Shuffle(len(cells), func(i, j int) {
			cells[i], cells[j] = cells[j], cells[i]
		})
		for _, p := range cells[:fillCount] {
			board[p.Row][p.Col] = 2 << rng.IntN(2)
		}

		gs := NewStateFromBoard(board)
		if gs.CanMove() {
			gs.ConfigName = config.Name
			gs.Message = config.Messages.Welcome
			return gs, nil
		}
	}

	return nil, fmt.Errorf("%w: %d attempts at size %d", ErrInitializationExhausted, attempts, size)
}

// InBounds reports whether row,col lies on the board
func (gs *GameState) InBounds(row, col int) bool {
	return row >= 0 && row < gs.Size && col >= 0 && col < gs.Size
}

// HighestTileValue scans the board for the largest tile
func (gs *GameState) HighestTileValue() int {
	highest := 0
	for _, row := range gs.Board {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// FilledRatioValue returns the fraction of non-empty cells
func (gs *GameState) FilledRatioValue() float64 {
	total := gs.Size * gs.Size
	if total == 0 {
		return 0
	}
	return float64(CountTiles(gs.Board)) / float64(total)
}

// PossibleNewTiles returns the values a spawned tile may take. Below 8 that is
// 2 and 4; above, every power of two under the current highest tile.
func (gs *GameState) PossibleNewTiles() []int {
	highest := gs.HighestTileValue()
	if highest < 8 {
		return []int{2, 4}
	}
	var values []int
	for v := 2; v < highest; v *= 2 {
		values = append(values, v)
	}
	return values
}

// EmptyCells lists empty positions in row-major order
func (gs *GameState) EmptyCells() []Position {
	var empty []Position
	for r, row := range gs.Board {
		for c, v := range row {
			if v == 0 {
				empty = append(empty, Position{Row: r, Col: c})
			}
		}
	}
	return empty
}

// AddRandomTiles places up to count tiles on distinct empty cells and returns
// where they landed
func (gs *GameState) AddRandomTiles(count int, rng Rand) []Position {
	empty := gs.EmptyCells()
	if len(empty) == 0 || count <= 0 {
		return nil
	}
	choices := gs.PossibleNewTiles()
	if len(choices) == 0 {
		choices = []int{2, 4}
	}

	rng.Shuffle(len(empty), func(i, j int) {
		empty[i], empty[j] = empty[j], empty[i]
	})
	if count > len(empty) {
		count = len(empty)
	}

	placed := empty[:count]
	for _, p := range placed {
		gs.Board[p.Row][p.Col] = choices[rng.IntN(len(choices))]
	}
	gs.refresh()
	return placed
}

// refresh recomputes the derived fields exposed to clients
func (gs *GameState) refresh() {
	gs.Size = len(gs.Board)
	gs.HighestTile = gs.HighestTileValue()
	gs.FilledRatio = gs.FilledRatioValue()
}

func allPositions(size int) []Position {
	cells := make([]Position, 0, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			cells = append(cells, Position{Row: r, Col: c})
		}
	}
	return cells
}
