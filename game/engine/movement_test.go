package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveTile_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		board     [][]int
		row, col  int
		dir       Direction
		kind      MoveKind
		to        Position
		expected  [][]int
		scoreGain int
	}{
		{
			name: "merge across a gap",
			board: [][]int{
				{2, 0, 2, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			row: 0, col: 0, dir: Right,
			kind: Success, to: Position{Row: 0, Col: 2},
			expected: [][]int{
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			scoreGain: 4,
		},
		{
			name: "blocked by a different value",
			board: [][]int{
				{2, 4, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			row: 0, col: 0, dir: Right,
			kind: Blocked,
		},
		{
			name: "blocked by the board edge",
			board: [][]int{
				{2, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			row: 0, col: 0, dir: Down,
			kind: Blocked,
		},
		{
			name: "empty source",
			board: [][]int{
				{2, 2, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			row: 1, col: 1, dir: Up,
			kind: EmptySource,
		},
		{
			name:  "out of bounds",
			board: [][]int{{2, 2}, {0, 0}},
			row:   2, col: 0, dir: Up,
			kind: OutOfBounds,
		},
		{
			name:  "negative coordinates",
			board: [][]int{{2, 2}, {0, 0}},
			row:   0, col: -1, dir: Right,
			kind: OutOfBounds,
		},
		{
			name: "merge upward",
			board: [][]int{
				{8, 0, 0},
				{0, 0, 0},
				{8, 0, 0},
			},
			row: 2, col: 0, dir: Up,
			kind: Success, to: Position{Row: 0, Col: 0},
			expected: [][]int{
				{16, 0, 0},
				{0, 0, 0},
				{0, 0, 0},
			},
			scoreGain: 16,
		},
		{
			name: "merge leftward into nearest equal tile only",
			board: [][]int{
				{4, 4, 0, 4},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			row: 0, col: 3, dir: Left,
			kind: Success, to: Position{Row: 0, Col: 1},
			expected: [][]int{
				{4, 8, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			scoreGain: 8,
		},
		{
			name:  "unknown direction is blocked",
			board: [][]int{{2, 2}, {0, 0}},
			row:   0, col: 0, dir: Direction("sideways"),
			kind: Blocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := CloneBoard(tt.board)
			state := NewStateFromBoard(CloneBoard(tt.board))

			result := state.MoveTile(tt.row, tt.col, tt.dir)

			require.Equal(t, tt.kind, result.Kind, "got outcome %s", result.Kind)
			if tt.kind == Success {
				assert.Equal(t, tt.to, result.To)
				assert.Equal(t, tt.expected, state.Board)
				assert.Equal(t, tt.scoreGain, state.Score)
			} else {
				assert.Equal(t, original, state.Board, "board must be unchanged")
				assert.Equal(t, 0, state.Score)
			}
		})
	}
}

func TestMoveTile_MergeConservation(t *testing.T) {
	state := NewStateFromBoard([][]int{
		{2, 0, 2, 8},
		{4, 16, 0, 8},
		{0, 0, 0, 0},
		{32, 0, 0, 4},
	})
	sumBefore := SumTiles(state.Board)
	countBefore := CountTiles(state.Board)

	result := state.MoveTile(0, 3, Down)

	require.Equal(t, Success, result.Kind)
	assert.Equal(t, Position{Row: 1, Col: 3}, result.To)
	assert.Equal(t, sumBefore, SumTiles(state.Board), "two tiles of v become one of 2v")
	assert.Equal(t, countBefore-1, CountTiles(state.Board))
	assert.Equal(t, 16, state.Score)
	assert.Equal(t, 32, state.HighestTile)
}

func TestCanMove(t *testing.T) {
	tests := []struct {
		name     string
		board    [][]int
		expected bool
	}{
		{"empty board", NewBoard(3), false},
		{"single tile", [][]int{{2, 0}, {0, 0}}, false},
		{"adjacent pair", [][]int{{2, 2}, {0, 0}}, true},
		{"pair across gap", [][]int{{4, 0, 0}, {0, 0, 0}, {4, 0, 0}}, true},
		{"pair behind a blocker", [][]int{{2, 4, 2}, {0, 0, 0}, {0, 0, 0}}, false},
		{"checkerboard", [][]int{{2, 4, 2}, {4, 2, 4}, {2, 4, 2}}, false},
		{"full board with one merge", [][]int{{2, 4, 2}, {4, 8, 4}, {2, 4, 4}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewStateFromBoard(tt.board)
			assert.Equal(t, tt.expected, state.CanMove())
			assert.Equal(t, tt.expected, state.CanMove(), "repeated call must agree")
		})
	}
}

func TestCanMove_FalseMeansNoMergeAnywhere(t *testing.T) {
	state := NewStateFromBoard([][]int{
		{2, 4, 2, 4},
		{4, 8, 4, 2},
		{8, 0, 16, 4},
		{4, 2, 4, 2},
	})
	require.False(t, state.CanMove())

	for r := 0; r < state.Size; r++ {
		for c := 0; c < state.Size; c++ {
			for _, d := range Directions {
				probe := NewStateFromBoard(CloneBoard(state.Board))
				res := probe.MoveTile(r, c, d)
				assert.NotEqual(t, Success, res.Kind, "(%d,%d) %s", r, c, d)
			}
		}
	}
}

func TestFindHintCandidates(t *testing.T) {
	board := [][]int{
		{2, 0, 2, 8},
		{4, 16, 0, 8},
		{0, 0, 0, 0},
		{32, 0, 0, 4},
	}
	state := NewStateFromBoard(CloneBoard(board))

	candidates := state.FindHintCandidates()

	assert.Equal(t, []Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: 2},
		{Row: 0, Col: 3},
		{Row: 1, Col: 3},
	}, candidates)
	assert.Equal(t, candidates, state.FindHintCandidates(), "query must be idempotent")
	assert.Equal(t, board, state.Board, "query must not mutate")
	assert.Equal(t, 0, state.Score)
}

func TestFindHintCandidates_MatchesMoveTile(t *testing.T) {
	rng := newTestRand()
	for i := 0; i < 20; i++ {
		state, err := Initialize(DefaultConfig(), rng)
		require.NoError(t, err)

		candidates := map[Position]bool{}
		for _, p := range state.FindHintCandidates() {
			candidates[p] = true
		}

		for r := 0; r < state.Size; r++ {
			for c := 0; c < state.Size; c++ {
				legal := false
				for _, d := range Directions {
					probe := NewStateFromBoard(CloneBoard(state.Board))
					if probe.MoveTile(r, c, d).Kind == Success {
						legal = true
					}
				}
				assert.Equal(t, legal, candidates[Position{Row: r, Col: c}], "(%d,%d)", r, c)
			}
		}
	}
}

func TestFindHintCandidates_EmptyWhenStuck(t *testing.T) {
	state := NewStateFromBoard([][]int{{2, 4}, {4, 2}})
	assert.Empty(t, state.FindHintCandidates())
}

func TestLegalDirections(t *testing.T) {
	state := NewStateFromBoard([][]int{
		{2, 0, 2},
		{0, 4, 0},
		{2, 0, 8},
	})

	assert.Equal(t, []Direction{Down, Right}, state.LegalDirections(0, 0))
	assert.Empty(t, state.LegalDirections(1, 1))
	assert.Nil(t, state.LegalDirections(5, 5))
}
