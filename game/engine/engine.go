package engine

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Restart() (*GameState, error)
	IsGameOver() bool
	GetScore() int
	GetSize() int

	// Movement operations
	Play(row, col int, direction Direction) PlayResult
	CanMove() bool
	HintCandidates() []Position

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// PlayResult is a move together with what the engine did after it
type PlayResult struct {
	MoveResult
	Spawned    []Position
	Expanded   bool
	ScoreDelta int
	GameOver   bool
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    Rand
}

// NewRand returns a generator seeded from the runtime's random hash seed
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// NewEngine creates a new game engine with the provided configuration. A nil
// rng draws from a freshly seeded generator.
func NewEngine(config *GameConfig, rng Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand()
	}

	state, err := Initialize(config, rng)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		state:  state,
		config: config,
		rng:    rng,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the classic preset
func NewEngineWithDefaults() (*GameEngine, error) {
	return NewEngine(DefaultConfig(), nil)
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state, e.g. with a hand-built board
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if !ValidBoard(state.Board) {
		return fmt.Errorf("board must be square and hold only empty cells or powers of two")
	}
	if state.MoveHistory == nil {
		state.MoveHistory = []MoveHistoryEntry{}
	}
	state.refresh()
	state.GameOver = !state.CanMove()
	e.state = state
	return nil
}

// Restart replaces the game with a freshly initialized one
func (e *GameEngine) Restart() (*GameState, error) {
	state, err := Initialize(e.config, e.rng)
	if err != nil {
		return nil, err
	}
	e.state = state
	return e.state, nil
}

// IsGameOver returns whether no merges are left
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetSize returns the current board size
func (e *GameEngine) GetSize() int {
	return e.state.Size
}

// Play moves the tile at row,col and then runs the follow-up rules: spawning
// while the board is below the fill threshold, board growth and the game-over
// check.
func (e *GameEngine) Play(row, col int, direction Direction) PlayResult {
	if e.state.GameOver {
		e.state.Message = e.config.Messages.GameOver
		return PlayResult{MoveResult: MoveResult{Kind: Blocked}, GameOver: true}
	}

	prevScore := e.state.Score
	result := PlayResult{MoveResult: e.state.MoveTile(row, col, direction)}

	switch result.Kind {
	case OutOfBounds:
		e.state.Message = e.config.Messages.OutOfBounds
	case EmptySource:
		e.state.Message = e.config.Messages.EmptySource
	case Blocked:
		e.state.Message = e.config.Messages.Blocked
	case Success:
		merged := e.state.Board[result.To.Row][result.To.Col]
		e.state.Message = fmt.Sprintf(e.config.Messages.Merged, merged)

		if e.state.FilledRatioValue() < e.config.SpawnFillThreshold {
			result.Spawned = e.state.AddRandomTiles(e.config.SpawnCount, e.rng)
		}
		if e.state.MaybeExpand(e.config.Expansions, e.config.ExpansionSpawnCount, e.rng) {
			result.Expanded = true
			if e.config.Messages.Expanded != "" {
				e.state.Message = fmt.Sprintf(e.config.Messages.Expanded, e.state.Size)
			}
		}
	}
	result.ScoreDelta = e.state.Score - prevScore

	if !e.state.CanMove() {
		e.state.GameOver = true
		e.state.Message = e.config.Messages.GameOver
	}
	result.GameOver = e.state.GameOver

	e.state.AddMoveToHistory(direction, Position{Row: row, Col: col}, result.MoveResult)
	return result
}

// CanMove reports whether any merge is left on the board
func (e *GameEngine) CanMove() bool {
	return e.state.CanMove()
}

// HintCandidates returns every tile with a legal merge
func (e *GameEngine) HintCandidates() []Position {
	return e.state.FindHintCandidates()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(direction Direction, from Position, result MoveResult) {
	entry := MoveHistoryEntry{
		Direction:  direction,
		From:       from,
		Outcome:    result.Kind.String(),
		Score:      gs.Score,
		Size:       gs.Size,
		Timestamp:  time.Now().Unix(),
		MoveNumber: gs.TotalMoves + 1,
	}
	if result.Kind == Success {
		to := result.To
		entry.To = &to
	}
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++
}
