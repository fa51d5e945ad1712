package service

import (
	"time"

	"github.com/wricardo/mcp-training/mergetile/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Selected       *engine.Position   `json:"selected,omitempty"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveRequest names the direction and optionally the tile to move. Without
// coordinates the session's selected tile is used.
type MoveRequest struct {
	Direction string `json:"direction"`
	Row       *int   `json:"row,omitempty"`
	Col       *int   `json:"col,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Outcome    string            `json:"outcome"` // "success", "blocked", "empty_source", "out_of_bounds"
	Success    bool              `json:"success"`
	Direction  engine.Direction  `json:"direction"`
	From       engine.Position   `json:"from"`
	To         *engine.Position  `json:"to,omitempty"`
	Message    string            `json:"message"`
	ScoreDelta int               `json:"score_delta"`
	Spawned    []engine.Position `json:"spawned,omitempty"`
	Expanded   bool              `json:"expanded"`
	GameOver   bool              `json:"game_over"`
	Selected   *engine.Position  `json:"selected,omitempty"`
	Events     []GameEvent       `json:"events"`
	GameState  *engine.GameState `json:"game_state"`
}

// SelectionResult describes a newly selected tile
type SelectionResult struct {
	Selected        engine.Position    `json:"selected"`
	Value           int                `json:"value"`
	LegalDirections []engine.Direction `json:"legal_directions"`
	Message         string             `json:"message,omitempty"`
	GameState       *engine.GameState  `json:"game_state"`
}

// HintResult lists every tile that can merge and the one suggested
type HintResult struct {
	Candidates []engine.Position  `json:"candidates"`
	Suggestion *engine.Position   `json:"suggestion,omitempty"`
	Directions []engine.Direction `json:"directions,omitempty"`
	Message    string             `json:"message"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "merge", "spawn", "expand", "game_over", "restart"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page" schema:"page"`
	Limit int    `json:"limit" schema:"limit"`
	Order string `json:"order" schema:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename         string `json:"filename"`
	ConfigID         string `json:"config_id"` // The identifier to use for session creation
	Name             string `json:"name"`
	Description      string `json:"description"`
	InitialSize      int    `json:"initial_size"`
	MaxSize          int    `json:"max_size"`
	HintDelaySeconds int    `json:"hint_delay_seconds"`
}
