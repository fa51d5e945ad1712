package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/mergetile/game/engine"
	"github.com/wricardo/mcp-training/mergetile/game/hint"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoSelection      = errors.New("no tile selected")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	SelectTile(ctx context.Context, sessionID string, row, col int) (*SelectionResult, error)
	Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)
	Hint(ctx context.Context, sessionID string) (*HintResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// HintNotifier receives hints raised by idle timers
type HintNotifier interface {
	NotifyHint(sessionID string, result *HintResult)
}

// Session represents an active game session. Selection and the hint timer are
// presentation state and live here rather than in the engine.
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	Selected       *engine.Position
	HintTimer      *hint.Timer
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Select makes p the selected tile
func (s *Session) Select(p engine.Position) {
	s.Selected = &p
}

// ClearSelection drops the selected tile
func (s *Session) ClearSelection() {
	s.Selected = nil
}

// ResetHint restarts the idle hint countdown
func (s *Session) ResetHint() {
	if s.HintTimer != nil {
		s.HintTimer.Reset()
	}
}

// Close cancels any pending hint
func (s *Session) Close() {
	if s.HintTimer != nil {
		s.HintTimer.Stop()
	}
}
