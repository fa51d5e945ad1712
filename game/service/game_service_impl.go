package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
	"github.com/wricardo/mcp-training/mergetile/game/hint"
)

// gameServiceImpl implements the GameService interface. A single mutex
// serialises every operation, including hints fired by idle timers.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier HintNotifier
	rng      engine.Rand
	mu       sync.Mutex
}

// Option customises the game service
type Option func(*gameServiceImpl)

// WithHintNotifier delivers idle hints to n
func WithHintNotifier(n HintNotifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// WithRand sets the source used to pick hint suggestions
func WithRand(rng engine.Rand) Option {
	return func(s *gameServiceImpl) {
		s.rng = rng
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = engine.NewRand()
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Selected:       copyPosition(sess.Selected),
		GameState:      sess.Engine.GetState().Snapshot(),
		GameConfig:     sess.Config,
	}
}

// getSession looks a session up and marks it as accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	configName = strings.TrimSuffix(configName, ".json")
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if availableConfigs, listErr := s.configs.ListConfigs(); listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("failed to load config '%s' (available: %s): %w",
					configName, strings.Join(configIDs, ", "), err)
			}
			return nil, fmt.Errorf("failed to load config '%s': %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.getConfigID(config.Name)
	}

	id := sess.ID
	sess.HintTimer = hint.NewTimer(time.Duration(config.HintDelaySeconds)*time.Second, func() {
		s.fireHint(id)
	})
	sess.ResetHint()

	logrus.WithFields(logrus.Fields{
		"session": sess.ID,
		"config":  sess.ConfigID,
		"size":    sess.Engine.GetSize(),
	}).Info("session created")

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session and cancels its pending hint
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	return nil
}

// SelectTile makes row,col the session's selected tile
func (s *gameServiceImpl) SelectTile(ctx context.Context, sessionID string, row, col int) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	if !state.InBounds(row, col) {
		return nil, fmt.Errorf("%w: (%d,%d) is outside the %dx%d board", ErrInvalidSelection, row, col, state.Size, state.Size)
	}

	pos := engine.Position{Row: row, Col: col}
	sess.Select(pos)
	sess.ResetHint()

	result := &SelectionResult{
		Selected:        pos,
		Value:           state.Board[row][col],
		LegalDirections: state.LegalDirections(row, col),
		GameState:       state.Snapshot(),
	}
	if result.LegalDirections == nil {
		result.LegalDirections = []engine.Direction{}
	}
	if result.Value == 0 {
		result.Message = sess.Config.Messages.EmptySource
	}
	return result, nil
}

// Move moves the requested or selected tile. Rejected moves are reported in
// the result's outcome, not as errors.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error) {
	direction := engine.Direction(strings.ToLower(strings.TrimSpace(req.Direction)))
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: %q (use up, down, left or right)", ErrInvalidDirection, req.Direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var from engine.Position
	switch {
	case req.Row != nil && req.Col != nil:
		from = engine.Position{Row: *req.Row, Col: *req.Col}
		if sess.Engine.GetState().InBounds(from.Row, from.Col) {
			sess.Select(from)
		}
	case req.Row != nil || req.Col != nil:
		return nil, fmt.Errorf("%w: row and col must be given together", ErrInvalidSelection)
	case sess.Selected != nil:
		from = *sess.Selected
	default:
		return nil, ErrNoSelection
	}

	played := sess.Engine.Play(from.Row, from.Col, direction)
	if played.Succeeded() {
		sess.Select(played.To)
	}
	sess.ResetHint()

	state := sess.Engine.GetState()
	result := &MoveResult{
		Outcome:    played.Kind.String(),
		Success:    played.Succeeded(),
		Direction:  direction,
		From:       from,
		Message:    state.Message,
		ScoreDelta: played.ScoreDelta,
		Spawned:    played.Spawned,
		Expanded:   played.Expanded,
		GameOver:   played.GameOver,
		Selected:   copyPosition(sess.Selected),
		Events:     moveEvents(played, state),
		GameState:  state.Snapshot(),
	}
	if played.Succeeded() {
		result.To = copyPosition(&played.To)
	}

	logrus.WithFields(logrus.Fields{
		"session":   sessionID,
		"from":      fmt.Sprintf("(%d,%d)", from.Row, from.Col),
		"direction": direction,
		"outcome":   result.Outcome,
		"score":     state.Score,
		"size":      state.Size,
	}).Debug("move")

	return result, nil
}

// moveEvents describes what a move changed on the board
func moveEvents(played engine.PlayResult, state *engine.GameState) []GameEvent {
	events := []GameEvent{}
	now := time.Now()

	if !played.Succeeded() {
		if played.GameOver {
			events = append(events, GameEvent{Type: "game_over", Message: state.Message, Timestamp: now})
		}
		return events
	}

	to := played.To
	events = append(events, GameEvent{
		Type:      "merge",
		Message:   fmt.Sprintf("Merged into %d at (%d,%d)", state.Board[to.Row][to.Col], to.Row, to.Col),
		Timestamp: now,
		Position:  &to,
	})

	if len(played.Spawned) > 0 {
		events = append(events, GameEvent{
			Type:      "spawn",
			Message:   fmt.Sprintf("%d new tiles", len(played.Spawned)),
			Timestamp: now,
		})
	}

	if played.Expanded {
		events = append(events, GameEvent{
			Type:      "expand",
			Message:   fmt.Sprintf("Board grew to %dx%d", state.Size, state.Size),
			Timestamp: now,
		})
	}

	if played.GameOver {
		events = append(events, GameEvent{Type: "game_over", Message: state.Message, Timestamp: now})
	}

	return events
}

// Restart starts a fresh game in the session with the same configuration
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state, err := sess.Engine.Restart()
	if err != nil {
		return nil, fmt.Errorf("failed to restart session %s: %w", sessionID, err)
	}
	sess.ClearSelection()
	sess.ResetHint()

	return state.Snapshot(), nil
}

// Hint picks one legal move source at random and selects it
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := s.suggest(sess)
	sess.ResetHint()
	return result, nil
}

// fireHint runs when a session has been idle for its hint delay
func (s *gameServiceImpl) fireHint(sessionID string) {
	s.mu.Lock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.Unlock()
		return
	}
	result := s.suggest(sess)
	s.mu.Unlock()

	if result.Suggestion == nil {
		return
	}

	logrus.WithFields(logrus.Fields{
		"session": sessionID,
		"row":     result.Suggestion.Row,
		"col":     result.Suggestion.Col,
	}).Debug("idle hint")

	if s.notifier != nil {
		s.notifier.NotifyHint(sessionID, result)
	}
}

// suggest must be called with s.mu held
func (s *gameServiceImpl) suggest(sess *Session) *HintResult {
	state := sess.Engine.GetState()
	result := &HintResult{
		Candidates: state.FindHintCandidates(),
	}

	if len(result.Candidates) == 0 {
		result.Message = sess.Config.Messages.GameOver
		return result
	}

	pick := result.Candidates[s.rng.IntN(len(result.Candidates))]
	sess.Select(pick)
	result.Suggestion = &pick
	result.Directions = state.LegalDirections(pick.Row, pick.Col)
	result.Message = sess.Config.Messages.Hint
	return result
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if config == nil {
		return errors.New("config is required")
	}
	return s.configs.SaveConfig(configName, config)
}

func copyPosition(p *engine.Position) *engine.Position {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
