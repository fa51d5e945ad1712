// Command bruteforcer plays Merge Tile through the REST API until a target
// tile shows up on the board, restarting the session for each attempt.
//
//	go run ./bruteforcer --url http://localhost:8080 --config quick --target 256
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
	"github.com/wricardo/mcp-training/mergetile/game/service"
)

// Client talks to one session of the game server
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session with the given preset
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

// Resume switches the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodGet, c.sessionPath(""), nil, &info); err != nil {
		return nil, err
	}
	return info.GameState, nil
}

// Move pushes the tile at from in dir
func (c *Client) Move(ctx context.Context, from engine.Position, dir engine.Direction) (*service.MoveResult, error) {
	req := service.MoveRequest{Direction: string(dir), Row: &from.Row, Col: &from.Col}

	var result service.MoveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Restart deals a fresh board for the session
func (c *Client) Restart(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/restart"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

type playOptions struct {
	Target      int
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
	Verbose     bool
}

// AttemptResult summarises one game
type AttemptResult struct {
	Attempt     int
	Moves       int
	Score       int
	HighestTile int
	Reached     bool
}

// play restarts the session and plays until the target tile appears or the
// attempts run out. It returns the best attempt.
func play(ctx context.Context, client *Client, strategy *GreedyStrategy, opts playOptions) (*AttemptResult, error) {
	log := logrus.WithField("session", client.SessionID())
	var best *AttemptResult

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		state, err := client.Restart(ctx)
		if err != nil {
			return best, fmt.Errorf("restart: %w", err)
		}

		result := &AttemptResult{Attempt: attempt}
		for !state.GameOver && state.HighestTile < opts.Target && result.Moves < opts.MaxMoves {
			move, ok := strategy.NextMove(state)
			if !ok {
				break
			}

			moved, err := client.Move(ctx, move.From, move.Direction)
			if err != nil {
				return best, err
			}
			if !moved.Success {
				// The server disagrees with our copy of the board
				log.WithFields(logrus.Fields{
					"from":      move.From,
					"direction": move.Direction,
					"outcome":   moved.Outcome,
				}).Warn("move rejected")
				break
			}
			state = moved.GameState
			result.Moves++

			if opts.Verbose && result.Moves%50 == 0 {
				log.WithFields(logrus.Fields{
					"moves":   result.Moves,
					"score":   state.Score,
					"highest": state.HighestTile,
					"size":    state.Size,
				}).Info("progress")
			}

			if opts.Delay > 0 {
				select {
				case <-ctx.Done():
					return best, ctx.Err()
				case <-time.After(opts.Delay):
				}
			}
		}

		result.Score = state.Score
		result.HighestTile = state.HighestTile
		result.Reached = state.HighestTile >= opts.Target

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"moves":   result.Moves,
			"score":   result.Score,
			"highest": result.HighestTile,
		}).Info("attempt finished")

		if best == nil || result.HighestTile > best.HighestTile ||
			(result.HighestTile == best.HighestTile && result.Score > best.Score) {
			best = result
		}
		if result.Reached {
			return result, nil
		}
	}
	return best, nil
}

// openSession resumes the saved or requested session, falling back to a new
// one, and remembers its ID in sessionFile
func openSession(ctx context.Context, client *Client, configID, sessionID, sessionFile string) error {
	if sessionID == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			sessionID = string(bytes.TrimSpace(data))
		}
	}

	if sessionID != "" {
		_, err := client.Resume(ctx, sessionID)
		if err == nil {
			logrus.WithField("session", sessionID).Info("resumed session")
			return nil
		}
		logrus.WithError(err).WithField("session", sessionID).Warn("could not resume session, creating a new one")
	}

	if _, err := client.CreateSession(ctx, configID); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	logrus.WithField("session", client.SessionID()).Info("session created")

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
			logrus.WithError(err).Warn("failed to save session ID")
		}
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "bruteforcer",
		Usage: "play through the REST API until a target tile appears",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Sources: cli.EnvVars("MERGETILE_API_URL"), Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "preset for new sessions (server default when empty)"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "where the session ID is remembered between runs"},
			&cli.IntFlag{Name: "target", Value: 2048, Usage: "tile value that ends the run"},
			&cli.IntFlag{Name: "max-moves", Value: 3000, Usage: "maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log progress every 50 moves"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	target := cmd.Int("target")
	if !engine.IsPowerOfTwo(target) {
		return fmt.Errorf("target must be a power of two, got %d", target)
	}

	client := NewClient(cmd.String("url"))
	logrus.WithField("url", cmd.String("url")).Info("connecting to game server")

	if err := openSession(ctx, client, cmd.String("config"), cmd.String("continue"), cmd.String("session-file")); err != nil {
		return err
	}

	best, err := play(ctx, client, NewGreedyStrategy(), playOptions{
		Target:      target,
		MaxMoves:    cmd.Int("max-moves"),
		MaxAttempts: cmd.Int("max-attempts"),
		Delay:       cmd.Duration("delay"),
		Verbose:     cmd.Bool("verbose"),
	})
	if err != nil {
		return err
	}
	if best == nil || !best.Reached {
		highest := 0
		if best != nil {
			highest = best.HighestTile
		}
		return fmt.Errorf("no %d tile after %d attempts (best %d)", target, cmd.Int("max-attempts"), highest)
	}

	fmt.Fprintf(cmd.Root().Writer, "🎉 Reached %d in attempt %d with %d moves (score %d)\nSession: %s\n",
		target, best.Attempt, best.Moves, best.Score, client.SessionID())
	return nil
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Error("bruteforcer stopped")
		os.Exit(1)
	}
}
