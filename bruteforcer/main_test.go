package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/mergetile/api"
	"github.com/wricardo/mcp-training/mergetile/game/config"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
	"github.com/wricardo/mcp-training/mergetile/game/service"
	"github.com/wricardo/mcp-training/mergetile/game/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager("../configs")
	require.NoError(t, err)

	gameService := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func TestGreedyStrategy_NextMove(t *testing.T) {
	state := engine.NewStateFromBoard([][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{4, 0, 0, 4},
	})
	before := engine.CloneBoard(state.Board)

	move, ok := NewGreedyStrategy().NextMove(state)
	require.True(t, ok)

	// Both 4s make an 8; sliding left lands in the corner
	assert.Equal(t, engine.Position{Row: 3, Col: 3}, move.From)
	assert.Equal(t, engine.Left, move.Direction)
	assert.Equal(t, before, state.Board, "board must not change")
}

func TestGreedyStrategy_NoMoves(t *testing.T) {
	state := engine.NewStateFromBoard([][]int{
		{2, 4},
		{4, 2},
	})

	_, ok := NewGreedyStrategy().NextMove(state)
	assert.False(t, ok)
}

func TestGreedyStrategy_PrefersBiggerMerge(t *testing.T) {
	state := engine.NewStateFromBoard([][]int{
		{16, 16, 0},
		{0, 0, 0},
		{2, 0, 2},
	})

	move, ok := NewGreedyStrategy().NextMove(state)
	require.True(t, ok)
	assert.Equal(t, 0, move.From.Row)
}

func TestClient(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	client := NewClient(server.URL + "/")

	state, err := client.CreateSession(ctx, "quick")
	require.NoError(t, err)
	require.NotEmpty(t, client.SessionID())
	assert.Equal(t, 3, state.Size)

	move, ok := NewGreedyStrategy().NextMove(state)
	require.True(t, ok)

	result, err := client.Move(ctx, move.From, move.Direction)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.GameState.TotalMoves)

	state, err = client.Restart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.TotalMoves)

	other := NewClient(server.URL)
	resumed, err := other.Resume(ctx, client.SessionID())
	require.NoError(t, err)
	assert.Equal(t, state.Board, resumed.Board)
}

func TestClient_Errors(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	client := NewClient(server.URL)

	_, err := client.CreateSession(ctx, "nope")
	assert.Error(t, err)

	_, err = client.Resume(ctx, "missing")
	assert.Error(t, err)

	_, err = NewClient("http://127.0.0.1:1").CreateSession(ctx, "")
	assert.Error(t, err)
}

func TestPlay(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	client := NewClient(server.URL)
	_, err := client.CreateSession(ctx, "quick")
	require.NoError(t, err)

	best, err := play(ctx, client, NewGreedyStrategy(), playOptions{
		Target:      16,
		MaxMoves:    500,
		MaxAttempts: 10,
	})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.True(t, best.Reached)
	assert.GreaterOrEqual(t, best.HighestTile, 16)
	assert.Greater(t, best.Moves, 0)
}

func TestPlay_MoveCap(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	client := NewClient(server.URL)
	_, err := client.CreateSession(ctx, "classic")
	require.NoError(t, err)

	best, err := play(ctx, client, NewGreedyStrategy(), playOptions{
		Target:      1 << 20,
		MaxMoves:    2,
		MaxAttempts: 2,
	})
	require.NoError(t, err)
	assert.False(t, best.Reached)
	assert.LessOrEqual(t, best.Moves, 2)
}

func TestOpenSession(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	sessionFile := filepath.Join(t.TempDir(), ".session")

	first := NewClient(server.URL)
	require.NoError(t, openSession(ctx, first, "quick", "", sessionFile))
	saved, err := os.ReadFile(sessionFile)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID(), string(saved))

	second := NewClient(server.URL)
	require.NoError(t, openSession(ctx, second, "quick", "", sessionFile))
	assert.Equal(t, first.SessionID(), second.SessionID())

	third := NewClient(server.URL)
	require.NoError(t, openSession(ctx, third, "quick", "expired", ""))
	assert.NotEqual(t, "expired", third.SessionID())
}

func TestRun(t *testing.T) {
	server := newTestServer(t)
	sessionFile := filepath.Join(t.TempDir(), ".session")

	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), []string{"bruteforcer",
		"--url", server.URL, "--config", "quick", "--session-file", sessionFile,
		"--target", "8", "--max-attempts", "10"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Reached 8")

	cmd = newCommand()
	assert.Error(t, cmd.Run(context.Background(), []string{"bruteforcer", "--url", server.URL, "--target", "7"}))
}
