package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/mergetile/api"
	"github.com/wricardo/mcp-training/mergetile/game/config"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
	"github.com/wricardo/mcp-training/mergetile/game/service"
	"github.com/wricardo/mcp-training/mergetile/game/session"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func testSession() service.SessionInfo {
	selected := engine.Position{Row: 0, Col: 0}
	return service.SessionInfo{
		ID:         "ab12",
		ConfigName: "Classic",
		CreatedAt:  time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC),
		Selected:   &selected,
		GameState: engine.NewStateFromBoard([][]int{
			{2, 0, 2, 0},
			{0, 4, 0, 0},
			{0, 0, 0, 0},
			{16, 0, 0, 4},
		}),
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12", "score": 8})
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "no tile selected"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var response map[string]interface{}
	require.NoError(t, client.apiCall(ctx, "GET", "/ok", nil, &response))
	assert.Equal(t, "ab12", response["id"])

	err := client.apiCall(ctx, "POST", "/bad", map[string]string{"direction": "up"}, nil)
	require.Error(t, err)
	assert.Equal(t, "no tile selected", err.Error())

	err = client.apiCall(ctx, "GET", "/boom", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error: 500")

	unreachable := NewClient("http://invalid-url-that-does-not-exist:9999")
	assert.Error(t, unreachable.apiCall(ctx, "GET", "/api", nil, nil))
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"float":  float64(3),
		"int":    2,
		"string": " 7 ",
		"bad":    "seven",
		"bool":   true,
	}

	tests := []struct {
		key   string
		value int
		ok    bool
	}{
		{"float", 3, true},
		{"int", 2, true},
		{"string", 7, true},
		{"bad", 0, false},
		{"bool", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		v, ok := intArg(args, tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.value, v, tt.key)
	}
}

func TestClient_createSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)
		gotBody = nil
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(testSession())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Created session: ab12")
	assert.Empty(t, gotBody)

	_, err = client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_id": "quick",
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"config_id": "quick"}, gotBody)
}

func TestClient_moveTileAlwaysSendsCoordinates(t *testing.T) {
	var got service.MoveRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/ab12/move", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		to := engine.Position{Row: 0, Col: 2}
		json.NewEncoder(w).Encode(service.MoveResult{
			Outcome:    "success",
			Success:    true,
			Direction:  engine.Right,
			From:       engine.Position{Row: 0, Col: 0},
			To:         &to,
			ScoreDelta: 4,
			Selected:   &to,
			Spawned:    []engine.Position{{Row: 2, Col: 2}},
			Events: []service.GameEvent{
				{Type: "merge", Message: "Merged into 4!"},
			},
			GameState: testSession().GameState,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMoveTile(context.Background(), callTool("move_tile", map[string]interface{}{
		"session_id": "ab12",
		"row":        float64(0),
		"col":        float64(0),
		"direction":  "right",
		"intent":     "pair the twos",
	}))
	require.NoError(t, err)

	require.NotNil(t, got.Row)
	require.NotNil(t, got.Col)
	assert.Equal(t, 0, *got.Row)
	assert.Equal(t, 0, *got.Col)
	assert.Equal(t, "right", got.Direction)

	text := resultText(t, result)
	assert.Contains(t, text, "✓ Merged (0,0) right into (0,2) (+4)")
	assert.Contains(t, text, "New tiles: (2,2)")
	assert.Contains(t, text, "- merge: Merged into 4!")
}

func TestClient_moveTileRequiresCoordinates(t *testing.T) {
	client := NewClient("http://unused")

	result, err := client.handleMoveTile(context.Background(), callTool("move_tile", map[string]interface{}{
		"session_id": "ab12",
		"direction":  "up",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "row and col are required")
}

func TestClient_describeCell(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(testSession())
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleDescribeCell(ctx, callTool("describe_cell", map[string]interface{}{
		"session_id": "ab12", "row": 0, "col": 0,
	}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Cell (0,0): 2")
	assert.Contains(t, text, "This is the selected tile.")
	assert.Contains(t, text, "- right: meets 2 at (0,2) → merges into 4")
	assert.Contains(t, text, "- down: meets 16 at (3,0) (blocked)")
	assert.Contains(t, text, "- up: reaches the edge (blocked)")
	assert.Contains(t, text, "Can merge: right")

	result, err = client.handleDescribeCell(ctx, callTool("describe_cell", map[string]interface{}{
		"session_id": "ab12", "row": 4, "col": 0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "out of bounds")
}

func TestFormatBoard(t *testing.T) {
	board := [][]int{
		{2, 0},
		{16, 4},
	}

	t.Run("plain", func(t *testing.T) {
		assert.Equal(t, "      0   1\n 0 |  2   .\n 1 | 16   4\n", formatBoard(board, nil))
	})

	t.Run("selected", func(t *testing.T) {
		selected := engine.Position{Row: 1, Col: 0}
		lines := strings.Split(formatBoard(board, &selected), "\n")
		assert.Equal(t, " 1 |[16]  4", lines[2])
	})

	t.Run("wide values stay aligned", func(t *testing.T) {
		out := formatBoard([][]int{{2048, 2}, {0, 128}}, nil)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, " 0 | 2048     2", lines[1])
		assert.Equal(t, " 1 |    .   128", lines[2])
	})
}

func TestFormatGameState(t *testing.T) {
	info := testSession()
	info.GameState.Message = "Merged into 4!"

	result := formatGameState(info.GameState, info.Selected)

	for _, field := range []string{
		"Score: 0",
		"Highest: 16",
		"Board: 4x4",
		"Selected: (0,0)",
		"Message: Merged into 4!",
	} {
		assert.Contains(t, result, field)
	}
	assert.NotContains(t, result, "GAME OVER")

	state := engine.NewStateFromBoard([][]int{{2, 4}, {4, 2}})
	state.GameOver = true
	assert.Contains(t, formatGameState(state, nil), "💀 GAME OVER")

	assert.Equal(t, "No game state available", formatGameState(nil, nil))
}

func TestFormatHint(t *testing.T) {
	suggestion := engine.Position{Row: 0, Col: 2}
	text := formatHint(&service.HintResult{
		Candidates: []engine.Position{{Row: 0, Col: 0}, {Row: 0, Col: 2}},
		Suggestion: &suggestion,
		Directions: []engine.Direction{engine.Left},
		Message:    "Hint: try the highlighted tile!",
	})
	assert.Contains(t, text, "Suggestion: (0,2) left")
	assert.Contains(t, text, "Tiles that can merge (2): (0,0) (0,2)")

	assert.Equal(t, "Game over!", formatHint(&service.HintResult{Message: "Game over!"}))
}

func TestFormatHistory(t *testing.T) {
	to := engine.Position{Row: 0, Col: 2}
	text := formatHistory(&service.HistoryResponse{
		Moves: []engine.MoveHistoryEntry{
			{MoveNumber: 2, Direction: engine.Up, From: engine.Position{Row: 3, Col: 3}, Outcome: "blocked", Score: 4, Size: 4},
			{MoveNumber: 1, Direction: engine.Right, From: engine.Position{Row: 0, Col: 0}, To: &to, Outcome: "success", Score: 4, Size: 4},
		},
		TotalMoves: 2,
		Page:       1,
		TotalPages: 1,
	})

	assert.Contains(t, text, "Move History (Page 1/1) | Total: 2")
	assert.Contains(t, text, "2. up (3,3) blocked ✗")
	assert.Contains(t, text, "1. right (0,0) →(0,2) ✓ [Score: 4, Board: 4x4]")
}

func TestToolsRegistered(t *testing.T) {
	client := NewClient("http://unused")

	response := client.GetMCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)

	for _, name := range []string{
		"create_session", "list_sessions", "get_session", "game_state",
		"select_tile", "move_tile", "restart_game", "hint", "move_history",
		"list_configs", "game_instructions", "describe_cell",
	} {
		assert.Contains(t, string(data), fmt.Sprintf("%q", name))
	}
}

// TestPlayThroughMCP drives the tools against a real REST server
func TestPlayThroughMCP(t *testing.T) {
	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)
	gameService := service.NewGameService(session.NewManager(), configs)

	server := httptest.NewServer(api.NewServer(gameService, nil))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callTool("create_session", map[string]interface{}{"config_id": "classic"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	sessions, err := gameService.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	id := sessions[0].ID
	defer gameService.DeleteSession(ctx, id)

	result, err = client.handleHint(ctx, callTool("hint", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Suggestion:")

	info, err := gameService.GetSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, info.Selected)
	from := *info.Selected
	dirs := info.GameState.LegalDirections(from.Row, from.Col)
	require.NotEmpty(t, dirs)

	result, err = client.handleMoveTile(ctx, callTool("move_tile", map[string]interface{}{
		"session_id": id,
		"row":        float64(from.Row),
		"col":        float64(from.Col),
		"direction":  string(dirs[0]),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "✓ Merged")

	result, err = client.handleMoveHistory(ctx, callTool("move_history", map[string]interface{}{
		"session_id": id, "order": "asc",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Total: 1")

	result, err = client.handleListConfigs(ctx, callTool("list_configs", nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "config_id: classic")
	assert.Contains(t, text, "growing to 7x7")

	result, err = client.handleGameState(ctx, callTool("game_state", map[string]interface{}{"session_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "session not found")
}
