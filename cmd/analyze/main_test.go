package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
)

func TestPlayGame(t *testing.T) {
	cfg := engine.DefaultConfig()

	summary, err := playGame(cfg, rand.New(rand.NewPCG(1, 0)), 5000)
	require.NoError(t, err)

	assert.Greater(t, summary.Moves, 0)
	assert.Greater(t, summary.Score, 0)
	assert.GreaterOrEqual(t, summary.FinalSize, cfg.InitialSize)
	assert.True(t, engine.IsPowerOfTwo(summary.HighestTile))
}

func TestPlayGame_MoveCap(t *testing.T) {
	summary, err := playGame(engine.DefaultConfig(), rand.New(rand.NewPCG(1, 0)), 3)
	require.NoError(t, err)

	assert.LessOrEqual(t, summary.Moves, 3)
}

func TestPlayGame_Deterministic(t *testing.T) {
	cfg := engine.DefaultConfig()

	first, err := playGame(cfg, rand.New(rand.NewPCG(42, 3)), 500)
	require.NoError(t, err)
	second, err := playGame(cfg, rand.New(rand.NewPCG(42, 3)), 500)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeConfig(t *testing.T) {
	analysis, err := analyzeConfig("classic", engine.DefaultConfig(), 10, 7, 500)
	require.NoError(t, err)

	assert.Equal(t, 10, analysis.Games)
	assert.GreaterOrEqual(t, analysis.BestScore, int(analysis.AverageScore()))
	assert.GreaterOrEqual(t, analysis.AverageSize(), 4.0)
	assert.InDelta(t, float64(analysis.GameOvers)/10, analysis.GameOverRate(), 1e-9)

	games := 0
	for _, n := range analysis.Highest {
		games += n
	}
	assert.Equal(t, 10, games)
}

func TestAnalysis_Empty(t *testing.T) {
	analysis := &Analysis{Highest: map[int]int{}}

	assert.Zero(t, analysis.AverageScore())
	assert.Zero(t, analysis.GameOverRate())
}

func TestAnalysis_Print(t *testing.T) {
	analysis := &Analysis{ConfigID: "quick", Highest: map[int]int{}}
	analysis.add(GameSummary{Score: 100, HighestTile: 32, FinalSize: 4, Moves: 20, GameOver: true})
	analysis.add(GameSummary{Score: 60, HighestTile: 16, FinalSize: 3, Moves: 12})

	var out bytes.Buffer
	analysis.Print(&out)

	assert.Equal(t, "\n=== Analyzing quick (2 games) ===\n"+
		"Average score: 80.0 (best 100)\n"+
		"Average moves: 16.0\n"+
		"Average final size: 3.50\n"+
		"Highest tile: 32\n"+
		"Game over rate: 50.0%\n"+
		"Highest tile reached: 32×1, 16×1\n", out.String())
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), []string{"analyze", "--config-dir", "../../configs", "--games", "2", "--max-moves", "200", "quick"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "=== Analyzing quick (2 games) ===")
	assert.NotContains(t, out.String(), "classic")
}

func TestRun_AllPresets(t *testing.T) {
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), []string{"analyze", "--config-dir", "../../configs", "--games", "1", "--max-moves", "50"})
	require.NoError(t, err)
	for _, id := range []string{"classic", "marathon", "quick"} {
		assert.Contains(t, out.String(), "=== Analyzing "+id)
	}
}

func TestRun_Errors(t *testing.T) {
	cmd := newCommand()
	assert.Error(t, cmd.Run(context.Background(), []string{"analyze", "--config-dir", "../../configs", "--games", "0"}))

	cmd = newCommand()
	assert.Error(t, cmd.Run(context.Background(), []string{"analyze", "--config-dir", "../../configs", "nope"}))

	cmd = newCommand()
	assert.Error(t, cmd.Run(context.Background(), []string{"analyze", "--config-dir", "/non/existent/path"}))
}
