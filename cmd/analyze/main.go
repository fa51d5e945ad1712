// Command analyze plays seeded, hint-driven games against each preset in the
// configs directory and prints how they tend to end: average score, highest
// tile reached, final board size and how often the board locks up.
//
//	go run ./cmd/analyze --games 200 --seed 7 classic quick
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/mergetile/game/config"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
)

// GameSummary is how a single simulated game ended
type GameSummary struct {
	Score       int
	HighestTile int
	FinalSize   int
	Moves       int
	GameOver    bool
}

// Analysis aggregates the simulated games of one preset
type Analysis struct {
	ConfigID    string
	Games       int
	TotalScore  int
	BestScore   int
	TotalMoves  int
	TotalSize   int
	GameOvers   int
	HighestTile int

	// Highest tile reached per game, by value
	Highest map[int]int
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Error("analysis failed")
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "simulate hint-driven games for each preset",
		ArgsUsage: "[config-id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory holding preset JSON files"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "games to play per preset"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed; equal seeds replay the same games"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "stop a game after this many moves"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	games := cmd.Int("games")
	if games < 1 {
		return fmt.Errorf("games must be at least 1, got %d", games)
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			ids = append(ids, info.ConfigID)
		}
	}

	out := cmd.Root().Writer
	for _, id := range ids {
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			return err
		}

		analysis, err := analyzeConfig(id, cfg, games, uint64(cmd.Int("seed")), cmd.Int("max-moves"))
		if err != nil {
			return err
		}
		analysis.Print(out)
	}
	return nil
}

// analyzeConfig plays games of cfg. Game i uses the stream (seed, i) so one
// game's length never shifts the boards of the next.
func analyzeConfig(id string, cfg *engine.GameConfig, games int, seed uint64, maxMoves int) (*Analysis, error) {
	analysis := &Analysis{ConfigID: id, Highest: make(map[int]int)}

	for i := 0; i < games; i++ {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		summary, err := playGame(cfg, rng, maxMoves)
		if err != nil {
			return nil, fmt.Errorf("%s game %d: %w", id, i+1, err)
		}
		analysis.add(summary)
	}
	return analysis, nil
}

// playGame picks a random merge candidate and one of its legal directions
// until the board locks up or maxMoves is reached
func playGame(cfg *engine.GameConfig, rng *rand.Rand, maxMoves int) (GameSummary, error) {
	eng, err := engine.NewEngine(cfg, rng)
	if err != nil {
		return GameSummary{}, err
	}

	moves := 0
	for moves < maxMoves && !eng.IsGameOver() {
		candidates := eng.HintCandidates()
		if len(candidates) == 0 {
			break
		}
		pick := candidates[rng.IntN(len(candidates))]
		directions := eng.GetState().LegalDirections(pick.Row, pick.Col)

		result := eng.Play(pick.Row, pick.Col, directions[rng.IntN(len(directions))])
		if !result.Succeeded() {
			return GameSummary{}, fmt.Errorf("hinted move from (%d,%d) was %s", pick.Row, pick.Col, result.Kind)
		}
		moves++
	}

	state := eng.GetState()
	return GameSummary{
		Score:       state.Score,
		HighestTile: state.HighestTile,
		FinalSize:   state.Size,
		Moves:       moves,
		GameOver:    state.GameOver,
	}, nil
}

func (a *Analysis) add(s GameSummary) {
	a.Games++
	a.TotalScore += s.Score
	a.TotalMoves += s.Moves
	a.TotalSize += s.FinalSize
	a.Highest[s.HighestTile]++
	if s.Score > a.BestScore {
		a.BestScore = s.Score
	}
	if s.HighestTile > a.HighestTile {
		a.HighestTile = s.HighestTile
	}
	if s.GameOver {
		a.GameOvers++
	}
}

// AverageScore returns the mean final score
func (a *Analysis) AverageScore() float64 {
	return a.mean(a.TotalScore)
}

// AverageMoves returns the mean number of merges per game
func (a *Analysis) AverageMoves() float64 {
	return a.mean(a.TotalMoves)
}

// AverageSize returns the mean final board size
func (a *Analysis) AverageSize() float64 {
	return a.mean(a.TotalSize)
}

// GameOverRate returns the share of games that ended with no merges left
func (a *Analysis) GameOverRate() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.GameOvers) / float64(a.Games)
}

func (a *Analysis) mean(total int) float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(total) / float64(a.Games)
}

// Print writes a short report
func (a *Analysis) Print(w io.Writer) {
	fmt.Fprintf(w, "\n=== Analyzing %s (%d games) ===\n", a.ConfigID, a.Games)
	fmt.Fprintf(w, "Average score: %.1f (best %d)\n", a.AverageScore(), a.BestScore)
	fmt.Fprintf(w, "Average moves: %.1f\n", a.AverageMoves())
	fmt.Fprintf(w, "Average final size: %.2f\n", a.AverageSize())
	fmt.Fprintf(w, "Highest tile: %d\n", a.HighestTile)
	fmt.Fprintf(w, "Game over rate: %.1f%%\n", 100*a.GameOverRate())

	tiles := make([]int, 0, len(a.Highest))
	for tile := range a.Highest {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

	parts := make([]string, 0, len(tiles))
	for _, tile := range tiles {
		parts = append(parts, fmt.Sprintf("%d×%d", tile, a.Highest[tile]))
	}
	fmt.Fprintf(w, "Highest tile reached: %s\n", strings.Join(parts, ", "))
}
