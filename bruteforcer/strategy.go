package main

import (
	"github.com/wricardo/mcp-training/mergetile/game/engine"
)

// Scoring weights for a candidate move
const (
	mergeWeight    = 4
	mobilityWeight = 2
	cornerWeight   = 1
)

// Move is a tile and the direction to push it
type Move struct {
	From      engine.Position
	Direction engine.Direction
	Score     int
}

// GreedyStrategy tries every legal move on a copy of the board and keeps the
// one that merges the biggest tile, leaves the most merges open and lands
// nearest the bottom-left corner. Ties go to the first move in row-major,
// up/down/left/right order so replays are deterministic.
type GreedyStrategy struct{}

// NewGreedyStrategy returns a strategy with the default weights
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// NextMove picks the best move for state. ok is false when no merge is left.
func (s *GreedyStrategy) NextMove(state *engine.GameState) (Move, bool) {
	board := engine.NewStateFromBoard(state.Board)

	var best Move
	found := false
	for _, from := range board.FindHintCandidates() {
		for _, dir := range board.LegalDirections(from.Row, from.Col) {
			score, ok := s.evaluate(state.Board, from, dir)
			if !ok {
				continue
			}
			if !found || score > best.Score {
				best = Move{From: from, Direction: dir, Score: score}
				found = true
			}
		}
	}
	return best, found
}

// evaluate plays the move on a copy of board and scores the result
func (s *GreedyStrategy) evaluate(board [][]int, from engine.Position, dir engine.Direction) (int, bool) {
	sim := engine.NewStateFromBoard(engine.CloneBoard(board))
	result := sim.MoveTile(from.Row, from.Col, dir)
	if !result.Succeeded() {
		return 0, false
	}

	merged := sim.Board[result.To.Row][result.To.Col]
	mobility := len(sim.FindHintCandidates())
	corner := result.To.Row + (sim.Size - 1 - result.To.Col)

	return merged*mergeWeight + mobility*mobilityWeight + corner*cornerWeight, true
}
