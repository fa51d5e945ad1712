// Package engine provides the core game logic for Merge Tile, a 2048 variant
// where a single selected tile travels instead of a whole row.
//
// The engine package implements:
//   - Board initialization at a fixed fill ratio with a guaranteed first move
//   - The directed tile move and merge rule
//   - Terminal-state detection
//   - Tile spawning scaled to progress
//   - Board growth when the highest tile crosses a threshold
//   - Hint search over every legal move source
//   - Configuration loading and validation
//
// Core Types:
//
// GameState holds the board, its size and the running score. MoveTile returns
// a MoveResult whose Kind is one of OutOfBounds, EmptySource, Blocked or
// Success; callers pick their message from the kind. GameEngine wraps a state,
// a GameConfig and a random source and runs the rules that follow a move.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the tile at row 0, column 0 to the right
//	res := eng.Play(0, 0, engine.Right)
//	if res.Kind == engine.Success {
//		fmt.Println("merged at", res.To)
//	}
//
// Game Rules:
//
// A selected tile moves over empty cells and merges into the first tile of
// equal value, doubling it. A different value or the board edge blocks the
// move. After a merge new tiles appear while the board is below its fill
// threshold, and the board grows as the highest tile passes 64, 512 and 2048.
// The game ends when no tile can merge in any direction.
package engine
