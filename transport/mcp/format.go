package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/mergetile/game/engine"
	"github.com/wricardo/mcp-training/mergetile/game/service"
)

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		info.ID, info.ConfigName,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(info.GameState, info.Selected))
}

func formatGameState(state *engine.GameState, selected *engine.Position) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d | Highest: %d | Board: %dx%d | Filled: %.0f%% | Moves: %d\n",
		state.Score, state.HighestTile, state.Size, state.Size,
		state.FilledRatio*100, state.TotalMoves)
	if selected != nil {
		fmt.Fprintf(&b, "Selected: (%d,%d)\n", selected.Row, selected.Col)
	}
	b.WriteString("\n")
	b.WriteString(formatBoard(state.Board, selected))

	if state.GameOver {
		b.WriteString("\n💀 GAME OVER")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

// formatBoard renders the board as a right-aligned number grid with row and
// column indices. Empty cells are "." and the selected tile is bracketed.
func formatBoard(board [][]int, selected *engine.Position) string {
	highest := 0
	for _, row := range board {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	width := len(strconv.Itoa(highest))
	if indexWidth := len(strconv.Itoa(len(board) - 1)); indexWidth > width {
		width = indexWidth
	}

	var b strings.Builder
	var header strings.Builder
	header.WriteString("    ")
	for c := range board {
		fmt.Fprintf(&header, " %*d ", width, c)
	}
	b.WriteString(strings.TrimRight(header.String(), " "))
	b.WriteString("\n")

	for r, row := range board {
		var line strings.Builder
		fmt.Fprintf(&line, "%2d |", r)
		for c, v := range row {
			cell := "."
			if v != 0 {
				cell = strconv.Itoa(v)
			}
			if selected != nil && selected.Row == r && selected.Col == c {
				fmt.Fprintf(&line, "[%*s]", width, cell)
			} else {
				fmt.Fprintf(&line, " %*s ", width, cell)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}

	return b.String()
}

func formatSelection(result *service.SelectionResult) string {
	var b strings.Builder
	p := result.Selected
	if result.Value == 0 {
		fmt.Fprintf(&b, "Selected (%d,%d): empty cell\n", p.Row, p.Col)
	} else {
		fmt.Fprintf(&b, "Selected (%d,%d): %d\n", p.Row, p.Col, result.Value)
	}

	if len(result.LegalDirections) > 0 {
		fmt.Fprintf(&b, "Can merge: %s\n", joinDirections(result.LegalDirections))
	} else if result.Value != 0 {
		b.WriteString("Can merge: none\n")
	}

	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState, &p))
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success && result.To != nil {
		fmt.Fprintf(&b, "✓ Merged (%d,%d) %s into (%d,%d) (+%d)\n",
			result.From.Row, result.From.Col, result.Direction,
			result.To.Row, result.To.Col, result.ScoreDelta)
	} else {
		fmt.Fprintf(&b, "✗ Move %s from (%d,%d): %s\n",
			result.Direction, result.From.Row, result.From.Col, result.Outcome)
	}

	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}

	if len(result.Spawned) > 0 {
		cells := make([]string, 0, len(result.Spawned))
		for _, p := range result.Spawned {
			cells = append(cells, fmt.Sprintf("(%d,%d)", p.Row, p.Col))
		}
		fmt.Fprintf(&b, "New tiles: %s\n", strings.Join(cells, " "))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState, result.Selected))
	return b.String()
}

func formatHint(hint *service.HintResult) string {
	if hint.Suggestion == nil {
		msg := hint.Message
		if msg == "" {
			msg = "No tile can merge."
		}
		return msg
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggestion: (%d,%d) %s\n",
		hint.Suggestion.Row, hint.Suggestion.Col, joinDirections(hint.Directions))

	cells := make([]string, 0, len(hint.Candidates))
	for _, p := range hint.Candidates {
		cells = append(cells, fmt.Sprintf("(%d,%d)", p.Row, p.Col))
	}
	fmt.Fprintf(&b, "Tiles that can merge (%d): %s\n", len(hint.Candidates), strings.Join(cells, " "))

	if hint.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", hint.Message)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		b.WriteString("(no moves yet)\n")
		return b.String()
	}

	for _, move := range history.Moves {
		status := "✗"
		target := move.Outcome
		if move.To != nil {
			status = "✓"
			target = fmt.Sprintf("→(%d,%d)", move.To.Row, move.To.Col)
		}
		fmt.Fprintf(&b, "%d. %s (%d,%d) %s %s [Score: %d, Board: %dx%d]\n",
			move.MoveNumber, move.Direction, move.From.Row, move.From.Col,
			target, status, move.Score, move.Size, move.Size)
	}

	return b.String()
}

// describeCell reports what the tile at (row, col) meets in each direction
func describeCell(board [][]int, row, col int, selected *engine.Position) string {
	var b strings.Builder
	value := board[row][col]

	if value == 0 {
		fmt.Fprintf(&b, "Cell (%d,%d) is empty. Only tiles can be moved.\n", row, col)
	} else {
		fmt.Fprintf(&b, "Cell (%d,%d): %d\n", row, col, value)
	}
	if selected != nil && selected.Row == row && selected.Col == col {
		b.WriteString("This is the selected tile.\n")
	}
	if value == 0 {
		return b.String()
	}

	b.WriteString("\nIn each direction:\n")
	var legal []engine.Direction
	for _, d := range engine.Directions {
		p, found := nearestTile(board, row, col, d)
		switch {
		case !found:
			fmt.Fprintf(&b, "- %s: reaches the edge (blocked)\n", d)
		case board[p.Row][p.Col] == value:
			legal = append(legal, d)
			fmt.Fprintf(&b, "- %s: meets %d at (%d,%d) → merges into %d\n",
				d, board[p.Row][p.Col], p.Row, p.Col, value*2)
		default:
			fmt.Fprintf(&b, "- %s: meets %d at (%d,%d) (blocked)\n",
				d, board[p.Row][p.Col], p.Row, p.Col)
		}
	}

	if len(legal) == 0 {
		b.WriteString("\nThis tile cannot merge right now.\n")
	} else {
		fmt.Fprintf(&b, "\nCan merge: %s\n", joinDirections(legal))
	}
	return b.String()
}

// nearestTile walks from (row, col) and returns the first non-empty cell
func nearestTile(board [][]int, row, col int, d engine.Direction) (engine.Position, bool) {
	dr, dc := 0, 0
	switch d {
	case engine.Up:
		dr = -1
	case engine.Down:
		dr = 1
	case engine.Left:
		dc = -1
	case engine.Right:
		dc = 1
	default:
		return engine.Position{}, false
	}

	size := len(board)
	for r, c := row+dr, col+dc; r >= 0 && r < size && c >= 0 && c < size; r, c = r+dr, c+dc {
		if board[r][c] != 0 {
			return engine.Position{Row: r, Col: c}, true
		}
	}
	return engine.Position{}, false
}

func joinDirections(dirs []engine.Direction) string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
