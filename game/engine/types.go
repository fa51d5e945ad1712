package engine

// Direction names the way a selected tile travels
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"

	// Validation constants
	MinGridSize       = 2
	MaxGridSize       = 12
	DefaultGridSize   = 4
	DefaultFillRatio  = 0.7
	DefaultSpawnCount = 2
	MaxInitAttempts   = 1000
	MaxHintDelay      = 600
)

// Directions lists every direction in scan order
var Directions = []Direction{Up, Down, Left, Right}

// delta returns the row and column step for a direction
func (d Direction) delta() (int, int, bool) {
	switch d {
	case Up:
		return -1, 0, true
	case Down:
		return 1, 0, true
	case Left:
		return 0, -1, true
	case Right:
		return 0, 1, true
	}
	return 0, 0, false
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	_, _, ok := d.delta()
	return ok
}

// Position represents row,col coordinates on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveKind distinguishes the four outcomes of a directed tile move
type MoveKind int

const (
	OutOfBounds MoveKind = iota
	EmptySource
	Blocked
	Success
)

// String returns the wire name of a move outcome
func (k MoveKind) String() string {
	switch k {
	case OutOfBounds:
		return "out_of_bounds"
	case EmptySource:
		return "empty_source"
	case Blocked:
		return "blocked"
	case Success:
		return "success"
	}
	return "unknown"
}

// MoveResult is the outcome of MoveTile. To is only meaningful for Success.
type MoveResult struct {
	Kind MoveKind
	To   Position
}

// Succeeded reports whether the move merged two tiles
func (r MoveResult) Succeeded() bool {
	return r.Kind == Success
}

// ExpansionRule grows the board to Size once the highest tile reaches MinTile
type ExpansionRule struct {
	MinTile int `json:"min_tile"`
	Size    int `json:"size"`
}

// Messages holds the user-facing text for each game event
type Messages struct {
	Welcome     string `json:"welcome"`
	OutOfBounds string `json:"out_of_bounds"`
	EmptySource string `json:"empty_source"`
	Blocked     string `json:"blocked"`
	Merged      string `json:"merged"`
	Expanded    string `json:"expanded"`
	GameOver    string `json:"game_over"`
	Hint        string `json:"hint"`
}

// GameConfig represents a tuning preset loaded from JSON
type GameConfig struct {
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	InitialSize         int             `json:"initial_size"`
	InitialFillRatio    float64         `json:"initial_fill_ratio"`
	SpawnFillThreshold  float64         `json:"spawn_fill_threshold"`
	SpawnCount          int             `json:"spawn_count"`
	ExpansionSpawnCount int             `json:"expansion_spawn_count"`
	MaxInitAttempts     int             `json:"max_init_attempts"`
	HintDelaySeconds    int             `json:"hint_delay_seconds"`
	Expansions          []ExpansionRule `json:"expansions"`
	Messages            Messages        `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Board       [][]int            `json:"board"`
	Size        int                `json:"size"`
	Score       int                `json:"score"`
	HighestTile int                `json:"highest_tile"`
	FilledRatio float64            `json:"filled_ratio"`
	GameOver    bool               `json:"game_over"`
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Direction  Direction `json:"direction"`
	From       Position  `json:"from"`
	To         *Position `json:"to,omitempty"`
	Outcome    string    `json:"outcome"`
	Score      int       `json:"score"`
	Size       int       `json:"size"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}
