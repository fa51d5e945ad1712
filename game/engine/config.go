package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if config.InitialSize < MinGridSize || config.InitialSize > MaxGridSize {
		return fmt.Errorf("config validation: initial_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.InitialSize)
	}

	// Validate ratios
	if config.InitialFillRatio <= 0 || config.InitialFillRatio > 1 {
		return fmt.Errorf("config validation: initial_fill_ratio must be in (0,1], got %g", config.InitialFillRatio)
	}
	if config.SpawnFillThreshold <= 0 || config.SpawnFillThreshold > 1 {
		return fmt.Errorf("config validation: spawn_fill_threshold must be in (0,1], got %g", config.SpawnFillThreshold)
	}
	// A board needs two tiles before a merge can exist
	if int(config.InitialFillRatio*float64(config.InitialSize*config.InitialSize)) < 2 {
		return fmt.Errorf("config validation: initial_fill_ratio %g fills fewer than 2 cells at size %d",
			config.InitialFillRatio, config.InitialSize)
	}

	// Validate counts
	if config.SpawnCount < 1 {
		return fmt.Errorf("config validation: spawn_count must be at least 1, got %d", config.SpawnCount)
	}
	if config.ExpansionSpawnCount < 0 {
		return fmt.Errorf("config validation: expansion_spawn_count must not be negative, got %d", config.ExpansionSpawnCount)
	}
	if config.MaxInitAttempts < 1 || config.MaxInitAttempts > 100*MaxInitAttempts {
		return fmt.Errorf("config validation: max_init_attempts must be between 1 and %d, got %d", 100*MaxInitAttempts, config.MaxInitAttempts)
	}
	if config.HintDelaySeconds < 0 || config.HintDelaySeconds > MaxHintDelay {
		return fmt.Errorf("config validation: hint_delay_seconds must be between 0 and %d, got %d", MaxHintDelay, config.HintDelaySeconds)
	}

	// Validate expansion rules: strictly ascending thresholds and sizes
	prevTile, prevSize := 0, config.InitialSize
	for i, rule := range config.Expansions {
		if !IsPowerOfTwo(rule.MinTile) {
			return fmt.Errorf("config validation: expansions[%d].min_tile must be a power of two, got %d", i, rule.MinTile)
		}
		if rule.MinTile <= prevTile {
			return fmt.Errorf("config validation: expansions[%d].min_tile must be greater than %d, got %d", i, prevTile, rule.MinTile)
		}
		if rule.Size <= prevSize || rule.Size > MaxGridSize {
			return fmt.Errorf("config validation: expansions[%d].size must be between %d and %d, got %d", i, prevSize+1, MaxGridSize, rule.Size)
		}
		prevTile, prevSize = rule.MinTile, rule.Size
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}
	if config.Messages.Blocked == "" || config.Messages.EmptySource == "" || config.Messages.OutOfBounds == "" {
		return fmt.Errorf("config validation: messages.blocked, messages.empty_source and messages.out_of_bounds are required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Merged, "%d") {
		return fmt.Errorf("config validation: messages.merged must contain %%d for the merged value")
	}
	if config.Messages.Expanded != "" && !strings.Contains(config.Messages.Expanded, "%d") {
		return fmt.Errorf("config validation: messages.expanded must contain %%d for the new size")
	}

	return nil
}

// LoadGameConfig loads and validates a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filename, err)
	}

	return &config, nil
}

// DefaultConfig returns the classic preset
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:                "classic",
		Description:         "Classic single-tile merge on a 4x4 board that grows to 7x7",
		InitialSize:         DefaultGridSize,
		InitialFillRatio:    DefaultFillRatio,
		SpawnFillThreshold:  DefaultFillRatio,
		SpawnCount:          DefaultSpawnCount,
		ExpansionSpawnCount: 4,
		MaxInitAttempts:     MaxInitAttempts,
		HintDelaySeconds:    8,
		Expansions:          append([]ExpansionRule(nil), DefaultExpansions...),
		Messages: Messages{
			Welcome:     "Select a tile and pick a direction to merge it.",
			OutOfBounds: "That tile is off the board.",
			EmptySource: "Please select a tile with a number.",
			Blocked:     "Move not possible!",
			Merged:      "Merged into %d!",
			Expanded:    "The board grew to %d columns!",
			GameOver:    "Game Over - No moves left!",
			Hint:        "Hint: try the highlighted tile!",
		},
	}
}
