// Package config provides configuration management for Merge Tile presets.
//
// The config package handles:
//   - Loading game presets from JSON files
//   - Validation through engine.ValidateGameConfig
//   - Default preset selection
//   - Preset discovery and listing
//
// Configuration Format:
//
// Presets are stored as JSON files in the configs directory. Each preset
// defines the starting board size and fill ratio, the spawn rules, the board
// growth thresholds, the idle hint delay and the messages shown for each move
// outcome.
//
// Available Configurations:
//   - classic: 4x4 board growing to 7x7 at 64, 512 and 2048
//   - quick: 3x3 board with a short hint delay
//   - marathon: 5x5 board growing up to 9x9
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("quick")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic.json when present, then the first valid file, then
// the built-in engine.DefaultConfig preset.
package config
