package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/mergetile/game/engine"
)

func createValidConfig(name string) *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = name
	config.Description = name + " preset"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("classic is the default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "aaa", createValidConfig("First"))
		writeConfigFile(t, dir, "classic", createValidConfig("Classic"))

		manager, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "Classic", manager.GetDefault().Name)
	})

	t.Run("first valid config without classic", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "zeta", createValidConfig("Zeta"))
		writeConfigFile(t, dir, "beta", createValidConfig("Beta"))

		manager, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "Beta", manager.GetDefault().Name)
	})

	t.Run("built-in preset for an empty directory", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		require.NoError(t, err)

		def := manager.GetDefault()
		require.NotNil(t, def)
		assert.Equal(t, "classic", def.Name)
		assert.NoError(t, engine.ValidateGameConfig(def))
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		assert.Error(t, err)
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	quick := createValidConfig("Quick")
	quick.InitialSize = 3
	quick.Expansions = []engine.ExpansionRule{{MinTile: 32, Size: 4}}
	writeConfigFile(t, dir, "quick", quick)

	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("quick")
		require.NoError(t, err)
		assert.Equal(t, "Quick", config.Name)
		assert.Equal(t, 3, config.InitialSize)
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("quick.json")
		require.NoError(t, err)
		assert.Equal(t, "Quick", config.Name)
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, err := manager.LoadConfig("quick")
		require.NoError(t, err)
		config2, err := manager.LoadConfig("quick")
		require.NoError(t, err)
		assert.Same(t, config1, config2)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("path traversal is not found", func(t *testing.T) {
		_, err := manager.LoadConfig("../quick")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("load invalid config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644))

		_, err := manager.LoadConfig("invalid")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "Malformed", invalid json}`), 0644))

		_, err := manager.LoadConfig("malformed")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"marathon", "classic", "quick"} {
		writeConfigFile(t, dir, name, createValidConfig(name))
	}
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	require.NoError(t, err)

	configList, err := manager.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configList, 3, "non-JSON and invalid files are skipped")

	ids := []string{}
	for _, info := range configList {
		ids = append(ids, info.ConfigID)
	}
	assert.Equal(t, []string{"classic", "marathon", "quick"}, ids)

	classic := configList[0]
	assert.Equal(t, "classic.json", classic.Filename)
	assert.Equal(t, 4, classic.InitialSize)
	assert.Equal(t, 7, classic.MaxSize)
	assert.Equal(t, 8, classic.HintDelaySeconds)
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("saves and caches", func(t *testing.T) {
		config := createValidConfig("Custom")
		require.NoError(t, manager.SaveConfig("custom", config))

		_, err := os.Stat(filepath.Join(dir, "custom.json"))
		assert.NoError(t, err)

		loaded, err := manager.LoadConfig("custom")
		require.NoError(t, err)
		assert.Same(t, config, loaded)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		config := createValidConfig("Broken")
		config.SpawnCount = 0

		err := manager.SaveConfig("broken", config)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		_, statErr := os.Stat(filepath.Join(dir, "broken.json"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("rejects path names", func(t *testing.T) {
		err := manager.SaveConfig("../escape", createValidConfig("Escape"))
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig("Changeable")
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	require.NoError(t, err)

	loaded, err := manager.LoadConfig("changeable")
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.HintDelaySeconds)

	config.HintDelaySeconds = 20
	writeConfigFile(t, dir, "changeable", config)

	require.NoError(t, manager.RefreshCache())

	reloaded, err := manager.LoadConfig("changeable")
	require.NoError(t, err)
	assert.Equal(t, 20, reloaded.HintDelaySeconds)
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	writeConfigFile(t, dir, "quick", createValidConfig("Quick"))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, manager.SetDefault("quick"))
	assert.Equal(t, "Quick", manager.GetDefault().Name)
	assert.ErrorIs(t, manager.SetDefault("missing"), ErrConfigNotFound)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), createValidConfig(fmt.Sprintf("Config%d", i)))
	}

	manager, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	assert.Equal(t, 5, manager.Count())
}
