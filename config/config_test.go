package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 300.0, cfg.Store.LinkRadius)
	assert.Equal(t, 64.0, cfg.Drop.OnGraphRadius)
	assert.Equal(t, 8, cfg.Bot.MaxGoalAttempts)
	assert.Empty(t, cfg.Policy.Script)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot:\n  arrive_radius: 9\n  repath_frames: -1\ndrop:\n  jump_pad_scale: .nan\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, cfg.Bot.ArriveRadius)
	assert.Equal(t, 900, cfg.Bot.RepathFrames, "invalid values fall back")
	assert.Equal(t, 0.5, cfg.Drop.JumpPadScale)
	assert.Equal(t, 512.0, cfg.Bot.StartRadius, "unset values keep defaults")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot: [1,"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
