package axis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveConfiguration(t *testing.T) {
	a0 := New(Config{VelocityLimit: 15000, CurrentLimit: 8})
	a1 := New(Config{})
	a1.SetVelocityLimit(2500)

	path := filepath.Join(t.TempDir(), "odrive.toml")
	p := &Persister{Path: path, Axes: []*Axis{a0, a1}}

	p.SaveConfiguration()

	var cfg persistedConfig
	_, err := toml.DecodeFile(path, &cfg)
	require.NoError(t, err)
	require.Len(t, cfg.Axes, 2)
	assert.Equal(t, 15000.0, cfg.Axes[0].VelLimit)
	assert.Equal(t, 8.0, cfg.Axes[0].CurrentLim)
	assert.Equal(t, 2500.0, cfg.Axes[1].VelLimit)
	assert.Equal(t, 10.0, cfg.Axes[1].CurrentLim)
}

func TestSaveConfigurationOverwrites(t *testing.T) {
	a := New(Config{})
	path := filepath.Join(t.TempDir(), "odrive.toml")
	p := &Persister{Path: path, Axes: []*Axis{a}}

	p.SaveConfiguration()
	a.SetCurrentLimit(3)
	p.SaveConfiguration()

	var cfg persistedConfig
	_, err := toml.DecodeFile(path, &cfg)
	require.NoError(t, err)
	require.Len(t, cfg.Axes, 1)
	assert.Equal(t, 3.0, cfg.Axes[0].CurrentLim)
}

func TestSaveConfigurationNoPath(t *testing.T) {
	p := &Persister{Axes: []*Axis{New(Config{})}}

	// Must log and return, not panic or write.
	p.SaveConfiguration()
}

func TestSaveConfigurationUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "odrive.toml")
	p := &Persister{Path: path, Axes: []*Axis{New(Config{})}}

	p.SaveConfiguration()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
