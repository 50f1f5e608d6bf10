package panel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptionsMissingFileUsesDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestLoadOptionsOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
save_file: mygame.json
backend: prefs
precision: 5
autosave_mode: interval
save_interval_sec: 10
keybinds:
  toggle_panel: f3
remote_addr: "127.0.0.1:7788"
`), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "mygame.json", opts.SaveFile)
	assert.Equal(t, "prefs", opts.Backend)
	assert.Equal(t, 5, opts.Precision)
	assert.Equal(t, "interval", opts.AutosaveMode)
	assert.Equal(t, 10.0, opts.SaveIntervalSec)
	assert.Equal(t, "127.0.0.1:7788", opts.RemoteAddr)
	// Bindings canonicalize to uppercase; untouched ones keep defaults.
	assert.Equal(t, "F3", opts.Keybinds.TogglePanel)
	assert.Equal(t, "F5", opts.Keybinds.ManualSave)
	// Unset fields keep their defaults.
	assert.Equal(t, DefaultOptions().Width, opts.Width)
}

func TestLoadOptionsMalformedYamlErrorsAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("save_file: [unclosed"), 0o644))

	opts, err := LoadOptions(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestOptionsNormalizeClamps(t *testing.T) {
	opts := Options{
		SaveFile:         "",
		Width:            -10,
		Precision:        99,
		DebounceDelaySec: 0,
		IndicatorSec:     -1,
		Keybinds:         DefaultOptions().Keybinds,
	}
	opts.normalize()

	defaults := DefaultOptions()
	assert.Equal(t, defaults.SaveFile, opts.SaveFile)
	assert.Equal(t, defaults.Width, opts.Width)
	assert.Equal(t, defaults.Precision, opts.Precision)
	assert.Equal(t, defaults.DebounceDelaySec, opts.DebounceDelaySec)
	assert.Equal(t, defaults.IndicatorSec, opts.IndicatorSec)
}
