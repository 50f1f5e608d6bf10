package panel

import (
	"fmt"
	"os"

	"tweakpanel/typedef"

	"gopkg.in/yaml.v2"
)

// Options is the full configuration surface, consumed once at construction.
type Options struct {
	// Keybinds for panel actions (toggle, manual save, tab cycling).
	Keybinds typedef.Keybinds `yaml:"keybinds"`

	// ShowOnStart opens the panel on the first frame.
	ShowOnStart bool `yaml:"show_on_start"`

	// SaveFile names the persisted dataset inside the data directory.
	// Backend selects "file" or "prefs".
	SaveFile string `yaml:"save_file"`
	Backend  string `yaml:"backend"`

	// Precision is the fixed decimal count for persisted floats.
	Precision int `yaml:"precision"`

	// AutosaveMode is immediate, debounced, interval, or manual.
	// DebounceDelaySec feeds debounced mode, SaveIntervalSec interval mode.
	AutosaveMode     string  `yaml:"autosave_mode"`
	DebounceDelaySec float64 `yaml:"debounce_delay_sec"`
	SaveIntervalSec  float64 `yaml:"save_interval_sec"`

	// RefreshMode is frame, interval, or manual, with the interval cadence
	// in RefreshIntervalSec.
	RefreshMode        string  `yaml:"refresh_mode"`
	RefreshIntervalSec float64 `yaml:"refresh_interval_sec"`

	// Tooltip hover delay and cursor offset.
	TooltipDelaySec float64 `yaml:"tooltip_delay_sec"`
	TooltipOffsetX  int     `yaml:"tooltip_offset_x"`
	TooltipOffsetY  int     `yaml:"tooltip_offset_y"`

	// Width of the docked panel in pixels.
	Width int `yaml:"width"`

	// IndicatorSec is how long the save badge stays visible.
	IndicatorSec float64 `yaml:"indicator_sec"`

	// Remote inspection API. Empty address disables it.
	RemoteAddr string `yaml:"remote_addr"`
}

// DefaultOptions returns the baseline panel configuration.
func DefaultOptions() Options {
	return Options{
		Keybinds:           typedef.DefaultKeybinds(),
		ShowOnStart:        false,
		SaveFile:           "tweaks.json",
		Backend:            "file",
		Precision:          3,
		AutosaveMode:       "debounced",
		DebounceDelaySec:   2.0,
		SaveIntervalSec:    30.0,
		RefreshMode:        "frame",
		RefreshIntervalSec: 0.25,
		TooltipDelaySec:    0.6,
		TooltipOffsetX:     14,
		TooltipOffsetY:     18,
		Width:              380,
		IndicatorSec:       1.5,
	}
}

// LoadOptions reads a yaml options file over the defaults. A missing file
// is not an error; unreadable or malformed yaml is.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("read options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("parse options %s: %w", path, err)
	}
	opts.normalize()
	return opts, nil
}

func (o *Options) normalize() {
	typedef.NormalizeKeybinds(&o.Keybinds)
	defaults := DefaultOptions()
	if o.SaveFile == "" {
		o.SaveFile = defaults.SaveFile
	}
	if o.Width <= 0 {
		o.Width = defaults.Width
	}
	if o.Precision < 0 || o.Precision > 17 {
		o.Precision = defaults.Precision
	}
	if o.DebounceDelaySec <= 0 {
		o.DebounceDelaySec = defaults.DebounceDelaySec
	}
	if o.SaveIntervalSec <= 0 {
		o.SaveIntervalSec = defaults.SaveIntervalSec
	}
	if o.RefreshIntervalSec <= 0 {
		o.RefreshIntervalSec = defaults.RefreshIntervalSec
	}
	if o.TooltipDelaySec < 0 {
		o.TooltipDelaySec = defaults.TooltipDelaySec
	}
	if o.IndicatorSec <= 0 {
		o.IndicatorSec = defaults.IndicatorSec
	}
}
