package config

import (
	"slices"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/desktop"
)

func DefaultConfig() Config {
	return Config{
		Database: Database{
			Driver: "sqlite",
			Path:   "portfolio-os.db",
		},
		Desktop: Desktop{
			Viewport:      desktop.DefaultConfig.Viewport,
			MenuBarHeight: desktop.DefaultConfig.TopChrome,
			TaskbarHeight: desktop.DefaultConfig.BottomChrome,
			MinWidth:      desktop.DefaultConfig.MinSize.Width,
			MinHeight:     desktop.DefaultConfig.MinSize.Height,
			Windows:       slices.Clone(desktop.DefaultWindows),
		},
		Sessions: Sessions{
			IdleTimeout: Duration(30 * time.Minute),
			Max:         1000,
		},
		Portfolio: Portfolio{
			YearsExperience: 0,
		},
	}
}

type Config struct {
	Database  Database  `json:"database" yaml:"database"`
	Desktop   Desktop   `json:"desktop" yaml:"desktop"`
	Sessions  Sessions  `json:"sessions" yaml:"sessions"`
	Portfolio Portfolio `json:"portfolio" yaml:"portfolio"`
}

func (c Config) clone() Config {
	c.Desktop.Windows = slices.Clone(c.Desktop.Windows)
	return c
}

type Database struct {
	Driver string `json:"driver" yaml:"driver"` // [sqlite, sqlite3]
	Path   string `json:"path" yaml:"path"`
}

type Desktop struct {
	Viewport      desktop.Size         `json:"viewport" yaml:"viewport"`
	MenuBarHeight int                  `json:"menu_bar_height" yaml:"menu_bar_height"`
	TaskbarHeight int                  `json:"taskbar_height" yaml:"taskbar_height"`
	MinWidth      int                  `json:"min_width" yaml:"min_width"`
	MinHeight     int                  `json:"min_height" yaml:"min_height"`
	Windows       []desktop.WindowSpec `json:"windows" yaml:"windows"`
}

type Sessions struct {
	IdleTimeout Duration `json:"idle_timeout" yaml:"idle_timeout"`
	Max         int      `json:"max" yaml:"max"`
}

type Portfolio struct {
	YearsExperience int `json:"years_experience" yaml:"years_experience"`
}

// Duration is a time.Duration written as text (e.g. "30m") in config files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
