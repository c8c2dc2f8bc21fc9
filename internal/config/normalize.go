package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ItsNotGoodName/portfolio-os/internal/desktop"
)

// NormalizeConfig fills missing values with defaults and writes the result back.
func NormalizeConfig(store Store) error {
	return store.UpdateConfig(func(cfg Config) (Config, error) {
		return Normalize(cfg)
	})
}

func Normalize(cfg Config) (Config, error) {
	def := DefaultConfig()

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = def.Database.Driver
	}
	switch cfg.Database.Driver {
	case "sqlite", "sqlite3":
	default:
		return Config{}, fmt.Errorf("invalid database driver: %s", cfg.Database.Driver)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}

	if cfg.Desktop.Viewport.Width <= 0 || cfg.Desktop.Viewport.Height <= 0 {
		cfg.Desktop.Viewport = def.Desktop.Viewport
	}
	if cfg.Desktop.MenuBarHeight <= 0 {
		cfg.Desktop.MenuBarHeight = def.Desktop.MenuBarHeight
	}
	if cfg.Desktop.TaskbarHeight <= 0 {
		cfg.Desktop.TaskbarHeight = def.Desktop.TaskbarHeight
	}
	if cfg.Desktop.MinWidth <= 0 {
		cfg.Desktop.MinWidth = def.Desktop.MinWidth
	}
	if cfg.Desktop.MinHeight <= 0 {
		cfg.Desktop.MinHeight = def.Desktop.MinHeight
	}
	if len(cfg.Desktop.Windows) == 0 {
		cfg.Desktop.Windows = def.Desktop.Windows
	}
	seen := make(map[string]bool, len(cfg.Desktop.Windows))
	for i, w := range cfg.Desktop.Windows {
		id := strings.TrimSpace(w.ID)
		if id == "" {
			return Config{}, fmt.Errorf("window %d has no id", i)
		}
		if seen[id] {
			return Config{}, fmt.Errorf("duplicate window id: %s", id)
		}
		seen[id] = true

		cfg.Desktop.Windows[i].ID = id
		if w.Title == "" {
			cfg.Desktop.Windows[i].Title = id
		}
	}

	if cfg.Sessions.IdleTimeout <= 0 {
		cfg.Sessions.IdleTimeout = def.Sessions.IdleTimeout
	}
	if cfg.Sessions.Max <= 0 {
		cfg.Sessions.Max = def.Sessions.Max
	}

	if cfg.Portfolio.YearsExperience < 0 {
		return Config{}, fmt.Errorf("invalid years of experience: %d", cfg.Portfolio.YearsExperience)
	}

	return cfg, nil
}

// DesktopConfig converts the desktop section for the window manager.
func (c Config) DesktopConfig() desktop.Config {
	return desktop.Config{
		Viewport:     c.Desktop.Viewport,
		TopChrome:    c.Desktop.MenuBarHeight,
		BottomChrome: c.Desktop.TaskbarHeight,
		MinSize: desktop.Size{
			Width:  c.Desktop.MinWidth,
			Height: c.Desktop.MinHeight,
		},
		Windows: slices.Clone(c.Desktop.Windows),
	}
}
