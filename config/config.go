// Package config loads the game configuration and the player's persisted
// settings.
package config

import (
	_ "embed"
	"fmt"
)

//go:embed default.yaml
var defaultYAML []byte

type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

type Achievements struct {
	// Backend is one of sqlite, gdata or memory.
	Backend string `yaml:"backend"`
	DBPath  string `yaml:"db_path"`
	// Definitions names the prefab file holding achievement definitions.
	Definitions string `yaml:"definitions"`
}

type Config struct {
	AppName      string       `yaml:"app_name"`
	Window       Window       `yaml:"window"`
	StartLevel   string       `yaml:"start_level"`
	Debug        bool         `yaml:"debug"`
	HotReload    bool         `yaml:"hot_reload"`
	Achievements Achievements `yaml:"achievements"`
}

// Default returns the hardcoded configuration used when no file parses.
func Default() Config {
	return Config{
		AppName: "hollowreach",
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "Hollowreach",
		},
		StartLevel: "cavern_1.json",
		Achievements: Achievements{
			Backend:     "sqlite",
			DBPath:      "~/.hollowreach/achievements.db",
			Definitions: "achievements.yaml",
		},
	}
}

// Validate fills zero values from Default and rejects unusable settings.
func (c *Config) Validate() error {
	def := Default()
	if c.AppName == "" {
		c.AppName = def.AppName
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = def.Window.Width, def.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.StartLevel == "" {
		c.StartLevel = def.StartLevel
	}
	if c.Achievements.Definitions == "" {
		c.Achievements.Definitions = def.Achievements.Definitions
	}
	switch c.Achievements.Backend {
	case "":
		c.Achievements.Backend = def.Achievements.Backend
	case "sqlite", "gdata", "memory":
	default:
		return fmt.Errorf("config: unknown achievement backend %q", c.Achievements.Backend)
	}
	if c.Achievements.Backend == "sqlite" && c.Achievements.DBPath == "" {
		c.Achievements.DBPath = def.Achievements.DBPath
	}
	return nil
}
