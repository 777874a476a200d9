package config

import (
	"fmt"

	"github.com/milk9111/hollowreach/common"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// Settings are the player-facing options persisted between runs.
type Settings struct {
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	Fullscreen   bool    `yaml:"fullscreen"`
	ShowTimer    bool    `yaml:"show_timer"`
}

func DefaultSettings() Settings {
	return Settings{
		MasterVolume: 1,
		MusicVolume:  0.6,
		SFXVolume:    0.8,
	}
}

// MusicGain is the effective music volume.
func (s Settings) MusicGain() float64 { return clamp01(s.MasterVolume) * clamp01(s.MusicVolume) }

// SFXGain is the effective sound effect volume.
func (s Settings) SFXGain() float64 { return clamp01(s.MasterVolume) * clamp01(s.SFXVolume) }

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// SettingsStore loads and saves Settings through gdata. A nil manager keeps
// settings in memory only.
type SettingsStore struct {
	manager  *gdata.Manager
	settings Settings
}

// NewSettingsStore loads saved settings, falling back to defaults when they
// are missing or unreadable.
func NewSettingsStore(m *gdata.Manager) *SettingsStore {
	s := &SettingsStore{manager: m, settings: DefaultSettings()}
	if err := s.Load(); err != nil {
		common.Logger().Warn("failed to load settings, using defaults", "error", err)
	}
	return s
}

func (s *SettingsStore) Load() error {
	s.settings = DefaultSettings()
	if s.manager == nil || !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("config: load settings: %w", err)
	}
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("config: unmarshal settings: %w", err)
	}
	s.settings = loaded
	return nil
}

func (s *SettingsStore) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("config: marshal settings: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("config: save settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) Get() Settings { return s.settings }

// Update applies fn to the current settings and saves the result.
func (s *SettingsStore) Update(fn func(*Settings)) error {
	fn(&s.settings)
	return s.Save()
}
