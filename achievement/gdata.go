package achievement

import (
	"fmt"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	gdataObject   = "achievements"
	gdataProperty = "unlocked"
)

type gdataPayload struct {
	Unlocked map[string]string `yaml:"unlocked"`
}

// GdataStore saves unlocks as one YAML blob in the platform save directory.
// A nil manager behaves like an empty store that discards writes.
type GdataStore struct {
	manager *gdata.Manager
}

func NewGdataStore(m *gdata.Manager) *GdataStore {
	return &GdataStore{manager: m}
}

func (s *GdataStore) LoadUnlocked() (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	p, err := s.load()
	if err != nil {
		return out, err
	}
	for title, raw := range p.Unlocked {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return out, fmt.Errorf("achievement: parse time for %q: %w", title, err)
		}
		out[title] = at
	}
	return out, nil
}

func (s *GdataStore) SaveUnlock(title string, at time.Time) error {
	if s.manager == nil {
		return nil
	}
	p, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := p.Unlocked[title]; ok {
		return nil
	}
	p.Unlocked[title] = at.Format(time.RFC3339Nano)
	return s.save(p)
}

func (s *GdataStore) Reset() error {
	if s.manager == nil {
		return nil
	}
	return s.save(gdataPayload{Unlocked: map[string]string{}})
}

func (s *GdataStore) Close() error { return nil }

func (s *GdataStore) load() (gdataPayload, error) {
	p := gdataPayload{Unlocked: map[string]string{}}
	if s.manager == nil || !s.manager.ObjectPropExists(gdataObject, gdataProperty) {
		return p, nil
	}
	data, err := s.manager.LoadObjectProp(gdataObject, gdataProperty)
	if err != nil {
		return p, fmt.Errorf("achievement: load gdata: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("achievement: unmarshal gdata: %w", err)
	}
	if p.Unlocked == nil {
		p.Unlocked = map[string]string{}
	}
	return p, nil
}

func (s *GdataStore) save(p gdataPayload) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("achievement: marshal gdata: %w", err)
	}
	if err := s.manager.SaveObjectProp(gdataObject, gdataProperty, data); err != nil {
		return fmt.Errorf("achievement: save gdata: %w", err)
	}
	return nil
}
