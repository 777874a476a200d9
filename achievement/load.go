package achievement

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is one authored achievement: its definition plus the game events that
// drive it.
type Spec struct {
	Definition `yaml:",inline"`
	// On lists events that trigger (trigger kind) or increment by one
	// (counter kind).
	On       []string `yaml:"on"`
	StartOn  []string `yaml:"start_on"`
	StopOn   []string `yaml:"stop_on"`
	CancelOn []string `yaml:"cancel_on"`
}

type File struct {
	Achievements []Spec `yaml:"achievements"`
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("achievement: parse: %w", err)
	}
	return f, nil
}

// Load registers and binds every spec in f.
func (t *Tracker) Load(f File) error {
	for _, s := range f.Achievements {
		if err := t.Register(s.Definition); err != nil {
			return err
		}
		for _, b := range s.bindings() {
			if err := t.Bind(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Spec) bindings() []Binding {
	var out []Binding
	onAction := ActionTrigger
	if s.Kind == KindCounter {
		onAction = ActionIncrement
	}
	add := func(events []string, action Action) {
		for _, ev := range events {
			out = append(out, Binding{Event: ev, Title: s.Title, Action: action, Amount: 1})
		}
	}
	add(s.On, onAction)
	add(s.StartOn, ActionStart)
	add(s.StopOn, ActionStop)
	add(s.CancelOn, ActionCancel)
	return out
}
