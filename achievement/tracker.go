package achievement

import (
	"errors"
	"fmt"
	"time"
)

// Action is what a Binding does to its achievement when the event fires.
type Action string

const (
	ActionTrigger   Action = "trigger"
	ActionIncrement Action = "increment"
	ActionStart     Action = "start"
	ActionStop      Action = "stop"
	ActionCancel    Action = "cancel"
)

// Binding routes a game event name to an achievement operation.
type Binding struct {
	Event  string
	Title  string
	Action Action
	Amount int
}

type entry struct {
	status Status
}

// Tracker holds achievements in registration order with a title index. It is
// driven from the game loop and is not safe for concurrent use.
type Tracker struct {
	entries   []*entry
	index     map[string]int
	bindings  map[string][]Binding
	listeners []func(Status)
	now       func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		index:    make(map[string]int),
		bindings: make(map[string][]Binding),
		now:      time.Now,
	}
}

func (t *Tracker) Register(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	if _, ok := t.index[def.Title]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, def.Title)
	}
	t.index[def.Title] = len(t.entries)
	t.entries = append(t.entries, &entry{status: Status{Definition: def}})
	return nil
}

// Bind attaches b to its event. The action must suit the achievement kind.
func (t *Tracker) Bind(b Binding) error {
	if b.Event == "" {
		return fmt.Errorf("%w: binding for %q has no event", ErrInvalid, b.Title)
	}
	e, err := t.lookup(b.Title)
	if err != nil {
		return err
	}
	want := KindTrigger
	switch b.Action {
	case ActionTrigger:
	case ActionIncrement:
		want = KindCounter
		if b.Amount <= 0 {
			b.Amount = 1
		}
	case ActionStart, ActionStop, ActionCancel:
		want = KindTimer
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalid, b.Action)
	}
	if e.status.Kind != want {
		return fmt.Errorf("%w: %s on %s achievement %q", ErrKindMismatch, b.Action, e.status.Kind, b.Title)
	}
	t.bindings[b.Event] = append(t.bindings[b.Event], b)
	return nil
}

// OnUnlock registers fn to run once for every achievement that unlocks.
func (t *Tracker) OnUnlock(fn func(Status)) {
	if fn != nil {
		t.listeners = append(t.listeners, fn)
	}
}

func (t *Tracker) Trigger(title string) error {
	e, err := t.lookupKind(title, KindTrigger)
	if err != nil {
		return err
	}
	t.unlock(e)
	return nil
}

func (t *Tracker) Increment(title string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: increment of %d", ErrInvalid, n)
	}
	e, err := t.lookupKind(title, KindCounter)
	if err != nil {
		return err
	}
	if e.status.Unlocked {
		return nil
	}
	e.status.Count = min(e.status.Count+n, e.status.Target)
	if e.status.Count >= e.status.Target {
		t.unlock(e)
	}
	return nil
}

// StartTimer (re)starts a timer from zero. Unlocked timers ignore it.
func (t *Tracker) StartTimer(title string) error {
	e, err := t.lookupKind(title, KindTimer)
	if err != nil {
		return err
	}
	if e.status.Unlocked {
		return nil
	}
	e.status.Running = true
	e.status.Elapsed = 0
	e.status.Failed = false
	return nil
}

// StopTimer ends a running timer. A beat timer stopped within its limit
// unlocks; an endure timer stopped early just resets.
func (t *Tracker) StopTimer(title string) error {
	e, err := t.lookupKind(title, KindTimer)
	if err != nil {
		return err
	}
	if !e.status.Running {
		return nil
	}
	e.status.Running = false
	if e.status.Mode == TimerBeat && withinLimit(e.status.Elapsed, e.status.Limit) {
		t.unlock(e)
		return nil
	}
	e.status.Elapsed = 0
	return nil
}

func (t *Tracker) CancelTimer(title string) error {
	e, err := t.lookupKind(title, KindTimer)
	if err != nil {
		return err
	}
	e.status.Running = false
	e.status.Elapsed = 0
	return nil
}

// timerSlack absorbs the drift of summing per-frame dt, so Limit seconds of
// frames count as exactly Limit. It is far below one frame.
const timerSlack = 1e-6

func withinLimit(elapsed, limit float64) bool { return elapsed <= limit+timerSlack }

func reachedLimit(elapsed, limit float64) bool { return elapsed >= limit-timerSlack }

// Tick advances every running timer by dt seconds.
func (t *Tracker) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	for _, e := range t.entries {
		st := &e.status
		if st.Kind != KindTimer || !st.Running {
			continue
		}
		st.Elapsed += dt
		switch st.Mode {
		case TimerBeat:
			if !withinLimit(st.Elapsed, st.Limit) {
				st.Running = false
				st.Failed = true
			}
		case TimerEndure:
			if reachedLimit(st.Elapsed, st.Limit) {
				st.Running = false
				t.unlock(e)
			}
		}
	}
}

// Dispatch applies every binding registered for event, in bind order.
func (t *Tracker) Dispatch(event string) error {
	var errs []error
	for _, b := range t.bindings[event] {
		var err error
		switch b.Action {
		case ActionTrigger:
			err = t.Trigger(b.Title)
		case ActionIncrement:
			err = t.Increment(b.Title, b.Amount)
		case ActionStart:
			err = t.StartTimer(b.Title)
		case ActionStop:
			err = t.StopTimer(b.Title)
		case ActionCancel:
			err = t.CancelTimer(b.Title)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetScene drops scene-scoped progress: counts and failures of PerScene
// achievements and every running timer. Unlocks are kept.
func (t *Tracker) ResetScene() {
	for _, e := range t.entries {
		st := &e.status
		if st.Unlocked {
			continue
		}
		if st.Kind == KindTimer {
			st.Running = false
			st.Elapsed = 0
		}
		if st.PerScene {
			st.Count = 0
			st.Failed = false
		}
	}
}

// Restore marks persisted unlocks without notifying listeners. Unknown
// titles are skipped and counted in the return value.
func (t *Tracker) Restore(unlocked map[string]time.Time) int {
	skipped := 0
	for title, at := range unlocked {
		e, err := t.lookup(title)
		if err != nil {
			skipped++
			continue
		}
		e.status.Unlocked = true
		e.status.UnlockedAt = at
		e.status.Running = false
		if e.status.Kind == KindCounter {
			e.status.Count = e.status.Target
		}
	}
	return skipped
}

func (t *Tracker) Status(title string) (Status, error) {
	e, err := t.lookup(title)
	if err != nil {
		return Status{}, err
	}
	return e.status, nil
}

// All returns every achievement in registration order.
func (t *Tracker) All() []Status {
	out := make([]Status, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.status)
	}
	return out
}

func (t *Tracker) UnlockedCount() int {
	n := 0
	for _, e := range t.entries {
		if e.status.Unlocked {
			n++
		}
	}
	return n
}

func (t *Tracker) Len() int { return len(t.entries) }

func (t *Tracker) unlock(e *entry) {
	if e.status.Unlocked {
		return
	}
	e.status.Unlocked = true
	e.status.UnlockedAt = t.now()
	e.status.Running = false
	e.status.Failed = false
	snapshot := e.status
	for _, fn := range t.listeners {
		fn(snapshot)
	}
}

func (t *Tracker) lookup(title string) (*entry, error) {
	idx, ok := t.index[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, title)
	}
	return t.entries[idx], nil
}

func (t *Tracker) lookupKind(title string, kind Kind) (*entry, error) {
	e, err := t.lookup(title)
	if err != nil {
		return nil, err
	}
	if e.status.Kind != kind {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrKindMismatch, title, e.status.Kind, kind)
	}
	return e, nil
}
