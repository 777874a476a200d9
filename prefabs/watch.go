package prefabs

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a directory must stay quiet before a batch is sent.
// Editors often write, chmod and rename the same file back to back.
const settle = 150 * time.Millisecond

type Change struct {
	Path string
	Kind Kind
}

// Watcher merges prefab and script edits into batches, one per burst.
type Watcher struct {
	fs      *fsnotify.Watcher
	batches chan []Change
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("prefabs: watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("prefabs: watch %s: %w", dir, err)
		}
	}
	w := &Watcher{
		fs:      fw,
		batches: make(chan []Change, 4),
		errs:    make(chan error, 4),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Batches is closed when the watcher stops.
func (w *Watcher) Batches() <-chan []Change { return w.batches }

func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.errs)
	defer close(w.batches)

	pending := map[string]Kind{}
	quiet := time.NewTimer(settle)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			kind, ok := classify(ev.Name)
			if !ok {
				continue
			}
			pending[ev.Name] = kind
			quiet.Reset(settle)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-quiet.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]Change, 0, len(pending))
			for p, k := range pending {
				batch = append(batch, Change{Path: p, Kind: k})
			}
			clear(pending)
			slices.SortFunc(batch, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
			select {
			case w.batches <- batch:
			case <-w.done:
				return
			}
		}
	}
}
