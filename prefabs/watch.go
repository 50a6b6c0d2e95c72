package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// ChangeKind says which part of the game a prefab edit affects.
type ChangeKind int

const (
	ChangeCatalog ChangeKind = iota
	ChangeTuning
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCatalog:
		return "catalog"
	case ChangeTuning:
		return "tuning"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change is one debounced edit. Name is the file's base name.
type Change struct {
	Kind ChangeKind
	Name string
}

// Classify maps a file path to the change it causes. Files other than
// fruits.yaml, tuning.yaml and *.tengo scripts are ignored.
func Classify(path string) (Change, bool) {
	name := filepath.Base(path)
	switch {
	case name == FruitsFile:
		return Change{Kind: ChangeCatalog, Name: name}, true
	case name == TuningFile:
		return Change{Kind: ChangeTuning, Name: name}, true
	case strings.EqualFold(filepath.Ext(name), ".tengo"):
		return Change{Kind: ChangeScript, Name: name}, true
	}
	return Change{}, false
}

// Watcher reports prefab and spawn script edits.
type Watcher struct {
	watcher *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		watcher: fw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Poll drains pending changes without blocking.
func (w *Watcher) Poll() []Change {
	var out []Change
	for {
		select {
		case c, ok := <-w.Changes:
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			change, ok := Classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[change.Name]; seen && now.Sub(t) < debounce {
				continue
			}
			last[change.Name] = now
			select {
			case w.Changes <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
