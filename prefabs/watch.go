package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// QuietPeriod is how long the watched directories must stay unchanged before
// a batch is delivered. Editors often write a file several times per save.
const QuietPeriod = 150 * time.Millisecond

// Watcher reports edits to blueprint and prefab YAML files in override
// directories. Changes are batched so a burst of writes reloads once.
type Watcher struct {
	fs *fsnotify.Watcher

	// Events receives the sorted, de-duplicated paths changed in one burst.
	Events chan []string
	Errors chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewWatcher watches each non-empty dir. It returns nil and no error when
// every dir is empty.
func NewWatcher(dirs ...string) (*Watcher, error) {
	dirs = slices.DeleteFunc(slices.Clone(dirs), func(d string) bool { return d == "" })
	if len(dirs) == 0 {
		return nil, nil
	}

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
		fs:     fw,
		Events: make(chan []string, 4),
		Errors: make(chan error, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	pending := make(map[string]struct{})
	quiet := time.NewTimer(QuietPeriod)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !isContentFile(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			quiet.Reset(QuietPeriod)

		case <-quiet.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			clear(pending)
			select {
			case w.Events <- batch:
			case <-w.stop:
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}

		case <-w.stop:
			return
		}
	}
}

func isContentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
