package assets

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watcher reports changed files below a directory tree. Bursts of events
// for one file within the debounce window are reported once.
type Watcher struct {
	watcher *fsnotify.Watcher
	match   func(path string) bool
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches root and every directory below it for files accepted
// by match. A nil match accepts texture and font files.
func NewWatcher(root string, match func(path string) bool) (*Watcher, error) {
	if match == nil {
		match = IsAssetFile
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		match:   match,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
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

// IsAssetFile reports whether path has a texture or font extension.
func IsAssetFile(path string) bool {
	_, ok := typeForExt(filepath.Ext(path))
	return ok
}

// AssetForPath maps a file below root back to the asset it stores.
func AssetForPath(root, path string) (Asset, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return Asset{}, false
	}
	ext := filepath.Ext(rel)
	t, ok := typeForExt(ext)
	if !ok {
		return Asset{}, false
	}
	return Asset{Type: t, Key: filepath.ToSlash(strings.TrimSuffix(rel, ext))}, true
}

// Watch reloads known assets whenever their files change. Reloaded results
// arrive through Poll like any other load. Close the returned watcher to
// stop.
func (s *Service) Watch() (*Watcher, error) {
	w, err := NewWatcher(s.root, IsAssetFile)
	if err != nil {
		return nil, err
	}
	changed := make(chan Asset, 16)
	go func() {
		defer close(changed)
		for {
			select {
			case path, ok := <-w.Events:
				if !ok {
					return
				}
				if a, ok := AssetForPath(s.root, path); ok {
					changed <- a
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("watch", zap.Error(err))
			}
		}
	}()
	s.changed = changed
	return w, nil
}
