package settings

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
)

// Watcher re-reads the settings file when it changes on disk and hands the
// fresh values to the callback. Editors replace files via rename, so the
// parent directory is watched rather than the file itself.
type Watcher struct {
	path     string
	onChange func(Settings)
	watcher  *fsnotify.Watcher

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWatcher(path string, onChange func(Settings)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fw,
		stopChan: make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
	logger.Infof("[Settings] Watching %s", w.path)
}

func (w *Watcher) Stop() {
	close(w.stopChan)
	w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s, err := Load(w.path)
			if err != nil {
				logger.Warnf("[Settings] Reload failed: %v", err)
				continue
			}
			logger.Infof("[Settings] Reloaded (interval %s, grace %s)", s.Interval(), s.Grace())
			w.onChange(s)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("[Settings] Watch error: %v", err)
		}
	}
}
