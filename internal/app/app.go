// Package app is the composition root for the client side: it loads the
// auto-save settings, picks the version store (remote API or local sqlite),
// and hands the embedding UI one coordinator and one switcher to talk to.
package app

import (
	"fmt"

	"github.com/YaelHo1991/transcription-app-sub005/internal/backup"
	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
	"github.com/YaelHo1991/transcription-app-sub005/internal/session"
	"github.com/YaelHo1991/transcription-app-sub005/internal/settings"
	"github.com/YaelHo1991/transcription-app-sub005/internal/store"
)

type App struct {
	Coordinator *backup.Coordinator
	Switcher    *session.Switcher
	Store       store.VersionHistoryStore

	watcher *settings.Watcher
}

// Options overrides how the app is assembled. Zero values mean defaults.
type Options struct {
	SettingsPath string
	// LocalDBPath switches version history to a local sqlite file instead
	// of the remote API. Used for offline work.
	LocalDBPath string
}

func New(opts Options) (*App, error) {
	s, err := settings.Load(opts.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var st store.VersionHistoryStore
	if opts.LocalDBPath != "" {
		st, err = store.OpenLocal(opts.LocalDBPath)
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		logger.Infof("[App] Using local version store at %s", opts.LocalDBPath)
	} else {
		st = store.NewHTTPStore(s.ServerURL, s.AuthToken)
		logger.Infof("[App] Using version store at %s", s.ServerURL)
	}

	coordinator := backup.NewCoordinator(st)
	coordinator.UpdateSettings(s.Interval(), s.Grace())

	switcher := session.NewSwitcher(coordinator, st, session.Config{
		Debounce:  s.Debounce(),
		FlushWait: s.FlushWait(),
		Interval:  s.Interval(),
	})

	a := &App{
		Coordinator: coordinator,
		Switcher:    switcher,
		Store:       st,
	}

	if opts.SettingsPath != "" {
		watcher, err := settings.NewWatcher(opts.SettingsPath, func(next settings.Settings) {
			coordinator.UpdateSettings(next.Interval(), next.Grace())
		})
		if err != nil {
			// Hot-reload is a convenience; a failed watcher should not
			// keep the editor from starting.
			logger.Warnf("[App] Settings watch unavailable: %v", err)
		} else {
			watcher.Start()
			a.watcher = watcher
		}
	}

	return a, nil
}

func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.Coordinator.Detach()
}
