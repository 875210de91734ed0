// Package settings holds the client-side auto-save configuration and keeps
// it fresh by watching the settings file for edits.
package settings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	IntervalSec int    `yaml:"interval_sec"` // auto-save cadence
	GraceMs     int    `yaml:"grace_ms"`     // write suppression after a media switch
	DebounceMs  int    `yaml:"debounce_ms"`  // rapid-selection absorption window
	FlushWaitMs int    `yaml:"flush_wait_ms"`
	ServerURL   string `yaml:"server_url"`
	AuthToken   string `yaml:"auth_token"`
}

func Default() Settings {
	return Settings{
		IntervalSec: 60,
		GraceMs:     2000,
		DebounceMs:  300,
		FlushWaitMs: 300,
		ServerURL:   "http://localhost:8080",
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults stand.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

func (s *Settings) normalize() {
	d := Default()
	if s.IntervalSec <= 0 {
		s.IntervalSec = d.IntervalSec
	}
	if s.GraceMs <= 0 {
		s.GraceMs = d.GraceMs
	}
	if s.DebounceMs <= 0 {
		s.DebounceMs = d.DebounceMs
	}
	if s.FlushWaitMs <= 0 {
		s.FlushWaitMs = d.FlushWaitMs
	}
}

func (s Settings) Interval() time.Duration {
	return time.Duration(s.IntervalSec) * time.Second
}

func (s Settings) Grace() time.Duration {
	return time.Duration(s.GraceMs) * time.Millisecond
}

func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

func (s Settings) FlushWait() time.Duration {
	return time.Duration(s.FlushWaitMs) * time.Millisecond
}
