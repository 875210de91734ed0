package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, 60*time.Second, s.Interval())
	assert.Equal(t, 2*time.Second, s.Grace())
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	content := "interval_sec: 120\ngrace_ms: -5\nserver_url: \"http://api.example.test\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, s.Interval())
	assert.Equal(t, 2*time.Second, s.Grace(), "invalid grace falls back to default")
	assert.Equal(t, "http://api.example.test", s.ServerURL)
	assert.Equal(t, 300*time.Millisecond, s.Debounce())
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("interval_sec: [broken"), 0o644))

	s, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), s, "broken file leaves the defaults in place")
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("interval_sec: 60\n"), 0o644))

	changes := make(chan Settings, 4)
	w, err := NewWatcher(path, func(s Settings) { changes <- s })
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("interval_sec: 90\n"), 0o644))

	select {
	case s := <-changes:
		assert.Equal(t, 90*time.Second, s.Interval())
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after settings file write")
	}
}
