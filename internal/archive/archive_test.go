package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

func TestExportWritesVersionFile(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root)
	require.NoError(t, err)

	identity := models.Identity{ProjectID: "p1", MediaID: "m1"}
	content := []byte(`{"blocks":[]}`)
	require.NoError(t, w.Export(identity, 3, content))

	got, err := os.ReadFile(filepath.Join(root, "p1", "m1", "v3.json"))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestExportSanitizesIdentityParts(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root)
	require.NoError(t, err)

	identity := models.Identity{ProjectID: "../../etc", MediaID: ""}
	require.NoError(t, w.Export(identity, 1, []byte("{}")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "etc", entries[0].Name(), "path traversal must be stripped")
}
