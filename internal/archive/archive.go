// Package archive mirrors stored snapshot versions to plain JSON files so
// they survive outside the database and stay identifiable even after a
// rename: identity and version are tagged onto each file as extended
// attributes where the filesystem supports them.
package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
)

type Writer struct {
	root string
}

func NewWriter(root string) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("empty archive root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir archive root: %w", err)
	}
	return &Writer{root: root}, nil
}

// Export writes one version's snapshot JSON under
// root/<project>/<media>/v<N>.json and tags it with the identity.
func (w *Writer) Export(identity models.Identity, version int, content []byte) error {
	dir := filepath.Join(w.root, sanitize(identity.ProjectID), sanitize(identity.MediaID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir archive dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("v%d.json", version))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}

	// Tagging is best effort; tmpfs and some network mounts refuse xattrs.
	if err := tagIdentity(path, identity, version); err != nil {
		logger.Debugf("[Archive] Could not tag %s: %v", path, err)
	}
	return nil
}

// sanitize keeps identity parts from escaping the archive root.
func sanitize(part string) string {
	if part == "" {
		return "_"
	}
	clean := filepath.Base(filepath.Clean(part))
	if clean == "." || clean == ".." || clean == string(filepath.Separator) {
		return "_"
	}
	return clean
}
