//go:build !linux

package archive

import (
	"errors"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

// Extended attributes are only wired up on linux; elsewhere the JSON file
// itself is the whole export.
func tagIdentity(path string, identity models.Identity, version int) error {
	return nil
}

func ReadIdentity(path string) (models.Identity, int, error) {
	return models.Identity{}, 0, errors.New("identity tags unsupported on this platform")
}
