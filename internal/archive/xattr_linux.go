//go:build linux

package archive

import (
	"strconv"

	"github.com/pkg/xattr"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

const (
	projectAttr = "user.transcription.project"
	mediaAttr   = "user.transcription.media"
	versionAttr = "user.transcription.version"
)

func tagIdentity(path string, identity models.Identity, version int) error {
	if err := xattr.Set(path, projectAttr, []byte(identity.ProjectID)); err != nil {
		return err
	}
	if err := xattr.Set(path, mediaAttr, []byte(identity.MediaID)); err != nil {
		return err
	}
	return xattr.Set(path, versionAttr, []byte(strconv.Itoa(version)))
}

// ReadIdentity recovers the tagged identity and version from an exported
// file, regardless of what the file has been renamed to.
func ReadIdentity(path string) (models.Identity, int, error) {
	project, err := xattr.Get(path, projectAttr)
	if err != nil {
		return models.Identity{}, 0, err
	}
	media, err := xattr.Get(path, mediaAttr)
	if err != nil {
		return models.Identity{}, 0, err
	}
	raw, err := xattr.Get(path, versionAttr)
	if err != nil {
		return models.Identity{}, 0, err
	}
	version, err := strconv.Atoi(string(raw))
	if err != nil {
		return models.Identity{}, 0, err
	}
	return models.Identity{ProjectID: string(project), MediaID: string(media)}, version, nil
}
