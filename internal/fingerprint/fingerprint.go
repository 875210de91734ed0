// Package fingerprint derives a stable content hash from the semantically
// meaningful parts of a transcription snapshot. Two snapshots with the same
// fingerprint are treated as unchanged, so the hash must be deterministic and
// order-sensitive: reordering blocks produces a different value.
package fingerprint

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

// Compute hashes block text/speaker/timestamp, speaker code/name/description
// and remarks with FNV-64a. Field and record separators keep adjacent values
// from colliding ("ab","c" vs "a","bc").
func Compute(s *models.Snapshot) string {
	h := fnv.New64a()

	writeField := func(v string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(v)))
		h.Write(n[:])
		h.Write([]byte(v))
	}

	writeField("blocks:" + strconv.Itoa(len(s.Blocks)))
	for _, b := range s.Blocks {
		writeField(b.Text)
		writeField(b.Speaker)
		writeField(b.Timestamp)
	}

	writeField("speakers:" + strconv.Itoa(len(s.Speakers)))
	for _, sp := range s.Speakers {
		writeField(sp.Code)
		writeField(sp.Name)
		writeField(sp.Description)
	}

	writeField("remarks:" + strconv.Itoa(len(s.Remarks)))
	for _, r := range s.Remarks {
		writeField(r.Text)
		writeField(r.BlockID)
		writeField(r.Timestamp)
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
