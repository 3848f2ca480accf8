package backup

import (
	"strings"
	"time"

	"github.com/promptshelf/promptshelf-server/internal/store"
)

// FormatVersion is the snapshot format version. Increment major on breaking changes.
const FormatVersion = "1.0"

// ExportFilename is the download name offered for exports.
const ExportFilename = "prompt-sammlung-export.json"

// Snapshot is the exported document. AI platforms, AI responses and
// attachments are not part of it.
type Snapshot struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exported_at"`
	Data       *store.SnapshotData `json:"data"`
}

// supportedVersion reports whether a snapshot of version v can be imported.
// Documents without a version are accepted.
func supportedVersion(v string) bool {
	if v == "" {
		return true
	}
	major, _, _ := strings.Cut(FormatVersion, ".")
	got, _, _ := strings.Cut(v, ".")
	return got == major
}
