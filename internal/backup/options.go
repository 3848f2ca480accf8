package backup

import "github.com/promptshelf/promptshelf-server/internal/store"

// ImportMode determines how to handle existing data.
type ImportMode string

const (
	// ImportModeReplace wipes prompts, knowledge, tags and custom categories
	// before writing the snapshot. Built-in categories stay.
	ImportModeReplace ImportMode = "replace"

	// ImportModeMerge writes the snapshot over existing data. Rows with a
	// matching id are updated in place, others are left alone.
	ImportModeMerge ImportMode = "merge"
)

// ModeFor maps the merge flag of an import request to a mode.
func ModeFor(merge bool) ImportMode {
	if merge {
		return ImportModeMerge
	}
	return ImportModeReplace
}

// Valid returns true if the import mode is recognized.
func (m ImportMode) Valid() bool {
	switch m {
	case ImportModeReplace, ImportModeMerge:
		return true
	default:
		return false
	}
}

func (m ImportMode) storeMode() store.ImportMode {
	if m == ImportModeMerge {
		return store.ImportMerge
	}
	return store.ImportReplace
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	Mode         ImportMode
	Imported     map[string]int
	FilesRemoved int
}
