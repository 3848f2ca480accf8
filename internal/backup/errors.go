// Package backup exports and imports the prompt collection as a JSON snapshot.
package backup

import domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"

var (
	// ErrNoData indicates an import request without a data section.
	ErrNoData = domainerrors.BadRequest("no data to import")

	// ErrVersionMismatch indicates the snapshot format version is not supported.
	ErrVersionMismatch = domainerrors.BadRequest("snapshot version not supported")

	// ErrInvalidSnapshot indicates the snapshot document could not be parsed.
	ErrInvalidSnapshot = domainerrors.BadRequest("invalid snapshot document")
)
