// Package id generates opaque string identifiers for server-side records
// that are not numbered by the database, such as login sessions.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// alphabet avoids '-' and '_' so identifiers survive cookie and URL handling untouched.
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	size     = 24
)

// Generate returns "<prefix>_<24 random characters>", e.g. "ses_4f9QmZ0cTQ7WkXhP2bLrN8aE".
func Generate(prefix string) (string, error) {
	s, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "_" + s, nil
}
