// Package auth implements the single-user login: password hashing, the
// session token key, and PASETO session tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyFileName is the key file created under the data directory.
const KeyFileName = "session.key"

// keyLength is the PASETO v4 symmetric key size in bytes.
const keyLength = 32

// LoadOrGenerateKey returns the session token key stored hex-encoded in
// <dataPath>/session.key, creating the file with a random key on first use.
// Keeping the key on disk lets sessions survive restarts.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, KeyFileName)

	//#nosec G304 -- key path is derived from the configured data path
	if raw, err := os.ReadFile(keyPath); err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("invalid session key in %s: %w", keyPath, err)
		}
		if len(key) != keyLength {
			return nil, fmt.Errorf("invalid session key in %s: expected %d bytes, got %d", keyPath, keyLength, len(key))
		}
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save session key: %w", err)
	}

	return key, nil
}
