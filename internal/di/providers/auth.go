package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/auth"
	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/logger"
)

// AuthKey wraps the session token key bytes.
type AuthKey []byte

// PasswordHash is the argon2id hash of the configured login password.
type PasswordHash string

// ProvideAuthKey loads or generates the session token key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.SessionKey = key

	log.Info("Authentication key loaded", "session_duration", cfg.Auth.SessionDuration)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	authKey := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService([]byte(authKey))
}

// ProvidePasswordHash hashes the configured login password.
func ProvidePasswordHash(i do.Injector) (PasswordHash, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.UsingDefaultPassword() {
		log.Warn("Using the default password, set APP_PASSWORD before exposing this server")
	}

	hash, err := auth.HashPassword(cfg.Auth.Password)
	if err != nil {
		return "", err
	}
	return PasswordHash(hash), nil
}
