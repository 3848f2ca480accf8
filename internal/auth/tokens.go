package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "promptshelf-server"
	tokenAudience = "promptshelf-web"
)

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
}

// NewTokenService creates a token service from a 32-byte symmetric key.
func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{key: k}, nil
}

// Issue returns an encrypted token for the session, valid until expiresAt.
func (s *TokenService) Issue(sessionID string, expiresAt time.Time) (string, error) {
	if sessionID == "" {
		return "", errors.New("session id cannot be empty")
	}

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)
	token.SetJti(sessionID)

	return token.V4Encrypt(s.key, nil), nil
}

// Verify decrypts a token and checks issuer, audience and validity window.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.SessionID == "" {
		return nil, errors.New("invalid token: missing session id")
	}

	return &claims, nil
}
