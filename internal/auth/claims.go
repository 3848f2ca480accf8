package auth

import "time"

// SessionClaims are the claims carried by a session token. The token ID is
// the id of the server-side session row, so deleting the row revokes the token.
type SessionClaims struct {
	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	SessionID  string    `json:"jti"`
}
