package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserLookup rebuilds an identity for the legacy bare-id cookie format.
type UserLookup interface {
	IdentityForUserID(id int64) (*Identity, error)
}

type sessionClaims struct {
	Identity
	jwt.RegisteredClaims
}

// SessionCodec encodes an authenticated identity into the auth cookie value
// and decodes the three formats found in the wild: the signed token it mints
// itself, the legacy unsigned JSON blob, and the oldest bare numeric user id.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
}

func NewSessionCodec(secret string, ttl time.Duration, users UserLookup) *SessionCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionCodec{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
	}
}

// TTL is the session lifetime, also used as the cookie max-age.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Encode serializes the identity into a signed HS256 token.
func (c *SessionCodec) Encode(id *Identity) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		Identity: *id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(id.ID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode resolves a cookie value to an identity. An empty value fails with
// ErrNoSession; a value that matches none of the supported shapes fails with
// ErrMalformedSession. Only the bare-id path touches the database.
func (c *SessionCodec) Decode(raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrNoSession
	}

	if id, err := c.decodeSigned(raw); err == nil {
		return id, nil
	}

	if id, err := decodeLegacyJSON(raw); err == nil {
		return id, nil
	}

	if userID, err := strconv.ParseInt(raw, 10, 64); err == nil && userID > 0 {
		return c.users.IdentityForUserID(userID)
	}

	return nil, ErrMalformedSession
}

func (c *SessionCodec) decodeSigned(raw string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrMalformedSession
	}

	// claims.Identity.ID, not claims.ID: RegisteredClaims embeds its own
	// string ID field (the jti claim) at the same depth.
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Identity.ID == 0 {
		return nil, ErrMalformedSession
	}

	identity := claims.Identity
	return &identity, nil
}

// decodeLegacyJSON handles the transitional unsigned cookie, a plain JSON
// object with the same field set the signed token carries.
func decodeLegacyJSON(raw string) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, ErrMalformedSession
	}
	if id.ID == 0 {
		return nil, ErrMalformedSession
	}
	return &id, nil
}
