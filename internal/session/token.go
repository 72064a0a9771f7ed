package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 24 * time.Hour

// TokenIssuer mints and verifies the HS256 console tokens handed to the
// browser. The token carries only the session ID and role; the upstream
// bearer token never leaves the server side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime applied to issued tokens and persisted sessions.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a console token for the given session.
func (t *TokenIssuer) Issue(sid, role string) (string, error) {
	claims := jwt.MapClaims{
		"sid":  sid,
		"role": role,
		"exp":  time.Now().Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies a console token and returns the session ID it names.
func (t *TokenIssuer) Parse(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("invalid console token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("console token missing session id")
	}
	return sid, nil
}
