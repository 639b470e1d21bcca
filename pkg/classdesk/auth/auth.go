// Package auth provides the bearer-credential gate for the HTTP surface:
// signed token issuance and verification, and password hashing for the
// account directories. The domain service never sees raw passwords or
// tokens.
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued bearer token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// Tokens issues and verifies signed bearer tokens for authenticated
// principals, keyed by account email.
type Tokens struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
}

// NewTokens creates a token service signing with HS256 and the given secret
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{
		ja:  jwtauth.New("HS256", []byte(secret), nil),
		ttl: ttl,
	}
}

// Issue signs a bearer token for the given account email
func (t *Tokens) Issue(email string) (string, error) {
	claims := map[string]interface{}{"email": email}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, t.ttl)

	_, tokenString, err := t.ja.Encode(claims)
	return tokenString, err
}

// Verifier returns middleware that extracts and validates the bearer token
func (t *Tokens) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(t.ja)
}

// Authenticator returns middleware rejecting requests without a valid token
func (t *Tokens) Authenticator() func(http.Handler) http.Handler {
	return jwtauth.Authenticator
}

// HashPassword hashes a raw password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the raw password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
