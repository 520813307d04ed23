// Package token decodes bearer tokens for display. Signatures are not verified:
// the probes only show what the server issued, they never trust it.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when the token is not a decodable JWT.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims holds the registered claims worth showing plus the signing algorithm.
type Claims struct {
	Algorithm string
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Extra holds every non-registered claim, e.g. role or token type.
	Extra map[string]any
}

// Expired reports whether the token carries an expiry that lies before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

var registered = map[string]bool{
	"sub": true, "iss": true, "aud": true, "exp": true, "nbf": true, "iat": true, "jti": true,
}

// Inspect decodes raw without verifying its signature.
func Inspect(raw string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	tok, _, err := jwt.NewParser().ParseUnverified(raw, mapClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	c := &Claims{
		Algorithm: tok.Method.Alg(),
		Extra:     map[string]any{},
	}
	if sub, err := mapClaims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if iss, err := mapClaims.GetIssuer(); err == nil {
		c.Issuer = iss
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	for k, v := range mapClaims {
		if !registered[k] {
			c.Extra[k] = v
		}
	}
	return c, nil
}
