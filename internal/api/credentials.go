package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials holds the bearer token pair for one authenticated session.
// It is passed explicitly to the Client; there is no package-level token state.
type Credentials struct {
	Access  string
	Refresh string
}

// Empty reports whether no access token is present.
func (c *Credentials) Empty() bool {
	return c == nil || c.Access == ""
}

// Clear wipes both tokens. Called by the gateway on irrecoverable auth failure.
func (c *Credentials) Clear() {
	c.Access = ""
	c.Refresh = ""
}

// refreshLeeway is how close to expiry the access token may get before the
// client exchanges it proactively instead of waiting for a 401.
const refreshLeeway = 30 * time.Second

// AccessExpiry parses the access token without verifying its signature and
// returns the exp claim. Verification is the server's job; the client only
// needs the timestamp.
func AccessExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}

// NeedsRefresh reports whether the access token is missing its expiry or is
// within the leeway window of it. An unparseable token reports false so the
// reactive 401 path stays authoritative.
func (c *Credentials) NeedsRefresh(now time.Time) bool {
	if c.Empty() || c.Refresh == "" {
		return false
	}
	exp, err := AccessExpiry(c.Access)
	if err != nil || exp.IsZero() {
		return false
	}
	return now.Add(refreshLeeway).After(exp)
}
