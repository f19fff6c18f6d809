package apiclient

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials holds the bearer token sent with requests. A JWT whose exp has
// passed is dropped instead of being sent; opaque tokens never expire here.
type Credentials struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token, now: time.Now}
}

// Token returns the current token, or "" when there is none or it expired.
func (c *Credentials) Token() string {
	if c == nil {
		return ""
	}

	c.mu.RLock()
	tok := c.token
	c.mu.RUnlock()

	if tok != "" && expired(tok, c.now()) {
		c.Clear()
		return ""
	}
	return tok
}

func (c *Credentials) Set(token string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Credentials) Clear() {
	c.Set("")
}

func expired(tok string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}
