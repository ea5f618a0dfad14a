package tokens

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload of an access token.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity is the verified caller of a single request. It is never persisted.
type Identity struct {
	SubjectID string
	Username  string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

func (c *Claims) Identity() *Identity {
	id := &Identity{
		SubjectID: c.Subject,
		Username:  c.Username,
		Roles:     slices.Clone(c.Roles),
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
