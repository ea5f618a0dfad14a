package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

const bearerPrefix = "Bearer "

type identityKey struct{}

// Verifier checks a bearer token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (*tokens.Identity, error)
}

type Guard struct {
	Tokens Verifier
}

func NewGuard(v Verifier) *Guard {
	return &Guard{Tokens: v}
}

// BearerToken returns the token of an exact "Bearer <token>" Authorization
// header. Any other shape counts as no token.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	token := h[len(bearerPrefix):]
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// RequireAuth rejects the call with 401 unless it carries a token that
// verifies. On success the identity is attached to the request context.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		l := logging.FromContext(req.Context())

		token, ok := BearerToken(req)
		if !ok {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "no bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		identity, err := g.Tokens.Verify(token)
		if err != nil {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		ctx := IntoContext(req.Context(), identity)
		ctx = logging.IntoContext(ctx, l.With("user_id", identity.SubjectID))
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}

func IntoContext(ctx context.Context, id *tokens.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*tokens.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*tokens.Identity)
	return id, ok && id != nil
}
