package auth

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

// IsAuthorized reports whether identity holds at least one of the required
// roles. With no required roles every verified identity is authorized.
func IsAuthorized(identity *tokens.Identity, required []string) bool {
	if identity == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	return slices.ContainsFunc(required, identity.HasRole)
}

// RequireRoles must run after Guard.RequireAuth.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	required := slices.Clone(roles)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			identity, ok := IdentityFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if !IsAuthorized(identity, required) {
				logging.FromContext(ctx).Warn("access_denied",
					"status", http.StatusForbidden,
					"required", required,
					"roles", identity.Roles,
				)
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden resource")
			}
			return next(c)
		}
	}
}
