package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/middleware/auth"
)

type AuthHTTP struct {
	Users *service.UserService
}

// Register is the public sign-up. Callers cannot pick their roles.
func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}
	req.Roles = []string{models.RoleMember}

	user, err := h.Users.CreateUser(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, transport.MsgUserFailedToCreate)
	}
	return c.JSON(http.StatusCreated, transport.OK(transport.MsgUserCreated, user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.SignInRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}

	res, err := h.Users.SignIn(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, transport.MsgInvalidEmailPassword)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgSignedIn, res))
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, transport.MsgUnauthorized)
	}

	user, err := h.Users.FindByID(ctx, identity.SubjectID)
	if err != nil {
		return fail(c, err, transport.MsgUserFailedToRetrieve)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgProfileRetrieved, user))
}
