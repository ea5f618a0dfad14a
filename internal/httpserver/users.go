package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/middleware/auth"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.Svc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, transport.MsgUserFailedToCreate)
	}
	return c.JSON(http.StatusCreated, transport.OK(transport.MsgUserCreated, user))
}

func (h *UserHTTP) GetByUsername(c echo.Context) error {
	user, err := h.Svc.FindByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return fail(c, err, transport.MsgUserFailedToRetrieve)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgUserRetrieved, user))
}

func (h *UserHTTP) GetByID(c echo.Context) error {
	user, err := h.Svc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, transport.MsgUserFailedToRetrieve)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgUserRetrieved, user))
}

// UpdateUser serves PUT and PATCH.
func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, transport.MsgUnauthorized)
	}

	var req transport.PatchUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}

	if err := h.Svc.CanEdit(identity, id, req); err != nil {
		return fail(c, err, transport.MsgUserFailedToUpdate)
	}

	user, err := h.Svc.EditUser(ctx, id, req)
	if err != nil {
		return fail(c, err, transport.MsgUserFailedToUpdate)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgUserUpdated, user))
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	if err := h.Svc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err, transport.MsgUserFailedToDelete)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgUserDeleted, nil))
}
