package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrSearchUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a Response envelope. Errors of no known kind are
// reported under fallback with the underlying message attached.
func fail(c echo.Context, err error, fallback string) error {
	status := statusOf(err)
	switch status {
	case http.StatusBadRequest:
		return c.JSON(status, transport.Fail(transport.MsgValidationFailed, service.Problems(err)...))
	case http.StatusInternalServerError:
		return c.JSON(status, transport.Fail(fallback, err.Error()))
	default:
		return c.JSON(status, transport.Fail(service.Message(err)))
	}
}

func badBody(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, transport.Fail(transport.MsgInvalidBody, err.Error()))
}

// ErrorHandler renders errors returned by middleware, such as the auth
// guard, in the same envelope the handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := transport.MsgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, transport.Fail(msg))
}
