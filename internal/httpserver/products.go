package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/util"
	"github.com/Skotchmaster/inventory/pkg/middleware/auth"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	items, err := h.Svc.ListProducts(c.Request().Context())
	if err != nil {
		return fail(c, err, transport.MsgProductFailedToFetch)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgProductsRetrieved, items))
}

func (h *ProductHTTP) Search(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		if statusOf(err) == http.StatusServiceUnavailable {
			return c.JSON(http.StatusServiceUnavailable, transport.Fail(transport.MsgSearchUnavailable))
		}
		return fail(c, err, transport.MsgProductFailedToFetch)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgProductsRetrieved, res))
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	product, err := h.Svc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err, transport.MsgProductFailedToFetch)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgProductRetrieved, product))
}

// CreateProduct hands the raw bearer token to the service, which reads the
// creator from it. The guard has verified the same token earlier in the
// chain.
func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	token, ok := auth.BearerToken(c.Request())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, transport.MsgUnauthorized)
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}

	product, err := h.Svc.CreateProduct(c.Request().Context(), token, req)
	if err != nil {
		return fail(c, err, transport.MsgProductFailedToCreate)
	}
	return c.JSON(http.StatusCreated, transport.OK(transport.MsgProductCreated, product))
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, err)
	}

	product, err := h.Svc.EditProduct(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return fail(c, err, transport.MsgProductFailedToUpdate)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgProductUpdated, product))
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	if err := h.Svc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err, transport.MsgProductFailedToDelete)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.MsgProductDeleted, nil))
}
