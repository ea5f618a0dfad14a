package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/pkg/middleware/auth"
)

type Deps struct {
	DB       *gorm.DB
	Guard    *auth.Guard
	Auth     *AuthHTTP
	Users    *UserHTTP
	Products *ProductHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	adminOnly := auth.RequireRoles(models.RoleAdmin)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.GET("/profile", d.Auth.Profile, d.Guard.RequireAuth)

	users := e.Group("/users", d.Guard.RequireAuth)
	users.POST("", d.Users.CreateUser, adminOnly)
	users.GET("/id/:id", d.Users.GetByID)
	users.GET("/:username", d.Users.GetByUsername)
	users.PUT("/:id", d.Users.UpdateUser)
	users.PATCH("/:id", d.Users.UpdateUser)
	users.DELETE("/:id", d.Users.DeleteUser, adminOnly)

	products := e.Group("/products", d.Guard.RequireAuth)
	products.GET("", d.Products.ListProducts)
	products.GET("/search", d.Products.Search)
	products.GET("/:id", d.Products.GetProduct)
	products.POST("", d.Products.CreateProduct, adminOnly)
	products.PUT("/:id", d.Products.UpdateProduct, adminOnly)
	products.PATCH("/:id", d.Products.UpdateProduct, adminOnly)
	products.DELETE("/:id", d.Products.DeleteProduct, adminOnly)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
