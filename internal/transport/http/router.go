package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/handlers"
	middleware "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	DB   Pinger
	Auth *middleware.AutoRefreshMiddleware
	CSRF csrf.Config

	AuthHandler     *handlers.AuthHTTP
	CatalogHandler  *handlers.CatalogHTTP
	CartHandler     *handlers.CartHTTP
	CheckoutHandler *handlers.CheckoutHTTP
	OrderHandler    *handlers.OrderHTTP
	UploadHandler   *handlers.UploadHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.NoContent(http.StatusOK)
	})

	protect := csrf.Middleware(d.CSRF)

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)
	v1.POST("/logout", d.AuthHandler.Logout, protect)

	products := v1.Group("/products")

	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := v1.Group("/admin", d.Auth.RequireAdmin, protect)

	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	admin.DELETE("/orders/:id", d.OrderHandler.DeleteOrder)

	user := v1.Group("", d.Auth.RequireAuth, protect)

	user.GET("/cart", d.CartHandler.GetCart)
	user.POST("/cart", d.CartHandler.AddToCart)
	user.DELETE("/cart", d.CartHandler.ClearCart)
	user.PATCH("/cart/items/:product_id", d.CartHandler.UpdateItem)
	user.DELETE("/cart/items/:product_id", d.CartHandler.RemoveItem)

	user.GET("/checkout", d.CheckoutHandler.Begin)
	user.POST("/checkout", d.CheckoutHandler.Submit)
	user.POST("/payments/razorpay/verify", d.CheckoutHandler.VerifyRazorpay)
	user.POST("/payments/mock/:order_id", d.CheckoutHandler.MockConfirm)

	user.GET("/orders", d.OrderHandler.ListOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)

	user.POST("/upload", d.UploadHandler.Upload)
}
