package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/dmarochkin/keebshop/internal/middleware"
)

type Deps struct {
	Products  *ProductHTTP
	Cart      *CartHTTP
	Checkout  *CheckoutHTTP
	Orders    *OrderHTTP
	Analytics *AnalyticsHTTP
	Auth      *AuthHTTP
	Profile   *ProfileHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := &mw.AuthMiddleware{JWTSecret: d.JWTSecret}

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	api.GET("/products", d.Products.GetProducts)
	api.GET("/products/search", d.Products.SearchProducts)
	api.GET("/products/:id", d.Products.GetProduct)
	api.POST("/products", d.Products.CreateProduct, authMW.AdminOnly)
	api.PATCH("/products/:id", d.Products.PatchProduct, authMW.AdminOnly)
	api.DELETE("/products/:id", d.Products.DeleteProduct, authMW.AdminOnly)

	profile := api.Group("/profile", authMW.RequireAuth)
	profile.GET("", d.Profile.GetProfile)
	profile.PATCH("", d.Profile.UpdateProfile)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("", d.Cart.ClearCart)
	cart.PUT("/items", d.Cart.SetQuantity)
	cart.DELETE("/items", d.Cart.RemoveItem)

	checkout := api.Group("/checkout", authMW.RequireAuth)
	checkout.POST("/intent", d.Checkout.CreateIntent)
	checkout.POST("/complete", d.Checkout.Complete)

	api.GET("/orders", d.Orders.ListOwnOrders, authMW.RequireAuth)

	admin := api.Group("/admin", authMW.AdminOnly)
	admin.GET("/orders", d.Orders.ListAllOrders)
	admin.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
	admin.GET("/analytics/summary", d.Analytics.Summary)
	admin.GET("/analytics/monthly", d.Analytics.Monthly)
}
