package httpapi

import "github.com/labstack/echo/v4"

type C struct {
	Auth      *AuthController
	Search    *SearchController
	Listing   *ListingController
	Rental    *RentalController
	Account   *AccountController
	Users     Users
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	e.POST("/v1/register", c.Auth.Register)
	e.POST("/v1/login", c.Auth.Login)

	auth := e.Group("/v1", JWTAuth(c.JWTSecret, c.Users)...)

	auth.GET("/search", c.Search.Search)
	auth.GET("/search/defaults", c.Search.Defaults)
	auth.GET("/catalog", c.Listing.Catalog)

	auth.POST("/products", c.Listing.Create)
	auth.GET("/products/:id", c.Listing.Detail)
	auth.PUT("/products/:id", c.Listing.Update)
	auth.POST("/products/:id/delist", c.Listing.Delist)
	auth.POST("/products/:id/rent", c.Rental.Rent)
	auth.GET("/products/:id/ratings", c.Account.ProductRatings)

	auth.POST("/histories/:id/ratings", c.Rental.Rate)

	auth.GET("/account", c.Account.Overview)
	auth.POST("/account/deactivate", c.Account.Deactivate)
	auth.GET("/users/:id/owner-ratings", c.Account.OwnerRatings)
	auth.GET("/users/:id/renter-ratings", c.Account.RenterRatings)
}
