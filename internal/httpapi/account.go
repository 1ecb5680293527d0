package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thomhuang/happycamper/internal/account"
)

type AccountController struct {
	Svc account.Service
	Log *slog.Logger
}

// GET /v1/account
func (h *AccountController) Overview(c echo.Context) error {
	out, err := h.Svc.Overview(c.Request().Context(), userID(c))
	if err != nil {
		return fail(c, h.Log, "account", err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /v1/account/deactivate
func (h *AccountController) Deactivate(c echo.Context) error {
	if err := h.Svc.Deactivate(c.Request().Context(), userID(c)); err != nil {
		return fail(c, h.Log, "deactivate", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deactivated"})
}

// GET /v1/users/:id/owner-ratings
func (h *AccountController) OwnerRatings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.Svc.OwnerRatings(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, "owner ratings", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/users/:id/renter-ratings
func (h *AccountController) RenterRatings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.Svc.RenterRatings(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, "renter ratings", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/products/:id/ratings
func (h *AccountController) ProductRatings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.Svc.ProductRatings(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, "product ratings", err)
	}
	return c.JSON(http.StatusOK, out)
}
