package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thomhuang/happycamper/internal/listing"
	"github.com/thomhuang/happycamper/internal/search"
)

type ListingController struct {
	Svc listing.Service
	Log *slog.Logger
}

func (r listingReq) toListing() (listing.Listing, error) {
	start, err := search.ParseDate(r.AvailStart)
	if err != nil {
		return listing.Listing{}, err
	}
	end, err := search.ParseDate(r.AvailEnd)
	if err != nil {
		return listing.Listing{}, err
	}
	return listing.Listing{
		CategoryID:   r.CategoryID,
		BrandID:      r.BrandID,
		NewBrandName: r.NewBrandName,
		Model:        r.Model,
		Condition:    r.Condition,
		Description:  r.Description,
		PricePerDay:  r.PricePerDay,
		AvailStart:   start,
		AvailEnd:     end,
		ImageURL:     r.ImageURL,
		Specs:        r.Specs,
	}, nil
}

// GET /v1/catalog
func (h *ListingController) Catalog(c echo.Context) error {
	out, err := h.Svc.Catalog(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, "catalog", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/products/:id
func (h *ListingController) Detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, "product detail", err)
	}
	return c.JSON(http.StatusOK, p)
}

// POST /v1/products
func (h *ListingController) Create(c echo.Context) error {
	var req listingReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	l, err := req.toListing()
	if err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.Svc.Create(c.Request().Context(), userID(c), l)
	if err != nil {
		return fail(c, h.Log, "create listing", err)
	}
	return c.JSON(http.StatusCreated, p)
}

// PUT /v1/products/:id
func (h *ListingController) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req listingReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	l, err := req.toListing()
	if err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.Svc.Update(c.Request().Context(), userID(c), id, l)
	if err != nil {
		return fail(c, h.Log, "update listing", err)
	}
	return c.JSON(http.StatusOK, p)
}

// POST /v1/products/:id/delist
func (h *ListingController) Delist(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Svc.Delist(c.Request().Context(), userID(c), id); err != nil {
		return fail(c, h.Log, "delist", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "delisted"})
}
