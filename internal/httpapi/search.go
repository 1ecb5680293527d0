package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thomhuang/happycamper/internal/search"
)

const (
	searchDays  = 7
	listingDays = 30
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

type SearchController struct {
	Svc Searcher
	Log *slog.Logger
	Now func() time.Time
}

// GET /v1/search
func (h *SearchController) Search(c echo.Context) error {
	q := searchQuery{CategoryID: search.Any, BrandID: search.Any}
	if ok, err := bindValid(c, &q); !ok {
		return err
	}

	start, err := search.ParseDate(q.Start)
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := search.ParseDate(q.End)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if end.Before(start) {
		return badRequest(c, "start must be on or before end")
	}

	out, err := h.Svc.Search(c.Request().Context(), search.Request{
		UserID:     userID(c),
		Center:     q.Center,
		Miles:      q.Miles,
		Start:      start,
		End:        end,
		CategoryID: q.CategoryID,
		BrandID:    q.BrandID,
	})
	if err != nil {
		return fail(c, h.Log, "search", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/search/defaults
func (h *SearchController) Defaults(c echo.Context) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return c.JSON(http.StatusOK, echo.Map{
		"search":  search.DefaultDates(now(), searchDays),
		"listing": search.DefaultDates(now(), listingDays),
	})
}
