package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/rental"
	"github.com/thomhuang/happycamper/internal/search"
)

type RentalController struct {
	Svc rental.Service
	Log *slog.Logger
}

// POST /v1/products/:id/rent
func (h *RentalController) Rent(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req rentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	start, err := search.ParseDate(req.Start)
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := search.ParseDate(req.End)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.Svc.Rent(c.Request().Context(), userID(c), id, start, end)
	if err != nil {
		return fail(c, h.Log, "rent", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"history": out,
		"days":    search.RentalDays(out.Start, out.End),
	})
}

// POST /v1/histories/:id/ratings
func (h *RentalController) Rate(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req rateReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	submission, err := uuid.Parse(req.SubmissionID)
	if err != nil {
		return badRequest(c, "invalid submission_id")
	}

	ratingID, err := h.Svc.Rate(c.Request().Context(), rental.RateRequest{
		SubmissionID: submission,
		HistoryID:    id,
		RaterID:      userID(c),
		Target:       model.RatingTarget(req.Target),
		Stars:        req.Stars,
		Comments:     req.Comments,
	})
	if err != nil {
		return fail(c, h.Log, "rate", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"rating_id": ratingID})
}
