package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/thomhuang/happycamper/internal/account"
	"github.com/thomhuang/happycamper/internal/auth"
	"github.com/thomhuang/happycamper/internal/listing"
	"github.com/thomhuang/happycamper/internal/postalcode"
	"github.com/thomhuang/happycamper/internal/rental"
	"github.com/thomhuang/happycamper/internal/repository"
	"github.com/thomhuang/happycamper/internal/search"
)

// statusOf maps a service error to the status and message sent back.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, postalcode.ErrLookup):
		return http.StatusUnprocessableEntity, "postal code could not be resolved"
	case errors.Is(err, search.ErrBadDate):
		return http.StatusBadRequest, search.ErrBadDate.Error()
	}

	switch auth.Code(err) {
	case auth.ErrBadInput:
		return http.StatusBadRequest, err.Error()
	case auth.ErrEmailTaken:
		return http.StatusConflict, "email is already registered"
	case auth.ErrInvalidCreds:
		return http.StatusUnauthorized, "invalid email or password"
	case auth.ErrInactive:
		return http.StatusForbidden, "account is deactivated"
	}

	switch listing.Code(err) {
	case listing.ErrBadInput:
		return http.StatusBadRequest, err.Error()
	case listing.ErrNotOwner:
		return http.StatusForbidden, "forbidden"
	case listing.ErrNotFound:
		return http.StatusNotFound, "product not found"
	case listing.ErrInactive:
		return http.StatusForbidden, "account is deactivated"
	}

	switch rental.Code(err) {
	case rental.ErrBadInput:
		return http.StatusBadRequest, err.Error()
	case rental.ErrOwnProduct:
		return http.StatusForbidden, "you cannot rent your own product"
	case rental.ErrNotAllowed:
		return http.StatusForbidden, "forbidden"
	case rental.ErrNotFound:
		return http.StatusNotFound, err.Error()
	case rental.ErrUnavailable:
		return http.StatusConflict, "product is not available for these dates"
	case rental.ErrAlreadyRated:
		return http.StatusConflict, "already rated"
	case rental.ErrInactive:
		return http.StatusForbidden, "account is deactivated"
	}

	if account.Code(err) == account.ErrNotFound {
		return http.StatusNotFound, err.Error()
	}
	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound, "not found"
	}
	return http.StatusInternalServerError, "internal error"
}

func fail(c echo.Context, log *slog.Logger, op string, err error) error {
	status, msg := statusOf(err)
	rid := c.Response().Header().Get(echo.HeaderXRequestID)
	if status >= http.StatusInternalServerError {
		log.Error(op, "err", err, "req_id", rid)
	} else {
		log.Warn(op, "err", err, "status", status, "req_id", rid)
	}
	return c.JSON(status, echo.Map{"message": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}

// bindValid binds the request into req and validates it, answering 400
// itself when either fails.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	return true, nil
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
