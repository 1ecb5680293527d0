package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/thomhuang/happycamper/internal/auth"
	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

const ctxUserID = "user_id"

var errNoSubject = errors.New("sub missing in claims")

// Users finds the account behind a token's subject.
type Users interface {
	User(ctx context.Context, id int64) (model.User, error)
}

// JWTAuth verifies the bearer token and stores its subject as the user id
// every authenticated handler reads. Tokens of unknown or deactivated users
// are refused.
func JWTAuth(secret string, users Users) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		NewClaimsFunc: func(echo.Context) jwt.Claims { return jwt.MapClaims{} },
		ErrorHandler: func(echo.Context, error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		},
	})

	subject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := subjectOf(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			u, err := users.User(c.Request().Context(), id)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			case err != nil:
				return err
			case !u.Active:
				return echo.NewHTTPError(http.StatusUnauthorized, "account is deactivated")
			}
			c.Set(ctxUserID, id)
			return next(c)
		}
	}
	return []echo.MiddlewareFunc{verify, subject}
}

func subjectOf(c echo.Context) (int64, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid jwt claims")
	}

	switch sub := claims["sub"].(type) {
	case float64:
		if sub > 0 {
			return int64(sub), nil
		}
	case string:
		if id, err := strconv.ParseInt(sub, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, errNoSubject
}

func userID(c echo.Context) int64 {
	id, _ := c.Get(ctxUserID).(int64)
	return id
}

type AuthController struct {
	Svc auth.Service
	Log *slog.Logger
}

type session struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// POST /v1/register
func (h *AuthController) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	u, tok, err := h.Svc.Register(c.Request().Context(), auth.RegisterRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Street:     req.Street,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		return fail(c, h.Log, "register", err)
	}
	return c.JSON(http.StatusCreated, session{User: u, Token: tok})
}

// POST /v1/login
func (h *AuthController) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	u, tok, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, h.Log, "login", err)
	}
	return c.JSON(http.StatusOK, session{User: u, Token: tok})
}
