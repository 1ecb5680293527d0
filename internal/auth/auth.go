// Package auth creates accounts and exchanges credentials for bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
	ErrInactive     ErrCode = "INACTIVE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const MinPasswordLength = 8

// DefaultTokenTTL is how long a token from Register or Login stays valid.
const DefaultTokenTTL = 24 * time.Hour

type RegisterRequest struct {
	FirstName  string
	LastName   string
	Street     string
	City       string
	Region     string
	PostalCode string
	Phone      string
	Email      string
	Password   string
}

type Repo interface {
	// CreateUser fails with repository.ErrConflict when the email is taken.
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (model.User, error)
}

// Locator resolves postal codes, see postalcode.Store.
type Locator interface {
	Lookup(ctx context.Context, code string) (model.PostalCodeLocation, error)
}

type Service interface {
	// Register creates an active account and signs the user in.
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)

	// Login checks the credentials of an active account.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type service struct {
	r       Repo
	locator Locator
	secret  string
	ttl     time.Duration
}

func New(r Repo, locator Locator, secret string, ttl time.Duration) Service {
	return &service{r: r, locator: locator, secret: secret, ttl: ttl}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	email := normalizeEmail(req.Email)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, "", makeErr(ErrBadInput, "email is required")
	case len(req.Password) < MinPasswordLength:
		return nil, "", makeErr(ErrBadInput, fmt.Sprintf("password needs at least %d characters", MinPasswordLength))
	case strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "":
		return nil, "", makeErr(ErrBadInput, "name is required")
	}

	// stored postal codes must resolve
	if _, err := s.locator.Lookup(ctx, req.PostalCode); err != nil {
		return nil, "", makeErr(ErrBadInput, "unknown postal code "+req.PostalCode)
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Active:       true,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Street:       req.Street,
		City:         req.City,
		Region:       req.Region,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.r.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", makeErr(ErrEmailTaken, "")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := IssueToken(s.secret, u.ID, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.r.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", makeErr(ErrInvalidCreds, "")
		}
		return nil, "", err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, "", makeErr(ErrInvalidCreds, "")
	}
	if !u.Active {
		return nil, "", makeErr(ErrInactive, "account is deactivated")
	}

	token, err := IssueToken(s.secret, u.ID, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the bcrypt hash. An empty
// hash never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
