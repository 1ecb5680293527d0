package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/auth"
	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/postalcode"
	"github.com/thomhuang/happycamper/internal/repository"
)

const secret = "test-secret"

type repoMock struct {
	createUserFn  func(ctx context.Context, u *model.User) error
	userByEmailFn func(ctx context.Context, email string) (model.User, error)
}

func (m *repoMock) CreateUser(ctx context.Context, u *model.User) error {
	return m.createUserFn(ctx, u)
}
func (m *repoMock) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return m.userByEmailFn(ctx, email)
}

type knownCodes map[string]bool

func (k knownCodes) Lookup(_ context.Context, code string) (model.PostalCodeLocation, error) {
	if !k[code] {
		return model.PostalCodeLocation{}, postalcode.ErrLookup
	}
	return model.PostalCodeLocation{Code: code}, nil
}

var oakland = knownCodes{"94612": true}

func request() auth.RegisterRequest {
	return auth.RegisterRequest{
		FirstName:  "Trix",
		LastName:   "Rabbit",
		PostalCode: "94612",
		Phone:      "5105551234",
		Email:      " Trix@Rabbit.COM ",
		Password:   "silly-rabbit",
	}
}

func subject(t *testing.T, token string) float64 {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(secret), nil })
	require.NoError(t, err)
	return parsed.Claims.(jwt.MapClaims)["sub"].(float64)
}

func Test_Register_Success(t *testing.T) {
	var stored model.User
	m := &repoMock{createUserFn: func(_ context.Context, u *model.User) error {
		u.ID = 42
		stored = *u
		return nil
	}}

	u, token, err := auth.New(m, oakland, secret, time.Hour).Register(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.True(t, u.Active)
	assert.Equal(t, "trix@rabbit.com", stored.Email)
	assert.NotEqual(t, "silly-rabbit", stored.PasswordHash)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "silly-rabbit"))
	assert.Equal(t, 42.0, subject(t, token))
}

func Test_Register_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *auth.RegisterRequest)
		create error
		want   auth.ErrCode
	}{
		{name: "short_password", mutate: func(r *auth.RegisterRequest) { r.Password = "short" }, want: auth.ErrBadInput},
		{name: "missing_email", mutate: func(r *auth.RegisterRequest) { r.Email = " " }, want: auth.ErrBadInput},
		{name: "missing_name", mutate: func(r *auth.RegisterRequest) { r.LastName = "" }, want: auth.ErrBadInput},
		{name: "unknown_postal_code", mutate: func(r *auth.RegisterRequest) { r.PostalCode = "00000" }, want: auth.ErrBadInput},
		{name: "email_taken", mutate: func(*auth.RegisterRequest) {}, create: repository.ErrConflict, want: auth.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			m := &repoMock{createUserFn: func(context.Context, *model.User) error {
				created = true
				return tt.create
			}}
			req := request()
			tt.mutate(&req)

			_, _, err := auth.New(m, oakland, secret, time.Hour).Register(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.want, auth.Code(err))
			assert.Equal(t, tt.create != nil, created)
		})
	}
}

func Test_Login(t *testing.T) {
	hash, err := auth.HashPassword("silly-rabbit")
	require.NoError(t, err)

	users := map[string]model.User{
		"trix@rabbit.com":   {ID: 1, Active: true, Email: "trix@rabbit.com", PasswordHash: hash},
		"count@chocula.com": {ID: 2, Active: false, Email: "count@chocula.com", PasswordHash: hash},
		"boo@berry.com":     {ID: 3, Active: true, Email: "boo@berry.com"},
	}
	m := &repoMock{userByEmailFn: func(_ context.Context, email string) (model.User, error) {
		u, ok := users[email]
		if !ok {
			return model.User{}, repository.ErrNotFound
		}
		return u, nil
	}}
	s := auth.New(m, oakland, secret, time.Hour)
	ctx := context.Background()

	u, token, err := s.Login(ctx, "TRIX@rabbit.com", "silly-rabbit")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, 1.0, subject(t, token))

	tests := []struct {
		name     string
		email    string
		password string
		want     auth.ErrCode
	}{
		{"wrong_password", "trix@rabbit.com", "wrong-password", auth.ErrInvalidCreds},
		{"unknown_email", "nobody@rabbit.com", "silly-rabbit", auth.ErrInvalidCreds},
		{"no_password_set", "boo@berry.com", "", auth.ErrInvalidCreds},
		{"deactivated", "count@chocula.com", "silly-rabbit", auth.ErrInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := s.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.want, auth.Code(err))
			assert.Empty(t, token)
		})
	}
}
