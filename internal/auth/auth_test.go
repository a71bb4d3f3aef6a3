package auth

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

var alice = domain.Identity{CustomerID: 7, Email: "alice@example.com", Name: "Alice"}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)

	issued, err := tm.GenerateToken(alice)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := tm.ParseToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.CustomerID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	issued, err := NewTokenManager("secret", time.Minute).GenerateToken(alice)
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Minute).ParseToken(issued.Token)
	assert.Error(t, err)

	later := NewTokenManager("secret", time.Minute)
	later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = later.ParseToken(issued.Token)
	assert.Error(t, err)
}

func TestParseTokenRequiresExpiry(t *testing.T) {
	unbounded := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		CustomerID:       alice.CustomerID,
		Email:            alice.Email,
		RegisteredClaims: jwt.RegisteredClaims{ID: "no-exp"},
	})
	signed, err := unbounded.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Minute).ParseToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestRevocationStoreWithoutClient(t *testing.T) {
	store := NewRedisRevocationStore(nil)
	require.NoError(t, store.Revoke(context.Background(), "id", time.Minute))

	revoked, err := store.IsRevoked(context.Background(), "id")
	require.NoError(t, err)
	assert.False(t, revoked)
}

type stubResolver struct{}

func (stubResolver) ResolveBasic(_ context.Context, email, password string) (domain.Identity, error) {
	if email == alice.Email && password == "pw" {
		return alice, nil
	}
	return domain.Identity{}, apperrors.NewUnauthorized("invalid credentials")
}

func (stubResolver) ResolveBearer(_ context.Context, token string) (domain.Identity, error) {
	if token == "good-token" {
		return alice, nil
	}
	return domain.Identity{}, apperrors.NewUnauthorized("invalid token")
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	mw := NewAuthMiddleware(stubResolver{})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		identity, err := IdentityFromContext(c)
		if err != nil {
			return err
		}
		_, bearer := BearerTokenFromContext(c)
		if bearer {
			return c.SendString(identity.Email + " bearer")
		}
		return c.SendString(identity.Email)
	})
	app.Post("/logout", mw.Handle, RequireBearer(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/anonymous", func(c *fiber.Ctx) error {
		_, err := IdentityFromContext(c)
		return err
	})
	return app
}

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"basic ok", http.MethodGet, "/me", basic("alice@example.com", "pw"), http.StatusOK, "alice@example.com"},
		{"bearer ok", http.MethodGet, "/me", "Bearer good-token", http.StatusOK, "alice@example.com bearer"},
		{"basic wrong password", http.MethodGet, "/me", basic("alice@example.com", "nope"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bearer invalid", http.MethodGet, "/me", "Bearer bad", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing header", http.MethodGet, "/me", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage basic", http.MethodGet, "/me", "Basic %%%", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown scheme", http.MethodGet, "/me", "Digest abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"logout needs bearer", http.MethodPost, "/logout", basic("alice@example.com", "pw"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"logout with bearer", http.MethodPost, "/logout", "Bearer good-token", http.StatusNoContent, ""},
		{"no middleware", http.MethodGet, "/anonymous", "", http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(body))
			switch {
			case tt.wantStatus != http.StatusUnauthorized:
			case tt.path == "/me":
				assert.Equal(t, challenge, resp.Header.Get(fiber.HeaderWWWAuthenticate))
			case tt.path == "/logout":
				assert.Equal(t, bearerChallenge, resp.Header.Get(fiber.HeaderWWWAuthenticate))
			}
		})
	}
}
