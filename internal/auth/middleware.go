package auth

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const (
	identityKey    = "auth_identity"
	bearerTokenKey = "auth_bearer_token"

	challenge       = `Basic realm="complaints"`
	bearerChallenge = `Bearer realm="complaints"`
)

// IdentityResolver turns request credentials into a caller identity.
type IdentityResolver interface {
	ResolveBasic(ctx context.Context, email, password string) (domain.Identity, error)
	ResolveBearer(ctx context.Context, token string) (domain.Identity, error)
}

// AuthMiddleware authenticates Basic or Bearer credentials and binds the identity to the request.
type AuthMiddleware struct {
	resolver IdentityResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return unauthorized(c, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return unauthorized(c, "invalid authorization header")
	}
	scheme, credentials := parts[0], strings.TrimSpace(parts[1])

	var (
		identity domain.Identity
		err      error
	)
	switch {
	case strings.EqualFold(scheme, "Basic"):
		email, password, ok := parseBasic(credentials)
		if !ok {
			return unauthorized(c, "invalid basic credentials")
		}
		identity, err = m.resolver.ResolveBasic(c.UserContext(), email, password)
	case strings.EqualFold(scheme, "Bearer"):
		identity, err = m.resolver.ResolveBearer(c.UserContext(), credentials)
		if err == nil {
			c.Locals(bearerTokenKey, credentials)
		}
	default:
		return unauthorized(c, "unsupported authorization scheme")
	}
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeUnauthorized) {
			c.Set(fiber.HeaderWWWAuthenticate, challenge)
		}
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext returns the caller bound by Handle, or an Unauthenticated error.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	if !ok || identity.CustomerID == 0 {
		return domain.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}

// BearerTokenFromContext returns the raw bearer token when the request used one.
func BearerTokenFromContext(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(bearerTokenKey).(string)
	return token, ok && token != ""
}

// RequireBearer rejects requests that were not authenticated with a bearer token.
func RequireBearer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := BearerTokenFromContext(c); !ok {
			c.Set(fiber.HeaderWWWAuthenticate, bearerChallenge)
			return apperrors.NewUnauthorized("bearer token required")
		}
		return c.Next()
	}
}

func parseBasic(encoded string) (string, string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" {
		return "", "", false
	}
	return email, password, true
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, challenge)
	return apperrors.NewUnauthorized(message)
}
