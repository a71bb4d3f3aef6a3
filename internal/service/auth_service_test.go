package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

type memoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Duration
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[tokenID] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[tokenID]
	return ok, nil
}

func newAuthService(t *testing.T) (*AuthService, *memoryRevocations) {
	t.Helper()
	revocations := &memoryRevocations{ids: map[string]time.Duration{}}
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}, AuthDependencies{
		CustomerRepo: repository.NewMemoryStore().Customers(),
		Revocations:  revocations,
	})
	return svc, revocations
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	customer, token, err := svc.RegisterCustomer(ctx, " Alice ", "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Alice", customer.Name)
	assert.NotEqual(t, "pw", customer.PasswordHash)
	assert.NotEmpty(t, token.Token)

	_, _, err = svc.RegisterCustomer(ctx, "Other", "alice@example.com", "pw2")
	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)

	loggedIn, _, err := svc.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, loggedIn.ID)

	_, _, err = svc.Login(ctx, "alice@example.com", "bad")
	assertCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)

	_, _, err = svc.Login(ctx, "ALICE@example.com", "pw")
	assertCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)
}

func TestResolveBasicAndBearer(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	customer, token, err := svc.RegisterCustomer(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	identity, err := svc.ResolveBasic(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, identity.CustomerID)
	assert.Equal(t, "Alice", identity.Name)

	identity, err = svc.ResolveBearer(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, identity.CustomerID)

	_, err = svc.ResolveBearer(ctx, "not-a-jwt")
	assertCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, revocations := newAuthService(t)
	ctx := context.Background()

	_, token, err := svc.RegisterCustomer(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token.Token))
	ttl, ok := revocations.ids[token.ID]
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = svc.ResolveBearer(ctx, token.Token)
	assertCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)
	assert.Contains(t, err.Error(), "revoked")
}

func TestResolveBearerForDeletedCustomer(t *testing.T) {
	svc, _ := newAuthService(t)
	issued, err := svc.TokenManager().GenerateToken(domain.Identity{CustomerID: 404, Email: "ghost@example.com"})
	require.NoError(t, err)

	_, err = svc.ResolveBearer(context.Background(), issued.Token)
	assertCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)
}
