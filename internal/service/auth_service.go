package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and per-request identity resolution.
type AuthService struct {
	customers   repository.CustomerRepository
	revocations auth.RevocationStore
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	CustomerRepo repository.CustomerRepository
	Revocations  auth.RevocationStore
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NewRedisRevocationStore(nil)
	}
	return &AuthService{
		customers:   deps.CustomerRepo,
		revocations: revocations,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
	}
}

// RegisterCustomer creates a new customer account and issues a token.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*domain.Customer, auth.IssuedToken, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}

	customer := &domain.Customer{
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, auth.IssuedToken{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, auth.IssuedToken{}, err
	}

	token, err := s.tokenMgr.GenerateToken(customer.Identity())
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}
	s.logger.Info("customer registered", zap.Int64("customer_id", customer.ID))
	return customer, token, nil
}

// Login verifies email and password and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Customer, auth.IssuedToken, error) {
	customer, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}
	token, err := s.tokenMgr.GenerateToken(customer.Identity())
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}
	return customer, token, nil
}

// Logout revokes a bearer token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

// ResolveBasic authenticates HTTP Basic credentials.
func (s *AuthService) ResolveBasic(ctx context.Context, email, password string) (domain.Identity, error) {
	customer, err := s.verify(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	return customer.Identity(), nil
}

// ResolveBearer authenticates a bearer token and reloads its customer.
func (s *AuthService) ResolveBearer(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return domain.Identity{}, apperrors.NewUnauthorized("invalid token")
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Identity{}, err
	}
	if revoked {
		return domain.Identity{}, apperrors.NewUnauthorized("token revoked")
	}

	customer, err := s.customers.GetByID(ctx, claims.CustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, apperrors.NewUnauthorized("customer not found")
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return customer.Identity(), nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.Customer, error) {
	customer, err := s.customers.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Info("unknown customer email", zap.String("email", email))
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	return customer, nil
}
