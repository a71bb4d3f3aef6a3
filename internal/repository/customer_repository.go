package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrDuplicateEmail is returned when a customer email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// CustomerRepository defines persistence access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (email, name, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		customer.Email,
		customer.Name,
		customer.PasswordHash,
	).Scan(&customer.ID, &customer.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	const query = `
        SELECT id, email, name, password_hash, created_at
        FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetByEmail matches the email exactly; lookups are case-sensitive.
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const query = `
        SELECT id, email, name, password_hash, created_at
        FROM customers WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Name,
		&customer.PasswordHash,
		&customer.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
