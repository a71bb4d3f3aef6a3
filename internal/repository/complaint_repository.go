package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// PageQuery selects one ascending-sorted page of complaints.
// Page is zero-based; Sort is an API field name from domain.ComplaintSortColumns.
type PageQuery struct {
	Page int
	Size int
	Sort string
}

// Offset returns Page*Size, clamped to math.MaxInt when the product overflows.
func (q PageQuery) Offset() int {
	if q.Size > 0 && q.Page > math.MaxInt/q.Size {
		return math.MaxInt
	}
	return q.Page * q.Size
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	FindAll(ctx context.Context) ([]domain.Complaint, error)
	FindPage(ctx context.Context, query PageQuery) ([]domain.Complaint, error)
	FindByID(ctx context.Context, id int64) (*domain.Complaint, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]domain.Complaint, error)
	// Save inserts the complaint when ID is zero and assigns the new ID,
	// otherwise it overwrites the stored record with that ID.
	Save(ctx context.Context, complaint *domain.Complaint) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const selectComplaints = `
        SELECT c.id, c.product_id, c.date, c.description, c.status,
               cu.id, cu.email, cu.name
        FROM complaints c
        JOIN customers cu ON cu.id = c.customer_id`

func (r *complaintRepository) FindAll(ctx context.Context) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, selectComplaints+` ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) FindPage(ctx context.Context, query PageQuery) ([]domain.Complaint, error) {
	sql, err := pageSQL(query)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) FindByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, selectComplaints+` WHERE c.id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	complaints, err := scanComplaints(rows)
	if err != nil {
		return nil, err
	}
	if len(complaints) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &complaints[0], nil
}

func (r *complaintRepository) FindByCustomer(ctx context.Context, customerID int64) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, selectComplaints+` WHERE c.customer_id=$1 ORDER BY c.id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) Save(ctx context.Context, complaint *domain.Complaint) error {
	if complaint.ID == 0 {
		const query = `
        INSERT INTO complaints (product_id, customer_id, date, description, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
		return r.pool.QueryRow(ctx, query,
			complaint.ProductID,
			complaint.Customer.ID,
			complaint.Date,
			complaint.Description,
			complaint.Status,
		).Scan(&complaint.ID)
	}

	const query = `
        UPDATE complaints SET product_id=$1, customer_id=$2, date=$3, description=$4, status=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.ProductID,
		complaint.Customer.ID,
		complaint.Date,
		complaint.Description,
		complaint.Status,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// pageSQL renders the paged select. The sort column comes from a fixed
// whitelist, so it is safe to interpolate.
func pageSQL(query PageQuery) (string, error) {
	column, ok := domain.ComplaintSortColumns[query.Sort]
	if !ok {
		return "", fmt.Errorf("unsupported sort field %q", query.Sort)
	}
	if query.Page < 0 || query.Size <= 0 {
		return "", fmt.Errorf("invalid page %d size %d", query.Page, query.Size)
	}
	return fmt.Sprintf(`%s ORDER BY c.%s ASC, c.id ASC LIMIT %d OFFSET %d`,
		selectComplaints, column, query.Size, query.Offset()), nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.ProductID,
			&complaint.Date,
			&complaint.Description,
			&complaint.Status,
			&complaint.Customer.ID,
			&complaint.Customer.Email,
			&complaint.Customer.Name,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
