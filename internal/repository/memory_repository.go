package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// MemoryStore keeps customers and complaints in process memory. It backs the
// service when no Postgres DSN is configured and doubles as a test fixture.
type MemoryStore struct {
	mu            sync.RWMutex
	customers     map[int64]domain.Customer
	complaints    map[int64]domain.Complaint
	nextCustomer  int64
	nextComplaint int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:  make(map[int64]domain.Customer),
		complaints: make(map[int64]domain.Complaint),
	}
}

// Customers exposes the store as a CustomerRepository.
func (s *MemoryStore) Customers() CustomerRepository {
	return memoryCustomers{s}
}

// Complaints exposes the store as a ComplaintRepository.
func (s *MemoryStore) Complaints() ComplaintRepository {
	return memoryComplaints{s}
}

type memoryCustomers struct{ s *MemoryStore }

func (m memoryCustomers) Create(_ context.Context, customer *domain.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.customers {
		if existing.Email == customer.Email {
			return ErrDuplicateEmail
		}
	}
	m.s.nextCustomer++
	customer.ID = m.s.nextCustomer
	customer.CreatedAt = time.Now()
	m.s.customers[customer.ID] = *customer
	return nil
}

func (m memoryCustomers) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	customer, ok := m.s.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &customer, nil
}

func (m memoryCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, customer := range m.s.customers {
		if customer.Email == email {
			return &customer, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryComplaints struct{ s *MemoryStore }

func (m memoryComplaints) FindAll(_ context.Context) ([]domain.Complaint, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	result := m.s.snapshot(func(domain.Complaint) bool { return true })
	sortComplaints(result, "id")
	return result, nil
}

func (m memoryComplaints) FindPage(_ context.Context, query PageQuery) ([]domain.Complaint, error) {
	if _, ok := domain.ComplaintSortColumns[query.Sort]; !ok {
		return nil, fmt.Errorf("unsupported sort field %q", query.Sort)
	}
	if query.Page < 0 || query.Size <= 0 {
		return nil, fmt.Errorf("invalid page %d size %d", query.Page, query.Size)
	}

	m.s.mu.RLock()
	all := m.s.snapshot(func(domain.Complaint) bool { return true })
	m.s.mu.RUnlock()

	sortComplaints(all, "id")
	sortComplaints(all, query.Sort)

	start := query.Offset()
	if start >= len(all) {
		return []domain.Complaint{}, nil
	}
	end := start + query.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m memoryComplaints) FindByID(_ context.Context, id int64) (*domain.Complaint, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	complaint, ok := m.s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	m.s.joinCustomer(&complaint)
	return &complaint, nil
}

func (m memoryComplaints) FindByCustomer(_ context.Context, customerID int64) ([]domain.Complaint, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	result := m.s.snapshot(func(c domain.Complaint) bool { return c.Customer.ID == customerID })
	sortComplaints(result, "id")
	return result, nil
}

func (m memoryComplaints) Save(_ context.Context, complaint *domain.Complaint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if complaint.ID == 0 {
		m.s.nextComplaint++
		complaint.ID = m.s.nextComplaint
	} else if _, ok := m.s.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *complaint
	if complaint.Date != nil {
		date := *complaint.Date
		stored.Date = &date
	}
	m.s.complaints[complaint.ID] = stored
	return nil
}

// snapshot copies matching complaints; callers must hold the lock.
func (s *MemoryStore) snapshot(match func(domain.Complaint) bool) []domain.Complaint {
	result := make([]domain.Complaint, 0, len(s.complaints))
	for _, complaint := range s.complaints {
		if !match(complaint) {
			continue
		}
		s.joinCustomer(&complaint)
		result = append(result, complaint)
	}
	return result
}

// joinCustomer refreshes the owner's public fields, mirroring the SQL join.
func (s *MemoryStore) joinCustomer(complaint *domain.Complaint) {
	if customer, ok := s.customers[complaint.Customer.ID]; ok {
		complaint.Customer = domain.Customer{ID: customer.ID, Email: customer.Email, Name: customer.Name}
	}
}

// sortComplaints orders ascending by field; nil dates sort last like Postgres.
func sortComplaints(items []domain.Complaint, field string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch field {
		case "productId":
			return a.ProductID < b.ProductID
		case "date":
			if a.Date == nil || b.Date == nil {
				return a.Date != nil && b.Date == nil
			}
			return a.Date.Before(*b.Date)
		case "description":
			return strings.Compare(a.Description, b.Description) < 0
		case "status":
			return a.Status < b.Status
		default:
			return a.ID < b.ID
		}
	})
}
