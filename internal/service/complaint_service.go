package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const (
	forbiddenMessage     = "You do not have permission to modify this complaint."
	invalidStatusMessage = "Status must be one of OPEN IN_PROGRESS ACCEPTED REJECTED CANCELED"
)

// ComplaintService enforces ownership and the status guard around complaint persistence.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// ComplaintCreateInput describes a validated creation payload.
type ComplaintCreateInput struct {
	ProductID   int64
	Date        time.Time
	Description string
	Status      domain.ComplaintStatus
}

// ComplaintUpdateInput describes a validated update payload. It carries no date.
type ComplaintUpdateInput struct {
	ProductID   int64
	Description string
	Status      domain.ComplaintStatus
}

// PageRequest selects a zero-based page sorted ascending by one field.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListAll returns every complaint. Listing is public.
func (s *ComplaintService) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	s.logger.Info("listing all complaints")
	return s.complaints.FindAll(ctx)
}

// ListPage returns one page of complaints.
func (s *ComplaintService) ListPage(ctx context.Context, page PageRequest) ([]domain.Complaint, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	s.logger.Info("listing complaints page",
		zap.Int("page", page.Page),
		zap.Int("size", page.Size),
		zap.String("sort", page.Sort))
	return s.complaints.FindPage(ctx, repository.PageQuery{Page: page.Page, Size: page.Size, Sort: page.Sort})
}

// GetByID fetches a single complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	return s.load(ctx, id)
}

// ListByCustomer returns the complaints owned by the caller.
func (s *ComplaintService) ListByCustomer(ctx context.Context, caller domain.Identity) ([]domain.Complaint, error) {
	return s.complaints.FindByCustomer(ctx, caller.CustomerID)
}

// Create files a complaint owned by the caller. Any status is accepted.
func (s *ComplaintService) Create(ctx context.Context, caller domain.Identity, input ComplaintCreateInput) (*domain.Complaint, error) {
	if err := checkStatus(input.Status); err != nil {
		return nil, err
	}
	date := input.Date
	complaint := &domain.Complaint{
		ProductID:   input.ProductID,
		Customer:    caller.Owner(),
		Date:        &date,
		Description: input.Description,
		Status:      input.Status,
	}
	if err := s.complaints.Save(ctx, complaint); err != nil {
		return nil, err
	}

	s.logger.Info("complaint created",
		zap.Int64("complaint_id", complaint.ID),
		zap.Int64("customer_id", caller.CustomerID))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		CustomerID:  caller.CustomerID,
		NewStatus:   complaint.Status,
	})
	return complaint, nil
}

// Cancel marks the caller's complaint CANCELED from any status. Repeating it is harmless.
func (s *ComplaintService) Cancel(ctx context.Context, caller domain.Identity, id int64) error {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !complaint.OwnedBy(caller.CustomerID) {
		return apperrors.NewForbidden(forbiddenMessage)
	}

	oldStatus := complaint.Status
	complaint.Status = domain.ComplaintStatusCanceled
	if err := s.complaints.Save(ctx, complaint); err != nil {
		return err
	}

	s.logger.Info("complaint canceled",
		zap.Int64("complaint_id", complaint.ID),
		zap.String("previous_status", string(oldStatus)))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCanceled,
		ComplaintID: complaint.ID,
		CustomerID:  caller.CustomerID,
		OldStatus:   oldStatus,
		NewStatus:   complaint.Status,
	})
	return nil
}

// Update rewrites the caller's complaint while it is OPEN or IN_PROGRESS.
//
// The persisted record is rebuilt from the payload alone: it carries neither
// the original id nor the original date, and its owner is the caller. With a
// store that inserts id-less records this saves a new complaint and leaves the
// loaded one untouched.
// TODO: carry id and date over once product confirms in-place updates are intended.
func (s *ComplaintService) Update(ctx context.Context, caller domain.Identity, id int64, input ComplaintUpdateInput) (*domain.Complaint, error) {
	if err := checkStatus(input.Status); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(caller.CustomerID) {
		return nil, apperrors.NewForbidden(forbiddenMessage)
	}
	if !domain.IsModifiable(current.Status) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("Cannot update complaint with status %s", current.Status),
			map[string]any{"status": current.Status},
		)
	}

	rebuilt := &domain.Complaint{
		ProductID:   input.ProductID,
		Customer:    caller.Owner(),
		Description: input.Description,
		Status:      input.Status,
	}
	if err := s.complaints.Save(ctx, rebuilt); err != nil {
		return nil, err
	}

	s.logger.Info("complaint updated",
		zap.Int64("requested_id", id),
		zap.Int64("saved_id", rebuilt.ID),
		zap.String("status", string(rebuilt.Status)))
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintUpdated,
		ComplaintID: rebuilt.ID,
		CustomerID:  caller.CustomerID,
		OldStatus:   current.Status,
		NewStatus:   rebuilt.Status,
	})
	return rebuilt, nil
}

// Validate checks paging parameters before they reach the store.
func (p PageRequest) Validate() error {
	details := map[string]any{}
	if p.Page < 0 {
		details["page"] = "Page index must not be negative"
	}
	if p.Size < 1 {
		details["size"] = "Page size must be at least 1"
	}
	if _, ok := domain.ComplaintSortColumns[p.Sort]; !ok {
		details["sort"] = "Unsupported sort field " + strings.TrimSpace(p.Sort)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Validation failed", details)
	}
	return nil
}

func checkStatus(status domain.ComplaintStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError("Validation failed", map[string]any{"status": invalidStatusMessage})
	}
	return nil
}

func (s *ComplaintService) load(ctx context.Context, id int64) (*domain.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound(fmt.Sprintf("Complaint with id %d", id), nil)
	}
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
