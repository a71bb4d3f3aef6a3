package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// DateLayout is the wire format of complaint dates.
const DateLayout = "2006-01-02"

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	ProductID   *int64  `json:"productId" validate:"required,gt=0"`
	Date        *string `json:"date" validate:"required,isodate,notfuture"`
	Description *string `json:"description" validate:"required,notblank"`
	Status      *string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS ACCEPTED REJECTED CANCELED"`
}

// UpdateComplaintRequest payload. Updates do not carry a date.
type UpdateComplaintRequest struct {
	ProductID   *int64  `json:"productId" validate:"required,gt=0"`
	Description *string `json:"description" validate:"required,notblank"`
	Status      *string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS ACCEPTED REJECTED CANCELED"`
}

// ParsedDate returns the request date. Call only after validation.
func (r CreateComplaintRequest) ParsedDate() time.Time {
	parsed, _ := time.Parse(DateLayout, *r.Date)
	return parsed
}

// CustomerSummary is the public part of a complaint owner.
type CustomerSummary struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ComplaintResponse is the external view of a complaint.
type ComplaintResponse struct {
	ID          int64                  `json:"id"`
	ProductID   int64                  `json:"productId"`
	Customer    CustomerSummary        `json:"customer"`
	Date        *string                `json:"date"`
	Description string                 `json:"description"`
	Status      domain.ComplaintStatus `json:"status"`
}

// NewComplaintResponse maps a complaint to its view.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID,
		ProductID:   c.ProductID,
		Customer:    CustomerSummary{Email: c.Customer.Email, Name: c.Customer.Name},
		Description: c.Description,
		Status:      c.Status,
	}
	if c.Date != nil {
		formatted := c.Date.Format(DateLayout)
		resp.Date = &formatted
	}
	return resp
}

// NewComplaintResponses maps a list, never returning nil.
func NewComplaintResponses(complaints []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, NewComplaintResponse(&complaints[i]))
	}
	return out
}
