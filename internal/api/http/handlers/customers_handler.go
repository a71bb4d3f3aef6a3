package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
)

// CustomersHandler serves the caller's own account.
type CustomersHandler struct {
	complaints *service.ComplaintService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(complaintService *service.ComplaintService) *CustomersHandler {
	return &CustomersHandler{complaints: complaintService}
}

// Me handles GET /customers/me.
func (h *CustomersHandler) Me(c *fiber.Ctx) error {
	caller, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	owned, err := h.complaints.ListByCustomer(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{
		Email:      caller.Email,
		Name:       caller.Name,
		Complaints: dto.NewComplaintResponses(owned),
	})
}
