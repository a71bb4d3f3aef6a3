package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler exposes the complaint resource.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// List GET /complaints. Paging applies only when page, size and a non-blank sort are all given.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	args := c.Context().QueryArgs()
	page, pageErr := queryInt(c, "page")
	size, sizeErr := queryInt(c, "size")
	if pageErr != nil || sizeErr != nil {
		details := map[string]any{}
		if pageErr != nil {
			details["page"] = "Page must be an integer"
		}
		if sizeErr != nil {
			details["size"] = "Size must be an integer"
		}
		return apperrors.NewValidationError("Validation failed", details)
	}

	sort := strings.TrimSpace(c.Query("sort"))
	var (
		complaints []domain.Complaint
		err        error
	)
	if args.Has("page") && args.Has("size") && sort != "" {
		complaints, err = h.service.ListPage(c.UserContext(), service.PageRequest{Page: page, Size: size, Sort: sort})
	} else {
		complaints, err = h.service.ListAll(c.UserContext())
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintResponses(complaints))
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintResponse(complaint))
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.service.Create(c.UserContext(), caller, service.ComplaintCreateInput{
		ProductID:   *req.ProductID,
		Date:        req.ParsedDate(),
		Description: *req.Description,
		Status:      domain.ComplaintStatus(*req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewComplaintResponse(complaint))
}

// Update PUT /complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.service.Update(c.UserContext(), caller, id, service.ComplaintUpdateInput{
		ProductID:   *req.ProductID,
		Description: *req.Description,
		Status:      domain.ComplaintStatus(*req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintResponse(complaint))
}

// Delete DELETE /complaints/:id cancels the complaint.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	caller, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func complaintID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("Validation failed", map[string]any{"id": "Complaint id must be an integer"})
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if !c.Context().QueryArgs().Has(key) {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}
