package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/service"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// ProfileHandler exposes the caller's own profile.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.ProfileUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	update := service.ProfileUpdate{
		Email:                  req.Email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PhoneNumber:            req.PhoneNumber,
		Address:                req.Address,
		Preferences:            req.Preferences,
		BudgetRange:            req.BudgetRange,
		PreferredPropertyTypes: req.PreferredPropertyTypes,
		Position:               req.Position,
		Department:             req.Department,
		Specialization:         req.Specialization,
	}
	if req.BirthDate != nil {
		birth, err := time.Parse(time.DateOnly, *req.BirthDate)
		if err != nil {
			return apperrors.NewValidationError("invalid payload", map[string]any{"birth_date": "datetime=2006-01-02"})
		}
		update.BirthDate = &birth
	}

	profile, err := h.profiles.Update(c.UserContext(), user, update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}
