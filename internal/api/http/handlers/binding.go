package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/auth"
	"github.com/spec-kit/estate-agency/internal/domain"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// bindBody parses a JSON or form body into req and validates it.
func bindBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

// bindQuery parses the query string into req and validates it.
func bindQuery(c *fiber.Ctx, req any) error {
	if err := c.QueryParser(req); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	return dto.Validate(req)
}

// requireUser returns the authenticated account.
func requireUser(c *fiber.Ctx) (*domain.User, error) {
	user := auth.UserFromContext(c)
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}

func parseDecimal(val string) *decimal.Decimal {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(val)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// deleteByID runs del for the :id route parameter and answers 204.
func deleteByID(c *fiber.Ctx, del func(ctx context.Context, actor *domain.User, id string) error) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := del(c.UserContext(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
