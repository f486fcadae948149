package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/domain"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireClient ensures a client is authenticated.
func RequireClient() fiber.Handler {
	return RequireRole(domain.RoleClient)
}

// RequireStaff ensures an employee or admin is authenticated.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.RoleEmployee, domain.RoleAdmin)
}

// RequireAdmin ensures an admin is authenticated.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
