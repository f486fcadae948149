package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller with its profile.
type Principal struct {
	User     *domain.User
	Client   *domain.Client
	Employee *domain.Employee
}

// Role returns the caller role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	users     repository.UserRepository
	clients   repository.ClientRepository
	employees repository.EmployeeRepository
	loginPath string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, repos repository.Repositories, loginPath string) *AuthMiddleware {
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	return &AuthMiddleware{
		tokens:    tokens,
		users:     repos.Users,
		clients:   repos.Clients,
		employees: repos.Employees,
		loginPath: loginPath,
	}
}

// Handle enforces authentication for login-required routes. Callers without
// an Authorization header are redirected to the login page.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		target := m.loginPath + "?next=" + url.QueryEscape(c.OriginalURL())
		return c.Redirect(target, http.StatusFound)
	}
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads the principal when a token is supplied and lets anonymous callers through.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if errors.Is(err, ErrSessionExpired) {
		return nil, apperrors.NewUnauthorized("session expired, log in again")
	}
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	ctx := c.UserContext()
	user, err := m.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.MapError(err)
	}

	principal := &Principal{User: user}
	switch user.Role {
	case domain.RoleClient:
		client, err := m.clients.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		principal.Client = client
	case domain.RoleEmployee, domain.RoleAdmin:
		employee, err := m.employees.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		principal.Employee = employee
	}
	return principal, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// UserFromContext returns the authenticated user or nil.
func UserFromContext(c *fiber.Ctx) *domain.User {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.User
}
