package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/auth"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	store      repository.Store
	profiles   *ProfileFactory
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	Store      repository.Store
	Profiles   *ProfileFactory
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EmployeeInput describes a staff account created by an admin.
type EmployeeInput struct {
	RegisterInput
	Role           domain.Role
	Position       string
	Department     string
	Specialization string
}

// Session is an issued access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	profiles := deps.Profiles
	if profiles == nil {
		profiles = NewProfileFactory(now)
	}
	return &AuthService{
		store:      deps.Store,
		profiles:   profiles,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		now:        now,
	}
}

// RegisterClient creates a client account with its profile and signs it in.
func (s *AuthService) RegisterClient(ctx context.Context, input RegisterInput) (*Session, error) {
	user, err := s.createAccount(ctx, input, domain.RoleClient, nil)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateEmployee creates an employee or admin account. Admin only.
func (s *AuthService) CreateEmployee(ctx context.Context, actor *domain.User, input EmployeeInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !role.IsStaff() {
		return nil, apperrors.NewValidationError("role must be employee or admin", map[string]any{"role": role})
	}
	return s.createAccount(ctx, input.RegisterInput, role, func(ctx context.Context, repos repository.Repositories, user *domain.User) error {
		employee, err := repos.Employees.GetByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		employee.Position = strings.TrimSpace(input.Position)
		employee.Department = strings.TrimSpace(input.Department)
		employee.Specialization = strings.TrimSpace(input.Specialization)
		if err := repos.Employees.Update(ctx, employee); err != nil {
			return err
		}
		return nil
	})
}

// CreateAdmin bootstraps an admin account outside of any request.
func (s *AuthService) CreateAdmin(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.createAccount(ctx, input, domain.RoleAdmin, nil)
}

func (s *AuthService) createAccount(ctx context.Context, input RegisterInput, role domain.Role,
	after func(context.Context, repository.Repositories, *domain.User) error) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username required", nil)
	}
	if err := auth.ValidatePassword(input.Password, username); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if _, err := s.profiles.Ensure(ctx, repos, user); err != nil {
			return err
		}
		if after != nil {
			return after(ctx, repos, user)
		}
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates by username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.store.Repos().Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// RequestPasswordReset stores a one-time token for the account and publishes
// it for delivery. Unknown usernames return nil without a token.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username string) (*domain.PasswordResetToken, error) {
	repos := s.store.Repos()
	user, err := repos.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := repos.PasswordResets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	publish(ctx, s.dispatcher, events.New(events.EventPasswordResetRequested, user.ID,
		events.Actor{UserID: user.ID, Role: user.Role},
		events.PasswordResetRequestedPayload{Email: user.Email, Token: token.Token, ExpiresAt: token.ExpiresAt}))
	return token, nil
}

// ConfirmPasswordReset redeems the token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if err := auth.ValidatePassword(newPassword, ""); err != nil {
		return err
	}

	invalid := apperrors.NewValidationError("reset token is invalid or expired", nil)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		token, err := repos.PasswordResets.GetByToken(ctx, tokenStr)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return invalid
			}
			return err
		}
		if !token.Usable(s.now()) {
			return invalid
		}
		user, err := repos.Users.GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		if err := auth.ValidatePassword(newPassword, user.Username); err != nil {
			return err
		}
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		if err := repos.PasswordResets.MarkUsed(ctx, token.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return invalid
			}
			return err
		}
		return nil
	})
	return apperrors.MapError(err)
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	users := s.store.Repos().Users
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ValidatePassword(newPassword, user.Username); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(users.Update(ctx, user))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
