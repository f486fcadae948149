package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// ProfileService reads and edits users with their role profiles.
type ProfileService struct {
	store repository.Store
	now   func() time.Time
}

// ProfileDependencies bundles profile collaborators.
type ProfileDependencies struct {
	Store repository.Store
	Now   func() time.Time
}

// NewProfileService builds the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ProfileService{store: deps.Store, now: now}
}

// Profile is a user with whichever profile its role carries.
type Profile struct {
	User     *domain.User
	Client   *domain.Client
	Employee *domain.Employee
}

// ProfileUpdate carries the editable fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
	BirthDate   *time.Time

	// client fields
	Preferences            *string
	BudgetRange            *string
	PreferredPropertyTypes []string

	// staff fields
	Position       *string
	Department     *string
	Specialization *string
}

// EmployeeUpdate is an admin edit of a staff profile.
type EmployeeUpdate struct {
	Position          *string
	Department        *string
	Specialization    *string
	PerformanceRating *decimal.Decimal
}

// Get loads the profile of user.
func (s *ProfileService) Get(ctx context.Context, user *domain.User) (*Profile, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return loadProfile(ctx, s.store.Repos(), user.ID)
}

func loadProfile(ctx context.Context, repos repository.Repositories, userID string) (*Profile, error) {
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	profile := &Profile{User: user}
	switch {
	case user.Role == domain.RoleClient:
		profile.Client, err = repos.Clients.GetByUserID(ctx, user.ID)
	case user.Role.IsStaff():
		profile.Employee, err = repos.Employees.GetByUserID(ctx, user.ID)
	}
	if err != nil && !repository.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// Update edits the caller's own account and profile in one transaction.
func (s *ProfileService) Update(ctx context.Context, user *domain.User, in ProfileUpdate) (*Profile, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if in.PhoneNumber != nil {
		if err := domain.ValidatePhone(strings.TrimSpace(*in.PhoneNumber)); err != nil {
			return nil, err
		}
	}
	if err := domain.ValidateBirthDate(in.BirthDate, user.Role, s.now()); err != nil {
		return nil, err
	}

	var updated *Profile
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		profile, err := loadProfile(ctx, repos, user.ID)
		if err != nil {
			return err
		}
		u := profile.User
		setString(&u.Email, in.Email)
		setString(&u.FirstName, in.FirstName)
		setString(&u.LastName, in.LastName)
		if err := repos.Users.Update(ctx, u); err != nil {
			return err
		}

		switch {
		case profile.Client != nil:
			c := profile.Client
			setString(&c.PhoneNumber, in.PhoneNumber)
			setString(&c.Address, in.Address)
			setString(&c.Preferences, in.Preferences)
			setString(&c.BudgetRange, in.BudgetRange)
			if in.BirthDate != nil {
				c.BirthDate = in.BirthDate
			}
			if in.PreferredPropertyTypes != nil {
				for _, id := range in.PreferredPropertyTypes {
					if _, err := repos.PropertyTypes.GetByID(ctx, id); err != nil {
						if repository.IsNotFound(err) {
							return apperrors.NewValidationError("unknown property type", map[string]any{"property_type_id": id})
						}
						return err
					}
				}
				c.PreferredPropertyTypes = in.PreferredPropertyTypes
			}
			err = repos.Clients.Update(ctx, c)
		case profile.Employee != nil:
			e := profile.Employee
			setString(&e.PhoneNumber, in.PhoneNumber)
			setString(&e.Address, in.Address)
			setString(&e.Position, in.Position)
			setString(&e.Department, in.Department)
			setString(&e.Specialization, in.Specialization)
			if in.BirthDate != nil {
				e.BirthDate = in.BirthDate
			}
			err = repos.Employees.Update(ctx, e)
		}
		if err != nil {
			return err
		}
		updated, err = loadProfile(ctx, repos, user.ID)
		return err
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updated, nil
}

// ListEmployees lists staff profiles. Staff only.
func (s *ProfileService) ListEmployees(ctx context.Context, actor *domain.User, department, search string, limit, offset int) ([]domain.Employee, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	items, err := s.store.Repos().Employees.List(ctx, repository.EmployeeFilter{
		Department: optional(department),
		SearchTerm: optional(search),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.Employee{}
	}
	return items, nil
}

// UpdateEmployee lets an admin edit a staff profile including its rating.
func (s *ProfileService) UpdateEmployee(ctx context.Context, actor *domain.User, employeeID string, in EmployeeUpdate) (*domain.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateRating(in.PerformanceRating); err != nil {
		return nil, err
	}
	repo := s.store.Repos().Employees
	employee, err := repo.GetByID(ctx, employeeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	setString(&employee.Position, in.Position)
	setString(&employee.Department, in.Department)
	setString(&employee.Specialization, in.Specialization)
	if in.PerformanceRating != nil {
		rating := in.PerformanceRating.Round(1)
		employee.PerformanceRating = &rating
	}
	if err := repo.Update(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
