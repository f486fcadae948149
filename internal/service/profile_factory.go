package service

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

// ProfileFactory creates the role specific profile of a user. It is called
// explicitly by the registration flows inside their transaction.
type ProfileFactory struct {
	now func() time.Time
}

// NewProfileFactory builds the factory.
func NewProfileFactory(now func() time.Time) *ProfileFactory {
	if now == nil {
		now = time.Now
	}
	return &ProfileFactory{now: now}
}

// Ensure creates the Client profile of a client or the Employee profile of
// staff. It reports whether a profile was created; an existing one is kept.
func (f *ProfileFactory) Ensure(ctx context.Context, repos repository.Repositories, user *domain.User) (bool, error) {
	switch user.Role {
	case domain.RoleClient:
		return repos.Clients.CreateIfMissing(ctx, &domain.Client{UserID: user.ID})
	case domain.RoleEmployee, domain.RoleAdmin:
		now := f.now().UTC()
		hire := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return repos.Employees.CreateIfMissing(ctx, &domain.Employee{UserID: user.ID, HireDate: hire})
	default:
		return false, fmt.Errorf("unknown role %q", user.Role)
	}
}
