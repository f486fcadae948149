package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	"github.com/spec-kit/estate-agency/internal/repository/memory"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	repos    repository.Repositories
	profiles *ProfileFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(memory.WithClock(clock))
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		store:    store,
		repos:    store.Repos(),
		profiles: NewProfileFactory(clock),
	}
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			BcryptCost:              4,
			LoginPath:               "/auth/login",
			PasswordResetTTLMinutes: 30,
		},
		Media:      config.MediaConfig{URLPrefix: "/media/", DefaultPhotoName: "default.jpg"},
		Statistics: config.StatisticsConfig{WindowDays: 30},
	}
}

func (f *fixture) user(username string, role domain.Role) *domain.User {
	f.t.Helper()
	user := &domain.User{Username: username, Role: role}
	require.NoError(f.t, f.repos.Users.Create(f.ctx, user))
	_, err := f.profiles.Ensure(f.ctx, f.repos, user)
	require.NoError(f.t, err)
	return user
}

func (f *fixture) client(username string) (*domain.User, *domain.Client) {
	f.t.Helper()
	user := f.user(username, domain.RoleClient)
	client, err := f.repos.Clients.GetByUserID(f.ctx, user.ID)
	require.NoError(f.t, err)
	return user, client
}

func (f *fixture) employee(username string) (*domain.User, *domain.Employee) {
	f.t.Helper()
	user := f.user(username, domain.RoleEmployee)
	employee, err := f.repos.Employees.GetByUserID(f.ctx, user.ID)
	require.NoError(f.t, err)
	return user, employee
}

func (f *fixture) service(title, fee string) *domain.PropertyService {
	f.t.Helper()
	st := &domain.ServiceType{Title: "Sale"}
	require.NoError(f.t, f.repos.ServiceTypes.Create(f.ctx, st))
	svc := &domain.PropertyService{Title: title, ServiceTypeID: st.ID, ServiceFee: decimal.RequireFromString(fee)}
	require.NoError(f.t, f.repos.Services.Create(f.ctx, svc))
	return svc
}

func (f *fixture) property(price string, svc *domain.PropertyService) *domain.Property {
	f.t.Helper()
	property := &domain.Property{
		Price:    decimal.RequireFromString(price),
		Area:     decimal.NewFromInt(60),
		Details:  "three rooms",
		Location: "Minsk, Nezavisimosti 1",
	}
	if svc != nil {
		property.ServiceID = &svc.ID
	}
	require.NoError(f.t, f.repos.Properties.Create(f.ctx, property))
	return property
}

// inquiry inserts an inquiry directly, bypassing assignment.
func (f *fixture) inquiry(property *domain.Property, buyer *domain.Client, agent *domain.Employee, state domain.InquiryState) *domain.PropertyInquiry {
	f.t.Helper()
	inquiry := &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: buyer.ID, AgentID: &agent.ID, State: state}
	require.NoError(f.t, f.repos.Inquiries.Create(f.ctx, inquiry))
	return inquiry
}

func (f *fixture) inquiryService() *InquiryService {
	return NewInquiryService(InquiryDependencies{Store: f.store})
}
