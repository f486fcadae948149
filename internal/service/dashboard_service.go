package service

import (
	"context"
	"strings"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// DashboardService assembles the per-role dashboards and routes their actions
// to the inquiry workflow.
type DashboardService struct {
	store     repository.Store
	inquiries *InquiryService
}

// DashboardDependencies bundles dashboard collaborators.
type DashboardDependencies struct {
	Store     repository.Store
	Inquiries *InquiryService
}

// NewDashboardService builds the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{store: deps.Store, inquiries: deps.Inquiries}
}

// ClientDashboard lists a client's inquiries and purchases.
type ClientDashboard struct {
	Client       *domain.Client
	Inquiries    []domain.PropertyInquiry
	Transactions []domain.Transaction
}

// EmployeeDashboard lists an agent's open work and closed deals.
type EmployeeDashboard struct {
	Employee     *domain.Employee
	Inquiries    []domain.PropertyInquiry
	Clients      []domain.Client
	Transactions []domain.Transaction
}

// Client builds the dashboard of a client user.
func (s *DashboardService) Client(ctx context.Context, user *domain.User) (*ClientDashboard, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	repos := s.store.Repos()
	client, err := repos.Clients.GetByUserID(ctx, user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewForbidden("client profile required")
		}
		return nil, apperrors.MapError(err)
	}
	inquiries, err := repos.Inquiries.ListByBuyer(ctx, client.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	transactions, err := repos.Transactions.ListByBuyer(ctx, client.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ClientDashboard{Client: client, Inquiries: nonNil(inquiries), Transactions: nonNil(transactions)}, nil
}

// Employee builds the dashboard of a staff user.
func (s *DashboardService) Employee(ctx context.Context, user *domain.User) (*EmployeeDashboard, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	repos := s.store.Repos()
	employee, err := repos.Employees.GetByUserID(ctx, user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewForbidden("employee profile required")
		}
		return nil, apperrors.MapError(err)
	}
	inquiries, err := repos.Inquiries.ListActiveByAgent(ctx, employee.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	clients, err := repos.Clients.ListActiveByAgent(ctx, employee.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	transactions, err := repos.Transactions.ListByAgent(ctx, employee.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &EmployeeDashboard{
		Employee:     employee,
		Inquiries:    nonNil(inquiries),
		Clients:      nonNil(clients),
		Transactions: nonNil(transactions),
	}, nil
}

// Act applies a dashboard form action to the inquiry identified by requestID.
func (s *DashboardService) Act(ctx context.Context, user *domain.User, requestID, action string) (*Resolution, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, apperrors.NewValidationError("Incorrect request.", nil)
	}
	return s.inquiries.Resolve(ctx, user, requestID, domain.InquiryAction(strings.TrimSpace(action)))
}
