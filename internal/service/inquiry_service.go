package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

const maxInquiryTextLength = 2000

// InquiryService runs the inquiry workflow: creation with agent assignment
// and resolution into a transaction.
type InquiryService struct {
	store      repository.Store
	ledger     *LedgerService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// InquiryDependencies bundles inquiry collaborators.
type InquiryDependencies struct {
	Store      repository.Store
	Ledger     *LedgerService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewInquiryService builds the service.
func NewInquiryService(deps InquiryDependencies) *InquiryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ledger := deps.Ledger
	if ledger == nil {
		ledger = NewLedgerService(LedgerDependencies{Store: deps.Store})
	}
	return &InquiryService{store: deps.Store, ledger: ledger, dispatcher: deps.Dispatcher, logger: logger}
}

// Resolution is the outcome of an inquiry action. Transaction is set only
// for a purchase.
type Resolution struct {
	Inquiry     *domain.PropertyInquiry
	Transaction *domain.Transaction
	OldState    domain.InquiryState
}

// CreateInquiry records the client's interest in a property and assigns the
// least loaded employee. Nothing is written when any check fails.
func (s *InquiryService) CreateInquiry(ctx context.Context, user *domain.User, propertyID, text string) (*domain.PropertyInquiry, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !isID(propertyID) {
		return nil, apperrors.NewNotFound("property", map[string]any{"property_id": propertyID})
	}
	text = strings.TrimSpace(text)
	if len([]rune(text)) > maxInquiryTextLength {
		return nil, apperrors.NewValidationError("inquiry text must be at most 2000 characters", nil)
	}

	var inquiry *domain.PropertyInquiry
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		client, err := repos.Clients.GetByUserID(ctx, user.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewForbidden("only clients can submit inquiries")
			}
			return err
		}
		property, err := repos.Properties.GetByID(ctx, propertyID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewNotFound("property", map[string]any{"property_id": propertyID})
			}
			return err
		}
		if property.Sold {
			return apperrors.NewConflict("property no longer available", map[string]any{"property_id": propertyID})
		}
		exists, err := repos.Inquiries.Exists(ctx, property.ID, client.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewDuplicateRequest(map[string]any{"property_id": property.ID})
		}

		agent, err := pickAgent(ctx, repos)
		if err != nil {
			return err
		}
		inquiry = &domain.PropertyInquiry{
			PropertyID:  property.ID,
			BuyerID:     client.ID,
			AgentID:     &agent.ID,
			InquiryText: text,
			State:       domain.InquiryStatePending,
		}
		return repos.Inquiries.Create(ctx, inquiry)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateRequest(map[string]any{"property_id": propertyID})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("inquiry created",
		zap.String("inquiry_id", inquiry.ID),
		zap.String("property_id", inquiry.PropertyID),
		zap.Stringp("agent_id", inquiry.AgentID))
	publish(ctx, s.dispatcher, events.New(events.EventInquiryCreated, inquiry.ID, actorOf(user),
		events.InquiryCreatedPayload{PropertyID: inquiry.PropertyID, BuyerID: inquiry.BuyerID, AgentID: inquiry.AgentID}))
	return inquiry, nil
}

// pickAgent returns the employee with the fewest active inquiries. Equal
// loads keep the repository order.
func pickAgent(ctx context.Context, repos repository.Repositories) (*domain.Employee, error) {
	workloads, err := repos.Employees.ListWorkloads(ctx)
	if err != nil {
		return nil, err
	}
	if len(workloads) == 0 {
		return nil, apperrors.NewNoAvailableAgent()
	}
	sort.SliceStable(workloads, func(i, j int) bool {
		return workloads[i].ActiveCount < workloads[j].ActiveCount
	})
	agent := workloads[0].Employee
	return &agent, nil
}

// Resolve applies action to an inquiry on behalf of its buyer or its agent.
// A purchase saves the transaction and completes the inquiry atomically.
func (s *InquiryService) Resolve(ctx context.Context, user *domain.User, inquiryID string, action domain.InquiryAction) (*Resolution, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	target, ok := action.Target()
	if !ok {
		return nil, apperrors.NewValidationError("unknown action", map[string]any{"action": action})
	}
	if !isID(inquiryID) {
		return nil, apperrors.NewNotFound("inquiry", map[string]any{"request_id": inquiryID})
	}

	var res Resolution
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		inquiry, err := repos.Inquiries.GetForUpdate(ctx, inquiryID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewNotFound("inquiry", map[string]any{"request_id": inquiryID})
			}
			return err
		}
		isBuyer, isAgent, err := participation(ctx, repos, user, inquiry)
		if err != nil {
			return err
		}
		if !isBuyer && !isAgent {
			return apperrors.NewNotFound("inquiry", map[string]any{"request_id": inquiryID})
		}
		if inquiry.State == domain.InquiryStateCompleted {
			return apperrors.NewStaleState(map[string]any{"request_id": inquiryID})
		}
		if action == domain.InquiryActionProcess && !isAgent {
			return apperrors.NewForbidden("only the assigned agent can process an inquiry")
		}
		if !domain.CanTransition(inquiry.State, target) {
			return apperrors.NewValidationError("transition not allowed",
				map[string]any{"from": inquiry.State, "to": target})
		}

		if action == domain.InquiryActionBuy {
			buyerID := inquiry.BuyerID
			txn := &domain.Transaction{PropertyID: inquiry.PropertyID, BuyerID: &buyerID, AgentID: inquiry.AgentID}
			if err := s.ledger.Save(ctx, repos, txn); err != nil {
				return err
			}
			res.Transaction = txn
		}
		if err := repos.Inquiries.UpdateState(ctx, inquiry.ID, target); err != nil {
			return err
		}
		res.OldState = inquiry.State
		inquiry.State = target
		res.Inquiry = inquiry
		return nil
	})
	if err != nil {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) && repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("property already sold", map[string]any{"request_id": inquiryID})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("inquiry resolved",
		zap.String("inquiry_id", res.Inquiry.ID),
		zap.String("action", string(action)),
		zap.String("state", string(res.Inquiry.State)))
	publish(ctx, s.dispatcher, events.New(events.EventInquiryResolved, res.Inquiry.ID, actorOf(user),
		events.InquiryResolvedPayload{Action: action, OldState: res.OldState, NewState: res.Inquiry.State}))
	if res.Transaction != nil {
		publish(ctx, s.dispatcher, events.New(events.EventTransactionCreated, res.Transaction.ID, actorOf(user),
			events.TransactionCreatedPayload{
				PropertyID:  res.Transaction.PropertyID,
				BuyerID:     res.Transaction.BuyerID,
				AgentID:     res.Transaction.AgentID,
				TotalAmount: res.Transaction.TotalAmount,
			}))
	}
	return &res, nil
}

// participation reports whether user is the buyer or the agent of inquiry.
func participation(ctx context.Context, repos repository.Repositories, user *domain.User, inquiry *domain.PropertyInquiry) (bool, bool, error) {
	switch user.Role {
	case domain.RoleClient:
		client, err := repos.Clients.GetByUserID(ctx, user.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return false, false, nil
			}
			return false, false, err
		}
		return client.ID == inquiry.BuyerID, false, nil
	case domain.RoleEmployee, domain.RoleAdmin:
		employee, err := repos.Employees.GetByUserID(ctx, user.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return false, false, nil
			}
			return false, false, err
		}
		return false, inquiry.AgentID != nil && *inquiry.AgentID == employee.ID, nil
	}
	return false, false, nil
}
