package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// LedgerService owns transaction persistence. Every save recomputes the
// total from the property as currently stored.
type LedgerService struct {
	store repository.Store
}

// LedgerDependencies bundles ledger collaborators.
type LedgerDependencies struct {
	Store repository.Store
}

// NewLedgerService builds the service.
func NewLedgerService(deps LedgerDependencies) *LedgerService {
	return &LedgerService{store: deps.Store}
}

// Save inserts txn when it has no id and updates it otherwise. Any caller
// supplied total is replaced. It runs on repos so it joins the caller's
// transaction.
func (s *LedgerService) Save(ctx context.Context, repos repository.Repositories, txn *domain.Transaction) error {
	property, err := repos.Properties.GetByID(ctx, txn.PropertyID)
	if err != nil {
		return fmt.Errorf("load property %s: %w", txn.PropertyID, err)
	}
	txn.TotalAmount = domain.TransactionTotal(property.Price, property.ServiceFee())
	if txn.ID == "" {
		return repos.Transactions.Create(ctx, txn)
	}
	return repos.Transactions.Update(ctx, txn)
}

// ListTransactions pages through the whole ledger. Staff only.
func (s *LedgerService) ListTransactions(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Transaction, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	items, err := s.store.Repos().Transactions.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.Transaction{}
	}
	return items, nil
}

// GetTransaction returns one transaction. Staff only.
func (s *LedgerService) GetTransaction(ctx context.Context, actor *domain.User, id string) (*domain.Transaction, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	txn, err := s.store.Repos().Transactions.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("transaction", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

// ReassignTransaction changes the agent of a transaction and saves it again,
// which refreshes the total. Admin only.
func (s *LedgerService) ReassignTransaction(ctx context.Context, actor *domain.User, id string, agentID *string) (*domain.Transaction, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var saved *domain.Transaction
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		txn, err := repos.Transactions.GetByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewNotFound("transaction", map[string]any{"id": id})
			}
			return err
		}
		if agentID != nil {
			if _, err := repos.Employees.GetByID(ctx, *agentID); err != nil {
				if repository.IsNotFound(err) {
					return apperrors.NewValidationError("unknown agent", map[string]any{"agent_id": *agentID})
				}
				return err
			}
		}
		txn.AgentID = agentID
		if err := s.Save(ctx, repos, txn); err != nil {
			return err
		}
		saved, err = repos.Transactions.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return saved, nil
}
