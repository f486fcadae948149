package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func TestLedgerSaveDiscardsCallerTotal(t *testing.T) {
	f := newFixture(t)
	property := f.property("100000.00", f.service("Sale support", "100.00"))
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})

	txn := &domain.Transaction{PropertyID: property.ID, TotalAmount: decimal.NewFromInt(1)}
	require.NoError(t, ledger.Save(f.ctx, f.repos, txn))
	assert.Equal(t, "100100.00", txn.TotalAmount.StringFixed(domain.MoneyPlaces))

	stored, err := f.repos.Transactions.GetByID(f.ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100100.00").Equal(stored.TotalAmount))
}

func TestLedgerSaveRecomputesOnUpdate(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Sale support", "250.50")
	property := f.property("1000.25", svc)
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})

	txn := &domain.Transaction{PropertyID: property.ID}
	require.NoError(t, ledger.Save(f.ctx, f.repos, txn))
	assert.True(t, decimal.RequireFromString("1250.75").Equal(txn.TotalAmount))

	require.NoError(t, f.repos.Services.Delete(f.ctx, svc.ID))
	txn.TotalAmount = decimal.NewFromInt(999999)
	require.NoError(t, ledger.Save(f.ctx, f.repos, txn))
	assert.True(t, decimal.RequireFromString("1000.25").Equal(txn.TotalAmount))
}

func TestLedgerSaveAbortsOnMissingProperty(t *testing.T) {
	f := newFixture(t)
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})

	err := f.store.WithinTx(f.ctx, func(ctx context.Context, repos repository.Repositories) error {
		return ledger.Save(ctx, repos, &domain.Transaction{PropertyID: "missing"})
	})
	assert.True(t, repository.IsNotFound(err))
}

func TestReassignTransactionRefreshesTotal(t *testing.T) {
	f := newFixture(t)
	admin := f.user("root", domain.RoleAdmin)
	staff, _ := f.employee("agent")
	_, agent := f.employee("closer")
	property := f.property("500.00", f.service("Rent", "50.00"))
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})

	txn := &domain.Transaction{PropertyID: property.ID}
	require.NoError(t, ledger.Save(f.ctx, f.repos, txn))

	property.Price = decimal.RequireFromString("600.00")
	require.NoError(t, f.repos.Properties.Update(f.ctx, property))

	_, err := ledger.ReassignTransaction(f.ctx, staff, txn.ID, &agent.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	updated, err := ledger.ReassignTransaction(f.ctx, admin, txn.ID, &agent.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AgentID)
	assert.Equal(t, agent.ID, *updated.AgentID)
	assert.True(t, decimal.RequireFromString("650.00").Equal(updated.TotalAmount))

	missing := "missing"
	_, err = ledger.ReassignTransaction(f.ctx, admin, txn.ID, &missing)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = ledger.ReassignTransaction(f.ctx, admin, "missing", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestListTransactionsIsStaffOnly(t *testing.T) {
	f := newFixture(t)
	user, _ := f.client("anna")
	staff, _ := f.employee("agent")
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})

	_, err := ledger.ListTransactions(f.ctx, user, 0, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	items, err := ledger.ListTransactions(f.ctx, staff, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
