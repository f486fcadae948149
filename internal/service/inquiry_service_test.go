package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func TestCreateInquiryAssignsLeastLoadedAgent(t *testing.T) {
	f := newFixture(t)
	_, busy := f.employee("busy")
	_, idle := f.employee("idle")
	_, other := f.client("other")
	f.inquiry(f.property("1000", nil), other, busy, domain.InquiryStatePending)
	f.inquiry(f.property("2000", nil), other, busy, domain.InquiryStateProcessing)

	user, client := f.client("anna")
	property := f.property("100000", nil)

	inquiry, err := f.inquiryService().CreateInquiry(f.ctx, user, property.ID, "  call me  ")
	require.NoError(t, err)
	require.NotNil(t, inquiry.AgentID)
	assert.Equal(t, idle.ID, *inquiry.AgentID)
	assert.Equal(t, domain.InquiryStatePending, inquiry.State)
	assert.Equal(t, client.ID, inquiry.BuyerID)
	assert.Equal(t, "call me", inquiry.InquiryText)
}

func TestCreateInquiryIgnoresCompletedLoad(t *testing.T) {
	f := newFixture(t)
	_, veteran := f.employee("veteran")
	_, junior := f.employee("junior")
	_, other := f.client("other")
	for i := 0; i < 3; i++ {
		f.inquiry(f.property("1000", nil), other, veteran, domain.InquiryStateCompleted)
	}
	f.inquiry(f.property("1000", nil), other, junior, domain.InquiryStatePending)

	user, _ := f.client("anna")
	inquiry, err := f.inquiryService().CreateInquiry(f.ctx, user, f.property("5000", nil).ID, "")
	require.NoError(t, err)
	assert.Equal(t, veteran.ID, *inquiry.AgentID)
}

func TestCreateInquiryRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.employee("agent")
	user, client := f.client("anna")
	property := f.property("100000", nil)
	svc := f.inquiryService()

	_, err := svc.CreateInquiry(f.ctx, user, property.ID, "first")
	require.NoError(t, err)

	_, err = svc.CreateInquiry(f.ctx, user, property.ID, "second")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicate))

	inquiries, err := f.repos.Inquiries.ListByBuyer(f.ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, inquiries, 1)
}

func TestCreateInquiryWithoutEmployeesWritesNothing(t *testing.T) {
	f := newFixture(t)
	user, client := f.client("anna")
	property := f.property("100000", nil)

	_, err := f.inquiryService().CreateInquiry(f.ctx, user, property.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNoAgent))

	exists, err := f.repos.Inquiries.Exists(f.ctx, property.ID, client.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateInquiryPreconditions(t *testing.T) {
	f := newFixture(t)
	staff, _ := f.employee("agent")
	user, _ := f.client("anna")
	svc := f.inquiryService()

	_, err := svc.CreateInquiry(f.ctx, staff, f.property("100", nil).ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.CreateInquiry(f.ctx, user, "missing", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	sold := f.property("100", nil)
	require.NoError(t, f.repos.Transactions.Create(f.ctx, &domain.Transaction{PropertyID: sold.ID, TotalAmount: sold.Price}))
	_, err = svc.CreateInquiry(f.ctx, user, sold.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestResolveBuyCreatesTransaction(t *testing.T) {
	f := newFixture(t)
	_, agent := f.employee("agent")
	user, client := f.client("anna")
	property := f.property("100000.00", f.service("Sale support", "100.00"))
	inquiry := f.inquiry(property, client, agent, domain.InquiryStatePending)

	dispatcher := events.NewInMemoryDispatcher(nil)
	var published []events.EventType
	record := func(_ context.Context, e events.Event) error {
		published = append(published, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventInquiryResolved, record)
	dispatcher.Subscribe(events.EventTransactionCreated, record)
	svc := NewInquiryService(InquiryDependencies{Store: f.store, Dispatcher: dispatcher})

	res, err := svc.Resolve(f.ctx, user, inquiry.ID, domain.InquiryActionBuy)
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.True(t, decimal.RequireFromString("100100.00").Equal(res.Transaction.TotalAmount))
	assert.Equal(t, domain.InquiryStateCompleted, res.Inquiry.State)
	assert.Equal(t, domain.InquiryStatePending, res.OldState)
	assert.Equal(t, []events.EventType{events.EventInquiryResolved, events.EventTransactionCreated}, published)

	stored, err := f.repos.Properties.GetByID(f.ctx, property.ID)
	require.NoError(t, err)
	assert.True(t, stored.Sold)
}

func TestResolveCompletedInquiryIsStale(t *testing.T) {
	f := newFixture(t)
	_, agent := f.employee("agent")
	user, client := f.client("anna")
	inquiry := f.inquiry(f.property("100", nil), client, agent, domain.InquiryStatePending)
	svc := f.inquiryService()

	_, err := svc.Resolve(f.ctx, user, inquiry.ID, domain.InquiryActionCancel)
	require.NoError(t, err)

	for _, action := range []domain.InquiryAction{domain.InquiryActionBuy, domain.InquiryActionCancel} {
		_, err = svc.Resolve(f.ctx, user, inquiry.ID, action)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeStaleTransition), string(action))
	}
	stored, err := f.repos.Inquiries.GetByID(f.ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStateCompleted, stored.State)
}

func TestResolveSecondBuyOfPropertyKeepsInquiryOpen(t *testing.T) {
	f := newFixture(t)
	agentUser, agent := f.employee("agent")
	_, anna := f.client("anna")
	_, boris := f.client("boris")
	property := f.property("100000", nil)
	first := f.inquiry(property, anna, agent, domain.InquiryStatePending)
	second := f.inquiry(property, boris, agent, domain.InquiryStateProcessing)
	svc := f.inquiryService()

	_, err := svc.Resolve(f.ctx, agentUser, first.ID, domain.InquiryActionBuy)
	require.NoError(t, err)

	_, err = svc.Resolve(f.ctx, agentUser, second.ID, domain.InquiryActionBuy)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	stored, err := f.repos.Inquiries.GetByID(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStateProcessing, stored.State)
	txns, err := f.repos.Transactions.ListByBuyer(f.ctx, boris.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestResolveCancelCreatesNoTransaction(t *testing.T) {
	f := newFixture(t)
	_, agent := f.employee("agent")
	user, client := f.client("anna")
	inquiry := f.inquiry(f.property("100", nil), client, agent, domain.InquiryStatePending)

	res, err := f.inquiryService().Resolve(f.ctx, user, inquiry.ID, domain.InquiryActionCancel)
	require.NoError(t, err)
	assert.Nil(t, res.Transaction)
	assert.Equal(t, domain.InquiryStateCompleted, res.Inquiry.State)

	txns, err := f.repos.Transactions.ListByBuyer(f.ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestResolveProcessIsAgentOnly(t *testing.T) {
	f := newFixture(t)
	agentUser, agent := f.employee("agent")
	user, client := f.client("anna")
	inquiry := f.inquiry(f.property("100", nil), client, agent, domain.InquiryStatePending)
	svc := f.inquiryService()

	_, err := svc.Resolve(f.ctx, user, inquiry.ID, domain.InquiryActionProcess)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	res, err := svc.Resolve(f.ctx, agentUser, inquiry.ID, domain.InquiryActionProcess)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStateProcessing, res.Inquiry.State)

	_, err = svc.Resolve(f.ctx, agentUser, inquiry.ID, domain.InquiryActionProcess)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	res, err = svc.Resolve(f.ctx, user, inquiry.ID, domain.InquiryActionBuy)
	require.NoError(t, err)
	assert.NotNil(t, res.Transaction)
}

func TestResolveByOutsiderIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, agent := f.employee("agent")
	otherAgent, _ := f.employee("other-agent")
	stranger, _ := f.client("stranger")
	_, client := f.client("anna")
	inquiry := f.inquiry(f.property("100", nil), client, agent, domain.InquiryStatePending)
	svc := f.inquiryService()

	_, err := svc.Resolve(f.ctx, stranger, inquiry.ID, domain.InquiryActionCancel)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = svc.Resolve(f.ctx, otherAgent, inquiry.ID, domain.InquiryActionCancel)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = svc.Resolve(f.ctx, stranger, "missing", domain.InquiryActionCancel)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = svc.Resolve(f.ctx, stranger, inquiry.ID, "sell")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

// sealedStore fails the test on any access.
type sealedStore struct{ t *testing.T }

func (s sealedStore) WithinTx(context.Context, func(context.Context, repository.Repositories) error) error {
	s.t.Fatal("store touched")
	return nil
}

func (s sealedStore) Repos() repository.Repositories {
	s.t.Fatal("store touched")
	return repository.Repositories{}
}

func TestMalformedIDsAreNotFoundBeforeStoreAccess(t *testing.T) {
	store := sealedStore{t: t}
	user := &domain.User{ID: "u-1", Role: domain.RoleClient}
	inquiries := NewInquiryService(InquiryDependencies{Store: store})
	dashboards := NewDashboardService(DashboardDependencies{Store: store, Inquiries: inquiries})
	catalog := NewCatalogService(testConfig(), CatalogDependencies{Store: store})

	for _, id := range []string{"abc", "not-a-uuid", "1", "0000"} {
		_, err := dashboards.Act(context.Background(), user, id, "buy")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), id)

		_, err = inquiries.CreateInquiry(context.Background(), user, id, "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), id)

		_, err = catalog.GetProperty(context.Background(), user, id)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), id)
	}
}
