package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func newDashboardService(f *fixture) *DashboardService {
	return NewDashboardService(DashboardDependencies{Store: f.store, Inquiries: f.inquiryService()})
}

func TestDashboards(t *testing.T) {
	f := newFixture(t)
	agentUser, agent := f.employee("agent")
	user, client := f.client("anna")
	open := f.inquiry(f.property("1000", nil), client, agent, domain.InquiryStatePending)
	f.inquiry(f.property("2000", nil), client, agent, domain.InquiryStateCompleted)
	svc := newDashboardService(f)

	clientView, err := svc.Client(f.ctx, user)
	require.NoError(t, err)
	assert.Len(t, clientView.Inquiries, 2)
	assert.Empty(t, clientView.Transactions)

	agentView, err := svc.Employee(f.ctx, agentUser)
	require.NoError(t, err)
	require.Len(t, agentView.Inquiries, 1)
	assert.Equal(t, open.ID, agentView.Inquiries[0].ID)
	require.Len(t, agentView.Clients, 1)
	assert.Equal(t, client.ID, agentView.Clients[0].ID)

	_, err = svc.Client(f.ctx, agentUser)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	_, err = svc.Employee(f.ctx, user)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestDashboardAct(t *testing.T) {
	f := newFixture(t)
	_, agent := f.employee("agent")
	user, client := f.client("anna")
	inquiry := f.inquiry(f.property("1000", nil), client, agent, domain.InquiryStatePending)
	svc := newDashboardService(f)

	_, err := svc.Act(f.ctx, user, " ", "buy")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, "Incorrect request.", apperrors.ToDomainError(err).Message)

	_, err = svc.Act(f.ctx, user, "unknown", "buy")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	res, err := svc.Act(f.ctx, user, inquiry.ID, "buy")
	require.NoError(t, err)
	assert.NotNil(t, res.Transaction)

	_, err = svc.Act(f.ctx, user, inquiry.ID, "cancel")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStaleTransition))

	view, err := svc.Client(f.ctx, user)
	require.NoError(t, err)
	assert.Len(t, view.Transactions, 1)
}
