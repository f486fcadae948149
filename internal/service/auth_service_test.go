package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func newAuthService(f *fixture, dispatcher events.Dispatcher) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{Store: f.store, Dispatcher: dispatcher, Now: clock})
}

func TestRegisterClientCreatesProfileAndToken(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)

	session, err := svc.RegisterClient(f.ctx, RegisterInput{Username: " anna ", Password: "secret123", FirstName: "Anna"})
	require.NoError(t, err)
	assert.Equal(t, "anna", session.User.Username)
	assert.Equal(t, domain.RoleClient, session.User.Role)
	assert.NotEmpty(t, session.Token)

	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID())

	client, err := f.repos.Clients.GetByUserID(f.ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, client.UserID)

	_, err = svc.RegisterClient(f.ctx, RegisterInput{Username: "anna", Password: "another123"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = svc.RegisterClient(f.ctx, RegisterInput{Username: "boris", Password: "short"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	_, err := svc.RegisterClient(f.ctx, RegisterInput{Username: "anna", Password: "secret123"})
	require.NoError(t, err)

	session, err := svc.Login(f.ctx, "anna", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	_, err = svc.Login(f.ctx, "anna", "wrong-password")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = svc.Login(f.ctx, "nobody", "secret123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestCreateEmployeeRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	admin, err := svc.CreateAdmin(f.ctx, RegisterInput{Username: "root", Password: "s3cure-admin"})
	require.NoError(t, err)
	agent, _ := f.employee("agent")

	input := EmployeeInput{
		RegisterInput: RegisterInput{Username: "maria", Password: "secret123"},
		Position:      "Agent",
		Department:    "Sales",
	}
	_, err = svc.CreateEmployee(f.ctx, agent, input)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	user, err := svc.CreateEmployee(f.ctx, admin, input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, user.Role)

	employee, err := f.repos.Employees.GetByUserID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sales", employee.Department)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), employee.HireDate)

	_, err = f.repos.Employees.GetByUserID(f.ctx, admin.ID)
	assert.NoError(t, err)

	input.Username = "client-role"
	input.Role = domain.RoleClient
	_, err = svc.CreateEmployee(f.ctx, admin, input)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestProfileFactoryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user, _ := f.client("anna")

	created, err := f.profiles.Ensure(f.ctx, f.repos, user)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = f.repos.Employees.GetByUserID(f.ctx, user.ID)
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	dispatcher := events.NewInMemoryDispatcher(nil)
	var sent []events.PasswordResetRequestedPayload
	dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, e events.Event) error {
		sent = append(sent, e.Payload.(events.PasswordResetRequestedPayload))
		return nil
	})
	svc := newAuthService(f, dispatcher)
	_, err := svc.RegisterClient(f.ctx, RegisterInput{Username: "anna", Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(f.ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, token)

	token, err = svc.RequestPasswordReset(f.ctx, "anna")
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Len(t, sent, 1)
	assert.Equal(t, "anna@example.com", sent[0].Email)
	assert.Equal(t, fixedNow.Add(30*time.Minute), token.ExpiresAt)

	require.NoError(t, svc.ConfirmPasswordReset(f.ctx, token.Token, "newsecret1"))
	_, err = svc.Login(f.ctx, "anna", "newsecret1")
	assert.NoError(t, err)

	err = svc.ConfirmPasswordReset(f.ctx, token.Token, "newsecret2")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	err = svc.ConfirmPasswordReset(f.ctx, "bogus", "newsecret2")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f, nil)
	session, err := svc.RegisterClient(f.ctx, RegisterInput{Username: "anna", Password: "secret123"})
	require.NoError(t, err)

	err = svc.ChangePassword(f.ctx, session.User.ID, "wrong", "newsecret1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	require.NoError(t, svc.ChangePassword(f.ctx, session.User.ID, "secret123", "newsecret1"))
	_, err = svc.Login(f.ctx, "anna", "newsecret1")
	assert.NoError(t, err)
}
