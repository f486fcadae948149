package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/persistence"
	"github.com/spec-kit/estate-agency/internal/repository"
)

// Runs against a scratch database named by POSTGRES_TEST_DSN.
func openTestStore(t *testing.T) *repository.PostgresStore {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	logger := zap.NewNop()

	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, logger)
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pg.Pool, logger))

	_, err = pg.Pool.Exec(ctx, `TRUNCATE users, property_types, service_types, news, faqs, vacancies, contacts, promo_codes CASCADE`)
	require.NoError(t, err)
	return repository.NewPostgresStore(pg.Pool)
}

func TestPostgresDealConstraints(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repos := store.Repos()

	user := &domain.User{Username: "buyer", Email: "b@example.com", PasswordHash: "x", Role: domain.RoleClient}
	require.NoError(t, repos.Users.Create(ctx, user))
	client := &domain.Client{UserID: user.ID}
	created, err := repos.Clients.CreateIfMissing(ctx, client)
	require.NoError(t, err)
	require.True(t, created)

	st := &domain.ServiceType{Title: "Sale"}
	require.NoError(t, repos.ServiceTypes.Create(ctx, st))
	svc := &domain.PropertyService{Title: "Premium", ServiceTypeID: st.ID, ServiceFee: decimal.RequireFromString("100.00")}
	require.NoError(t, repos.Services.Create(ctx, svc))
	property := &domain.Property{
		Price:     decimal.RequireFromString("100000.00"),
		Area:      decimal.NewFromInt(80),
		ServiceID: &svc.ID,
		Details:   "three rooms",
		Location:  "Minsk",
	}
	require.NoError(t, repos.Properties.Create(ctx, property))

	inquiry := &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: client.ID, State: domain.InquiryStatePending}
	require.NoError(t, repos.Inquiries.Create(ctx, inquiry))
	err = repos.Inquiries.Create(ctx, &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: client.ID, State: domain.InquiryStatePending})
	assert.True(t, repository.IsUniqueViolation(err))

	loaded, err := repos.Properties.GetByID(ctx, property.ID)
	require.NoError(t, err)
	txn := &domain.Transaction{
		PropertyID:  property.ID,
		BuyerID:     &client.ID,
		TotalAmount: domain.TransactionTotal(loaded.Price, loaded.ServiceFee()),
	}
	require.NoError(t, repos.Transactions.Create(ctx, txn))
	assert.Equal(t, "100100.00", txn.TotalAmount.StringFixed(2))

	err = repos.Transactions.Create(ctx, &domain.Transaction{PropertyID: property.ID, TotalAmount: txn.TotalAmount})
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestPostgresWithinTxRollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.Create(ctx, &domain.User{Username: "ghost", Email: "g@example.com", PasswordHash: "x", Role: domain.RoleClient}); err != nil {
			return err
		}
		return repos.Users.Create(ctx, &domain.User{Username: "ghost", Email: "g@example.com", PasswordHash: "x", Role: domain.RoleClient})
	})
	require.Error(t, err)

	_, err = store.Repos().Users.GetByUsername(ctx, "ghost")
	assert.True(t, repository.IsNotFound(err))
}
