package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(WithClock(func() time.Time { return fixedNow }))
}

func mustUser(t *testing.T, repos repository.Repositories, username string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Role: role}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func mustEmployee(t *testing.T, repos repository.Repositories, username string, hired time.Time) *domain.Employee {
	t.Helper()
	user := mustUser(t, repos, username, domain.RoleEmployee)
	employee := &domain.Employee{UserID: user.ID, HireDate: hired}
	created, err := repos.Employees.CreateIfMissing(context.Background(), employee)
	require.NoError(t, err)
	require.True(t, created)
	return employee
}

func mustClient(t *testing.T, repos repository.Repositories, username string) *domain.Client {
	t.Helper()
	user := mustUser(t, repos, username, domain.RoleClient)
	client := &domain.Client{UserID: user.ID}
	created, err := repos.Clients.CreateIfMissing(context.Background(), client)
	require.NoError(t, err)
	require.True(t, created)
	return client
}

func mustProperty(t *testing.T, repos repository.Repositories, price string, svc *domain.PropertyService) *domain.Property {
	t.Helper()
	property := &domain.Property{
		Price:    decimal.RequireFromString(price),
		Area:     decimal.NewFromInt(50),
		Details:  "two rooms",
		Location: "Minsk",
	}
	if svc != nil {
		property.ServiceID = &svc.ID
	}
	require.NoError(t, repos.Properties.Create(context.Background(), property))
	return property
}

func mustService(t *testing.T, repos repository.Repositories, title, fee string) *domain.PropertyService {
	t.Helper()
	ctx := context.Background()
	st := &domain.ServiceType{Title: "Sale"}
	require.NoError(t, repos.ServiceTypes.Create(ctx, st))
	svc := &domain.PropertyService{Title: title, ServiceTypeID: st.ID, ServiceFee: decimal.RequireFromString(fee)}
	require.NoError(t, repos.Services.Create(ctx, svc))
	return svc
}

func TestUserUsernameUnique(t *testing.T) {
	repos := newTestStore().Repos()
	mustUser(t, repos, "anna", domain.RoleClient)

	err := repos.Users.Create(context.Background(), &domain.User{Username: "anna"})
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestProfileCreateIfMissingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	client := mustClient(t, repos, "anna")

	created, err := repos.Clients.CreateIfMissing(ctx, &domain.Client{UserID: client.UserID})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repos.Clients.GetByUserID(ctx, client.UserID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)
	assert.Equal(t, "anna", got.User.Username)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		mustUser(t, repos, "ghost", domain.RoleClient)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Repos().Users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			mustUser(t, repos, "ghost", domain.RoleClient)
			panic("boom")
		})
	})

	_, err := store.Repos().Users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestWithinTxKeepsWritesMadeOutsideIt(t *testing.T) {
	for name, failTx := range map[string]bool{"rollback": true, "commit": false} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore()
			entered := make(chan struct{})
			release := make(chan struct{})
			txDone := make(chan error, 1)

			go func() {
				txDone <- store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
					if err := repos.Users.Create(ctx, &domain.User{Username: "ghost"}); err != nil {
						return err
					}
					close(entered)
					<-release
					if failTx {
						return errors.New("duplicate request")
					}
					return nil
				})
			}()
			<-entered

			news := &domain.News{Title: "Open house"}
			written := make(chan error, 1)
			go func() { written <- store.Repos().News.Create(ctx, news) }()

			select {
			case <-written:
				t.Fatal("write outside the transaction finished while it was running")
			case <-time.After(50 * time.Millisecond):
			}
			close(release)

			txErr := <-txDone
			require.NoError(t, <-written)
			got, err := store.Repos().News.GetByID(ctx, news.ID)
			require.NoError(t, err)
			assert.Equal(t, "Open house", got.Title)

			_, err = store.Repos().Users.GetByUsername(ctx, "ghost")
			if failTx {
				assert.Error(t, txErr)
				assert.ErrorIs(t, err, pgx.ErrNoRows)
			} else {
				assert.NoError(t, txErr)
				assert.NoError(t, err)
			}
		})
	}
}

func TestListWorkloadsOrdersByActiveCountThenHireDate(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	a := mustEmployee(t, repos, "agent-a", fixedNow.AddDate(-2, 0, 0))
	b := mustEmployee(t, repos, "agent-b", fixedNow.AddDate(-1, 0, 0))
	c := mustEmployee(t, repos, "agent-c", fixedNow.AddDate(-3, 0, 0))

	for i, name := range []string{"c1", "c2"} {
		client := mustClient(t, repos, name)
		property := mustProperty(t, repos, "1000", nil)
		inquiry := &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: client.ID, AgentID: &a.ID}
		require.NoError(t, repos.Inquiries.Create(ctx, inquiry))
		if i == 1 {
			require.NoError(t, repos.Inquiries.UpdateState(ctx, inquiry.ID, domain.InquiryStateProcessing))
		}
	}
	client := mustClient(t, repos, "c3")
	property := mustProperty(t, repos, "1000", nil)
	done := &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: client.ID, AgentID: &c.ID}
	require.NoError(t, repos.Inquiries.Create(ctx, done))
	require.NoError(t, repos.Inquiries.UpdateState(ctx, done.ID, domain.InquiryStateCompleted))

	workloads, err := repos.Employees.ListWorkloads(ctx)
	require.NoError(t, err)
	require.Len(t, workloads, 3)
	assert.Equal(t, c.ID, workloads[0].Employee.ID)
	assert.Equal(t, 0, workloads[0].ActiveCount)
	assert.Equal(t, b.ID, workloads[1].Employee.ID)
	assert.Equal(t, a.ID, workloads[2].Employee.ID)
	assert.Equal(t, 2, workloads[2].ActiveCount)
}

func TestInquiryPairUnique(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	client := mustClient(t, repos, "anna")
	property := mustProperty(t, repos, "1000", nil)

	require.NoError(t, repos.Inquiries.Create(ctx, &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: client.ID}))
	err := repos.Inquiries.Create(ctx, &domain.PropertyInquiry{PropertyID: property.ID, BuyerID: client.ID})
	assert.True(t, repository.IsUniqueViolation(err))

	exists, err := repos.Inquiries.Exists(ctx, property.ID, client.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTransactionPropertyUnique(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	property := mustProperty(t, repos, "1000", nil)

	first := &domain.Transaction{PropertyID: property.ID, TotalAmount: decimal.NewFromInt(1000)}
	require.NoError(t, repos.Transactions.Create(ctx, first))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), first.TransactionDate)

	err := repos.Transactions.Create(ctx, &domain.Transaction{PropertyID: property.ID})
	assert.True(t, repository.IsUniqueViolation(err))

	got, err := repos.Properties.GetByID(ctx, property.ID)
	require.NoError(t, err)
	assert.True(t, got.Sold)
}

func TestDeleteServiceSetsPropertyServiceNull(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	svc := mustService(t, repos, "Premium", "100.00")
	property := mustProperty(t, repos, "1000", svc)

	require.NoError(t, repos.Services.Delete(ctx, svc.ID))

	got, err := repos.Properties.GetByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ServiceID)
	assert.Nil(t, got.ServiceFee())
}

func TestPropertyListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	svc := mustService(t, repos, "Premium", "100.00")
	cheap := mustProperty(t, repos, "500", nil)
	mid := mustProperty(t, repos, "1500", svc)
	top := mustProperty(t, repos, "2500", svc)
	require.NoError(t, repos.Transactions.Create(ctx, &domain.Transaction{PropertyID: top.ID}))

	items, total, err := repos.Properties.List(ctx, repository.PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, mid.ID, items[0].ID)
	assert.Equal(t, cheap.ID, items[1].ID)

	term := "premium"
	items, total, err = repos.Properties.List(ctx, repository.PropertyFilter{SearchTerm: &term, IncludeSold: true, Sort: repository.SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, mid.ID, items[0].ID)
	assert.Equal(t, top.ID, items[1].ID)

	minPrice := decimal.NewFromInt(1000)
	items, _, err = repos.Properties.List(ctx, repository.PropertyFilter{MinPrice: &minPrice, Limit: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mid.ID, items[0].ID)
}

func TestStatisticsOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	stats := newTestStore().Repos().Statistics

	props, err := stats.PropertyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, props.Total)
	assert.True(t, props.AvgPrice.IsZero())

	txns, err := stats.TransactionStats(ctx, fixedNow.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 0, txns.Total)
	assert.True(t, txns.TotalRevenue.IsZero())

	monthly, err := stats.MonthlyTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, monthly)

	perf, err := stats.ServicePerformance(ctx)
	require.NoError(t, err)
	assert.NotNil(t, perf)
	assert.Empty(t, perf)
}

func TestServicePerformanceRanksByRevenue(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore().Repos()
	small := mustService(t, repos, "Basic", "10.00")
	big := mustService(t, repos, "Premium", "100.00")
	mustService(t, repos, "Unused", "5.00")

	for _, svc := range []*domain.PropertyService{small, big, big} {
		property := mustProperty(t, repos, "1000", svc)
		total := domain.TransactionTotal(property.Price, &svc.ServiceFee)
		require.NoError(t, repos.Transactions.Create(ctx, &domain.Transaction{PropertyID: property.ID, TotalAmount: total}))
	}

	perf, err := repos.Statistics.ServicePerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, big.ID, perf[0].ServiceID)
	assert.Equal(t, 2, perf[0].Deals)
	assert.True(t, decimal.RequireFromString("2200.00").Equal(perf[0].Revenue))
	assert.True(t, decimal.RequireFromString("200.00").Equal(perf[0].FeeRevenue))
	assert.Equal(t, small.ID, perf[1].ServiceID)
}
