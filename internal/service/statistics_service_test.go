package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/cache"
	"github.com/spec-kit/estate-agency/internal/charts"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/mocks"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOverviewEmpty(t *testing.T) {
	f := newFixture(t)
	svc := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Now: clock})

	overview, err := svc.Overview(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, overview.Transactions.Total)
	assert.True(t, overview.Transactions.TotalRevenue.IsZero())
	assert.True(t, overview.Transactions.AvgValue.IsZero())
	assert.Zero(t, overview.Sales.Count)
	assert.True(t, overview.Sales.TotalMedian.IsZero())
	assert.NotNil(t, overview.MonthlyTransactions)
	assert.Empty(t, overview.MonthlyTransactions)
	assert.NotNil(t, overview.Services)
	assert.Zero(t, overview.ClientAges.Count)
}

func TestOverviewAggregates(t *testing.T) {
	f := newFixture(t)
	agentUser, agent := f.employee("agent")
	svc := f.service("Sale support", "100.00")
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})
	for _, price := range []string{"1000.00", "1000.00", "4000.00"} {
		property := f.property(price, svc)
		require.NoError(t, ledger.Save(f.ctx, f.repos, &domain.Transaction{PropertyID: property.ID, AgentID: &agent.ID}))
	}
	_, client := f.client("anna")
	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	client.BirthDate = &birth
	require.NoError(t, f.repos.Clients.Update(f.ctx, client))

	stats := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Now: clock})
	overview, err := stats.Overview(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, overview.Transactions.Total)
	assert.True(t, dec("6300").Equal(overview.Transactions.TotalRevenue))
	assert.Equal(t, 3, overview.Sales.Count)
	assert.True(t, dec("2100").Equal(overview.Sales.TotalMean))
	assert.True(t, dec("1100").Equal(overview.Sales.TotalMedian))
	assert.True(t, dec("1100").Equal(overview.Sales.TotalMode))
	assert.True(t, dec("100").Equal(overview.Sales.FeeMode))
	require.Len(t, overview.MonthlyTransactions, 1)
	assert.Equal(t, "2024-03", overview.MonthlyTransactions[0].Month)
	require.Len(t, overview.Employees, 1)
	assert.Equal(t, agentUser.Username, overview.Employees[0].Username)
	assert.Equal(t, 1, overview.ClientAges.Count)
	assert.True(t, dec("34").Equal(overview.ClientAges.Mean))
}

func TestModeTiesPickSmallest(t *testing.T) {
	values := []decimal.Decimal{dec("5"), dec("3"), dec("5"), dec("3"), dec("9")}
	assert.True(t, dec("3").Equal(modeOf(values)))
	assert.True(t, dec("5").Equal(medianOf(values)))
	assert.True(t, dec("4").Equal(medianOf(values[:4])))
}

func TestChartsSkipsEmptySeries(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().RenderBar(gomock.Any()).DoAndReturn(func(series charts.Series) (string, error) {
		return "", series.Validate()
	}).Times(6)

	svc := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Renderer: renderer, Now: clock})
	urls, err := svc.Charts(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestChartsReturnsRendererURLs(t *testing.T) {
	f := newFixture(t)
	property := f.property("1000.00", f.service("Rent", "10.00"))
	require.NoError(t, NewLedgerService(LedgerDependencies{Store: f.store}).Save(f.ctx, f.repos, &domain.Transaction{PropertyID: property.ID}))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().RenderBar(gomock.Any()).DoAndReturn(func(series charts.Series) (string, error) {
		if err := series.Validate(); err != nil {
			return "", err
		}
		return "/media/charts/" + series.Name + ".png", nil
	}).AnyTimes()

	svc := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Renderer: renderer, Now: clock})
	urls, err := svc.Charts(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "/media/charts/monthly_transactions.png", urls["monthly_transactions"])
	for _, name := range []string{"services_by_sold_count", "services_by_service_profit", "services_by_full_costs"} {
		assert.Equal(t, "/media/charts/"+name+".png", urls[name], name)
	}
	assert.NotContains(t, urls, "employee_service_stats")
	assert.NotContains(t, urls, "employee_total_stats")
}

func TestOverviewRanksServicesByDealsAndFees(t *testing.T) {
	f := newFixture(t)
	premium := f.service("Premium listing", "500.00")
	basic := f.service("Basic", "10.00")
	ledger := NewLedgerService(LedgerDependencies{Store: f.store})
	for _, svc := range []*domain.PropertyService{premium, basic, basic} {
		property := f.property("1000.00", svc)
		require.NoError(t, ledger.Save(f.ctx, f.repos, &domain.Transaction{PropertyID: property.ID}))
	}

	stats := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Now: clock})
	overview, err := stats.Overview(f.ctx)
	require.NoError(t, err)

	require.Len(t, overview.Services, 2)
	assert.Equal(t, basic.ID, overview.Services[0].ServiceID)
	require.Len(t, overview.PopularServices, 2)
	assert.Equal(t, basic.ID, overview.PopularServices[0].ServiceID)
	assert.Equal(t, 2, overview.PopularServices[0].Deals)
	require.Len(t, overview.ProfitableServices, 2)
	assert.Equal(t, premium.ID, overview.ProfitableServices[0].ServiceID)
	assert.True(t, dec("500").Equal(overview.ProfitableServices[0].FeeRevenue))

	series := map[string]charts.Series{}
	for _, s := range chartSeries(overview) {
		series[s.Name] = s
	}
	assert.Equal(t, []string{"Basic", "Premium list"}, series["services_by_sold_count"].Labels)
	assert.Equal(t, []float64{2, 1}, series["services_by_sold_count"].Values)
	assert.Equal(t, []string{"Premium list", "Basic"}, series["services_by_service_profit"].Labels)
	assert.Equal(t, []float64{500, 20}, series["services_by_service_profit"].Values)
	assert.Equal(t, []float64{2020, 1500}, series["services_by_full_costs"].Values)
	assert.Empty(t, series["employee_total_stats"].Values)
}

func TestChartsPropagatesRendererFailure(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().RenderBar(gomock.Any()).Return("", errors.New("disk full"))

	svc := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Renderer: renderer, Now: clock})
	_, err := svc.Charts(f.ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestOverviewIsCachedUntilTransactionEvent(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisCache(client, "test", cache.TTLs{cache.KeyStatsOverview: time.Minute})

	stats := NewStatisticsService(testConfig(), StatisticsDependencies{Store: f.store, Cache: c, Now: clock})
	first, err := stats.Overview(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, first.Transactions.Total)
	assert.True(t, mr.Exists("test:stats:overview"))

	property := f.property("1000.00", nil)
	require.NoError(t, NewLedgerService(LedgerDependencies{Store: f.store}).Save(f.ctx, f.repos, &domain.Transaction{PropertyID: property.ID}))

	cached, err := stats.Overview(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, cached.Transactions.Total)

	cache.Invalidate(context.Background(), c, zap.NewNop(), cache.KeyStatsOverview)
	fresh, err := stats.Overview(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Transactions.Total)
}
