package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/cache"
	"github.com/spec-kit/estate-agency/internal/charts"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// StatisticsService builds reports over the catalog and the ledger. It never
// writes.
type StatisticsService struct {
	store    repository.Store
	cache    cache.Cache
	renderer charts.Renderer
	logger   *zap.Logger
	window   time.Duration
	now      func() time.Time
}

// StatisticsDependencies bundles reporting collaborators.
type StatisticsDependencies struct {
	Store    repository.Store
	Cache    cache.Cache
	Renderer charts.Renderer
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewStatisticsService builds the service.
func NewStatisticsService(cfg config.Config, deps StatisticsDependencies) *StatisticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := deps.Cache
	if c == nil {
		c = cache.Nop{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &StatisticsService{
		store:    deps.Store,
		cache:    c,
		renderer: deps.Renderer,
		logger:   logger,
		window:   cfg.Statistics.Window(),
		now:      now,
	}
}

// SaleStats describes the distribution of deal totals and service fees.
type SaleStats struct {
	Count       int             `json:"count"`
	TotalMean   decimal.Decimal `json:"total_mean"`
	TotalMedian decimal.Decimal `json:"total_median"`
	TotalMode   decimal.Decimal `json:"total_mode"`
	FeeMean     decimal.Decimal `json:"fee_mean"`
	FeeMedian   decimal.Decimal `json:"fee_median"`
	FeeMode     decimal.Decimal `json:"fee_mode"`
}

// AgeStats describes client ages in years.
type AgeStats struct {
	Count  int             `json:"count"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
}

// Overview is the statistics page.
type Overview struct {
	Properties          domain.PropertyStats         `json:"properties"`
	Transactions        domain.TransactionStats      `json:"transactions"`
	MonthlyTransactions []domain.MonthlyPoint        `json:"monthly_transactions"`
	Sales               SaleStats                    `json:"sales"`
	Services            []domain.ServicePerformance  `json:"services"`
	PopularServices     []domain.ServicePerformance  `json:"popular_services"`
	ProfitableServices  []domain.ServicePerformance  `json:"profitable_services"`
	Employees           []domain.EmployeePerformance `json:"employees"`
	ClientAges          AgeStats                     `json:"client_ages"`
	MonthlyInquiries    []domain.MonthlyPoint        `json:"monthly_inquiries"`
	GeneratedAt         time.Time                    `json:"generated_at"`
}

// Overview returns the cached report, computing it on a miss.
func (s *StatisticsService) Overview(ctx context.Context) (*Overview, error) {
	overview, err := cache.Remember(ctx, s.cache, s.logger, cache.KeyStatsOverview, s.compute)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &overview, nil
}

func (s *StatisticsService) compute(ctx context.Context) (Overview, error) {
	stats := s.store.Repos().Statistics
	now := s.now().UTC()
	since := now.Add(-s.window)

	var (
		out Overview
		err error
	)
	if out.Properties, err = stats.PropertyStats(ctx); err != nil {
		return out, err
	}
	if out.Transactions, err = stats.TransactionStats(ctx, since); err != nil {
		return out, err
	}
	if out.MonthlyTransactions, err = stats.MonthlyTransactions(ctx); err != nil {
		return out, err
	}
	if out.MonthlyInquiries, err = stats.MonthlyInquiries(ctx); err != nil {
		return out, err
	}
	if out.Services, err = stats.ServicePerformance(ctx); err != nil {
		return out, err
	}
	if out.Employees, err = stats.EmployeePerformance(ctx, since); err != nil {
		return out, err
	}
	deals, err := stats.DealAmounts(ctx)
	if err != nil {
		return out, err
	}
	births, err := stats.ClientBirthDates(ctx)
	if err != nil {
		return out, err
	}

	out.Sales = saleStats(deals)
	out.ClientAges = ageStats(births, now)
	out.MonthlyTransactions = nonNil(out.MonthlyTransactions)
	out.MonthlyInquiries = nonNil(out.MonthlyInquiries)
	out.Services = nonNil(out.Services)
	out.PopularServices = rankBy(out.Services, func(p domain.ServicePerformance) decimal.Decimal { return decimal.NewFromInt(int64(p.Deals)) })
	out.ProfitableServices = rankBy(out.Services, func(p domain.ServicePerformance) decimal.Decimal { return p.FeeRevenue })
	out.Employees = nonNil(out.Employees)
	out.GeneratedAt = now
	return out, nil
}

// Charts renders the report series and returns image URLs by chart name.
// Series the renderer rejects as empty are left out.
func (s *StatisticsService) Charts(ctx context.Context) (map[string]string, error) {
	urls := map[string]string{}
	if s.renderer == nil {
		return urls, nil
	}
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}

	for _, series := range chartSeries(overview) {
		url, err := s.renderer.RenderBar(series)
		if errors.Is(err, charts.ErrEmptySeries) {
			s.logger.Info("chart skipped, no data", zap.String("chart", series.Name))
			continue
		}
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		urls[series.Name] = url
	}
	return urls, nil
}

func chartSeries(o *Overview) []charts.Series {
	serviceLabel := func(p domain.ServicePerformance) string { return shortLabel(p.Title) }
	agentLabel := func(p domain.EmployeePerformance) string { return p.Username }
	return []charts.Series{
		barSeries("monthly_transactions", "Revenue by month", o.MonthlyTransactions,
			func(p domain.MonthlyPoint) string { return p.Month },
			func(p domain.MonthlyPoint) decimal.Decimal { return p.Total }),
		barSeries("services_by_sold_count", "Properties sold by service", o.PopularServices, serviceLabel,
			func(p domain.ServicePerformance) decimal.Decimal { return decimal.NewFromInt(int64(p.Deals)) }),
		barSeries("services_by_service_profit", "Service fees by service", o.ProfitableServices, serviceLabel,
			func(p domain.ServicePerformance) decimal.Decimal { return p.FeeRevenue }),
		barSeries("services_by_full_costs", "Revenue by service", o.Services, serviceLabel,
			func(p domain.ServicePerformance) decimal.Decimal { return p.Revenue }),
		barSeries("employee_service_stats", "Service fees by agent", rankBy(o.Employees, func(p domain.EmployeePerformance) decimal.Decimal { return p.FeeRevenue }), agentLabel,
			func(p domain.EmployeePerformance) decimal.Decimal { return p.FeeRevenue }),
		barSeries("employee_total_stats", "Revenue by agent", o.Employees, agentLabel,
			func(p domain.EmployeePerformance) decimal.Decimal { return p.Revenue }),
	}
}

func barSeries[T any](name, title string, items []T, label func(T) string, value func(T) decimal.Decimal) charts.Series {
	series := charts.Series{Name: name, Title: title}
	for _, item := range items {
		series.Labels = append(series.Labels, label(item))
		series.Values = append(series.Values, value(item).InexactFloat64())
	}
	return series
}

// rankBy returns a copy of items ordered by key, largest first. Equal keys
// keep their incoming order.
func rankBy[T any](items []T, key func(T) decimal.Decimal) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]).GreaterThan(key(out[j])) })
	return out
}

func shortLabel(title string) string {
	const maxRunes = 12
	runes := []rune(title)
	if len(runes) <= maxRunes {
		return title
	}
	return string(runes[:maxRunes])
}

func saleStats(deals []domain.DealAmount) SaleStats {
	totals := make([]decimal.Decimal, 0, len(deals))
	fees := make([]decimal.Decimal, 0, len(deals))
	for _, d := range deals {
		totals = append(totals, d.Total)
		fees = append(fees, d.Fee)
	}
	return SaleStats{
		Count:       len(deals),
		TotalMean:   meanOf(totals),
		TotalMedian: medianOf(totals),
		TotalMode:   modeOf(totals),
		FeeMean:     meanOf(fees),
		FeeMedian:   medianOf(fees),
		FeeMode:     modeOf(fees),
	}
}

func ageStats(births []time.Time, now time.Time) AgeStats {
	ages := make([]decimal.Decimal, 0, len(births))
	for _, b := range births {
		ages = append(ages, decimal.NewFromInt(int64(domain.AgeOn(b, now))))
	}
	return AgeStats{Count: len(ages), Mean: meanOf(ages), Median: medianOf(ages)}
}

func meanOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).
		DivRound(decimal.NewFromInt(int64(len(values))), domain.MoneyPlaces)
}

func medianOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := sortedCopy(values)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).DivRound(decimal.NewFromInt(2), domain.MoneyPlaces)
}

// modeOf returns the most frequent value; ties go to the smallest.
func modeOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := sortedCopy(values)
	best, bestRun := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Equal(sorted[i]) {
			j++
		}
		if j-i > bestRun {
			best, bestRun = sorted[i], j-i
		}
		i = j
	}
	return best
}

func sortedCopy(values []decimal.Decimal) []decimal.Decimal {
	out := append([]decimal.Decimal(nil), values...)
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
