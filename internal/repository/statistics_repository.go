package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// StatisticsRepository runs the read-only aggregate queries behind reports.
type StatisticsRepository interface {
	PropertyStats(ctx context.Context) (domain.PropertyStats, error)
	TransactionStats(ctx context.Context, since time.Time) (domain.TransactionStats, error)
	MonthlyTransactions(ctx context.Context) ([]domain.MonthlyPoint, error)
	MonthlyInquiries(ctx context.Context) ([]domain.MonthlyPoint, error)
	DealAmounts(ctx context.Context) ([]domain.DealAmount, error)
	ServicePerformance(ctx context.Context) ([]domain.ServicePerformance, error)
	EmployeePerformance(ctx context.Context, since time.Time) ([]domain.EmployeePerformance, error)
	ClientBirthDates(ctx context.Context) ([]time.Time, error)
}

type statisticsRepository struct {
	db DBTX
}

// NewStatisticsRepository instantiates the repository.
func NewStatisticsRepository(db DBTX) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) PropertyStats(ctx context.Context) (domain.PropertyStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE NOT EXISTS (SELECT 1 FROM transactions t WHERE t.property_id = p.id)),
               COALESCE(ROUND(AVG(p.price), 2), 0),
               COALESCE(MIN(p.price), 0),
               COALESCE(MAX(p.price), 0)
        FROM properties p`
	var stats domain.PropertyStats
	err := r.db.QueryRow(ctx, query).Scan(&stats.Total, &stats.ActiveListings, &stats.AvgPrice, &stats.MinPrice, &stats.MaxPrice)
	return stats, err
}

func (r *statisticsRepository) TransactionStats(ctx context.Context, since time.Time) (domain.TransactionStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE transaction_date >= $1::date),
               COALESCE(ROUND(AVG(total_amount), 2), 0),
               COALESCE(SUM(total_amount), 0)
        FROM transactions`
	var stats domain.TransactionStats
	err := r.db.QueryRow(ctx, query, since).Scan(&stats.Total, &stats.RecentCount, &stats.AvgValue, &stats.TotalRevenue)
	return stats, err
}

func (r *statisticsRepository) MonthlyTransactions(ctx context.Context) ([]domain.MonthlyPoint, error) {
	const query = `
        SELECT to_char(date_trunc('month', transaction_date), 'YYYY-MM') AS month, COUNT(*), COALESCE(SUM(total_amount), 0)
        FROM transactions
        GROUP BY month
        ORDER BY month`
	return r.queryMonthly(ctx, query)
}

func (r *statisticsRepository) MonthlyInquiries(ctx context.Context) ([]domain.MonthlyPoint, error) {
	const query = `
        SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*), 0::numeric
        FROM property_inquiries
        GROUP BY month
        ORDER BY month`
	return r.queryMonthly(ctx, query)
}

func (r *statisticsRepository) queryMonthly(ctx context.Context, query string) ([]domain.MonthlyPoint, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.MonthlyPoint{}
	for rows.Next() {
		var point domain.MonthlyPoint
		if err := rows.Scan(&point.Month, &point.Count, &point.Total); err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	return result, rows.Err()
}

func (r *statisticsRepository) DealAmounts(ctx context.Context) ([]domain.DealAmount, error) {
	const query = `
        SELECT t.total_amount, COALESCE(s.service_fee, 0)
        FROM transactions t
        JOIN properties p ON p.id = t.property_id
        LEFT JOIN property_services s ON s.id = p.service_id
        ORDER BY t.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.DealAmount{}
	for rows.Next() {
		var deal domain.DealAmount
		if err := rows.Scan(&deal.Total, &deal.Fee); err != nil {
			return nil, err
		}
		result = append(result, deal)
	}
	return result, rows.Err()
}

// ServicePerformance ranks services with at least one closed deal by revenue.
func (r *statisticsRepository) ServicePerformance(ctx context.Context) ([]domain.ServicePerformance, error) {
	const query = `
        SELECT s.id, s.title, COUNT(t.id), COALESCE(SUM(t.total_amount), 0), COALESCE(SUM(s.service_fee), 0)
        FROM property_services s
        JOIN properties p ON p.service_id = s.id
        JOIN transactions t ON t.property_id = p.id
        GROUP BY s.id
        ORDER BY SUM(t.total_amount) DESC, s.title, s.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ServicePerformance{}
	for rows.Next() {
		var perf domain.ServicePerformance
		if err := rows.Scan(&perf.ServiceID, &perf.Title, &perf.Deals, &perf.Revenue, &perf.FeeRevenue); err != nil {
			return nil, err
		}
		result = append(result, perf)
	}
	return result, rows.Err()
}

// EmployeePerformance ranks agents by revenue of deals closed since the given time.
func (r *statisticsRepository) EmployeePerformance(ctx context.Context, since time.Time) ([]domain.EmployeePerformance, error) {
	const query = `
        SELECT e.id, u.username, COUNT(t.id), COALESCE(SUM(t.total_amount), 0),
               COALESCE(SUM(s.service_fee), 0), COALESCE(ROUND(AVG(t.total_amount), 2), 0)
        FROM employees e
        JOIN users u ON u.id = e.user_id
        JOIN transactions t ON t.agent_id = e.id AND t.transaction_date >= $1::date
        JOIN properties p ON p.id = t.property_id
        LEFT JOIN property_services s ON s.id = p.service_id
        GROUP BY e.id, u.username
        ORDER BY SUM(t.total_amount) DESC, u.username, e.id`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.EmployeePerformance{}
	for rows.Next() {
		var perf domain.EmployeePerformance
		if err := rows.Scan(&perf.EmployeeID, &perf.Username, &perf.Deals, &perf.Revenue, &perf.FeeRevenue, &perf.AvgDeal); err != nil {
			return nil, err
		}
		result = append(result, perf)
	}
	return result, rows.Err()
}

func (r *statisticsRepository) ClientBirthDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, `SELECT birth_date FROM clients WHERE birth_date IS NOT NULL ORDER BY birth_date`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[time.Time])
}
