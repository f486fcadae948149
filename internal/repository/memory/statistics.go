package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/domain"
)

type statisticsRepo struct{ s *Store }

func (r *statisticsRepo) PropertyStats(_ context.Context) (domain.PropertyStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	stats := domain.PropertyStats{}
	sum := decimal.Zero
	for _, property := range d.properties {
		if stats.Total == 0 || property.Price.LessThan(stats.MinPrice) {
			stats.MinPrice = property.Price
		}
		if stats.Total == 0 || property.Price.GreaterThan(stats.MaxPrice) {
			stats.MaxPrice = property.Price
		}
		stats.Total++
		sum = sum.Add(property.Price)
		if !d.propertySold(property.ID) {
			stats.ActiveListings++
		}
	}
	stats.AvgPrice = mean(sum, stats.Total)
	return stats, nil
}

func (r *statisticsRepo) TransactionStats(_ context.Context, since time.Time) (domain.TransactionStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cutoff := truncateDay(since)
	stats := domain.TransactionStats{TotalRevenue: decimal.Zero}
	for _, txn := range r.s.data.transactions {
		stats.Total++
		stats.TotalRevenue = stats.TotalRevenue.Add(txn.TotalAmount)
		if !txn.TransactionDate.Before(cutoff) {
			stats.RecentCount++
		}
	}
	stats.AvgValue = mean(stats.TotalRevenue, stats.Total)
	return stats, nil
}

func (r *statisticsRepo) MonthlyTransactions(_ context.Context) ([]domain.MonthlyPoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	buckets := map[string]*domain.MonthlyPoint{}
	for _, txn := range r.s.data.transactions {
		point := bucket(buckets, txn.TransactionDate)
		point.Count++
		point.Total = point.Total.Add(txn.TotalAmount)
	}
	return sortedBuckets(buckets), nil
}

func (r *statisticsRepo) MonthlyInquiries(_ context.Context) ([]domain.MonthlyPoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	buckets := map[string]*domain.MonthlyPoint{}
	for _, inquiry := range r.s.data.inquiries {
		bucket(buckets, inquiry.CreatedAt).Count++
	}
	return sortedBuckets(buckets), nil
}

func (r *statisticsRepo) DealAmounts(_ context.Context) ([]domain.DealAmount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	txns := values(d.transactions)
	sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })

	result := []domain.DealAmount{}
	for _, txn := range txns {
		result = append(result, domain.DealAmount{Total: txn.TotalAmount, Fee: d.feeFor(txn.PropertyID)})
	}
	return result, nil
}

// ServicePerformance ranks services with at least one closed deal by revenue.
func (r *statisticsRepo) ServicePerformance(_ context.Context) ([]domain.ServicePerformance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	byService := map[string]*domain.ServicePerformance{}
	for _, txn := range d.transactions {
		property, ok := d.properties[txn.PropertyID]
		if !ok || property.ServiceID == nil {
			continue
		}
		svc, ok := d.services[*property.ServiceID]
		if !ok {
			continue
		}
		perf, ok := byService[svc.ID]
		if !ok {
			perf = &domain.ServicePerformance{ServiceID: svc.ID, Title: svc.Title, Revenue: decimal.Zero, FeeRevenue: decimal.Zero}
			byService[svc.ID] = perf
		}
		perf.Deals++
		perf.Revenue = perf.Revenue.Add(txn.TotalAmount)
		perf.FeeRevenue = perf.FeeRevenue.Add(svc.ServiceFee)
	}

	result := make([]domain.ServicePerformance, 0, len(byService))
	for _, perf := range byService {
		result = append(result, *perf)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ServiceID < b.ServiceID
	})
	return result, nil
}

// EmployeePerformance ranks agents by revenue of deals closed since the given time.
func (r *statisticsRepo) EmployeePerformance(_ context.Context, since time.Time) ([]domain.EmployeePerformance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	cutoff := truncateDay(since)
	byAgent := map[string]*domain.EmployeePerformance{}
	for _, txn := range d.transactions {
		if txn.AgentID == nil || txn.TransactionDate.Before(cutoff) {
			continue
		}
		employee, ok := d.employees[*txn.AgentID]
		if !ok {
			continue
		}
		perf, ok := byAgent[employee.ID]
		if !ok {
			perf = &domain.EmployeePerformance{EmployeeID: employee.ID, Revenue: decimal.Zero, FeeRevenue: decimal.Zero}
			if user, ok := d.users[employee.UserID]; ok {
				perf.Username = user.Username
			}
			byAgent[employee.ID] = perf
		}
		perf.Deals++
		perf.Revenue = perf.Revenue.Add(txn.TotalAmount)
		perf.FeeRevenue = perf.FeeRevenue.Add(d.feeFor(txn.PropertyID))
	}

	result := make([]domain.EmployeePerformance, 0, len(byAgent))
	for _, perf := range byAgent {
		perf.AvgDeal = mean(perf.Revenue, perf.Deals)
		result = append(result, *perf)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		return a.EmployeeID < b.EmployeeID
	})
	return result, nil
}

func (r *statisticsRepo) ClientBirthDates(_ context.Context) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []time.Time
	for _, client := range r.s.data.clients {
		if client.BirthDate != nil {
			result = append(result, *client.BirthDate)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

func (d *dataset) feeFor(propertyID string) decimal.Decimal {
	property, ok := d.properties[propertyID]
	if !ok || property.ServiceID == nil {
		return decimal.Zero
	}
	if svc, ok := d.services[*property.ServiceID]; ok {
		return svc.ServiceFee
	}
	return decimal.Zero
}

func mean(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(domain.MoneyPlaces)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func bucket(buckets map[string]*domain.MonthlyPoint, at time.Time) *domain.MonthlyPoint {
	month := at.UTC().Format("2006-01")
	point, ok := buckets[month]
	if !ok {
		point = &domain.MonthlyPoint{Month: month, Total: decimal.Zero}
		buckets[month] = point
	}
	return point
}

func sortedBuckets(buckets map[string]*domain.MonthlyPoint) []domain.MonthlyPoint {
	result := make([]domain.MonthlyPoint, 0, len(buckets))
	for _, point := range buckets {
		result = append(result, *point)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}
