package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

type inquiryRepo struct{ s *Store }

func (r *inquiryRepo) Create(_ context.Context, inquiry *domain.PropertyInquiry) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.properties[inquiry.PropertyID]; !ok {
		return fmt.Errorf("property_inquiries.property_id %q: unknown property", inquiry.PropertyID)
	}
	if _, ok := d.clients[inquiry.BuyerID]; !ok {
		return fmt.Errorf("property_inquiries.buyer_id %q: unknown client", inquiry.BuyerID)
	}
	for _, existing := range d.inquiries {
		if existing.PropertyID == inquiry.PropertyID && existing.BuyerID == inquiry.BuyerID {
			return fmt.Errorf("property_inquiries_property_buyer_key: %w", repository.ErrUniqueViolation)
		}
	}
	if inquiry.State == "" {
		inquiry.State = domain.InquiryStatePending
	}
	inquiry.ID = d.newID()
	inquiry.CreatedAt = r.s.stamp()
	inquiry.UpdatedAt = inquiry.CreatedAt
	d.inquiries[inquiry.ID] = bareInquiry(*inquiry)
	return nil
}

func (r *inquiryRepo) Exists(_ context.Context, propertyID, buyerID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inquiry := range r.s.data.inquiries {
		if inquiry.PropertyID == propertyID && inquiry.BuyerID == buyerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *inquiryRepo) GetByID(_ context.Context, id string) (*domain.PropertyInquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inquiry, ok := r.s.data.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateInquiry(inquiry), nil
}

// GetForUpdate returns the bare row; WithinTx already serializes writers.
func (r *inquiryRepo) GetForUpdate(_ context.Context, id string) (*domain.PropertyInquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inquiry, ok := r.s.data.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &inquiry, nil
}

func (r *inquiryRepo) UpdateState(_ context.Context, id string, state domain.InquiryState) error {
	r.s.lock()
	defer r.s.unlock()
	inquiry, ok := r.s.data.inquiries[id]
	if !ok {
		return pgx.ErrNoRows
	}
	inquiry.State = state
	inquiry.UpdatedAt = r.s.stamp()
	r.s.data.inquiries[id] = inquiry
	return nil
}

func (r *inquiryRepo) ListByBuyer(_ context.Context, buyerID string) ([]domain.PropertyInquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	var result []domain.PropertyInquiry
	for _, inquiry := range d.inquiries {
		if inquiry.BuyerID == buyerID {
			result = append(result, *d.hydrateInquiry(inquiry))
		}
	}
	sortNewestFirst(d, result,
		func(i domain.PropertyInquiry) time.Time { return i.CreatedAt },
		func(i domain.PropertyInquiry) string { return i.ID })
	return result, nil
}

func (r *inquiryRepo) ListActiveByAgent(_ context.Context, agentID string) ([]domain.PropertyInquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	var result []domain.PropertyInquiry
	for _, inquiry := range d.inquiries {
		if inquiry.AgentID != nil && *inquiry.AgentID == agentID && inquiry.IsActive() {
			result = append(result, *d.hydrateInquiry(inquiry))
		}
	}
	sortNewestFirst(d, result,
		func(i domain.PropertyInquiry) time.Time { return i.CreatedAt },
		func(i domain.PropertyInquiry) string { return i.ID })
	reverse(result)
	return result, nil
}

type transactionRepo struct{ s *Store }

// Create stores the transaction and stamps both dates with the current day.
func (r *transactionRepo) Create(_ context.Context, txn *domain.Transaction) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.properties[txn.PropertyID]; !ok {
		return fmt.Errorf("transactions.property_id %q: unknown property", txn.PropertyID)
	}
	if d.propertySold(txn.PropertyID) {
		return fmt.Errorf("transactions_property_id_key: %w", repository.ErrUniqueViolation)
	}
	txn.ID = d.newID()
	txn.ContractDate = r.s.today()
	txn.TransactionDate = txn.ContractDate
	txn.TotalAmount = txn.TotalAmount.Round(domain.MoneyPlaces)
	d.transactions[txn.ID] = bareTransaction(*txn)
	return nil
}

// Update rewrites the parties and the total; dates are never touched.
func (r *transactionRepo) Update(_ context.Context, txn *domain.Transaction) error {
	r.s.lock()
	defer r.s.unlock()
	existing, ok := r.s.data.transactions[txn.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.BuyerID = txn.BuyerID
	existing.AgentID = txn.AgentID
	existing.TotalAmount = txn.TotalAmount.Round(domain.MoneyPlaces)
	r.s.data.transactions[txn.ID] = existing
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	txn, ok := r.s.data.transactions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateTransaction(txn), nil
}

func (r *transactionRepo) ListByBuyer(_ context.Context, buyerID string) ([]domain.Transaction, error) {
	return r.list(func(t domain.Transaction) bool { return t.BuyerID != nil && *t.BuyerID == buyerID }, 0, 0)
}

func (r *transactionRepo) ListByAgent(_ context.Context, agentID string) ([]domain.Transaction, error) {
	return r.list(func(t domain.Transaction) bool { return t.AgentID != nil && *t.AgentID == agentID }, 0, 0)
}

func (r *transactionRepo) List(_ context.Context, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.list(func(domain.Transaction) bool { return true }, limit, offset)
}

func (r *transactionRepo) list(keep func(domain.Transaction) bool, limit, offset int) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	var result []domain.Transaction
	for _, txn := range d.transactions {
		if keep(txn) {
			result = append(result, *d.hydrateTransaction(txn))
		}
	}
	sortNewestFirst(d, result,
		func(t domain.Transaction) time.Time { return t.TransactionDate },
		func(t domain.Transaction) string { return t.ID })
	if limit == 0 {
		return result, nil
	}
	return page(result, limit, offset, limit), nil
}

func bareInquiry(inquiry domain.PropertyInquiry) domain.PropertyInquiry {
	inquiry.Property = nil
	inquiry.Buyer = nil
	inquiry.Agent = nil
	return inquiry
}

func bareTransaction(txn domain.Transaction) domain.Transaction {
	txn.Property = nil
	txn.Buyer = nil
	txn.Agent = nil
	return txn
}

func (d *dataset) hydrateInquiry(inquiry domain.PropertyInquiry) *domain.PropertyInquiry {
	if property, ok := d.properties[inquiry.PropertyID]; ok {
		inquiry.Property = d.hydrateProperty(property)
	}
	if client, ok := d.clients[inquiry.BuyerID]; ok {
		inquiry.Buyer = d.hydrateClient(client)
	}
	if inquiry.AgentID != nil {
		if employee, ok := d.employees[*inquiry.AgentID]; ok {
			inquiry.Agent = d.hydrateEmployee(employee)
		}
	}
	return &inquiry
}

func (d *dataset) hydrateTransaction(txn domain.Transaction) *domain.Transaction {
	if property, ok := d.properties[txn.PropertyID]; ok {
		txn.Property = d.hydrateProperty(property)
	}
	if txn.BuyerID != nil {
		if client, ok := d.clients[*txn.BuyerID]; ok {
			txn.Buyer = d.hydrateClient(client)
		}
	}
	if txn.AgentID != nil {
		if employee, ok := d.employees[*txn.AgentID]; ok {
			txn.Agent = d.hydrateEmployee(employee)
		}
	}
	return &txn
}

func reverse[V any](items []V) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
