package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// TransactionRepository persists the ledger.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	Update(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]domain.Transaction, error)
}

type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository instantiates the repository.
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionSelect = `
        SELECT t.id, t.property_id, t.buyer_id, t.agent_id, t.contract_date, t.transaction_date, t.total_amount,
               p.price, p.area, p.details, p.location, p.photo,
               bu.id, bu.username, bu.first_name, bu.last_name,
               au.id, au.username, au.first_name, au.last_name
        FROM transactions t
        JOIN properties p ON p.id = t.property_id
        LEFT JOIN clients b ON b.id = t.buyer_id
        LEFT JOIN users bu ON bu.id = b.user_id
        LEFT JOIN employees a ON a.id = t.agent_id
        LEFT JOIN users au ON au.id = a.user_id`

// Create inserts the transaction; both dates are stamped by the database.
func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (property_id, buyer_id, agent_id, total_amount)
        VALUES ($1,$2,$3,$4)
        RETURNING id, contract_date, transaction_date`
	return r.db.QueryRow(ctx, query,
		txn.PropertyID,
		txn.BuyerID,
		txn.AgentID,
		txn.TotalAmount,
	).Scan(&txn.ID, &txn.ContractDate, &txn.TransactionDate)
}

// Update rewrites the parties and the total; dates are never touched.
func (r *transactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	const query = `UPDATE transactions SET buyer_id=$1, agent_id=$2, total_amount=$3 WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query, txn.BuyerID, txn.AgentID, txn.TotalAmount, txn.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return scanTransaction(r.db.QueryRow(ctx, transactionSelect+` WHERE t.id=$1`, id))
}

func (r *transactionRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, transactionSelect+` WHERE t.buyer_id=$1 ORDER BY t.created_at DESC, t.id`, buyerID)
}

func (r *transactionRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, transactionSelect+` WHERE t.agent_id=$1 ORDER BY t.created_at DESC, t.id`, agentID)
}

func (r *transactionRepository) List(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	limit, offset = normalizeLimit(limit, offset, 20)
	query := fmt.Sprintf(`%s ORDER BY t.created_at DESC, t.id LIMIT %d OFFSET %d`, transactionSelect, limit, offset)
	return r.queryTransactions(ctx, query)
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *txn)
	}
	return result, rows.Err()
}

type partyColumns struct {
	ID, Username, FirstName, LastName *string
}

func (p partyColumns) user(role domain.Role) *domain.User {
	if p.ID == nil {
		return nil
	}
	return &domain.User{
		ID:        *p.ID,
		Username:  deref(p.Username),
		FirstName: deref(p.FirstName),
		LastName:  deref(p.LastName),
		Role:      role,
	}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn      domain.Transaction
		property domain.Property
		buyer    partyColumns
		agent    partyColumns
	)
	if err := row.Scan(
		&txn.ID, &txn.PropertyID, &txn.BuyerID, &txn.AgentID, &txn.ContractDate, &txn.TransactionDate, &txn.TotalAmount,
		&property.Price, &property.Area, &property.Details, &property.Location, &property.Photo,
		&buyer.ID, &buyer.Username, &buyer.FirstName, &buyer.LastName,
		&agent.ID, &agent.Username, &agent.FirstName, &agent.LastName,
	); err != nil {
		return nil, err
	}
	property.ID = txn.PropertyID
	property.Sold = true
	txn.Property = &property
	if txn.BuyerID != nil {
		if u := buyer.user(domain.RoleClient); u != nil {
			txn.Buyer = &domain.Client{ID: *txn.BuyerID, UserID: u.ID, User: u}
		}
	}
	if txn.AgentID != nil {
		if u := agent.user(domain.RoleEmployee); u != nil {
			txn.Agent = &domain.Employee{ID: *txn.AgentID, UserID: u.ID, User: u}
		}
	}
	return &txn, nil
}
