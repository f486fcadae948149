package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// InquiryRepository persists property inquiries.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.PropertyInquiry) error
	Exists(ctx context.Context, propertyID, buyerID string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.PropertyInquiry, error)
	GetForUpdate(ctx context.Context, id string) (*domain.PropertyInquiry, error)
	UpdateState(ctx context.Context, id string, state domain.InquiryState) error
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.PropertyInquiry, error)
	ListActiveByAgent(ctx context.Context, agentID string) ([]domain.PropertyInquiry, error)
}

type inquiryRepository struct {
	db DBTX
}

// NewInquiryRepository instantiates the repository.
func NewInquiryRepository(db DBTX) InquiryRepository {
	return &inquiryRepository{db: db}
}

const inquirySelect = `
        SELECT i.id, i.property_id, i.buyer_id, i.agent_id, i.inquiry_text, i.state, i.created_at, i.updated_at,
               p.price, p.area, p.details, p.location, p.photo,
               bu.id, bu.username, bu.email, bu.first_name, bu.last_name,
               au.id, au.username, au.first_name, au.last_name
        FROM property_inquiries i
        JOIN properties p ON p.id = i.property_id
        JOIN clients b ON b.id = i.buyer_id
        JOIN users bu ON bu.id = b.user_id
        LEFT JOIN employees a ON a.id = i.agent_id
        LEFT JOIN users au ON au.id = a.user_id`

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.PropertyInquiry) error {
	const query = `
        INSERT INTO property_inquiries (property_id, buyer_id, agent_id, inquiry_text, state)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		inquiry.PropertyID,
		inquiry.BuyerID,
		inquiry.AgentID,
		inquiry.InquiryText,
		inquiry.State,
	).Scan(&inquiry.ID, &inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) Exists(ctx context.Context, propertyID, buyerID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM property_inquiries WHERE property_id=$1 AND buyer_id=$2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, propertyID, buyerID).Scan(&exists)
	return exists, err
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.PropertyInquiry, error) {
	return scanInquiry(r.db.QueryRow(ctx, inquirySelect+` WHERE i.id=$1`, id))
}

// GetForUpdate loads the bare inquiry row and locks it until the transaction ends.
func (r *inquiryRepository) GetForUpdate(ctx context.Context, id string) (*domain.PropertyInquiry, error) {
	const query = `
        SELECT id, property_id, buyer_id, agent_id, inquiry_text, state, created_at, updated_at
        FROM property_inquiries WHERE id=$1 FOR UPDATE`
	var inquiry domain.PropertyInquiry
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&inquiry.ID,
		&inquiry.PropertyID,
		&inquiry.BuyerID,
		&inquiry.AgentID,
		&inquiry.InquiryText,
		&inquiry.State,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) UpdateState(ctx context.Context, id string, state domain.InquiryState) error {
	cmd, err := r.db.Exec(ctx, `UPDATE property_inquiries SET state=$1, updated_at=NOW() WHERE id=$2`, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.PropertyInquiry, error) {
	return r.queryInquiries(ctx, inquirySelect+` WHERE i.buyer_id=$1 ORDER BY i.created_at DESC, i.id`, buyerID)
}

func (r *inquiryRepository) ListActiveByAgent(ctx context.Context, agentID string) ([]domain.PropertyInquiry, error) {
	query := inquirySelect + ` WHERE i.agent_id=$1 AND i.state IN ('pending', 'processing') ORDER BY i.created_at, i.id`
	return r.queryInquiries(ctx, query, agentID)
}

func (r *inquiryRepository) queryInquiries(ctx context.Context, query string, args ...any) ([]domain.PropertyInquiry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PropertyInquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inquiry)
	}
	return result, rows.Err()
}

func scanInquiry(row pgx.Row) (*domain.PropertyInquiry, error) {
	var (
		inquiry   domain.PropertyInquiry
		property  domain.Property
		buyer     domain.User
		agentUser partyColumns
	)
	if err := row.Scan(
		&inquiry.ID, &inquiry.PropertyID, &inquiry.BuyerID, &inquiry.AgentID, &inquiry.InquiryText,
		&inquiry.State, &inquiry.CreatedAt, &inquiry.UpdatedAt,
		&property.Price, &property.Area, &property.Details, &property.Location, &property.Photo,
		&buyer.ID, &buyer.Username, &buyer.Email, &buyer.FirstName, &buyer.LastName,
		&agentUser.ID, &agentUser.Username, &agentUser.FirstName, &agentUser.LastName,
	); err != nil {
		return nil, err
	}
	property.ID = inquiry.PropertyID
	inquiry.Property = &property
	buyer.Role = domain.RoleClient
	inquiry.Buyer = &domain.Client{ID: inquiry.BuyerID, UserID: buyer.ID, User: &buyer}
	if inquiry.AgentID != nil {
		if u := agentUser.user(domain.RoleEmployee); u != nil {
			inquiry.Agent = &domain.Employee{ID: *inquiry.AgentID, UserID: u.ID, User: u}
		}
	}
	return &inquiry, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
