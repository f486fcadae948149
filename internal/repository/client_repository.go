package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// ClientRepository handles persistence for client profiles.
type ClientRepository interface {
	CreateIfMissing(ctx context.Context, client *domain.Client) (bool, error)
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Client, error)
	ListActiveByAgent(ctx context.Context, agentID string) ([]domain.Client, error)
}

type clientRepository struct {
	db DBTX
}

// NewClientRepository instantiates the repository.
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

const clientSelect = `
        SELECT c.id, c.user_id, c.preferences, c.budget_range, c.phone_number, c.address, c.birth_date,
               c.created_at, c.updated_at,
               COALESCE(ARRAY(SELECT p.property_type_id::text FROM client_preferred_property_types p WHERE p.client_id = c.id ORDER BY 1), '{}'),
               u.username, u.email, u.first_name, u.last_name, u.role
        FROM clients c JOIN users u ON u.id = c.user_id`

func (r *clientRepository) CreateIfMissing(ctx context.Context, client *domain.Client) (bool, error) {
	const query = `
        INSERT INTO clients (user_id, preferences, budget_range, phone_number, address, birth_date)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id) DO NOTHING
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		client.UserID,
		client.Preferences,
		client.BudgetRange,
		client.PhoneNumber,
		client.Address,
		client.BirthDate,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, r.replacePreferredTypes(ctx, client)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients
        SET preferences=$1, budget_range=$2, phone_number=$3, address=$4, birth_date=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		client.Preferences,
		client.BudgetRange,
		client.PhoneNumber,
		client.Address,
		client.BirthDate,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return r.replacePreferredTypes(ctx, client)
}

func (r *clientRepository) replacePreferredTypes(ctx context.Context, client *domain.Client) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM client_preferred_property_types WHERE client_id=$1`, client.ID); err != nil {
		return err
	}
	for _, typeID := range client.PreferredPropertyTypes {
		const query = `
            INSERT INTO client_preferred_property_types (client_id, property_type_id)
            VALUES ($1,$2) ON CONFLICT DO NOTHING`
		if _, err := r.db.Exec(ctx, query, client.ID, typeID); err != nil {
			return err
		}
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return scanClient(r.db.QueryRow(ctx, clientSelect+` WHERE c.id=$1`, id))
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID string) (*domain.Client, error) {
	return scanClient(r.db.QueryRow(ctx, clientSelect+` WHERE c.user_id=$1`, userID))
}

// ListActiveByAgent returns the distinct clients holding active inquiries assigned to agentID.
func (r *clientRepository) ListActiveByAgent(ctx context.Context, agentID string) ([]domain.Client, error) {
	query := clientSelect + `
        WHERE c.id IN (
            SELECT i.buyer_id FROM property_inquiries i
            WHERE i.agent_id=$1 AND i.state IN ('pending', 'processing'))
        ORDER BY u.username`

	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		client domain.Client
		user   domain.User
	)
	if err := row.Scan(
		&client.ID, &client.UserID, &client.Preferences, &client.BudgetRange, &client.PhoneNumber,
		&client.Address, &client.BirthDate, &client.CreatedAt, &client.UpdatedAt,
		&client.PreferredPropertyTypes,
		&user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Role,
	); err != nil {
		return nil, err
	}
	user.ID = client.UserID
	client.User = &user
	return &client, nil
}
