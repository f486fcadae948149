package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// ServiceTypeRepository persists service taxonomy.
type ServiceTypeRepository interface {
	Create(ctx context.Context, st *domain.ServiceType) error
	Update(ctx context.Context, st *domain.ServiceType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ServiceType, error)
	List(ctx context.Context) ([]domain.ServiceType, error)
}

type serviceTypeRepository struct {
	db DBTX
}

// NewServiceTypeRepository instantiates the repository.
func NewServiceTypeRepository(db DBTX) ServiceTypeRepository {
	return &serviceTypeRepository{db: db}
}

func (r *serviceTypeRepository) Create(ctx context.Context, st *domain.ServiceType) error {
	return r.db.QueryRow(ctx, `INSERT INTO service_types (title) VALUES ($1) RETURNING id`, st.Title).Scan(&st.ID)
}

func (r *serviceTypeRepository) Update(ctx context.Context, st *domain.ServiceType) error {
	cmd, err := r.db.Exec(ctx, `UPDATE service_types SET title=$1 WHERE id=$2`, st.Title, st.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the type and, through the cascade, its services.
func (r *serviceTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM service_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceTypeRepository) GetByID(ctx context.Context, id string) (*domain.ServiceType, error) {
	var st domain.ServiceType
	if err := r.db.QueryRow(ctx, `SELECT id, title FROM service_types WHERE id=$1`, id).Scan(&st.ID, &st.Title); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceTypeRepository) List(ctx context.Context) ([]domain.ServiceType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title FROM service_types ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceType
	for rows.Next() {
		var st domain.ServiceType
		if err := rows.Scan(&st.ID, &st.Title); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}
