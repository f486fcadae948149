package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// PropertyTypeRepository persists property taxonomy.
type PropertyTypeRepository interface {
	Create(ctx context.Context, pt *domain.PropertyType) error
	Update(ctx context.Context, pt *domain.PropertyType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.PropertyType, error)
	List(ctx context.Context) ([]domain.PropertyType, error)
}

type propertyTypeRepository struct {
	db DBTX
}

// NewPropertyTypeRepository instantiates the repository.
func NewPropertyTypeRepository(db DBTX) PropertyTypeRepository {
	return &propertyTypeRepository{db: db}
}

func (r *propertyTypeRepository) Create(ctx context.Context, pt *domain.PropertyType) error {
	const query = `INSERT INTO property_types (title, description) VALUES ($1,$2) RETURNING id`
	return r.db.QueryRow(ctx, query, pt.Title, pt.Description).Scan(&pt.ID)
}

func (r *propertyTypeRepository) Update(ctx context.Context, pt *domain.PropertyType) error {
	cmd, err := r.db.Exec(ctx, `UPDATE property_types SET title=$1, description=$2 WHERE id=$3`, pt.Title, pt.Description, pt.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM property_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyTypeRepository) GetByID(ctx context.Context, id string) (*domain.PropertyType, error) {
	var pt domain.PropertyType
	if err := r.db.QueryRow(ctx, `SELECT id, title, description FROM property_types WHERE id=$1`, id).
		Scan(&pt.ID, &pt.Title, &pt.Description); err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *propertyTypeRepository) List(ctx context.Context) ([]domain.PropertyType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description FROM property_types ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PropertyType
	for rows.Next() {
		var pt domain.PropertyType
		if err := rows.Scan(&pt.ID, &pt.Title, &pt.Description); err != nil {
			return nil, err
		}
		result = append(result, pt)
	}
	return result, rows.Err()
}
