package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// ServiceFilter captures catalog service search parameters.
type ServiceFilter struct {
	ServiceTypeID *string
	MinFee        *decimal.Decimal
	MaxFee        *decimal.Decimal
}

// PropertyServiceRepository persists property services.
type PropertyServiceRepository interface {
	Create(ctx context.Context, svc *domain.PropertyService) error
	Update(ctx context.Context, svc *domain.PropertyService) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.PropertyService, error)
	List(ctx context.Context, filter ServiceFilter) ([]domain.PropertyService, error)
	ListTopByPropertyCount(ctx context.Context, limit int) ([]domain.PropertyService, error)
}

type propertyServiceRepository struct {
	db DBTX
}

// NewPropertyServiceRepository instantiates the repository.
func NewPropertyServiceRepository(db DBTX) PropertyServiceRepository {
	return &propertyServiceRepository{db: db}
}

const serviceSelect = `
        SELECT s.id, s.title, s.service_type_id, s.service_fee, st.title
        FROM property_services s JOIN service_types st ON st.id = s.service_type_id`

func (r *propertyServiceRepository) Create(ctx context.Context, svc *domain.PropertyService) error {
	const query = `
        INSERT INTO property_services (title, service_type_id, service_fee)
        VALUES ($1,$2,$3) RETURNING id`
	return r.db.QueryRow(ctx, query, svc.Title, svc.ServiceTypeID, svc.ServiceFee).Scan(&svc.ID)
}

func (r *propertyServiceRepository) Update(ctx context.Context, svc *domain.PropertyService) error {
	const query = `UPDATE property_services SET title=$1, service_type_id=$2, service_fee=$3 WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query, svc.Title, svc.ServiceTypeID, svc.ServiceFee, svc.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the service; linked properties keep existing with no service.
func (r *propertyServiceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM property_services WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyServiceRepository) GetByID(ctx context.Context, id string) (*domain.PropertyService, error) {
	return scanService(r.db.QueryRow(ctx, serviceSelect+` WHERE s.id=$1`, id))
}

func (r *propertyServiceRepository) List(ctx context.Context, filter ServiceFilter) ([]domain.PropertyService, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ServiceTypeID != nil {
		args = append(args, *filter.ServiceTypeID)
		clauses = append(clauses, fmt.Sprintf("s.service_type_id=$%d", len(args)))
	}
	if filter.MinFee != nil {
		args = append(args, *filter.MinFee)
		clauses = append(clauses, fmt.Sprintf("s.service_fee >= $%d", len(args)))
	}
	if filter.MaxFee != nil {
		args = append(args, *filter.MaxFee)
		clauses = append(clauses, fmt.Sprintf("s.service_fee <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY st.title, s.title, s.id`, serviceSelect, strings.Join(clauses, " AND "))
	return r.queryServices(ctx, query, args...)
}

// ListTopByPropertyCount returns the services linked to the most properties.
func (r *propertyServiceRepository) ListTopByPropertyCount(ctx context.Context, limit int) ([]domain.PropertyService, error) {
	if limit <= 0 {
		limit = 4
	}
	query := fmt.Sprintf(`
        SELECT s.id, s.title, s.service_type_id, s.service_fee, st.title
        FROM property_services s
        JOIN service_types st ON st.id = s.service_type_id
        LEFT JOIN properties p ON p.service_id = s.id
        GROUP BY s.id, st.id
        ORDER BY COUNT(p.id) DESC, s.title, s.id
        LIMIT %d`, limit)
	return r.queryServices(ctx, query)
}

func (r *propertyServiceRepository) queryServices(ctx context.Context, query string, args ...any) ([]domain.PropertyService, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PropertyService
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *svc)
	}
	return result, rows.Err()
}

func scanService(row pgx.Row) (*domain.PropertyService, error) {
	var (
		svc       domain.PropertyService
		typeTitle string
	)
	if err := row.Scan(&svc.ID, &svc.Title, &svc.ServiceTypeID, &svc.ServiceFee, &typeTitle); err != nil {
		return nil, err
	}
	svc.ServiceType = &domain.ServiceType{ID: svc.ServiceTypeID, Title: typeTitle}
	return &svc, nil
}
