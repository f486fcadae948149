package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// PropertySort enumerates listing orders.
type PropertySort string

const (
	SortPriceAsc  PropertySort = "price_asc"
	SortPriceDesc PropertySort = "price_desc"
	SortAreaAsc   PropertySort = "area_asc"
	SortAreaDesc  PropertySort = "area_desc"
)

var propertyOrderBy = map[PropertySort]string{
	SortPriceAsc:  "p.price ASC, p.id",
	SortPriceDesc: "p.price DESC, p.id",
	SortAreaAsc:   "p.area ASC, p.id",
	SortAreaDesc:  "p.area DESC, p.id",
}

// ValidSort reports whether s is a known order.
func ValidSort(s PropertySort) bool {
	_, ok := propertyOrderBy[s]
	return ok
}

// PropertyFilter captures listing search parameters.
type PropertyFilter struct {
	SearchTerm     *string
	ServiceID      *string
	ServiceTypeID  *string
	PropertyTypeID *string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	Sort           PropertySort
	IncludeSold    bool
	Limit          int
	Offset         int
}

// PropertyRepository persists catalog listings.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int, error)
	ListNewest(ctx context.Context, limit int) ([]domain.Property, error)
}

type propertyRepository struct {
	db DBTX
}

// NewPropertyRepository instantiates the repository.
func NewPropertyRepository(db DBTX) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyFrom = `
        FROM properties p
        LEFT JOIN property_services s ON s.id = p.service_id
        LEFT JOIN service_types st ON st.id = s.service_type_id`

const propertyColumns = `
        SELECT p.id, p.price, p.area, p.service_id, p.property_type_id, p.details, p.location, p.photo, p.created_at,
               s.title, s.service_type_id, s.service_fee, st.title,
               EXISTS (SELECT 1 FROM transactions t WHERE t.property_id = p.id)`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (price, area, service_id, property_type_id, details, location, photo)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		property.Price,
		property.Area,
		property.ServiceID,
		property.PropertyTypeID,
		property.Details,
		property.Location,
		property.Photo,
	).Scan(&property.ID, &property.CreatedAt)
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	const query = `
        UPDATE properties SET price=$1, area=$2, service_id=$3, property_type_id=$4, details=$5, location=$6, photo=$7
        WHERE id=$8`
	cmd, err := r.db.Exec(ctx, query,
		property.Price,
		property.Area,
		property.ServiceID,
		property.PropertyTypeID,
		property.Details,
		property.Location,
		property.Photo,
		property.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	return scanProperty(r.db.QueryRow(ctx, propertyColumns+propertyFrom+` WHERE p.id=$1`, id))
}

// List returns one page of properties matching filter and the total match count.
func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeSold {
		clauses = append(clauses, "NOT EXISTS (SELECT 1 FROM transactions t WHERE t.property_id = p.id)")
	}
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		clauses = append(clauses, fmt.Sprintf("p.service_id=$%d", len(args)))
	}
	if filter.ServiceTypeID != nil {
		args = append(args, *filter.ServiceTypeID)
		clauses = append(clauses, fmt.Sprintf("s.service_type_id=$%d", len(args)))
	}
	if filter.PropertyTypeID != nil {
		args = append(args, *filter.PropertyTypeID)
		clauses = append(clauses, fmt.Sprintf("p.property_type_id=$%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.location) LIKE %s OR LOWER(p.details) LIKE %s OR LOWER(COALESCE(s.title, '')) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) `+propertyFrom+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := propertyOrderBy[filter.Sort]
	if !ok {
		orderBy = propertyOrderBy[SortPriceDesc]
	}
	limit, offset := normalizeLimit(filter.Limit, filter.Offset, 9)
	query := fmt.Sprintf(`%s %s WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		propertyColumns, propertyFrom, where, orderBy, limit, offset)

	result, err := r.queryProperties(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListNewest returns the most recently listed available properties.
func (r *propertyRepository) ListNewest(ctx context.Context, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf(`%s %s
        WHERE NOT EXISTS (SELECT 1 FROM transactions t WHERE t.property_id = p.id)
        ORDER BY p.created_at DESC, p.id LIMIT %d`, propertyColumns, propertyFrom, limit)
	return r.queryProperties(ctx, query)
}

func (r *propertyRepository) queryProperties(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *property)
	}
	return result, rows.Err()
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		property         domain.Property
		serviceTitle     *string
		serviceTypeID    *string
		serviceFee       decimal.NullDecimal
		serviceTypeTitle *string
	)
	if err := row.Scan(
		&property.ID, &property.Price, &property.Area, &property.ServiceID, &property.PropertyTypeID,
		&property.Details, &property.Location, &property.Photo, &property.CreatedAt,
		&serviceTitle, &serviceTypeID, &serviceFee, &serviceTypeTitle,
		&property.Sold,
	); err != nil {
		return nil, err
	}
	if property.ServiceID != nil && serviceTitle != nil {
		svc := &domain.PropertyService{
			ID:         *property.ServiceID,
			Title:      *serviceTitle,
			ServiceFee: serviceFee.Decimal,
		}
		if serviceTypeID != nil {
			svc.ServiceTypeID = *serviceTypeID
			svc.ServiceType = &domain.ServiceType{ID: *serviceTypeID}
			if serviceTypeTitle != nil {
				svc.ServiceType.Title = *serviceTypeTitle
			}
		}
		property.Service = svc
	}
	return &property, nil
}
