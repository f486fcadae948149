package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// EmployeeRepository handles persistence for employee profiles.
type EmployeeRepository interface {
	CreateIfMissing(ctx context.Context, employee *domain.Employee) (bool, error)
	Update(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	ListWorkloads(ctx context.Context) ([]domain.AgentWorkload, error)
}

// EmployeeFilter defines query params for employee listing.
type EmployeeFilter struct {
	Department *string
	SearchTerm *string
	Limit      int
	Offset     int
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeSelect = `
        SELECT e.id, e.user_id, e.position, e.department, e.specialization, e.hire_date,
               e.performance_rating, e.phone_number, e.address, e.birth_date, e.created_at, e.updated_at,
               u.username, u.email, u.first_name, u.last_name, u.role
        FROM employees e JOIN users u ON u.id = e.user_id`

func (r *employeeRepository) CreateIfMissing(ctx context.Context, employee *domain.Employee) (bool, error) {
	const query = `
        INSERT INTO employees (user_id, position, department, specialization, hire_date, performance_rating, phone_number, address, birth_date)
        VALUES ($1,$2,$3,$4,COALESCE($5, CURRENT_DATE),$6,$7,$8,$9)
        ON CONFLICT (user_id) DO NOTHING
        RETURNING id, hire_date, created_at, updated_at`

	var hireDate *time.Time
	if !employee.HireDate.IsZero() {
		hireDate = &employee.HireDate
	}
	err := r.db.QueryRow(ctx, query,
		employee.UserID,
		employee.Position,
		employee.Department,
		employee.Specialization,
		hireDate,
		employee.PerformanceRating,
		employee.PhoneNumber,
		employee.Address,
		employee.BirthDate,
	).Scan(&employee.ID, &employee.HireDate, &employee.CreatedAt, &employee.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees
        SET position=$1, department=$2, specialization=$3, performance_rating=$4, phone_number=$5,
            address=$6, birth_date=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.db.Exec(ctx, query,
		employee.Position,
		employee.Department,
		employee.Specialization,
		employee.PerformanceRating,
		employee.PhoneNumber,
		employee.Address,
		employee.BirthDate,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, employeeSelect+` WHERE e.id=$1`, id)
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, employeeSelect+` WHERE e.user_id=$1`, userID)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("e.department=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(u.username) LIKE %s OR LOWER(e.position) LIKE %s)", placeholder, placeholder))
	}

	limit, offset := normalizeLimit(filter.Limit, filter.Offset, 50)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY e.hire_date, e.id LIMIT %d OFFSET %d`,
		employeeSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}

// ListWorkloads returns every employee with its count of pending and
// processing inquiries, least loaded first, ties by hire date then id.
func (r *employeeRepository) ListWorkloads(ctx context.Context) ([]domain.AgentWorkload, error) {
	const query = `
        SELECT e.id, e.user_id, e.position, e.department, e.specialization, e.hire_date,
               e.performance_rating, e.phone_number, e.address, e.birth_date, e.created_at, e.updated_at,
               u.username, u.email, u.first_name, u.last_name, u.role,
               COUNT(i.id) FILTER (WHERE i.state IN ('pending', 'processing')) AS active_count
        FROM employees e
        JOIN users u ON u.id = e.user_id
        LEFT JOIN property_inquiries i ON i.agent_id = e.id
        GROUP BY e.id, u.id
        ORDER BY active_count ASC, e.hire_date ASC, e.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AgentWorkload
	for rows.Next() {
		var (
			employee domain.Employee
			user     domain.User
			rating   decimal.NullDecimal
			count    int
		)
		if err := rows.Scan(
			&employee.ID, &employee.UserID, &employee.Position, &employee.Department, &employee.Specialization,
			&employee.HireDate, &rating, &employee.PhoneNumber, &employee.Address, &employee.BirthDate,
			&employee.CreatedAt, &employee.UpdatedAt,
			&user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Role,
			&count,
		); err != nil {
			return nil, err
		}
		finishEmployee(&employee, &user, rating)
		result = append(result, domain.AgentWorkload{Employee: employee, ActiveCount: count})
	}
	return result, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		employee domain.Employee
		user     domain.User
		rating   decimal.NullDecimal
	)
	if err := row.Scan(
		&employee.ID, &employee.UserID, &employee.Position, &employee.Department, &employee.Specialization,
		&employee.HireDate, &rating, &employee.PhoneNumber, &employee.Address, &employee.BirthDate,
		&employee.CreatedAt, &employee.UpdatedAt,
		&user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Role,
	); err != nil {
		return nil, err
	}
	finishEmployee(&employee, &user, rating)
	return &employee, nil
}

func finishEmployee(employee *domain.Employee, user *domain.User, rating decimal.NullDecimal) {
	if rating.Valid {
		value := rating.Decimal
		employee.PerformanceRating = &value
	}
	user.ID = employee.UserID
	employee.User = user
}
