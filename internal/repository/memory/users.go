package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	for _, existing := range d.users {
		if existing.Username == user.Username {
			return fmt.Errorf("users.username %q: %w", user.Username, repository.ErrUniqueViolation)
		}
	}
	user.ID = d.newID()
	user.CreatedAt = r.s.stamp()
	d.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.lock()
	defer r.s.unlock()
	existing, ok := r.s.data.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Email = user.Email
	existing.PasswordHash = user.PasswordHash
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Role = user.Role
	r.s.data.users[user.ID] = existing
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.data.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.data.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type clientRepo struct{ s *Store }

func (r *clientRepo) CreateIfMissing(_ context.Context, client *domain.Client) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.users[client.UserID]; !ok {
		return false, fmt.Errorf("clients.user_id %q: unknown user", client.UserID)
	}
	for _, existing := range d.clients {
		if existing.UserID == client.UserID {
			return false, nil
		}
	}
	client.ID = d.newID()
	client.CreatedAt = r.s.stamp()
	client.UpdatedAt = client.CreatedAt
	stored := *client
	stored.User = nil
	stored.PreferredPropertyTypes = append([]string(nil), client.PreferredPropertyTypes...)
	d.clients[client.ID] = stored
	return true, nil
}

func (r *clientRepo) Update(_ context.Context, client *domain.Client) error {
	r.s.lock()
	defer r.s.unlock()
	existing, ok := r.s.data.clients[client.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Preferences = client.Preferences
	existing.BudgetRange = client.BudgetRange
	existing.PhoneNumber = client.PhoneNumber
	existing.Address = client.Address
	existing.BirthDate = client.BirthDate
	existing.PreferredPropertyTypes = append([]string(nil), client.PreferredPropertyTypes...)
	existing.UpdatedAt = r.s.stamp()
	r.s.data.clients[client.ID] = existing
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	client, ok := r.s.data.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateClient(client), nil
}

func (r *clientRepo) GetByUserID(_ context.Context, userID string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, client := range r.s.data.clients {
		if client.UserID == userID {
			return r.s.data.hydrateClient(client), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *clientRepo) ListActiveByAgent(_ context.Context, agentID string) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	seen := map[string]bool{}
	var result []domain.Client
	for _, inquiry := range d.inquiries {
		if inquiry.AgentID == nil || *inquiry.AgentID != agentID || !inquiry.IsActive() || seen[inquiry.BuyerID] {
			continue
		}
		seen[inquiry.BuyerID] = true
		if client, ok := d.clients[inquiry.BuyerID]; ok {
			result = append(result, *d.hydrateClient(client))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].User.Username < result[j].User.Username })
	return result, nil
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) CreateIfMissing(_ context.Context, employee *domain.Employee) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.users[employee.UserID]; !ok {
		return false, fmt.Errorf("employees.user_id %q: unknown user", employee.UserID)
	}
	for _, existing := range d.employees {
		if existing.UserID == employee.UserID {
			return false, nil
		}
	}
	employee.ID = d.newID()
	if employee.HireDate.IsZero() {
		employee.HireDate = r.s.today()
	}
	employee.CreatedAt = r.s.stamp()
	employee.UpdatedAt = employee.CreatedAt
	stored := *employee
	stored.User = nil
	d.employees[employee.ID] = stored
	return true, nil
}

func (r *employeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	r.s.lock()
	defer r.s.unlock()
	existing, ok := r.s.data.employees[employee.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Position = employee.Position
	existing.Department = employee.Department
	existing.Specialization = employee.Specialization
	existing.PerformanceRating = employee.PerformanceRating
	existing.PhoneNumber = employee.PhoneNumber
	existing.Address = employee.Address
	existing.BirthDate = employee.BirthDate
	existing.UpdatedAt = r.s.stamp()
	r.s.data.employees[employee.ID] = existing
	return nil
}

func (r *employeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	employee, ok := r.s.data.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateEmployee(employee), nil
}

func (r *employeeRepo) GetByUserID(_ context.Context, userID string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, employee := range r.s.data.employees {
		if employee.UserID == userID {
			return r.s.data.hydrateEmployee(employee), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *employeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	var term string
	if filter.SearchTerm != nil {
		term = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}
	var result []domain.Employee
	for _, employee := range d.employees {
		if filter.Department != nil && employee.Department != *filter.Department {
			continue
		}
		hydrated := d.hydrateEmployee(employee)
		if term != "" && !strings.Contains(strings.ToLower(hydrated.User.Username), term) &&
			!strings.Contains(strings.ToLower(employee.Position), term) {
			continue
		}
		result = append(result, *hydrated)
	}
	sortEmployees(result)
	return page(result, filter.Limit, filter.Offset, 50), nil
}

func (r *employeeRepo) ListWorkloads(_ context.Context) ([]domain.AgentWorkload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	counts := map[string]int{}
	for _, inquiry := range d.inquiries {
		if inquiry.AgentID != nil && inquiry.IsActive() {
			counts[*inquiry.AgentID]++
		}
	}
	employees := make([]domain.Employee, 0, len(d.employees))
	for _, employee := range d.employees {
		employees = append(employees, *d.hydrateEmployee(employee))
	}
	sortEmployees(employees)

	result := make([]domain.AgentWorkload, 0, len(employees))
	for _, employee := range employees {
		result = append(result, domain.AgentWorkload{Employee: employee, ActiveCount: counts[employee.ID]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ActiveCount < result[j].ActiveCount })
	return result, nil
}

func sortEmployees(employees []domain.Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		if !employees[i].HireDate.Equal(employees[j].HireDate) {
			return employees[i].HireDate.Before(employees[j].HireDate)
		}
		return employees[i].ID < employees[j].ID
	})
}

type resetRepo struct{ s *Store }

func (r *resetRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	for _, existing := range d.resets {
		if existing.Token == token.Token {
			return fmt.Errorf("password_reset_tokens.token: %w", repository.ErrUniqueViolation)
		}
	}
	token.ID = d.newID()
	token.CreatedAt = r.s.stamp()
	d.resets[token.ID] = *token
	return nil
}

func (r *resetRepo) GetByToken(_ context.Context, tokenStr string) (*domain.PasswordResetToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, token := range r.s.data.resets {
		if token.Token == tokenStr {
			return &token, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *resetRepo) MarkUsed(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	token, ok := r.s.data.resets[id]
	if !ok || token.UsedAt != nil {
		return pgx.ErrNoRows
	}
	token.UsedAt = ptr(r.s.stamp())
	r.s.data.resets[id] = token
	return nil
}

func (d *dataset) hydrateClient(client domain.Client) *domain.Client {
	client.PreferredPropertyTypes = append([]string{}, client.PreferredPropertyTypes...)
	sort.Strings(client.PreferredPropertyTypes)
	if user, ok := d.users[client.UserID]; ok {
		client.User = &user
	}
	return &client
}

func (d *dataset) hydrateEmployee(employee domain.Employee) *domain.Employee {
	if user, ok := d.users[employee.UserID]; ok {
		employee.User = &user
	}
	return &employee
}
