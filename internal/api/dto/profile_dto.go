package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileUpdateRequest edits the caller's profile. Absent fields are kept.
type ProfileUpdateRequest struct {
	Email                  *string  `json:"email" validate:"omitempty,email"`
	FirstName              *string  `json:"first_name" validate:"omitempty,max=150"`
	LastName               *string  `json:"last_name" validate:"omitempty,max=150"`
	PhoneNumber            *string  `json:"phone_number"`
	Address                *string  `json:"address" validate:"omitempty,max=255"`
	BirthDate              *string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Preferences            *string  `json:"preferences"`
	BudgetRange            *string  `json:"budget_range" validate:"omitempty,max=100"`
	PreferredPropertyTypes []string `json:"preferred_property_types"`
	Position               *string  `json:"position" validate:"omitempty,max=100"`
	Department             *string  `json:"department" validate:"omitempty,max=100"`
	Specialization         *string  `json:"specialization" validate:"omitempty,max=100"`
}

// EmployeeCreateRequest creates a staff account.
type EmployeeCreateRequest struct {
	RegisterRequest
	Role           string `json:"role" validate:"omitempty,oneof=employee admin"`
	Position       string `json:"position" validate:"max=100"`
	Department     string `json:"department" validate:"max=100"`
	Specialization string `json:"specialization" validate:"max=100"`
}

// EmployeeUpdateRequest is an admin edit of a staff profile.
type EmployeeUpdateRequest struct {
	Position          *string          `json:"position" validate:"omitempty,max=100"`
	Department        *string          `json:"department" validate:"omitempty,max=100"`
	Specialization    *string          `json:"specialization" validate:"omitempty,max=100"`
	PerformanceRating *decimal.Decimal `json:"performance_rating"`
}

// ClientResponse is a client profile.
type ClientResponse struct {
	ID                     string        `json:"id"`
	User                   *UserResponse `json:"user,omitempty"`
	Preferences            []string      `json:"preferences"`
	BudgetRange            string        `json:"budget_range"`
	PreferredPropertyTypes []string      `json:"preferred_property_types"`
	PhoneNumber            string        `json:"phone_number"`
	Address                string        `json:"address"`
	BirthDate              *time.Time    `json:"birth_date"`
}

// EmployeeResponse is a staff profile.
type EmployeeResponse struct {
	ID                string        `json:"id"`
	User              *UserResponse `json:"user,omitempty"`
	Position          string        `json:"position"`
	Department        string        `json:"department"`
	Specialization    string        `json:"specialization"`
	HireDate          time.Time     `json:"hire_date"`
	ExperienceYears   int           `json:"experience_years"`
	PerformanceRating *string       `json:"performance_rating"`
	PhoneNumber       string        `json:"phone_number"`
}

// ProfileResponse is the caller's account with its role profile.
type ProfileResponse struct {
	User     UserResponse      `json:"user"`
	Client   *ClientResponse   `json:"client,omitempty"`
	Employee *EmployeeResponse `json:"employee,omitempty"`
}
