package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client is the profile of a buyer.
type Client struct {
	ID                     string
	UserID                 string
	Preferences            string
	BudgetRange            string
	PreferredPropertyTypes []string
	PhoneNumber            string
	Address                string
	BirthDate              *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time

	User *User
}

// PreferencesList splits the comma separated preferences.
func (c *Client) PreferencesList() []string {
	parts := strings.Split(c.Preferences, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Employee is the profile of an agent or administrator.
type Employee struct {
	ID                string
	UserID            string
	Position          string
	Department        string
	Specialization    string
	HireDate          time.Time
	PerformanceRating *decimal.Decimal
	PhoneNumber       string
	Address           string
	BirthDate         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	User *User
}

// ExperienceYears returns full years since the hire date.
func (e *Employee) ExperienceYears(now time.Time) int {
	if e.HireDate.IsZero() {
		return 0
	}
	return int(now.Sub(e.HireDate).Hours() / 24 / 365)
}

// AgeOn returns the age in full years at the given moment.
func AgeOn(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
