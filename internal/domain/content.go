package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// News is an article shown on the home pages.
type News struct {
	ID        string
	Title     string
	Summary   string
	Image     string
	CreatedAt time.Time
}

// FAQ is a question with its answer.
type FAQ struct {
	ID        string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Vacancy is an open position at the agency.
type Vacancy struct {
	ID          string
	Position    string
	Salary      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// Contact is an agency staff contact card.
type Contact struct {
	ID          string
	Name        string
	Position    string
	Description string
	Phone       string
	Email       string
}

// PromoCode is a discount code.
type PromoCode struct {
	ID          string
	Code        string
	Discount    int
	Description string
	Active      bool
	CreatedAt   time.Time
}

// Review is a user's rating of the agency.
type Review struct {
	ID        string
	UserID    string
	Rating    int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time

	Author *User
}
