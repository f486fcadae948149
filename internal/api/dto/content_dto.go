package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewsRequest payload.
type NewsRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Summary string `json:"summary"`
	Image   string `json:"image" validate:"max=255"`
}

// FAQRequest payload.
type FAQRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// VacancyRequest payload.
type VacancyRequest struct {
	Position    string          `json:"position" validate:"required,max=200"`
	Salary      decimal.Decimal `json:"salary"`
	Description string          `json:"description"`
}

// ContactRequest payload.
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Position    string `json:"position" validate:"max=200"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// PromoCodeRequest payload.
type PromoCodeRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Discount    int    `json:"discount" validate:"gte=0,lte=100"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ReviewRequest payload.
type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required"`
}

// ReviewResponse response.
type ReviewResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsResponse response.
type NewsResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQResponse response.
type FAQResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// VacancyResponse response.
type VacancyResponse struct {
	ID          string    `json:"id"`
	Position    string    `json:"position"`
	Salary      string    `json:"salary"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactResponse response.
type ContactResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// PromoCodeResponse response.
type PromoCodeResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Discount    int       `json:"discount"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
