package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

const (
	MaxTitleLength    = 200
	MaxDetailsLength  = 2000
	MaxLocationLength = 200
	MinClientAge      = 18
)

var (
	phonePattern = regexp.MustCompile(`^\+375\(\d{2}\)\d{3}-\d{2}-\d{2}$`)
	minAmount    = decimal.RequireFromString("0.01")
	maxRating    = decimal.NewFromInt(5)
)

// ValidatePhone checks the +375(29)123-45-67 format; empty is allowed.
func ValidatePhone(phone string) error {
	if phone == "" || phonePattern.MatchString(phone) {
		return nil
	}
	return apperrors.NewValidationError("phone number must match +375(XX)XXX-XX-XX", map[string]any{"phone_number": phone})
}

// ValidateBirthDate rejects future dates and, for clients, ages under MinClientAge.
func ValidateBirthDate(birth *time.Time, role Role, now time.Time) error {
	if birth == nil {
		return nil
	}
	if birth.After(now) {
		return apperrors.NewValidationError("birth date cannot be in the future", nil)
	}
	if role == RoleClient && AgeOn(*birth, now) < MinClientAge {
		return apperrors.NewValidationError("clients must be at least 18 years old", nil)
	}
	return nil
}

// ValidateRating bounds an employee rating to [0, 5].
func ValidateRating(rating *decimal.Decimal) error {
	if rating == nil {
		return nil
	}
	if rating.IsNegative() || rating.GreaterThan(maxRating) {
		return apperrors.NewValidationError("performance rating must be between 0 and 5", map[string]any{"performance_rating": rating.String()})
	}
	return nil
}

// Validate checks listing invariants before persisting.
func (p *Property) Validate() error {
	details := map[string]any{}
	if p.Price.LessThan(minAmount) {
		details["price"] = "must be at least 0.01"
	}
	if p.Area.LessThan(minAmount) {
		details["area"] = "must be at least 0.01"
	}
	if strings.TrimSpace(p.Details) == "" {
		details["details"] = "required"
	} else if len([]rune(p.Details)) > MaxDetailsLength {
		details["details"] = "must be at most 2000 characters"
	}
	if strings.TrimSpace(p.Location) == "" {
		details["location"] = "required"
	} else if len([]rune(p.Location)) > MaxLocationLength {
		details["location"] = "must be at most 200 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid property", details)
	}
	return nil
}

// Validate checks service invariants.
func (s *PropertyService) Validate() error {
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	if s.ServiceTypeID == "" {
		return apperrors.NewValidationError("service_type_id required", nil)
	}
	if s.ServiceFee.IsNegative() {
		return apperrors.NewValidationError("service fee cannot be negative", map[string]any{"service_fee": s.ServiceFee.String()})
	}
	return nil
}

// Validate checks the property type title.
func (t *PropertyType) Validate() error {
	return validateTitle(t.Title)
}

// Validate checks the service type title.
func (t *ServiceType) Validate() error {
	return validateTitle(t.Title)
}

// Validate checks the review rating and text.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": r.Rating})
	}
	if strings.TrimSpace(r.Text) == "" {
		return apperrors.NewValidationError("review text required", nil)
	}
	return nil
}

// Validate checks the promo code.
func (p *PromoCode) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return apperrors.NewValidationError("code required", nil)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return apperrors.NewValidationError("discount must be between 0 and 100", map[string]any{"discount": p.Discount})
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if len([]rune(title)) > MaxTitleLength {
		return apperrors.NewValidationError("title must be at most 200 characters", nil)
	}
	return nil
}
