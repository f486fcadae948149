package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func validProperty() *Property {
	return &Property{
		Price:    decimal.RequireFromString("150000.00"),
		Area:     decimal.RequireFromString("54.30"),
		Details:  "Two rooms, renovated",
		Location: "Minsk, Nezavisimosti 10",
	}
}

func TestPropertyValidate(t *testing.T) {
	assert.NoError(t, validProperty().Validate())

	p := validProperty()
	p.Price = decimal.RequireFromString("-1")
	err := p.Validate()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	p = validProperty()
	p.Area = decimal.Zero
	assert.Error(t, p.Validate())

	p = validProperty()
	p.Location = string(make([]rune, MaxLocationLength+1))
	assert.Error(t, p.Validate())
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""))
	assert.NoError(t, ValidatePhone("+375(29)123-45-67"))
	assert.Error(t, ValidatePhone("80291234567"))
}

func TestValidateBirthDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	adult := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	minor := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 1)

	assert.NoError(t, ValidateBirthDate(nil, RoleClient, now))
	assert.NoError(t, ValidateBirthDate(&adult, RoleClient, now))
	assert.Error(t, ValidateBirthDate(&minor, RoleClient, now))
	assert.NoError(t, ValidateBirthDate(&minor, RoleEmployee, now))
	assert.Error(t, ValidateBirthDate(&future, RoleEmployee, now))
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 23, AgeOn(birth, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, AgeOn(birth, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
}

func TestValidateRating(t *testing.T) {
	ok := decimal.RequireFromString("4.50")
	high := decimal.RequireFromString("5.01")
	neg := decimal.RequireFromString("-0.1")

	assert.NoError(t, ValidateRating(nil))
	assert.NoError(t, ValidateRating(&ok))
	assert.Error(t, ValidateRating(&high))
	assert.Error(t, ValidateRating(&neg))
}

func TestServiceValidate(t *testing.T) {
	s := &PropertyService{Title: "Sale", ServiceTypeID: "st", ServiceFee: decimal.RequireFromString("100")}
	assert.NoError(t, s.Validate())

	s.ServiceFee = decimal.RequireFromString("-5")
	assert.Error(t, s.Validate())
}

func TestClientPreferencesList(t *testing.T) {
	c := &Client{Preferences: " flat, , garden ,center"}
	assert.Equal(t, []string{"flat", "garden", "center"}, c.PreferencesList())
}

func TestReviewAndPromoValidate(t *testing.T) {
	assert.Error(t, (&Review{Rating: 0, Text: "x"}).Validate())
	assert.NoError(t, (&Review{Rating: 5, Text: "great"}).Validate())
	assert.Error(t, (&PromoCode{Code: "SPRING", Discount: 150}).Validate())
	assert.NoError(t, (&PromoCode{Code: "SPRING", Discount: 15}).Validate())
}
