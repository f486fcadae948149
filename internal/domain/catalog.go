package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType classifies properties (flat, house, office, ...).
type PropertyType struct {
	ID          string
	Title       string
	Description string
}

// ServiceType groups property services.
type ServiceType struct {
	ID    string
	Title string
}

// PropertyService is an offering with a fee attached to properties.
type PropertyService struct {
	ID            string
	Title         string
	ServiceTypeID string
	ServiceFee    decimal.Decimal

	ServiceType *ServiceType
}

// Property is a catalog listing.
type Property struct {
	ID             string
	Price          decimal.Decimal
	Area           decimal.Decimal
	ServiceID      *string
	PropertyTypeID *string
	Details        string
	Location       string
	Photo          string
	CreatedAt      time.Time

	Service *PropertyService
	Sold    bool
}

// PhotoURL returns the photo URL or the default placeholder under mediaURL.
func (p *Property) PhotoURL(mediaURL, defaultPhoto string) string {
	if p.Photo != "" {
		return mediaURL + p.Photo
	}
	return mediaURL + defaultPhoto
}

// ServiceFee returns the fee of the linked service, nil when the link is absent.
func (p *Property) ServiceFee() *decimal.Decimal {
	if p.Service == nil {
		return nil
	}
	fee := p.Service.ServiceFee
	return &fee
}
