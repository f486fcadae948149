package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyListQuery captures catalog query parameters.
type PropertyListQuery struct {
	Search         string `query:"search"`
	ServiceID      string `query:"service_id"`
	ServiceTypeID  string `query:"service_type_id"`
	PropertyTypeID string `query:"property_type_id"`
	MinPrice       string `query:"min_price" validate:"omitempty,numeric"`
	MaxPrice       string `query:"max_price" validate:"omitempty,numeric"`
	Sort           string `query:"sort" validate:"omitempty,oneof=price_asc price_desc area_asc area_desc"`
	Page           int    `query:"page" validate:"gte=0"`
}

// ServiceListQuery captures service filters.
type ServiceListQuery struct {
	ServiceTypeID string `query:"service_type_id"`
	MinFee        string `query:"min_fee" validate:"omitempty,numeric"`
	MaxFee        string `query:"max_fee" validate:"omitempty,numeric"`
}

// PropertyTypeRequest payload.
type PropertyTypeRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

// ServiceTypeRequest payload.
type ServiceTypeRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// ServiceRequest payload.
type ServiceRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	ServiceTypeID string          `json:"service_type_id" validate:"required"`
	ServiceFee    decimal.Decimal `json:"service_fee"`
}

// PropertyRequest payload.
type PropertyRequest struct {
	Price          decimal.Decimal `json:"price"`
	Area           decimal.Decimal `json:"area"`
	ServiceID      *string         `json:"service_id"`
	PropertyTypeID *string         `json:"property_type_id"`
	Details        string          `json:"details" validate:"required,max=2000"`
	Location       string          `json:"location" validate:"required,max=200"`
	Photo          string          `json:"photo" validate:"max=255"`
}

// PropertyTypeResponse response.
type PropertyTypeResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ServiceTypeResponse response.
type ServiceTypeResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ServiceResponse response; fees are fixed to two places.
type ServiceResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ServiceTypeID    string `json:"service_type_id"`
	ServiceTypeTitle string `json:"service_type_title,omitempty"`
	ServiceFee       string `json:"service_fee"`
}

// PropertyResponse response.
type PropertyResponse struct {
	ID             string           `json:"id"`
	Price          string           `json:"price"`
	Area           string           `json:"area"`
	Details        string           `json:"details"`
	Location       string           `json:"location"`
	PhotoURL       string           `json:"photo_url"`
	PropertyTypeID *string          `json:"property_type_id"`
	Service        *ServiceResponse `json:"service"`
	Sold           bool             `json:"sold"`
	CreatedAt      time.Time        `json:"created_at"`
}

// PropertyDetailResponse adds viewer specific data.
type PropertyDetailResponse struct {
	PropertyResponse
	InquiryExists bool   `json:"inquiry_exists"`
	MapImageURL   string `json:"map_image_url,omitempty"`
}

// PageMeta describes a page of results.
type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Pages    int `json:"pages"`
}
