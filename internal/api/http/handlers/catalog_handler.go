package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/service"
)

// CatalogHandler serves listings and inquiry submission.
type CatalogHandler struct {
	catalog   *service.CatalogService
	inquiries *service.InquiryService
	media     config.MediaConfig
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService, inquiries *service.InquiryService, media config.MediaConfig) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, inquiries: inquiries, media: media}
}

// ListServices handles GET /catalog/services.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	var query dto.ServiceListQuery
	if err := bindQuery(c, &query); err != nil {
		return err
	}

	items, err := h.catalog.ListServices(c.UserContext(), service.ServiceQuery{
		ServiceTypeID: query.ServiceTypeID,
		MinFee:        parseDecimal(query.MinFee),
		MaxFee:        parseDecimal(query.MaxFee),
	})
	if err != nil {
		return err
	}
	resp := make([]*dto.ServiceResponse, 0, len(items))
	for i := range items {
		resp = append(resp, serviceResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListProperties handles GET /catalog/properties.
func (h *CatalogHandler) ListProperties(c *fiber.Ctx) error {
	var query dto.PropertyListQuery
	if err := bindQuery(c, &query); err != nil {
		return err
	}

	page, err := h.catalog.ListAvailable(c.UserContext(), service.PropertyQuery{
		Search:         query.Search,
		ServiceID:      query.ServiceID,
		ServiceTypeID:  query.ServiceTypeID,
		PropertyTypeID: query.PropertyTypeID,
		MinPrice:       parseDecimal(query.MinPrice),
		MaxPrice:       parseDecimal(query.MaxPrice),
		Sort:           query.Sort,
		Page:           query.Page,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": propertyList(page.Items, h.media),
		"meta": pageMeta(page),
	})
}

// GetProperty handles GET /catalog/properties/:id.
func (h *CatalogHandler) GetProperty(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	detail, err := h.catalog.GetProperty(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PropertyDetailResponse{
		PropertyResponse: propertyResponse(detail.Property, h.media),
		InquiryExists:    detail.InquiryExists,
		MapImageURL:      detail.MapImageURL,
	}})
}

// SubmitInquiry handles POST /catalog/properties/:id/inquiry.
func (h *CatalogHandler) SubmitInquiry(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.InquiryRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}

	inquiry, err := h.inquiries.CreateInquiry(c.UserContext(), user, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    inquiryResponse(inquiry, h.media),
		"message": "Your inquiry has been sent.",
	})
}
