package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/service"
)

const adminPageSize = 50

// AdminHandler exposes staff maintenance of the catalog, staff and ledger.
type AdminHandler struct {
	catalog  *service.CatalogService
	profiles *service.ProfileService
	auth     *service.AuthService
	ledger   *service.LedgerService
	media    config.MediaConfig
}

// AdminDependencies groups the services behind the admin routes.
type AdminDependencies struct {
	Catalog  *service.CatalogService
	Profiles *service.ProfileService
	Auth     *service.AuthService
	Ledger   *service.LedgerService
	Media    config.MediaConfig
}

// NewAdminHandler constructs handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{
		catalog:  deps.Catalog,
		profiles: deps.Profiles,
		auth:     deps.Auth,
		ledger:   deps.Ledger,
		media:    deps.Media,
	}
}

// ListPropertyTypes handles GET /admin/property-types.
func (h *AdminHandler) ListPropertyTypes(c *fiber.Ctx) error {
	items, err := h.catalog.ListPropertyTypes(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.PropertyTypeResponse, 0, len(items))
	for _, pt := range items {
		resp = append(resp, dto.PropertyTypeResponse{ID: pt.ID, Title: pt.Title, Description: pt.Description})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SavePropertyType handles POST /admin/property-types and PUT /admin/property-types/:id.
func (h *AdminHandler) SavePropertyType(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.PropertyTypeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	pt := &domain.PropertyType{ID: c.Params("id"), Title: req.Title, Description: req.Description}
	if err := h.catalog.SavePropertyType(c.UserContext(), user, pt); err != nil {
		return err
	}
	return c.Status(saveStatus(c)).JSON(fiber.Map{"data": dto.PropertyTypeResponse{ID: pt.ID, Title: pt.Title, Description: pt.Description}})
}

// DeletePropertyType handles DELETE /admin/property-types/:id.
func (h *AdminHandler) DeletePropertyType(c *fiber.Ctx) error {
	return deleteByID(c, h.catalog.DeletePropertyType)
}

// ListServiceTypes handles GET /admin/service-types.
func (h *AdminHandler) ListServiceTypes(c *fiber.Ctx) error {
	items, err := h.catalog.ListServiceTypes(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ServiceTypeResponse, 0, len(items))
	for _, st := range items {
		resp = append(resp, dto.ServiceTypeResponse{ID: st.ID, Title: st.Title})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SaveServiceType handles POST /admin/service-types and PUT /admin/service-types/:id.
func (h *AdminHandler) SaveServiceType(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ServiceTypeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	st := &domain.ServiceType{ID: c.Params("id"), Title: req.Title}
	if err := h.catalog.SaveServiceType(c.UserContext(), user, st); err != nil {
		return err
	}
	return c.Status(saveStatus(c)).JSON(fiber.Map{"data": dto.ServiceTypeResponse{ID: st.ID, Title: st.Title}})
}

// DeleteServiceType handles DELETE /admin/service-types/:id.
func (h *AdminHandler) DeleteServiceType(c *fiber.Ctx) error {
	return deleteByID(c, h.catalog.DeleteServiceType)
}

// SaveService handles POST /admin/services and PUT /admin/services/:id.
func (h *AdminHandler) SaveService(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ServiceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	svc := &domain.PropertyService{
		ID:            c.Params("id"),
		Title:         req.Title,
		ServiceTypeID: req.ServiceTypeID,
		ServiceFee:    req.ServiceFee,
	}
	if err := h.catalog.SaveService(c.UserContext(), user, svc); err != nil {
		return err
	}
	return c.Status(saveStatus(c)).JSON(fiber.Map{"data": serviceResponse(svc)})
}

// DeleteService handles DELETE /admin/services/:id.
func (h *AdminHandler) DeleteService(c *fiber.Ctx) error {
	return deleteByID(c, h.catalog.DeleteService)
}

// SaveProperty handles POST /admin/properties and PUT /admin/properties/:id.
func (h *AdminHandler) SaveProperty(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.PropertyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	property := &domain.Property{
		ID:             c.Params("id"),
		Price:          req.Price,
		Area:           req.Area,
		ServiceID:      req.ServiceID,
		PropertyTypeID: req.PropertyTypeID,
		Details:        req.Details,
		Location:       req.Location,
		Photo:          req.Photo,
	}
	if err := h.catalog.SaveProperty(c.UserContext(), user, property); err != nil {
		return err
	}
	return c.Status(saveStatus(c)).JSON(fiber.Map{"data": propertyResponse(property, h.media)})
}

// DeleteProperty handles DELETE /admin/properties/:id.
func (h *AdminHandler) DeleteProperty(c *fiber.Ctx) error {
	return deleteByID(c, h.catalog.DeleteProperty)
}

// ListEmployees handles GET /admin/employees.
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	page := parseIntQuery(c, "page", 1)
	items, err := h.profiles.ListEmployees(c.UserContext(), user, c.Query("department"), c.Query("search"), adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		return err
	}
	resp := make([]*dto.EmployeeResponse, 0, len(items))
	for i := range items {
		resp = append(resp, employeeResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateEmployee handles POST /admin/employees.
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeCreateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	role := domain.RoleEmployee
	if req.Role != "" {
		role = domain.Role(req.Role)
	}
	created, err := h.auth.CreateEmployee(c.UserContext(), user, service.EmployeeInput{
		RegisterInput:  registerInput(req.RegisterRequest),
		Role:           role,
		Position:       req.Position,
		Department:     req.Department,
		Specialization: req.Specialization,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(created)})
}

// UpdateEmployee handles PUT /admin/employees/:id.
func (h *AdminHandler) UpdateEmployee(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	employee, err := h.profiles.UpdateEmployee(c.UserContext(), user, c.Params("id"), service.EmployeeUpdate{
		Position:          req.Position,
		Department:        req.Department,
		Specialization:    req.Specialization,
		PerformanceRating: req.PerformanceRating,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(employee)})
}

// ListTransactions handles GET /admin/transactions.
func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	page := parseIntQuery(c, "page", 1)
	items, err := h.ledger.ListTransactions(c.UserContext(), user, adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionList(items, h.media)})
}

// GetTransaction handles GET /admin/transactions/:id.
func (h *AdminHandler) GetTransaction(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	txn, err := h.ledger.GetTransaction(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionResponse(txn, h.media)})
}

// UpdateTransaction handles PUT /admin/transactions/:id.
func (h *AdminHandler) UpdateTransaction(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.TransactionUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	txn, err := h.ledger.ReassignTransaction(c.UserContext(), user, c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionResponse(txn, h.media)})
}

func saveStatus(c *fiber.Ctx) int {
	if c.Params("id") == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}
