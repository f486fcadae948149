package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/service"
)

var resolutionMessages = map[domain.InquiryAction]string{
	domain.InquiryActionBuy:     "Purchase completed.",
	domain.InquiryActionCancel:  "Inquiry cancelled.",
	domain.InquiryActionProcess: "Inquiry taken into processing.",
}

// DashboardHandler serves the role specific dashboards.
type DashboardHandler struct {
	dashboards *service.DashboardService
	media      config.MediaConfig
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService, media config.MediaConfig) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, media: media}
}

// Index handles GET /dashboard by sending the caller to its role dashboard.
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.Role.IsStaff() {
		return c.Redirect("/dashboard/employee", http.StatusFound)
	}
	return c.Redirect("/dashboard/client", http.StatusFound)
}

// Client handles GET /dashboard/client.
func (h *DashboardHandler) Client(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	board, err := h.dashboards.Client(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"client":       clientResponse(board.Client),
		"inquiries":    inquiryList(board.Inquiries, h.media),
		"transactions": transactionList(board.Transactions, h.media),
	}})
}

// Employee handles GET /dashboard/employee.
func (h *DashboardHandler) Employee(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	board, err := h.dashboards.Employee(c.UserContext(), user)
	if err != nil {
		return err
	}
	clients := make([]*dto.ClientResponse, 0, len(board.Clients))
	for i := range board.Clients {
		clients = append(clients, clientResponse(&board.Clients[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"employee":     employeeResponse(board.Employee),
		"inquiries":    inquiryList(board.Inquiries, h.media),
		"clients":      clients,
		"transactions": transactionList(board.Transactions, h.media),
	}})
}

// Act handles POST /dashboard/client and POST /dashboard/employee.
func (h *DashboardHandler) Act(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.DashboardActionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	resolution, err := h.dashboards.Act(c.UserContext(), user, req.RequestID, req.Action)
	if err != nil {
		return err
	}
	resp := dto.ResolutionResponse{
		Inquiry: inquiryResponse(resolution.Inquiry, h.media),
		Message: resolutionMessages[domain.InquiryAction(req.Action)],
	}
	if resolution.Transaction != nil {
		txn := transactionResponse(resolution.Transaction, h.media)
		resp.Transaction = &txn
	}
	return c.JSON(fiber.Map{"data": resp})
}
