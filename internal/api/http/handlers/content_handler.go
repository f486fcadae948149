package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/service"
)

// ContentHandler serves the informational pages and their staff editing.
type ContentHandler struct {
	content *service.ContentService
	media   config.MediaConfig
}

// NewContentHandler constructs handler.
func NewContentHandler(content *service.ContentService, media config.MediaConfig) *ContentHandler {
	return &ContentHandler{content: content, media: media}
}

// Home handles GET /home.
func (h *ContentHandler) Home(c *fiber.Ctx) error {
	home, err := h.content.Homepage(c.UserContext())
	if err != nil {
		return err
	}
	services := make([]*dto.ServiceResponse, 0, len(home.Services))
	for i := range home.Services {
		services = append(services, serviceResponse(&home.Services[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"properties": propertyList(home.Properties, h.media),
		"services":   services,
	}})
}

// ListNews handles GET /home/news.
func (h *ContentHandler) ListNews(c *fiber.Ctx) error {
	page, err := h.content.ListNews(c.UserContext(), parseIntQuery(c, "page", 1))
	if err != nil {
		return err
	}
	items := make([]dto.NewsResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, newsResponse(&page.Items[i], h.media))
	}
	return c.JSON(fiber.Map{"data": items, "meta": pageMeta(page)})
}

// GetNews handles GET /home/news/:id.
func (h *ContentHandler) GetNews(c *fiber.Ctx) error {
	news, err := h.content.GetNews(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": newsResponse(news, h.media)})
}

// CreateNews handles POST /admin/news.
func (h *ContentHandler) CreateNews(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.NewsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	news := &domain.News{Title: req.Title, Summary: req.Summary, Image: req.Image}
	if err := h.content.CreateNews(c.UserContext(), user, news); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": newsResponse(news, h.media)})
}

// DeleteNews handles DELETE /admin/news/:id.
func (h *ContentHandler) DeleteNews(c *fiber.Ctx) error {
	return deleteByID(c, h.content.DeleteNews)
}

// ListFAQ handles GET /home/faq.
func (h *ContentHandler) ListFAQ(c *fiber.Ctx) error {
	items, err := h.content.ListFAQ(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.FAQResponse, 0, len(items))
	for _, f := range items {
		resp = append(resp, dto.FAQResponse{ID: f.ID, Question: f.Question, Answer: f.Answer})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateFAQ handles POST /admin/faq.
func (h *ContentHandler) CreateFAQ(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.FAQRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	faq := &domain.FAQ{Question: req.Question, Answer: req.Answer}
	if err := h.content.CreateFAQ(c.UserContext(), user, faq); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FAQResponse{ID: faq.ID, Question: faq.Question, Answer: faq.Answer}})
}

// DeleteFAQ handles DELETE /admin/faq/:id.
func (h *ContentHandler) DeleteFAQ(c *fiber.Ctx) error {
	return deleteByID(c, h.content.DeleteFAQ)
}

// ListVacancies handles GET /home/vacancies.
func (h *ContentHandler) ListVacancies(c *fiber.Ctx) error {
	items, err := h.content.ListVacancies(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.VacancyResponse, 0, len(items))
	for i := range items {
		resp = append(resp, vacancyResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateVacancy handles POST /admin/vacancies.
func (h *ContentHandler) CreateVacancy(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.VacancyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	vacancy := &domain.Vacancy{Position: req.Position, Salary: req.Salary, Description: req.Description}
	if err := h.content.CreateVacancy(c.UserContext(), user, vacancy); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": vacancyResponse(vacancy)})
}

// DeleteVacancy handles DELETE /admin/vacancies/:id.
func (h *ContentHandler) DeleteVacancy(c *fiber.Ctx) error {
	return deleteByID(c, h.content.DeleteVacancy)
}

// ListContacts handles GET /home/contacts.
func (h *ContentHandler) ListContacts(c *fiber.Ctx) error {
	items, err := h.content.ListContacts(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ContactResponse, 0, len(items))
	for i := range items {
		resp = append(resp, contactResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateContact handles POST /admin/contacts.
func (h *ContentHandler) CreateContact(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ContactRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	contact := &domain.Contact{
		Name:        req.Name,
		Position:    req.Position,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
	}
	if err := h.content.CreateContact(c.UserContext(), user, contact); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": contactResponse(contact)})
}

// DeleteContact handles DELETE /admin/contacts/:id.
func (h *ContentHandler) DeleteContact(c *fiber.Ctx) error {
	return deleteByID(c, h.content.DeleteContact)
}

// PromoCodes handles GET /home/promo-codes.
func (h *ContentHandler) PromoCodes(c *fiber.Ctx) error {
	promos, err := h.content.PromoCodes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"active":   promoList(promos.Active),
		"archived": promoList(promos.Archived),
	}})
}

// CreatePromoCode handles POST /admin/promo-codes.
func (h *ContentHandler) CreatePromoCode(c *fiber.Ctx) error {
	return h.savePromoCode(c, "", http.StatusCreated)
}

// UpdatePromoCode handles PUT /admin/promo-codes/:id.
func (h *ContentHandler) UpdatePromoCode(c *fiber.Ctx) error {
	return h.savePromoCode(c, c.Params("id"), http.StatusOK)
}

func (h *ContentHandler) savePromoCode(c *fiber.Ctx, id string, status int) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.PromoCodeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	promo := &domain.PromoCode{
		ID:          id,
		Code:        req.Code,
		Discount:    req.Discount,
		Description: req.Description,
		Active:      req.Active,
	}
	if err := h.content.SavePromoCode(c.UserContext(), user, promo); err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"data": promoList([]domain.PromoCode{*promo})[0]})
}

// DeletePromoCode handles DELETE /admin/promo-codes/:id.
func (h *ContentHandler) DeletePromoCode(c *fiber.Ctx) error {
	return deleteByID(c, h.content.DeletePromoCode)
}

// ListReviews handles GET /home/reviews.
func (h *ContentHandler) ListReviews(c *fiber.Ctx) error {
	page, err := h.content.ListReviews(c.UserContext(), parseIntQuery(c, "page", 1))
	if err != nil {
		return err
	}
	items := make([]dto.ReviewResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, reviewResponse(&page.Items[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": pageMeta(page)})
}

// CreateReview handles POST /home/reviews.
func (h *ContentHandler) CreateReview(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	review, err := h.content.CreateReview(c.UserContext(), user, req.Rating, req.Text)
	if err != nil {
		return err
	}
	review.Author = user
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reviewResponse(review)})
}

// UpdateReview handles PUT /home/reviews/:id.
func (h *ContentHandler) UpdateReview(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	review, err := h.content.UpdateReview(c.UserContext(), user, c.Params("id"), req.Rating, req.Text)
	if err != nil {
		return err
	}
	review.Author = user
	return c.JSON(fiber.Map{"data": reviewResponse(review)})
}

// DeleteReview handles DELETE /home/reviews/:id.
func (h *ContentHandler) DeleteReview(c *fiber.Ctx) error {
	return deleteByID(c, h.content.DeleteReview)
}

func vacancyResponse(v *domain.Vacancy) dto.VacancyResponse {
	return dto.VacancyResponse{
		ID:          v.ID,
		Position:    v.Position,
		Salary:      money(v.Salary),
		Description: v.Description,
		CreatedAt:   v.CreatedAt,
	}
}

func contactResponse(ct *domain.Contact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:          ct.ID,
		Name:        ct.Name,
		Position:    ct.Position,
		Description: ct.Description,
		Phone:       ct.Phone,
		Email:       ct.Email,
	}
}
