package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/cache"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

const (
	homepageProperties = 6
	homepageServices   = 4
	// ContentPerPage is the page size of news and reviews.
	ContentPerPage = 10
)

// ContentService serves the informational pages.
type ContentService struct {
	store      repository.Store
	cache      cache.Cache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ContentDependencies bundles content collaborators.
type ContentDependencies struct {
	Store      repository.Store
	Cache      cache.Cache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewContentService builds the service.
func NewContentService(deps ContentDependencies) *ContentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := deps.Cache
	if c == nil {
		c = cache.Nop{}
	}
	return &ContentService{store: deps.Store, cache: c, dispatcher: deps.Dispatcher, logger: logger}
}

// Homepage is the featured content of the landing page.
type Homepage struct {
	Properties []domain.Property        `json:"properties"`
	Services   []domain.PropertyService `json:"services"`
}

// PromoCodes splits codes into active and archived.
type PromoCodes struct {
	Active   []domain.PromoCode `json:"active"`
	Archived []domain.PromoCode `json:"archived"`
}

// Homepage returns the newest listings and the busiest services.
func (s *ContentService) Homepage(ctx context.Context) (*Homepage, error) {
	home, err := cache.Remember(ctx, s.cache, s.logger, cache.KeyHomeFeatured, func(ctx context.Context) (Homepage, error) {
		repos := s.store.Repos()
		properties, err := repos.Properties.ListNewest(ctx, homepageProperties)
		if err != nil {
			return Homepage{}, err
		}
		services, err := repos.Services.ListTopByPropertyCount(ctx, homepageServices)
		if err != nil {
			return Homepage{}, err
		}
		return Homepage{Properties: nonNil(properties), Services: nonNil(services)}, nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &home, nil
}

// ListNews pages through news, newest first.
func (s *ContentService) ListNews(ctx context.Context, page int) (Page[domain.News], error) {
	page, limit, offset := pageBounds(page, ContentPerPage)
	items, total, err := s.store.Repos().News.List(ctx, limit, offset)
	if err != nil {
		return Page[domain.News]{}, apperrors.MapError(err)
	}
	return newPage(items, total, page, ContentPerPage), nil
}

// GetNews returns one article.
func (s *ContentService) GetNews(ctx context.Context, id string) (*domain.News, error) {
	news, err := s.store.Repos().News.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("news", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return news, nil
}

// CreateNews publishes an article. Staff only.
func (s *ContentService) CreateNews(ctx context.Context, actor *domain.User, news *domain.News) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	news.Title = strings.TrimSpace(news.Title)
	if news.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	return apperrors.MapError(s.store.Repos().News.Create(ctx, news))
}

// DeleteNews removes an article. Staff only.
func (s *ContentService) DeleteNews(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return notFoundAs("news", id, s.store.Repos().News.Delete(ctx, id))
}

// ListFAQ returns every question.
func (s *ContentService) ListFAQ(ctx context.Context) ([]domain.FAQ, error) {
	items, err := s.store.Repos().FAQs.List(ctx)
	return nonNil(items), apperrors.MapError(err)
}

// CreateFAQ adds a question. Staff only.
func (s *ContentService) CreateFAQ(ctx context.Context, actor *domain.User, faq *domain.FAQ) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if strings.TrimSpace(faq.Question) == "" || strings.TrimSpace(faq.Answer) == "" {
		return apperrors.NewValidationError("question and answer required", nil)
	}
	return apperrors.MapError(s.store.Repos().FAQs.Create(ctx, faq))
}

// DeleteFAQ removes a question. Staff only.
func (s *ContentService) DeleteFAQ(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return notFoundAs("faq", id, s.store.Repos().FAQs.Delete(ctx, id))
}

// ListVacancies returns open positions.
func (s *ContentService) ListVacancies(ctx context.Context) ([]domain.Vacancy, error) {
	items, err := s.store.Repos().Vacancies.List(ctx)
	return nonNil(items), apperrors.MapError(err)
}

// CreateVacancy opens a position. Staff only.
func (s *ContentService) CreateVacancy(ctx context.Context, actor *domain.User, vacancy *domain.Vacancy) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if strings.TrimSpace(vacancy.Position) == "" {
		return apperrors.NewValidationError("position required", nil)
	}
	if vacancy.Salary.IsNegative() {
		return apperrors.NewValidationError("salary cannot be negative", nil)
	}
	return apperrors.MapError(s.store.Repos().Vacancies.Create(ctx, vacancy))
}

// DeleteVacancy closes a position. Staff only.
func (s *ContentService) DeleteVacancy(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return notFoundAs("vacancy", id, s.store.Repos().Vacancies.Delete(ctx, id))
}

// ListContacts returns the agency contact cards.
func (s *ContentService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	items, err := s.store.Repos().Contacts.List(ctx)
	return nonNil(items), apperrors.MapError(err)
}

// CreateContact adds a contact card. Staff only.
func (s *ContentService) CreateContact(ctx context.Context, actor *domain.User, contact *domain.Contact) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if strings.TrimSpace(contact.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if err := domain.ValidatePhone(contact.Phone); err != nil {
		return err
	}
	return apperrors.MapError(s.store.Repos().Contacts.Create(ctx, contact))
}

// DeleteContact removes a contact card. Staff only.
func (s *ContentService) DeleteContact(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return notFoundAs("contact", id, s.store.Repos().Contacts.Delete(ctx, id))
}

// PromoCodes returns the cached active and archived codes.
func (s *ContentService) PromoCodes(ctx context.Context) (*PromoCodes, error) {
	promos, err := cache.Remember(ctx, s.cache, s.logger, cache.KeyPromoList, func(ctx context.Context) (PromoCodes, error) {
		items, err := s.store.Repos().PromoCodes.List(ctx)
		if err != nil {
			return PromoCodes{}, err
		}
		out := PromoCodes{Active: []domain.PromoCode{}, Archived: []domain.PromoCode{}}
		for _, p := range items {
			if p.Active {
				out.Active = append(out.Active, p)
			} else {
				out.Archived = append(out.Archived, p)
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &promos, nil
}

// SavePromoCode creates or updates a code. Staff only.
func (s *ContentService) SavePromoCode(ctx context.Context, actor *domain.User, promo *domain.PromoCode) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	promo.Code = strings.TrimSpace(promo.Code)
	if err := promo.Validate(); err != nil {
		return err
	}
	repo := s.store.Repos().PromoCodes
	var err error
	if promo.ID == "" {
		err = repo.Create(ctx, promo)
	} else {
		err = repo.Update(ctx, promo)
	}
	if repository.IsUniqueViolation(err) {
		return apperrors.NewConflict("promo code already exists", map[string]any{"code": promo.Code})
	}
	if err := notFoundAs("promo code", promo.ID, err); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, events.New(events.EventPromoCodesChanged, promo.ID, actorOf(actor), nil))
	return nil
}

// DeletePromoCode removes a code. Staff only.
func (s *ContentService) DeletePromoCode(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if err := notFoundAs("promo code", id, s.store.Repos().PromoCodes.Delete(ctx, id)); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, events.New(events.EventPromoCodesChanged, id, actorOf(actor), nil))
	return nil
}

// ListReviews pages through reviews, newest first.
func (s *ContentService) ListReviews(ctx context.Context, page int) (Page[domain.Review], error) {
	page, limit, offset := pageBounds(page, ContentPerPage)
	items, total, err := s.store.Repos().Reviews.List(ctx, limit, offset)
	if err != nil {
		return Page[domain.Review]{}, apperrors.MapError(err)
	}
	return newPage(items, total, page, ContentPerPage), nil
}

// CreateReview posts a review authored by user.
func (s *ContentService) CreateReview(ctx context.Context, user *domain.User, rating int, text string) (*domain.Review, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	review := &domain.Review{UserID: user.ID, Rating: rating, Text: strings.TrimSpace(text)}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Repos().Reviews.Create(ctx, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	return review, nil
}

// UpdateReview edits a review. Only its author may do so.
func (s *ContentService) UpdateReview(ctx context.Context, user *domain.User, id string, rating int, text string) (*domain.Review, error) {
	review, err := s.ownReview(ctx, user, id)
	if err != nil {
		return nil, err
	}
	review.Rating = rating
	review.Text = strings.TrimSpace(text)
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Repos().Reviews.Update(ctx, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	return review, nil
}

// DeleteReview removes a review. Only its author may do so.
func (s *ContentService) DeleteReview(ctx context.Context, user *domain.User, id string) error {
	if _, err := s.ownReview(ctx, user, id); err != nil {
		return err
	}
	return notFoundAs("review", id, s.store.Repos().Reviews.Delete(ctx, id))
}

func (s *ContentService) ownReview(ctx context.Context, user *domain.User, id string) (*domain.Review, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	review, err := s.store.Repos().Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs("review", id, err)
	}
	if review.UserID != user.ID {
		return nil, apperrors.NewForbidden("only the author can change a review")
	}
	return review, nil
}

func notFoundAs(resource, id string, err error) error {
	if err == nil {
		return nil
	}
	if repository.IsNotFound(err) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
