package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/geo"
	"github.com/spec-kit/estate-agency/internal/repository"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// PropertiesPerPage is the catalog page size.
const PropertiesPerPage = 9

// CatalogService serves the property catalog and its staff maintenance.
type CatalogService struct {
	store      repository.Store
	maps       geo.MapProvider
	dispatcher events.Dispatcher
	logger     *zap.Logger
	media      config.MediaConfig
}

// CatalogDependencies bundles catalog collaborators.
type CatalogDependencies struct {
	Store      repository.Store
	Maps       geo.MapProvider
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(cfg config.Config, deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		store:      deps.Store,
		maps:       deps.Maps,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		media:      cfg.Media,
	}
}

// PropertyQuery is a catalog search request.
type PropertyQuery struct {
	Search         string
	ServiceID      string
	ServiceTypeID  string
	PropertyTypeID string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	Sort           string
	Page           int
}

// PropertyDetail is a listing with viewer specific extras.
type PropertyDetail struct {
	Property      *domain.Property
	PhotoURL      string
	MapImageURL   string
	InquiryExists bool
}

// ListAvailable pages through unsold listings.
func (s *CatalogService) ListAvailable(ctx context.Context, q PropertyQuery) (Page[domain.Property], error) {
	sort := repository.SortPriceDesc
	if q.Sort != "" {
		sort = repository.PropertySort(q.Sort)
		if !repository.ValidSort(sort) {
			return Page[domain.Property]{}, apperrors.NewValidationError("unknown sort order", map[string]any{"sort": q.Sort})
		}
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return Page[domain.Property]{}, apperrors.NewValidationError("min_price exceeds max_price", nil)
	}
	page, limit, offset := pageBounds(q.Page, PropertiesPerPage)
	filter := repository.PropertyFilter{
		SearchTerm:     optional(q.Search),
		ServiceID:      optional(q.ServiceID),
		ServiceTypeID:  optional(q.ServiceTypeID),
		PropertyTypeID: optional(q.PropertyTypeID),
		MinPrice:       q.MinPrice,
		MaxPrice:       q.MaxPrice,
		Sort:           sort,
		Limit:          limit,
		Offset:         offset,
	}
	items, total, err := s.store.Repos().Properties.List(ctx, filter)
	if err != nil {
		return Page[domain.Property]{}, apperrors.MapError(err)
	}
	return newPage(items, total, page, PropertiesPerPage), nil
}

// GetProperty returns a listing. A client viewer learns whether it already
// sent an inquiry for it. Map failures only drop the map image.
func (s *CatalogService) GetProperty(ctx context.Context, viewer *domain.User, id string) (*PropertyDetail, error) {
	if !isID(id) {
		return nil, apperrors.NewNotFound("property", map[string]any{"property_id": id})
	}
	repos := s.store.Repos()
	property, err := repos.Properties.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("property", map[string]any{"property_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	detail := &PropertyDetail{
		Property: property,
		PhotoURL: property.PhotoURL(s.media.URLPrefix, s.media.DefaultPhotoName),
	}

	if viewer != nil && viewer.Role == domain.RoleClient {
		client, err := repos.Clients.GetByUserID(ctx, viewer.ID)
		switch {
		case err == nil:
			exists, err := repos.Inquiries.Exists(ctx, property.ID, client.ID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			detail.InquiryExists = exists
		case !repository.IsNotFound(err):
			return nil, apperrors.MapError(err)
		}
	}

	if s.maps != nil {
		url, err := s.maps.StaticMapURL(ctx, property.Location)
		if err != nil {
			s.logger.Warn("static map unavailable", zap.String("property_id", property.ID), zap.Error(err))
		} else {
			detail.MapImageURL = url
		}
	}
	return detail, nil
}

// ServiceQuery filters catalog services.
type ServiceQuery struct {
	ServiceTypeID string
	MinFee        *decimal.Decimal
	MaxFee        *decimal.Decimal
}

// ListServices returns services matching q.
func (s *CatalogService) ListServices(ctx context.Context, q ServiceQuery) ([]domain.PropertyService, error) {
	items, err := s.store.Repos().Services.List(ctx, repository.ServiceFilter{
		ServiceTypeID: optional(q.ServiceTypeID),
		MinFee:        q.MinFee,
		MaxFee:        q.MaxFee,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.PropertyService{}
	}
	return items, nil
}

// GetService returns one service.
func (s *CatalogService) GetService(ctx context.Context, id string) (*domain.PropertyService, error) {
	svc, err := s.store.Repos().Services.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("service", map[string]any{"service_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}

// ListPropertyTypes returns the property taxonomy.
func (s *CatalogService) ListPropertyTypes(ctx context.Context) ([]domain.PropertyType, error) {
	items, err := s.store.Repos().PropertyTypes.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.PropertyType{}
	}
	return items, nil
}

// ListServiceTypes returns the service taxonomy.
func (s *CatalogService) ListServiceTypes(ctx context.Context) ([]domain.ServiceType, error) {
	items, err := s.store.Repos().ServiceTypes.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.ServiceType{}
	}
	return items, nil
}

// SavePropertyType creates or updates a property type. Staff only.
func (s *CatalogService) SavePropertyType(ctx context.Context, actor *domain.User, pt *domain.PropertyType) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	pt.Title = strings.TrimSpace(pt.Title)
	if err := pt.Validate(); err != nil {
		return err
	}
	repo := s.store.Repos().PropertyTypes
	var err error
	if pt.ID == "" {
		err = repo.Create(ctx, pt)
	} else {
		err = repo.Update(ctx, pt)
	}
	return s.mutated(ctx, actor, "property_type", pt.ID, err)
}

// DeletePropertyType removes a property type; listings keep existing without it.
func (s *CatalogService) DeletePropertyType(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return s.mutated(ctx, actor, "property_type", id, s.store.Repos().PropertyTypes.Delete(ctx, id))
}

// SaveServiceType creates or updates a service type. Staff only.
func (s *CatalogService) SaveServiceType(ctx context.Context, actor *domain.User, st *domain.ServiceType) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	st.Title = strings.TrimSpace(st.Title)
	if err := st.Validate(); err != nil {
		return err
	}
	repo := s.store.Repos().ServiceTypes
	var err error
	if st.ID == "" {
		err = repo.Create(ctx, st)
	} else {
		err = repo.Update(ctx, st)
	}
	return s.mutated(ctx, actor, "service_type", st.ID, err)
}

// DeleteServiceType removes a service type together with its services.
func (s *CatalogService) DeleteServiceType(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return s.mutated(ctx, actor, "service_type", id, s.store.Repos().ServiceTypes.Delete(ctx, id))
}

// SaveService creates or updates a property service. Staff only.
func (s *CatalogService) SaveService(ctx context.Context, actor *domain.User, svc *domain.PropertyService) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	svc.Title = strings.TrimSpace(svc.Title)
	if err := svc.Validate(); err != nil {
		return err
	}
	repos := s.store.Repos()
	if _, err := repos.ServiceTypes.GetByID(ctx, svc.ServiceTypeID); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewValidationError("unknown service type", map[string]any{"service_type_id": svc.ServiceTypeID})
		}
		return apperrors.MapError(err)
	}
	var err error
	if svc.ID == "" {
		err = repos.Services.Create(ctx, svc)
	} else {
		err = repos.Services.Update(ctx, svc)
	}
	return s.mutated(ctx, actor, "service", svc.ID, err)
}

// DeleteService removes a service; its properties lose the service link.
func (s *CatalogService) DeleteService(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	return s.mutated(ctx, actor, "service", id, s.store.Repos().Services.Delete(ctx, id))
}

// SaveProperty creates or updates a listing. Staff only.
func (s *CatalogService) SaveProperty(ctx context.Context, actor *domain.User, property *domain.Property) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	property.Details = strings.TrimSpace(property.Details)
	property.Location = strings.TrimSpace(property.Location)
	property.Price = property.Price.Round(domain.MoneyPlaces)
	property.Area = property.Area.Round(domain.MoneyPlaces)
	if err := property.Validate(); err != nil {
		return err
	}
	repos := s.store.Repos()
	if property.ServiceID != nil {
		if _, err := repos.Services.GetByID(ctx, *property.ServiceID); err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewValidationError("unknown service", map[string]any{"service_id": *property.ServiceID})
			}
			return apperrors.MapError(err)
		}
	}
	if property.PropertyTypeID != nil {
		if _, err := repos.PropertyTypes.GetByID(ctx, *property.PropertyTypeID); err != nil {
			if repository.IsNotFound(err) {
				return apperrors.NewValidationError("unknown property type", map[string]any{"property_type_id": *property.PropertyTypeID})
			}
			return apperrors.MapError(err)
		}
	}
	var err error
	if property.ID == "" {
		err = repos.Properties.Create(ctx, property)
	} else {
		err = repos.Properties.Update(ctx, property)
	}
	return s.mutated(ctx, actor, "property", property.ID, err)
}

// DeleteProperty removes a listing that has not been sold.
func (s *CatalogService) DeleteProperty(ctx context.Context, actor *domain.User, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	property, err := s.store.Repos().Properties.GetByID(ctx, id)
	if err != nil {
		return s.mutated(ctx, actor, "property", id, err)
	}
	if property.Sold {
		return apperrors.NewConflict("sold property cannot be deleted", map[string]any{"property_id": id})
	}
	return s.mutated(ctx, actor, "property", id, s.store.Repos().Properties.Delete(ctx, id))
}

// mutated maps the repository error of a catalog write and announces a
// successful one.
func (s *CatalogService) mutated(ctx context.Context, actor *domain.User, kind, id string, err error) error {
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound(kind, map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	publish(ctx, s.dispatcher, events.New(events.EventCatalogChanged, id, actorOf(actor), map[string]string{"kind": kind}))
	return nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
