package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

type propertyTypeRepo struct{ s *Store }

func (r *propertyTypeRepo) Create(_ context.Context, pt *domain.PropertyType) error {
	r.s.lock()
	defer r.s.unlock()
	pt.ID = r.s.data.newID()
	r.s.data.propertyTypes[pt.ID] = *pt
	return nil
}

func (r *propertyTypeRepo) Update(_ context.Context, pt *domain.PropertyType) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.data.propertyTypes[pt.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.data.propertyTypes[pt.ID] = *pt
	return nil
}

// Delete clears the type from properties and client preferences.
func (r *propertyTypeRepo) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.propertyTypes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(d.propertyTypes, id)
	for pid, property := range d.properties {
		if property.PropertyTypeID != nil && *property.PropertyTypeID == id {
			property.PropertyTypeID = nil
			d.properties[pid] = property
		}
	}
	for cid, client := range d.clients {
		kept := client.PreferredPropertyTypes[:0:0]
		for _, typeID := range client.PreferredPropertyTypes {
			if typeID != id {
				kept = append(kept, typeID)
			}
		}
		client.PreferredPropertyTypes = kept
		d.clients[cid] = client
	}
	return nil
}

func (r *propertyTypeRepo) GetByID(_ context.Context, id string) (*domain.PropertyType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pt, ok := r.s.data.propertyTypes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &pt, nil
}

func (r *propertyTypeRepo) List(_ context.Context) ([]domain.PropertyType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := values(r.s.data.propertyTypes)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type serviceTypeRepo struct{ s *Store }

func (r *serviceTypeRepo) Create(_ context.Context, st *domain.ServiceType) error {
	r.s.lock()
	defer r.s.unlock()
	st.ID = r.s.data.newID()
	r.s.data.serviceTypes[st.ID] = *st
	return nil
}

func (r *serviceTypeRepo) Update(_ context.Context, st *domain.ServiceType) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.data.serviceTypes[st.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.data.serviceTypes[st.ID] = *st
	return nil
}

// Delete removes the type together with its services.
func (r *serviceTypeRepo) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.serviceTypes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(d.serviceTypes, id)
	for sid, svc := range d.services {
		if svc.ServiceTypeID == id {
			d.deleteService(sid)
		}
	}
	return nil
}

func (r *serviceTypeRepo) GetByID(_ context.Context, id string) (*domain.ServiceType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.data.serviceTypes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &st, nil
}

func (r *serviceTypeRepo) List(_ context.Context) ([]domain.ServiceType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := values(r.s.data.serviceTypes)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type serviceRepo struct{ s *Store }

func (r *serviceRepo) Create(_ context.Context, svc *domain.PropertyService) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.serviceTypes[svc.ServiceTypeID]; !ok {
		return fmt.Errorf("property_services.service_type_id %q: unknown service type", svc.ServiceTypeID)
	}
	svc.ID = d.newID()
	stored := *svc
	stored.ServiceType = nil
	d.services[svc.ID] = stored
	return nil
}

func (r *serviceRepo) Update(_ context.Context, svc *domain.PropertyService) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	if _, ok := d.serviceTypes[svc.ServiceTypeID]; !ok {
		return fmt.Errorf("property_services.service_type_id %q: unknown service type", svc.ServiceTypeID)
	}
	stored := *svc
	stored.ServiceType = nil
	d.services[svc.ID] = stored
	return nil
}

// Delete removes the service; linked properties keep existing with no service.
func (r *serviceRepo) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.data.services[id]; !ok {
		return pgx.ErrNoRows
	}
	r.s.data.deleteService(id)
	return nil
}

func (r *serviceRepo) GetByID(_ context.Context, id string) (*domain.PropertyService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.data.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateService(svc), nil
}

func (r *serviceRepo) List(_ context.Context, filter repository.ServiceFilter) ([]domain.PropertyService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	var result []domain.PropertyService
	for _, svc := range d.services {
		if filter.ServiceTypeID != nil && svc.ServiceTypeID != *filter.ServiceTypeID {
			continue
		}
		if filter.MinFee != nil && svc.ServiceFee.LessThan(*filter.MinFee) {
			continue
		}
		if filter.MaxFee != nil && svc.ServiceFee.GreaterThan(*filter.MaxFee) {
			continue
		}
		result = append(result, *d.hydrateService(svc))
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.ServiceType.Title != b.ServiceType.Title {
			return a.ServiceType.Title < b.ServiceType.Title
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
	return result, nil
}

// ListTopByPropertyCount returns the services linked to the most properties.
func (r *serviceRepo) ListTopByPropertyCount(_ context.Context, limit int) ([]domain.PropertyService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	counts := map[string]int{}
	for _, property := range d.properties {
		if property.ServiceID != nil {
			counts[*property.ServiceID]++
		}
	}
	result := make([]domain.PropertyService, 0, len(d.services))
	for _, svc := range d.services {
		result = append(result, *d.hydrateService(svc))
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if counts[a.ID] != counts[b.ID] {
			return counts[a.ID] > counts[b.ID]
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
	return page(result, limit, 0, 4), nil
}

type propertyRepo struct{ s *Store }

func (r *propertyRepo) Create(_ context.Context, property *domain.Property) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if err := d.checkPropertyRefs(property); err != nil {
		return err
	}
	property.ID = d.newID()
	property.CreatedAt = r.s.stamp()
	d.properties[property.ID] = bareProperty(*property)
	return nil
}

func (r *propertyRepo) Update(_ context.Context, property *domain.Property) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	existing, ok := d.properties[property.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := d.checkPropertyRefs(property); err != nil {
		return err
	}
	updated := bareProperty(*property)
	updated.CreatedAt = existing.CreatedAt
	d.properties[property.ID] = updated
	return nil
}

// Delete removes the listing with its inquiries and transaction.
func (r *propertyRepo) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.properties[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(d.properties, id)
	for iid, inquiry := range d.inquiries {
		if inquiry.PropertyID == id {
			delete(d.inquiries, iid)
		}
	}
	for tid, txn := range d.transactions {
		if txn.PropertyID == id {
			delete(d.transactions, tid)
		}
	}
	return nil
}

func (r *propertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	property, ok := r.s.data.properties[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateProperty(property), nil
}

// List returns one page of properties matching filter and the total match count.
func (r *propertyRepo) List(_ context.Context, filter repository.PropertyFilter) ([]domain.Property, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data

	var term string
	if filter.SearchTerm != nil {
		term = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}

	var matches []domain.Property
	for _, stored := range d.properties {
		property := d.hydrateProperty(stored)
		if !filter.IncludeSold && property.Sold {
			continue
		}
		if filter.ServiceID != nil && (property.ServiceID == nil || *property.ServiceID != *filter.ServiceID) {
			continue
		}
		if filter.ServiceTypeID != nil && (property.Service == nil || property.Service.ServiceTypeID != *filter.ServiceTypeID) {
			continue
		}
		if filter.PropertyTypeID != nil && (property.PropertyTypeID == nil || *property.PropertyTypeID != *filter.PropertyTypeID) {
			continue
		}
		if filter.MinPrice != nil && property.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && property.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if term != "" && !propertyMatches(property, term) {
			continue
		}
		matches = append(matches, *property)
	}

	sortProperties(matches, filter.Sort)
	return page(matches, filter.Limit, filter.Offset, 9), len(matches), nil
}

// ListNewest returns the most recently listed available properties.
func (r *propertyRepo) ListNewest(_ context.Context, limit int) ([]domain.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	var result []domain.Property
	for _, stored := range d.properties {
		property := d.hydrateProperty(stored)
		if !property.Sold {
			result = append(result, *property)
		}
	}
	sortNewestFirst(d, result,
		func(p domain.Property) time.Time { return p.CreatedAt },
		func(p domain.Property) string { return p.ID })
	return page(result, limit, 0, 6), nil
}

func propertyMatches(property *domain.Property, term string) bool {
	if strings.Contains(strings.ToLower(property.Location), term) ||
		strings.Contains(strings.ToLower(property.Details), term) {
		return true
	}
	return property.Service != nil && strings.Contains(strings.ToLower(property.Service.Title), term)
}

func sortProperties(items []domain.Property, order repository.PropertySort) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		switch order {
		case repository.SortPriceAsc:
			cmp = a.Price.Cmp(b.Price)
		case repository.SortAreaAsc:
			cmp = a.Area.Cmp(b.Area)
		case repository.SortAreaDesc:
			cmp = b.Area.Cmp(a.Area)
		default:
			cmp = b.Price.Cmp(a.Price)
		}
		if cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
}

func bareProperty(property domain.Property) domain.Property {
	property.Service = nil
	property.Sold = false
	return property
}

func (d *dataset) checkPropertyRefs(property *domain.Property) error {
	if property.ServiceID != nil {
		if _, ok := d.services[*property.ServiceID]; !ok {
			return fmt.Errorf("properties.service_id %q: unknown service", *property.ServiceID)
		}
	}
	if property.PropertyTypeID != nil {
		if _, ok := d.propertyTypes[*property.PropertyTypeID]; !ok {
			return fmt.Errorf("properties.property_type_id %q: unknown property type", *property.PropertyTypeID)
		}
	}
	return nil
}

func (d *dataset) deleteService(id string) {
	delete(d.services, id)
	for pid, property := range d.properties {
		if property.ServiceID != nil && *property.ServiceID == id {
			property.ServiceID = nil
			d.properties[pid] = property
		}
	}
}

func (d *dataset) hydrateService(svc domain.PropertyService) *domain.PropertyService {
	if st, ok := d.serviceTypes[svc.ServiceTypeID]; ok {
		svc.ServiceType = &st
	}
	return &svc
}

func (d *dataset) hydrateProperty(property domain.Property) *domain.Property {
	if property.ServiceID != nil {
		if svc, ok := d.services[*property.ServiceID]; ok {
			property.Service = d.hydrateService(svc)
		}
	}
	property.Sold = d.propertySold(property.ID)
	return &property
}

func (d *dataset) propertySold(id string) bool {
	for _, txn := range d.transactions {
		if txn.PropertyID == id {
			return true
		}
	}
	return false
}
