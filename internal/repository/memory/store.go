// Package memory is an in-process implementation of the repository
// interfaces. It backs the service when no Postgres DSN is configured and is
// the store used by service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

// Store keeps every table in maps guarded by one lock. WithinTx runs the
// callback against a private copy of the data and publishes it only on
// success. Writers outside a transaction wait for the running one, so a
// commit never overwrites their rows.
type Store struct {
	mu    sync.RWMutex
	txMu  *sync.Mutex
	inTx  bool
	data  *dataset
	now   func() time.Time
	repos repository.Repositories
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{txMu: &sync.Mutex{}, data: newDataset(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.bindRepos()
	return s
}

func (s *Store) bindRepos() {
	s.repos = repository.Repositories{
		Users:          &userRepo{s},
		Clients:        &clientRepo{s},
		Employees:      &employeeRepo{s},
		PasswordResets: &resetRepo{s},
		PropertyTypes:  &propertyTypeRepo{s},
		ServiceTypes:   &serviceTypeRepo{s},
		Services:       &serviceRepo{s},
		Properties:     &propertyRepo{s},
		Inquiries:      &inquiryRepo{s},
		Transactions:   &transactionRepo{s},
		Statistics:     &statisticsRepo{s},
		News:           &newsRepo{s},
		FAQs:           &faqRepo{s},
		Vacancies:      &vacancyRepo{s},
		Contacts:       &contactRepo{s},
		PromoCodes:     &promoRepo{s},
		Reviews:        &reviewRepo{s},
	}
}

// Repos returns the repositories backed by this store.
func (s *Store) Repos() repository.Repositories {
	return s.repos
}

// WithinTx runs fn against a copy of the data. The copy replaces the live
// data only when fn returns nil; an error or panic discards it. Transactions
// do not nest: fn must use the repositories it is given.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &Store{txMu: s.txMu, inTx: true, data: s.data.clone(), now: s.now}
	s.mu.RUnlock()
	tx.bindRepos()

	if err := fn(ctx, tx.repos); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

// lock takes the write lock. Outside a transaction it first waits for the
// running transaction to finish.
func (s *Store) lock() {
	if !s.inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
}

func (s *Store) unlock() {
	s.mu.Unlock()
	if !s.inTx {
		s.txMu.Unlock()
	}
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func (s *Store) today() time.Time {
	now := s.stamp()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type dataset struct {
	seq           int64
	order         map[string]int64
	users         map[string]domain.User
	clients       map[string]domain.Client
	employees     map[string]domain.Employee
	resets        map[string]domain.PasswordResetToken
	propertyTypes map[string]domain.PropertyType
	serviceTypes  map[string]domain.ServiceType
	services      map[string]domain.PropertyService
	properties    map[string]domain.Property
	inquiries     map[string]domain.PropertyInquiry
	transactions  map[string]domain.Transaction
	news          map[string]domain.News
	faqs          map[string]domain.FAQ
	vacancies     map[string]domain.Vacancy
	contacts      map[string]domain.Contact
	promos        map[string]domain.PromoCode
	reviews       map[string]domain.Review
}

func newDataset() *dataset {
	return &dataset{
		order:         map[string]int64{},
		users:         map[string]domain.User{},
		clients:       map[string]domain.Client{},
		employees:     map[string]domain.Employee{},
		resets:        map[string]domain.PasswordResetToken{},
		propertyTypes: map[string]domain.PropertyType{},
		serviceTypes:  map[string]domain.ServiceType{},
		services:      map[string]domain.PropertyService{},
		properties:    map[string]domain.Property{},
		inquiries:     map[string]domain.PropertyInquiry{},
		transactions:  map[string]domain.Transaction{},
		news:          map[string]domain.News{},
		faqs:          map[string]domain.FAQ{},
		vacancies:     map[string]domain.Vacancy{},
		contacts:      map[string]domain.Contact{},
		promos:        map[string]domain.PromoCode{},
		reviews:       map[string]domain.Review{},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		seq:           d.seq,
		order:         copyMap(d.order),
		users:         copyMap(d.users),
		clients:       copyMap(d.clients),
		employees:     copyMap(d.employees),
		resets:        copyMap(d.resets),
		propertyTypes: copyMap(d.propertyTypes),
		serviceTypes:  copyMap(d.serviceTypes),
		services:      copyMap(d.services),
		properties:    copyMap(d.properties),
		inquiries:     copyMap(d.inquiries),
		transactions:  copyMap(d.transactions),
		news:          copyMap(d.news),
		faqs:          copyMap(d.faqs),
		vacancies:     copyMap(d.vacancies),
		contacts:      copyMap(d.contacts),
		promos:        copyMap(d.promos),
		reviews:       copyMap(d.reviews),
	}
	for id, client := range c.clients {
		client.PreferredPropertyTypes = append([]string(nil), client.PreferredPropertyTypes...)
		c.clients[id] = client
	}
	return c
}

// newID allocates an id and records its insertion order.
func (d *dataset) newID() string {
	id := uuid.NewString()
	d.seq++
	d.order[id] = d.seq
	return id
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func values[V any](src map[string]V) []V {
	out := make([]V, 0, len(src))
	for _, v := range src {
		out = append(out, v)
	}
	return out
}

// sortNewestFirst orders by time descending, then by insertion order descending.
func sortNewestFirst[V any](d *dataset, items []V, at func(V) time.Time, id func(V) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return d.order[id(items[i])] > d.order[id(items[j])]
	})
}

func page[V any](items []V, limit, offset, def int) []V {
	if limit <= 0 {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func ptr[T any](v T) *T {
	return &v
}
