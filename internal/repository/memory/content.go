package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository"
)

func remove[V any](s *Store, table func(*dataset) map[string]V, id string) error {
	s.lock()
	defer s.unlock()
	rows := table(s.data)
	if _, ok := rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(rows, id)
	return nil
}

type newsRepo struct{ s *Store }

func (r *newsRepo) Create(_ context.Context, news *domain.News) error {
	r.s.lock()
	defer r.s.unlock()
	news.ID = r.s.data.newID()
	news.CreatedAt = r.s.stamp()
	r.s.data.news[news.ID] = *news
	return nil
}

func (r *newsRepo) Delete(_ context.Context, id string) error {
	return remove(r.s, func(d *dataset) map[string]domain.News { return d.news }, id)
}

func (r *newsRepo) GetByID(_ context.Context, id string) (*domain.News, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	news, ok := r.s.data.news[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &news, nil
}

func (r *newsRepo) List(_ context.Context, limit, offset int) ([]domain.News, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	result := values(d.news)
	sortNewestFirst(d, result,
		func(n domain.News) time.Time { return n.CreatedAt },
		func(n domain.News) string { return n.ID })
	return page(result, limit, offset, 10), len(result), nil
}

type faqRepo struct{ s *Store }

func (r *faqRepo) Create(_ context.Context, faq *domain.FAQ) error {
	r.s.lock()
	defer r.s.unlock()
	faq.ID = r.s.data.newID()
	faq.CreatedAt = r.s.stamp()
	r.s.data.faqs[faq.ID] = *faq
	return nil
}

func (r *faqRepo) Delete(_ context.Context, id string) error {
	return remove(r.s, func(d *dataset) map[string]domain.FAQ { return d.faqs }, id)
}

func (r *faqRepo) List(_ context.Context) ([]domain.FAQ, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	result := values(d.faqs)
	sortNewestFirst(d, result,
		func(f domain.FAQ) time.Time { return f.CreatedAt },
		func(f domain.FAQ) string { return f.ID })
	return result, nil
}

type vacancyRepo struct{ s *Store }

func (r *vacancyRepo) Create(_ context.Context, vacancy *domain.Vacancy) error {
	r.s.lock()
	defer r.s.unlock()
	vacancy.ID = r.s.data.newID()
	vacancy.CreatedAt = r.s.stamp()
	r.s.data.vacancies[vacancy.ID] = *vacancy
	return nil
}

func (r *vacancyRepo) Delete(_ context.Context, id string) error {
	return remove(r.s, func(d *dataset) map[string]domain.Vacancy { return d.vacancies }, id)
}

func (r *vacancyRepo) List(_ context.Context) ([]domain.Vacancy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	result := values(d.vacancies)
	sortNewestFirst(d, result,
		func(v domain.Vacancy) time.Time { return v.CreatedAt },
		func(v domain.Vacancy) string { return v.ID })
	return result, nil
}

type contactRepo struct{ s *Store }

func (r *contactRepo) Create(_ context.Context, contact *domain.Contact) error {
	r.s.lock()
	defer r.s.unlock()
	contact.ID = r.s.data.newID()
	r.s.data.contacts[contact.ID] = *contact
	return nil
}

func (r *contactRepo) Delete(_ context.Context, id string) error {
	return remove(r.s, func(d *dataset) map[string]domain.Contact { return d.contacts }, id)
}

func (r *contactRepo) List(_ context.Context) ([]domain.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := values(r.s.data.contacts)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type promoRepo struct{ s *Store }

func (r *promoRepo) Create(_ context.Context, promo *domain.PromoCode) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if err := d.checkPromoCode(promo); err != nil {
		return err
	}
	promo.ID = d.newID()
	promo.CreatedAt = r.s.stamp()
	d.promos[promo.ID] = *promo
	return nil
}

func (r *promoRepo) Update(_ context.Context, promo *domain.PromoCode) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	existing, ok := d.promos[promo.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := d.checkPromoCode(promo); err != nil {
		return err
	}
	existing.Code = promo.Code
	existing.Discount = promo.Discount
	existing.Description = promo.Description
	existing.Active = promo.Active
	d.promos[promo.ID] = existing
	return nil
}

func (r *promoRepo) Delete(_ context.Context, id string) error {
	return remove(r.s, func(d *dataset) map[string]domain.PromoCode { return d.promos }, id)
}

func (r *promoRepo) GetByID(_ context.Context, id string) (*domain.PromoCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	promo, ok := r.s.data.promos[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &promo, nil
}

func (r *promoRepo) List(_ context.Context) ([]domain.PromoCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	result := values(d.promos)
	sortNewestFirst(d, result,
		func(p domain.PromoCode) time.Time { return p.CreatedAt },
		func(p domain.PromoCode) string { return p.ID })
	return result, nil
}

func (d *dataset) checkPromoCode(promo *domain.PromoCode) error {
	for id, existing := range d.promos {
		if id != promo.ID && existing.Code == promo.Code {
			return fmt.Errorf("promo_codes.code %q: %w", promo.Code, repository.ErrUniqueViolation)
		}
	}
	return nil
}

type reviewRepo struct{ s *Store }

func (r *reviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.s.lock()
	defer r.s.unlock()
	d := r.s.data
	if _, ok := d.users[review.UserID]; !ok {
		return fmt.Errorf("reviews.user_id %q: unknown user", review.UserID)
	}
	review.ID = d.newID()
	review.CreatedAt = r.s.stamp()
	review.UpdatedAt = review.CreatedAt
	stored := *review
	stored.Author = nil
	d.reviews[review.ID] = stored
	return nil
}

func (r *reviewRepo) Update(_ context.Context, review *domain.Review) error {
	r.s.lock()
	defer r.s.unlock()
	existing, ok := r.s.data.reviews[review.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Rating = review.Rating
	existing.Text = review.Text
	existing.UpdatedAt = r.s.stamp()
	review.UpdatedAt = existing.UpdatedAt
	r.s.data.reviews[review.ID] = existing
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id string) error {
	return remove(r.s, func(d *dataset) map[string]domain.Review { return d.reviews }, id)
}

func (r *reviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	review, ok := r.s.data.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.s.data.hydrateReview(review), nil
}

func (r *reviewRepo) List(_ context.Context, limit, offset int) ([]domain.Review, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d := r.s.data
	result := make([]domain.Review, 0, len(d.reviews))
	for _, review := range d.reviews {
		result = append(result, *d.hydrateReview(review))
	}
	sortNewestFirst(d, result,
		func(r domain.Review) time.Time { return r.CreatedAt },
		func(r domain.Review) string { return r.ID })
	return page(result, limit, offset, 10), len(result), nil
}

func (d *dataset) hydrateReview(review domain.Review) *domain.Review {
	if user, ok := d.users[review.UserID]; ok {
		review.Author = &user
	}
	return &review
}
