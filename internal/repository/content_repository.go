package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// NewsRepository persists news articles.
type NewsRepository interface {
	Create(ctx context.Context, news *domain.News) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.News, error)
	List(ctx context.Context, limit, offset int) ([]domain.News, int, error)
}

// FAQRepository persists questions and answers.
type FAQRepository interface {
	Create(ctx context.Context, faq *domain.FAQ) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.FAQ, error)
}

// VacancyRepository persists open positions.
type VacancyRepository interface {
	Create(ctx context.Context, vacancy *domain.Vacancy) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Vacancy, error)
}

// ContactRepository persists contact cards.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Contact, error)
}

// PromoCodeRepository persists promo codes.
type PromoCodeRepository interface {
	Create(ctx context.Context, promo *domain.PromoCode) error
	Update(ctx context.Context, promo *domain.PromoCode) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.PromoCode, error)
	List(ctx context.Context) ([]domain.PromoCode, error)
}

// ReviewRepository persists user reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	List(ctx context.Context, limit, offset int) ([]domain.Review, int, error)
}

type newsRepository struct{ db DBTX }
type faqRepository struct{ db DBTX }
type vacancyRepository struct{ db DBTX }
type contactRepository struct{ db DBTX }
type promoCodeRepository struct{ db DBTX }
type reviewRepository struct{ db DBTX }

// NewNewsRepository instantiates the repository.
func NewNewsRepository(db DBTX) NewsRepository { return &newsRepository{db: db} }

// NewFAQRepository instantiates the repository.
func NewFAQRepository(db DBTX) FAQRepository { return &faqRepository{db: db} }

// NewVacancyRepository instantiates the repository.
func NewVacancyRepository(db DBTX) VacancyRepository { return &vacancyRepository{db: db} }

// NewContactRepository instantiates the repository.
func NewContactRepository(db DBTX) ContactRepository { return &contactRepository{db: db} }

// NewPromoCodeRepository instantiates the repository.
func NewPromoCodeRepository(db DBTX) PromoCodeRepository { return &promoCodeRepository{db: db} }

// NewReviewRepository instantiates the repository.
func NewReviewRepository(db DBTX) ReviewRepository { return &reviewRepository{db: db} }

func deleteByID(ctx context.Context, db DBTX, table, id string) error {
	cmd, err := db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsRepository) Create(ctx context.Context, news *domain.News) error {
	const query = `INSERT INTO news (title, summary, image) VALUES ($1,$2,$3) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, news.Title, news.Summary, news.Image).Scan(&news.ID, &news.CreatedAt)
}

func (r *newsRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "news", id)
}

func (r *newsRepository) GetByID(ctx context.Context, id string) (*domain.News, error) {
	var n domain.News
	if err := r.db.QueryRow(ctx, `SELECT id, title, summary, image, created_at FROM news WHERE id=$1`, id).
		Scan(&n.ID, &n.Title, &n.Summary, &n.Image, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *newsRepository) List(ctx context.Context, limit, offset int) ([]domain.News, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, err
	}
	limit, offset = normalizeLimit(limit, offset, 10)
	query := fmt.Sprintf(`SELECT id, title, summary, image, created_at FROM news ORDER BY created_at DESC, id LIMIT %d OFFSET %d`, limit, offset)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.News
	for rows.Next() {
		var n domain.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.Image, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	return result, total, rows.Err()
}

func (r *faqRepository) Create(ctx context.Context, faq *domain.FAQ) error {
	const query = `INSERT INTO faqs (question, answer) VALUES ($1,$2) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, faq.Question, faq.Answer).Scan(&faq.ID, &faq.CreatedAt)
}

func (r *faqRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "faqs", id)
}

func (r *faqRepository) List(ctx context.Context) ([]domain.FAQ, error) {
	rows, err := r.db.Query(ctx, `SELECT id, question, answer, created_at FROM faqs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FAQ
	for rows.Next() {
		var f domain.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *vacancyRepository) Create(ctx context.Context, vacancy *domain.Vacancy) error {
	const query = `INSERT INTO vacancies (position, salary, description) VALUES ($1,$2,$3) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, vacancy.Position, vacancy.Salary, vacancy.Description).Scan(&vacancy.ID, &vacancy.CreatedAt)
}

func (r *vacancyRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "vacancies", id)
}

func (r *vacancyRepository) List(ctx context.Context) ([]domain.Vacancy, error) {
	rows, err := r.db.Query(ctx, `SELECT id, position, salary, description, created_at FROM vacancies ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Vacancy
	for rows.Next() {
		var v domain.Vacancy
		if err := rows.Scan(&v.ID, &v.Position, &v.Salary, &v.Description, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	const query = `
        INSERT INTO contacts (name, position, description, phone, email)
        VALUES ($1,$2,$3,$4,$5) RETURNING id`
	return r.db.QueryRow(ctx, query, contact.Name, contact.Position, contact.Description, contact.Phone, contact.Email).Scan(&contact.ID)
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "contacts", id)
}

func (r *contactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, position, description, phone, email FROM contacts ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.Description, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *promoCodeRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	const query = `
        INSERT INTO promo_codes (code, discount, description, active)
        VALUES ($1,$2,$3,$4) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, promo.Code, promo.Discount, promo.Description, promo.Active).Scan(&promo.ID, &promo.CreatedAt)
}

func (r *promoCodeRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	const query = `UPDATE promo_codes SET code=$1, discount=$2, description=$3, active=$4 WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query, promo.Code, promo.Discount, promo.Description, promo.Active, promo.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *promoCodeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "promo_codes", id)
}

func (r *promoCodeRepository) GetByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	var p domain.PromoCode
	if err := r.db.QueryRow(ctx, `SELECT id, code, discount, description, active, created_at FROM promo_codes WHERE id=$1`, id).
		Scan(&p.ID, &p.Code, &p.Discount, &p.Description, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promoCodeRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, discount, description, active, created_at FROM promo_codes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PromoCode
	for rows.Next() {
		var p domain.PromoCode
		if err := rows.Scan(&p.ID, &p.Code, &p.Discount, &p.Description, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

const reviewSelect = `
        SELECT r.id, r.user_id, r.rating, r.text, r.created_at, r.updated_at, u.username, u.first_name, u.last_name
        FROM reviews r JOIN users u ON u.id = r.user_id`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `INSERT INTO reviews (user_id, rating, text) VALUES ($1,$2,$3) RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, review.UserID, review.Rating, review.Text).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	const query = `UPDATE reviews SET rating=$1, text=$2, updated_at=NOW() WHERE id=$3 RETURNING updated_at`
	return r.db.QueryRow(ctx, query, review.Rating, review.Text, review.ID).Scan(&review.UpdatedAt)
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "reviews", id)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id=$1`, id))
}

func (r *reviewRepository) List(ctx context.Context, limit, offset int) ([]domain.Review, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, err
	}
	limit, offset = normalizeLimit(limit, offset, 10)
	query := fmt.Sprintf(`%s ORDER BY r.created_at DESC, r.id LIMIT %d OFFSET %d`, reviewSelect, limit, offset)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *review)
	}
	return result, total, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var (
		review domain.Review
		author domain.User
	)
	if err := row.Scan(&review.ID, &review.UserID, &review.Rating, &review.Text, &review.CreatedAt, &review.UpdatedAt,
		&author.Username, &author.FirstName, &author.LastName); err != nil {
		return nil, err
	}
	author.ID = review.UserID
	review.Author = &author
	return &review, nil
}
