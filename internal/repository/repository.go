package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolationCode = "23505"
	// invalid_text_representation: a malformed uuid compared against a uuid column.
	invalidTextCode = "22P02"
)

// ErrUniqueViolation is returned by stores that reject a duplicate key.
var ErrUniqueViolation = errors.New("unique constraint violated")

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every repository bound to one connection or transaction.
type Repositories struct {
	Users          UserRepository
	Clients        ClientRepository
	Employees      EmployeeRepository
	PasswordResets PasswordResetRepository
	PropertyTypes  PropertyTypeRepository
	ServiceTypes   ServiceTypeRepository
	Services       PropertyServiceRepository
	Properties     PropertyRepository
	Inquiries      InquiryRepository
	Transactions   TransactionRepository
	Statistics     StatisticsRepository
	News           NewsRepository
	FAQs           FAQRepository
	Vacancies      VacancyRepository
	Contacts       ContactRepository
	PromoCodes     PromoCodeRepository
	Reviews        ReviewRepository
}

// TxRunner runs fn inside one database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store exposes non-transactional repositories and a transaction runner.
type Store interface {
	TxRunner
	Repos() Repositories
}

// NewRepositories binds the Postgres repositories to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:          NewUserRepository(db),
		Clients:        NewClientRepository(db),
		Employees:      NewEmployeeRepository(db),
		PasswordResets: NewPasswordResetRepository(db),
		PropertyTypes:  NewPropertyTypeRepository(db),
		ServiceTypes:   NewServiceTypeRepository(db),
		Services:       NewPropertyServiceRepository(db),
		Properties:     NewPropertyRepository(db),
		Inquiries:      NewInquiryRepository(db),
		Transactions:   NewTransactionRepository(db),
		Statistics:     NewStatisticsRepository(db),
		News:           NewNewsRepository(db),
		FAQs:           NewFAQRepository(db),
		Vacancies:      NewVacancyRepository(db),
		Contacts:       NewContactRepository(db),
		PromoCodes:     NewPromoCodeRepository(db),
		Reviews:        NewReviewRepository(db),
	}
}

// PostgresStore is the pgx-backed Store.
type PostgresStore struct {
	pool  *pgxpool.Pool
	repos Repositories
}

// NewPostgresStore wraps pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, repos: NewRepositories(pool)}
}

// Repos returns repositories bound to the pool.
func (s *PostgresStore) Repos() Repositories {
	return s.repos
}

// WithinTx runs fn in a read-committed transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IsUniqueViolation reports whether err is a duplicate key error from Postgres or a memory store.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrUniqueViolation) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsNotFound reports whether err signals a missing row. A malformed id
// names no row, so Postgres rejecting it as a uuid counts as not found.
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextCode
}

func normalizeLimit(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
