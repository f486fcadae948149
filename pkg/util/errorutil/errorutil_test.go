package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorMapsNoRows(t *testing.T) {
	err := ToDomainError(fmt.Errorf("load: %w", pgx.ErrNoRows))

	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
}

func TestToDomainErrorMapsMalformedIDToNotFound(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	err := ToDomainError(fmt.Errorf("get inquiry: %w", pgErr))

	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, CodeInternal, ToDomainError(&pgconn.PgError{Code: "23503"}).Code)
}

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", NewStaleState(nil))

	err := ToDomainError(wrapped)

	assert.Equal(t, CodeStaleTransition, err.Code)
	assert.Equal(t, "This purchase is already completed.", err.Message)
	assert.True(t, HasCode(wrapped, CodeStaleTransition))
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	err := ToDomainError(errors.New("boom"))

	assert.Equal(t, CodeInternal, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Nil(t, MapError(nil))
}

func TestNoAvailableAgentStatus(t *testing.T) {
	err := ToDomainError(NewNoAvailableAgent())

	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.Equal(t, CodeNoAgent, err.Code)
}
