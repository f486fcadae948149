package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/repository/memory"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("user-1", domain.RoleEmployee)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, domain.RoleEmployee, claims.Role)
}

func TestParseTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	token, _, err := NewTokenManager("other", 5).GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", 5).ParseToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("secret", 5)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err = expired.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)
	expired.now = time.Now
	_, err = expired.ParseToken(token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestValidatePassword(t *testing.T) {
	cases := map[string]struct {
		password, username, rule string
	}{
		"short":    {"abc12", "anna", "min=8"},
		"numeric":  {"1234567890", "anna", "numeric"},
		"common":   {"Password1", "anna", "common"},
		"username": {"xxannaxx9", "Anna", "similar_to_username"},
		"ok":       {"correct-horse-7", "anna", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidatePassword(tc.password, tc.username)
			if tc.rule == "" {
				assert.NoError(t, err)
				return
			}
			require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
			assert.Equal(t, tc.rule, apperrors.ToDomainError(err).Details["password"])
		})
	}
}

func testErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.SendStatus(fe.Code)
	}
	return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
}

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, *domain.User) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	user := &domain.User{Username: "agent", Role: domain.RoleEmployee}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	_, err := repos.Employees.CreateIfMissing(context.Background(), &domain.Employee{UserID: user.ID})
	require.NoError(t, err)

	tokens := NewTokenManager("secret", 5)
	mw := NewAuthMiddleware(tokens, repos, "/auth/login")

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Get("/dashboard", mw.Handle, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		if p.Employee == nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(p.User.Username)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/public", mw.Optional, func(c *fiber.Ctx) error {
		if UserFromContext(c) == nil {
			return c.SendString("anonymous")
		}
		return c.SendString("known")
	})
	return app, tokens, user
}

func TestMiddlewareRedirectsAnonymousCaller(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard?tab=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fdashboard%3Ftab%3D2", resp.Header.Get("Location"))
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareLoadsPrincipalAndChecksRole(t *testing.T) {
	app, tokens, user := newTestApp(t)
	token, _, err := tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "agent", string(body))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}
