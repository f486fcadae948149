package service

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

// isID reports whether id can name a stored record. Ids are uuids in every
// store, so anything else is reported as not found before touching one.
func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

func actorOf(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func requireStaff(user *domain.User) error {
	if user == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !user.Role.IsStaff() {
		return apperrors.NewForbidden("staff access required")
	}
	return nil
}

func requireAdmin(user *domain.User) error {
	if user == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if user.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin access required")
	}
	return nil
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Pages    int `json:"pages"`
}

func newPage[T any](items []T, total, page, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int(math.Ceil(float64(total) / float64(size)))
	}
	return Page[T]{Items: items, Total: total, Page: page, PageSize: size, Pages: pages}
}

// pageBounds converts a 1-based page number into limit and offset.
func pageBounds(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	return page, size, (page - 1) * size
}
