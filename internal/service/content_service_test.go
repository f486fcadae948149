package service

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/cache"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/mocks"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func TestHomepageUsesCache(t *testing.T) {
	f := newFixture(t)
	f.property("1000", f.service("Rent", "10"))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := mocks.NewMockCache(ctrl)
	gomock.InOrder(
		c.EXPECT().Get(gomock.Any(), cache.KeyHomeFeatured, gomock.Any()).Return(false, nil),
		c.EXPECT().Set(gomock.Any(), cache.KeyHomeFeatured, gomock.Any()).DoAndReturn(
			func(_ interface{}, _ cache.Key, value interface{}) error {
				home := value.(Homepage)
				assert.Len(t, home.Properties, 1)
				assert.Len(t, home.Services, 1)
				return nil
			}),
	)

	svc := NewContentService(ContentDependencies{Store: f.store, Cache: c})
	home, err := svc.Homepage(f.ctx)
	require.NoError(t, err)
	assert.Len(t, home.Properties, 1)
}

func TestPromoCodesSplitAndInvalidate(t *testing.T) {
	f := newFixture(t)
	staff, _ := f.employee("agent")
	client, _ := f.client("anna")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := mocks.NewMockCache(ctrl)
	c.EXPECT().Get(gomock.Any(), cache.KeyPromoList, gomock.Any()).Return(false, nil).AnyTimes()
	c.EXPECT().Set(gomock.Any(), cache.KeyPromoList, gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().Delete(gomock.Any(), cache.KeyPromoList).Return(nil).Times(3)

	dispatcher := events.NewInMemoryDispatcher(nil)
	NewCacheInvalidator(dispatcher, c, nil).RegisterHandlers()
	svc := NewContentService(ContentDependencies{Store: f.store, Cache: c, Dispatcher: dispatcher})

	active := &domain.PromoCode{Code: "SPRING", Discount: 10, Active: true}
	archived := &domain.PromoCode{Code: "WINTER", Discount: 5}
	assert.True(t, apperrors.HasCode(svc.SavePromoCode(f.ctx, client, active), apperrors.CodeForbidden))
	require.NoError(t, svc.SavePromoCode(f.ctx, staff, active))
	require.NoError(t, svc.SavePromoCode(f.ctx, staff, archived))

	dup := &domain.PromoCode{Code: "SPRING", Discount: 1}
	assert.True(t, apperrors.HasCode(svc.SavePromoCode(f.ctx, staff, dup), apperrors.CodeConflict))

	promos, err := svc.PromoCodes(f.ctx)
	require.NoError(t, err)
	require.Len(t, promos.Active, 1)
	require.Len(t, promos.Archived, 1)
	assert.Equal(t, "SPRING", promos.Active[0].Code)

	require.NoError(t, svc.DeletePromoCode(f.ctx, staff, archived.ID))
	assert.True(t, apperrors.HasCode(svc.DeletePromoCode(f.ctx, staff, archived.ID), apperrors.CodeNotFound))
}

func TestReviewsAreEditableByAuthorOnly(t *testing.T) {
	f := newFixture(t)
	author, _ := f.client("anna")
	other, _ := f.client("boris")
	svc := NewContentService(ContentDependencies{Store: f.store})

	_, err := svc.CreateReview(f.ctx, author, 6, "great")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	review, err := svc.CreateReview(f.ctx, author, 5, "great agency")
	require.NoError(t, err)

	_, err = svc.UpdateReview(f.ctx, other, review.ID, 1, "bad")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.True(t, apperrors.HasCode(svc.DeleteReview(f.ctx, other, review.ID), apperrors.CodeForbidden))

	updated, err := svc.UpdateReview(f.ctx, author, review.ID, 4, "good agency")
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	page, err := svc.ListReviews(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, svc.DeleteReview(f.ctx, author, review.ID))
	_, err = svc.UpdateReview(f.ctx, author, review.ID, 4, "again")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestNewsPagination(t *testing.T) {
	f := newFixture(t)
	staff, _ := f.employee("agent")
	svc := NewContentService(ContentDependencies{Store: f.store})
	for i := 0; i < 12; i++ {
		require.NoError(t, svc.CreateNews(f.ctx, staff, &domain.News{Title: "Market update"}))
	}
	assert.True(t, apperrors.HasCode(svc.CreateNews(f.ctx, staff, &domain.News{}), apperrors.CodeValidation))

	page, err := svc.ListNews(f.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 2)

	_, err = svc.GetNews(f.ctx, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
