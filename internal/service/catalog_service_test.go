package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/geo"
	"github.com/spec-kit/estate-agency/internal/mocks"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

func newCatalogService(f *fixture, maps geo.MapProvider, dispatcher events.Dispatcher) *CatalogService {
	return NewCatalogService(testConfig(), CatalogDependencies{Store: f.store, Maps: maps, Dispatcher: dispatcher})
}

func TestListAvailablePaginatesAndHidesSold(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.property(decimal.NewFromInt(int64(1000+i)).String(), nil)
	}
	sold := f.property("99999", nil)
	require.NoError(t, f.repos.Transactions.Create(f.ctx, &domain.Transaction{PropertyID: sold.ID, TotalAmount: sold.Price}))
	svc := newCatalogService(f, nil, nil)

	first, err := svc.ListAvailable(f.ctx, PropertyQuery{})
	require.NoError(t, err)
	assert.Equal(t, 10, first.Total)
	assert.Equal(t, 2, first.Pages)
	require.Len(t, first.Items, PropertiesPerPage)
	assert.True(t, dec("1009").Equal(first.Items[0].Price))

	second, err := svc.ListAvailable(f.ctx, PropertyQuery{Page: 2, Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.True(t, dec("1009").Equal(second.Items[0].Price))

	_, err = svc.ListAvailable(f.ctx, PropertyQuery{Sort: "newest"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	lo, hi := dec("10"), dec("5")
	_, err = svc.ListAvailable(f.ctx, PropertyQuery{MinPrice: &lo, MaxPrice: &hi})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestGetPropertyDetail(t *testing.T) {
	f := newFixture(t)
	f.employee("agent")
	user, _ := f.client("anna")
	property := f.property("1000", nil)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	maps := mocks.NewMockMapProvider(ctrl)
	maps.EXPECT().StaticMapURL(gomock.Any(), property.Location).Return("https://maps.example/static.png", nil).Times(2)
	svc := newCatalogService(f, maps, nil)

	detail, err := svc.GetProperty(f.ctx, user, property.ID)
	require.NoError(t, err)
	assert.False(t, detail.InquiryExists)
	assert.Equal(t, "https://maps.example/static.png", detail.MapImageURL)
	assert.Equal(t, "/media/default.jpg", detail.PhotoURL)

	_, err = f.inquiryService().CreateInquiry(f.ctx, user, property.ID, "")
	require.NoError(t, err)
	detail, err = svc.GetProperty(f.ctx, user, property.ID)
	require.NoError(t, err)
	assert.True(t, detail.InquiryExists)

	_, err = svc.GetProperty(f.ctx, nil, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetPropertyOmitsMapOnProviderError(t *testing.T) {
	f := newFixture(t)
	property := f.property("1000", nil)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	maps := mocks.NewMockMapProvider(ctrl)
	maps.EXPECT().StaticMapURL(gomock.Any(), gomock.Any()).Return("", geo.ErrAddressNotFound)

	detail, err := newCatalogService(f, maps, nil).GetProperty(f.ctx, nil, property.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.MapImageURL)
}

func TestCatalogMutationsAreStaffOnlyAndPublished(t *testing.T) {
	f := newFixture(t)
	client, _ := f.client("anna")
	staff, _ := f.employee("agent")
	dispatcher := events.NewInMemoryDispatcher(nil)
	changes := 0
	dispatcher.Subscribe(events.EventCatalogChanged, func(context.Context, events.Event) error {
		changes++
		return nil
	})
	svc := newCatalogService(f, nil, dispatcher)

	st := &domain.ServiceType{Title: "Rent"}
	assert.True(t, apperrors.HasCode(svc.SaveServiceType(f.ctx, client, st), apperrors.CodeForbidden))
	require.NoError(t, svc.SaveServiceType(f.ctx, staff, st))

	bad := &domain.PropertyService{Title: "Broken", ServiceTypeID: "missing"}
	assert.True(t, apperrors.HasCode(svc.SaveService(f.ctx, staff, bad), apperrors.CodeValidation))

	service := &domain.PropertyService{Title: "Monthly rent", ServiceTypeID: st.ID, ServiceFee: dec("25.00")}
	require.NoError(t, svc.SaveService(f.ctx, staff, service))

	property := &domain.Property{Price: dec("0"), Area: dec("10"), Details: "x", Location: "y"}
	assert.True(t, apperrors.HasCode(svc.SaveProperty(f.ctx, staff, property), apperrors.CodeValidation))

	property.Price = dec("1500.456")
	property.ServiceID = &service.ID
	require.NoError(t, svc.SaveProperty(f.ctx, staff, property))
	assert.True(t, dec("1500.46").Equal(property.Price))

	services, err := svc.ListServices(f.ctx, ServiceQuery{ServiceTypeID: st.ID})
	require.NoError(t, err)
	assert.Len(t, services, 1)

	require.NoError(t, svc.DeleteService(f.ctx, staff, service.ID))
	stored, err := f.repos.Properties.GetByID(f.ctx, property.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ServiceID)

	assert.True(t, apperrors.HasCode(svc.DeleteProperty(f.ctx, staff, "missing"), apperrors.CodeNotFound))
	assert.Equal(t, 4, changes)
}

func TestDeleteSoldPropertyIsRejected(t *testing.T) {
	f := newFixture(t)
	staff, _ := f.employee("agent")
	property := f.property("1000", nil)
	require.NoError(t, f.repos.Transactions.Create(f.ctx, &domain.Transaction{PropertyID: property.ID, TotalAmount: property.Price}))

	err := newCatalogService(f, nil, nil).DeleteProperty(f.ctx, staff, property.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}
