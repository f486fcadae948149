package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/service"
	apperrors "github.com/spec-kit/estate-agency/pkg/util/errorutil"
)

const demoAgentPassword = "demo-pass-2024"

// seedActor is the staff identity the seed writes as.
var seedActor = &domain.User{ID: "seed", Username: "seed", Role: domain.RoleAdmin}

// SeedCmd loads the demo catalog into the configured store.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo catalog, content and an agent account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			rt, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer rt.close()
			if !rt.pg.Enabled() {
				rt.logger.Warn("no POSTGRES_DSN; use serve --seed for an in-memory demo")
			}

			if err := seedDemoData(ctx, buildServices(rt, nil)); err != nil {
				return err
			}
			rt.logger.Info("demo data loaded")
			return nil
		},
	}
}

type demoProperty struct {
	price, area   string
	details       string
	location      string
	service, kind int
}

// seedDemoData is a no-op when property types already exist.
func seedDemoData(ctx context.Context, services *serviceSet) error {
	existing, err := services.catalog.ListPropertyTypes(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	kinds := []*domain.PropertyType{
		{Title: "Apartment", Description: "Flats in multi-storey buildings"},
		{Title: "House", Description: "Detached and semi-detached houses"},
		{Title: "Office", Description: "Commercial office space"},
	}
	for _, pt := range kinds {
		if err := services.catalog.SavePropertyType(ctx, seedActor, pt); err != nil {
			return fmt.Errorf("seed property type %q: %w", pt.Title, err)
		}
	}

	sale := &domain.ServiceType{Title: "Sale"}
	rent := &domain.ServiceType{Title: "Rent"}
	for _, st := range []*domain.ServiceType{sale, rent} {
		if err := services.catalog.SaveServiceType(ctx, seedActor, st); err != nil {
			return fmt.Errorf("seed service type %q: %w", st.Title, err)
		}
	}

	offers := []*domain.PropertyService{
		{Title: "Standard sale", ServiceTypeID: sale.ID, ServiceFee: decimal.RequireFromString("100.00")},
		{Title: "Premium sale", ServiceTypeID: sale.ID, ServiceFee: decimal.RequireFromString("500.00")},
		{Title: "Long-term rent", ServiceTypeID: rent.ID, ServiceFee: decimal.RequireFromString("50.00")},
	}
	for _, svc := range offers {
		if err := services.catalog.SaveService(ctx, seedActor, svc); err != nil {
			return fmt.Errorf("seed service %q: %w", svc.Title, err)
		}
	}

	listings := []demoProperty{
		{"100000.00", "54.50", "Two-room flat with renovated kitchen", "Minsk, Nezavisimosti Ave 95", 0, 0},
		{"185000.00", "120.00", "Family house with garden", "Minsk region, Zhdanovichi", 1, 1},
		{"72000.00", "38.20", "Studio near the metro", "Minsk, Pushkina St 12", 0, 0},
		{"950.00", "80.00", "Open-plan office on the 5th floor", "Minsk, Pobediteley Ave 7", 2, 2},
		{"640.00", "61.00", "Furnished flat for long-term rent", "Minsk, Surganova St 40", 2, 0},
		{"240000.00", "210.00", "Cottage with sauna and garage", "Minsk region, Ratomka", 1, 1},
	}
	for _, l := range listings {
		property := &domain.Property{
			Price:          decimal.RequireFromString(l.price),
			Area:           decimal.RequireFromString(l.area),
			ServiceID:      &offers[l.service].ID,
			PropertyTypeID: &kinds[l.kind].ID,
			Details:        l.details,
			Location:       l.location,
		}
		if err := services.catalog.SaveProperty(ctx, seedActor, property); err != nil {
			return fmt.Errorf("seed property %q: %w", l.location, err)
		}
	}

	if err := seedContent(ctx, services.content); err != nil {
		return err
	}

	_, err = services.auth.CreateEmployee(ctx, seedActor, service.EmployeeInput{
		RegisterInput: service.RegisterInput{
			Username:  "agent",
			Email:     "agent@example.com",
			Password:  demoAgentPassword,
			FirstName: "Demo",
			LastName:  "Agent",
		},
		Position:   "Agent",
		Department: "Sales",
	})
	if err != nil && !apperrors.HasCode(err, apperrors.CodeConflict) {
		return fmt.Errorf("seed agent: %w", err)
	}
	return nil
}

func seedContent(ctx context.Context, content *service.ContentService) error {
	faqs := []*domain.FAQ{
		{Question: "How do I submit an inquiry?", Answer: "Open a listing while logged in and send an inquiry; an agent is assigned automatically."},
		{Question: "What does the total price include?", Answer: "The listing price plus the fee of the service attached to it."},
	}
	for _, faq := range faqs {
		if err := content.CreateFAQ(ctx, seedActor, faq); err != nil {
			return fmt.Errorf("seed faq: %w", err)
		}
	}
	if err := content.CreateNews(ctx, seedActor, &domain.News{
		Title:   "Agency opens new office",
		Summary: "Our second office is now open in the city centre.",
	}); err != nil {
		return fmt.Errorf("seed news: %w", err)
	}
	if err := content.CreateContact(ctx, seedActor, &domain.Contact{
		Name:     "Front desk",
		Position: "Reception",
		Phone:    "+375(29)123-45-67",
		Email:    "office@example.com",
	}); err != nil {
		return fmt.Errorf("seed contact: %w", err)
	}
	if err := content.SavePromoCode(ctx, seedActor, &domain.PromoCode{
		Code:        "WELCOME5",
		Discount:    5,
		Description: "5% off the service fee for first-time buyers",
		Active:      true,
	}); err != nil {
		return fmt.Errorf("seed promo code: %w", err)
	}
	return nil
}
