package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/api/http/handlers"
	"github.com/spec-kit/estate-agency/internal/auth"
	"github.com/spec-kit/estate-agency/internal/config"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Catalog        *handlers.CatalogHandler
	Dashboard      *handlers.DashboardHandler
	Statistics     *handlers.StatisticsHandler
	Profile        *handlers.ProfileHandler
	Admin          *handlers.AdminHandler
	Content        *handlers.ContentHandler
	AuthMiddleware *auth.AuthMiddleware
	Media          config.MediaConfig
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	if cfg.Media.Root != "" {
		app.Static("/"+strings.Trim(cfg.Media.URLPrefix, "/"), cfg.Media.Root)
	}

	login := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/login", cfg.Auth.LoginHint)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", login, cfg.Auth.ChangePassword)

	catalog := app.Group("/catalog")
	catalog.Get("/services", cfg.Catalog.ListServices)
	catalog.Get("/properties", login, cfg.Catalog.ListProperties)
	catalog.Get("/properties/:id<guid>", login, cfg.Catalog.GetProperty)
	catalog.Post("/properties/:id<guid>/inquiry", login, auth.RequireClient(), cfg.Catalog.SubmitInquiry)

	dashboard := app.Group("/dashboard", login)
	dashboard.Get("", cfg.Dashboard.Index)
	dashboard.Get("/client", auth.RequireClient(), cfg.Dashboard.Client)
	dashboard.Post("/client", auth.RequireClient(), cfg.Dashboard.Act)
	dashboard.Get("/employee", auth.RequireStaff(), cfg.Dashboard.Employee)
	dashboard.Post("/employee", auth.RequireStaff(), cfg.Dashboard.Act)

	statistics := app.Group("/statistics", login, auth.RequireStaff())
	statistics.Get("", cfg.Statistics.Overview)
	statistics.Get("/charts", cfg.Statistics.Charts)

	profile := app.Group("/profile", login)
	profile.Get("", cfg.Profile.Get)
	profile.Put("", cfg.Profile.Update)

	home := app.Group("/home")
	home.Get("", cfg.Content.Home)
	home.Get("/news", cfg.Content.ListNews)
	home.Get("/news/:id<guid>", cfg.Content.GetNews)
	home.Get("/faq", cfg.Content.ListFAQ)
	home.Get("/vacancies", cfg.Content.ListVacancies)
	home.Get("/contacts", cfg.Content.ListContacts)
	home.Get("/promo-codes", cfg.Content.PromoCodes)
	home.Get("/reviews", cfg.Content.ListReviews)
	home.Post("/reviews", login, cfg.Content.CreateReview)
	home.Put("/reviews/:id<guid>", login, cfg.Content.UpdateReview)
	home.Delete("/reviews/:id<guid>", login, cfg.Content.DeleteReview)

	admin := app.Group("/admin", login, auth.RequireStaff())
	admin.Get("/property-types", cfg.Admin.ListPropertyTypes)
	admin.Post("/property-types", cfg.Admin.SavePropertyType)
	admin.Put("/property-types/:id<guid>", cfg.Admin.SavePropertyType)
	admin.Delete("/property-types/:id<guid>", cfg.Admin.DeletePropertyType)
	admin.Get("/service-types", cfg.Admin.ListServiceTypes)
	admin.Post("/service-types", cfg.Admin.SaveServiceType)
	admin.Put("/service-types/:id<guid>", cfg.Admin.SaveServiceType)
	admin.Delete("/service-types/:id<guid>", cfg.Admin.DeleteServiceType)
	admin.Post("/services", cfg.Admin.SaveService)
	admin.Put("/services/:id<guid>", cfg.Admin.SaveService)
	admin.Delete("/services/:id<guid>", cfg.Admin.DeleteService)
	admin.Post("/properties", cfg.Admin.SaveProperty)
	admin.Put("/properties/:id<guid>", cfg.Admin.SaveProperty)
	admin.Delete("/properties/:id<guid>", cfg.Admin.DeleteProperty)
	admin.Get("/employees", cfg.Admin.ListEmployees)
	admin.Post("/employees", auth.RequireAdmin(), cfg.Admin.CreateEmployee)
	admin.Put("/employees/:id<guid>", auth.RequireAdmin(), cfg.Admin.UpdateEmployee)
	admin.Get("/transactions", cfg.Admin.ListTransactions)
	admin.Get("/transactions/:id<guid>", cfg.Admin.GetTransaction)
	admin.Put("/transactions/:id<guid>", auth.RequireAdmin(), cfg.Admin.UpdateTransaction)
	admin.Post("/news", cfg.Content.CreateNews)
	admin.Delete("/news/:id<guid>", cfg.Content.DeleteNews)
	admin.Post("/faq", cfg.Content.CreateFAQ)
	admin.Delete("/faq/:id<guid>", cfg.Content.DeleteFAQ)
	admin.Post("/vacancies", cfg.Content.CreateVacancy)
	admin.Delete("/vacancies/:id<guid>", cfg.Content.DeleteVacancy)
	admin.Post("/contacts", cfg.Content.CreateContact)
	admin.Delete("/contacts/:id<guid>", cfg.Content.DeleteContact)
	admin.Post("/promo-codes", cfg.Content.CreatePromoCode)
	admin.Put("/promo-codes/:id<guid>", cfg.Content.UpdatePromoCode)
	admin.Delete("/promo-codes/:id<guid>", cfg.Content.DeletePromoCode)
}
