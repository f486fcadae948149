package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/estate-agency/internal/api/http"
	"github.com/spec-kit/estate-agency/internal/api/http/handlers"
	"github.com/spec-kit/estate-agency/internal/auth"
	"github.com/spec-kit/estate-agency/internal/charts"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/geo"
	"github.com/spec-kit/estate-agency/internal/observability"
	"github.com/spec-kit/estate-agency/internal/service"
	"github.com/spec-kit/estate-agency/internal/worker"
)

// ServeCmd starts the HTTP server.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			rt, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer rt.close()
			rt.withCache(ctx)

			dispatcher := events.NewInMemoryDispatcher(rt.logger)
			services := buildServices(rt, dispatcher)
			notifications := worker.StartNotificationWorker(
				service.NewNotificationService(dispatcher, rt.logger, rt.cfg.Notification),
				service.NewCacheInvalidator(dispatcher, rt.cache, rt.logger),
				rt.cfg.Notification.Workers,
			)
			defer notifications.Stop()

			if seed {
				if err := seedDemoData(ctx, services); err != nil {
					return err
				}
				rt.logger.Info("demo data loaded")
			}

			metrics := observability.NewMetrics()
			app := fiber.New(fiber.Config{AppName: rt.cfg.App.Name})
			httptransport.RegisterMiddlewares(app, rt.logger, metrics, rt.cfg.App.RequestTimeout())

			media := rt.cfg.Media
			authMiddleware := auth.NewAuthMiddleware(services.auth.TokenManager(), rt.store.Repos(), rt.cfg.Auth.LoginPath)
			httptransport.RegisterRoutes(app, httptransport.RouteConfig{
				Health:     handlers.NewHealthHandler(rt.cfg.App.Name, rt.cfg.App.Version, rt.pg, rt.redis, metrics),
				Auth:       handlers.NewAuthHandler(services.auth),
				Catalog:    handlers.NewCatalogHandler(services.catalog, services.inquiries, media),
				Dashboard:  handlers.NewDashboardHandler(services.dashboards, media),
				Statistics: handlers.NewStatisticsHandler(services.statistics),
				Profile:    handlers.NewProfileHandler(services.profiles),
				Admin: handlers.NewAdminHandler(handlers.AdminDependencies{
					Catalog:  services.catalog,
					Profiles: services.profiles,
					Auth:     services.auth,
					Ledger:   services.ledger,
					Media:    media,
				}),
				Content:        handlers.NewContentHandler(services.content, media),
				AuthMiddleware: authMiddleware,
				Media:          media,
			})

			go func() {
				if err := app.Listen(rt.cfg.App.Addr()); err != nil {
					rt.logger.Fatal("fiber listen", zap.Error(err))
				}
			}()

			waitForShutdown(rt.logger)

			return app.Shutdown()
		},
	}

	cmd.Flags().Bool("seed", false, "Load demo catalog data on start")

	return cmd
}

// serviceSet is the wired application layer.
type serviceSet struct {
	auth       *service.AuthService
	profiles   *service.ProfileService
	catalog    *service.CatalogService
	ledger     *service.LedgerService
	inquiries  *service.InquiryService
	dashboards *service.DashboardService
	statistics *service.StatisticsService
	content    *service.ContentService
}

func buildServices(rt *runtimeEnv, dispatcher events.Dispatcher) *serviceSet {
	cfg := *rt.cfg

	var maps geo.MapProvider
	if cfg.Maps.AccessToken != "" {
		maps = geo.NewMapbox(cfg.Maps, nil)
	} else {
		rt.logger.Info("MAPBOX_ACCESS_TOKEN not set; property maps disabled")
	}

	ledger := service.NewLedgerService(service.LedgerDependencies{Store: rt.store})
	inquiries := service.NewInquiryService(service.InquiryDependencies{
		Store:      rt.store,
		Ledger:     ledger,
		Dispatcher: dispatcher,
		Logger:     rt.logger,
	})

	return &serviceSet{
		auth: service.NewAuthService(cfg, service.AuthDependencies{
			Store:      rt.store,
			Profiles:   service.NewProfileFactory(nil),
			Dispatcher: dispatcher,
		}),
		profiles: service.NewProfileService(service.ProfileDependencies{Store: rt.store}),
		catalog: service.NewCatalogService(cfg, service.CatalogDependencies{
			Store:      rt.store,
			Maps:       maps,
			Dispatcher: dispatcher,
			Logger:     rt.logger,
		}),
		ledger:     ledger,
		inquiries:  inquiries,
		dashboards: service.NewDashboardService(service.DashboardDependencies{Store: rt.store, Inquiries: inquiries}),
		statistics: service.NewStatisticsService(cfg, service.StatisticsDependencies{
			Store:    rt.store,
			Cache:    rt.cache,
			Renderer: charts.NewPNGRenderer(cfg.Media),
			Logger:   rt.logger,
		}),
		content: service.NewContentService(service.ContentDependencies{
			Store:      rt.store,
			Cache:      rt.cache,
			Dispatcher: dispatcher,
			Logger:     rt.logger,
		}),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
