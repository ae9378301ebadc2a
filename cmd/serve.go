package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "godownhub/docs"
	"godownhub/internal/caching"
	"godownhub/internal/common"
	"godownhub/internal/config"
	"godownhub/internal/handlers"
	"godownhub/internal/jobs/background"
	"godownhub/internal/middleware"
	"godownhub/internal/migrations"
	"godownhub/internal/repositories"
	"godownhub/internal/services"
	"godownhub/pkg/database"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log, migrateFirst)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger, migrateFirst bool) error {
	if migrateFirst {
		m, err := migrations.New(cfg.Database.URL, log)
		if err != nil {
			return err
		}
		err = m.Up()
		if closeErr := m.Close(); closeErr != nil {
			log.Warn("failed to close migrator", zap.Error(closeErr))
		}
		if err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connected")

	checks := map[string]handlers.Pinger{"database": pool}

	cache := caching.NewNoopCacheService()
	if cfg.Redis.Addr != "" {
		cache, err = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		checks["redis"] = cache
	} else {
		log.Warn("redis not configured, caching disabled")
	}
	defer func() { _ = cache.Close() }()

	storage, err := services.NewMinioStorage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("prepare bucket %s: %w", cfg.Storage.Bucket, err)
	}
	checks["storage"] = storage

	var jwks *keyfunc.JWKS
	if cfg.Auth.JWKSURL != "" {
		jwks, err = keyfunc.Get(cfg.Auth.JWKSURL, keyfunc.Options{
			Ctx:             ctx,
			RefreshInterval: cfg.Auth.RefreshInterval,
			RefreshErrorHandler: func(err error) {
				log.Warn("jwks refresh failed", zap.String("url", cfg.Auth.JWKSURL), zap.Error(err))
			},
		})
		if err != nil {
			return fmt.Errorf("load jwks: %w", err)
		}
		defer jwks.EndBackground()
	}

	// Repositories
	tx := database.NewTransactor(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	roleRepo := repositories.NewRoleRepository(pool)
	moduleRepo := repositories.NewModuleRepository(pool)
	rolePermissionRepo := repositories.NewRolePermissionRepository(pool)
	orgRepo := repositories.NewOrganizationRepository(pool)
	agreementRepo := repositories.NewAgreementRepository(pool)
	licenseRepo := repositories.NewLicenseRepository(pool)
	godownRepo := repositories.NewGodownRepository(pool)
	allocationRepo := repositories.NewAllocationRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	folderRepo := repositories.NewFolderRepository(pool)
	folderPermissionRepo := repositories.NewFolderPermissionRepository(pool)
	fileLogRepo := repositories.NewFileLogRepository(pool)

	// Services
	sessions := services.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL)
	rbacSvc := services.NewRBACService(tx, roleRepo, moduleRepo, rolePermissionRepo, cache, log)
	authSvc := services.NewAuthService(userRepo, companyRepo, roleRepo, rbacSvc, sessions, log)
	agreementSvc := services.NewAgreementService(agreementRepo, licenseRepo, orgRepo, log)
	allocationSvc := services.NewAllocationService(tx, allocationRepo, godownRepo, agreementRepo, orgRepo, cache, log)
	invoiceSvc := services.NewInvoiceService(tx, invoiceRepo, allocationRepo, companyRepo, orgRepo, godownRepo, cache,
		services.InvoiceSettings{TaxRate: cfg.Invoice.TaxRate, DueDays: cfg.Invoice.DueDays}, log)
	dashboardSvc := services.NewDashboardService(invoiceRepo, godownRepo, agreementRepo, companyRepo, cache, cfg.Jobs.ExpiryWindowDays, log)
	dataBankSvc := services.NewDataBankService(tx, folderRepo, folderPermissionRepo, fileLogRepo, userRepo, storage, log)

	h := &handlers.Handlers{
		Auth:          handlers.NewAuthHandlers(authSvc, cfg.Session),
		Companies:     handlers.NewCompanyHandlers(services.NewCompanyService(companyRepo)),
		Organizations: handlers.NewOrganizationHandlers(services.NewOrganizationService(orgRepo)),
		Agreements:    handlers.NewAgreementHandlers(agreementSvc),
		Godowns:       handlers.NewGodownHandlers(services.NewGodownService(tx, godownRepo, allocationRepo)),
		Allocations:   handlers.NewAllocationHandlers(allocationSvc),
		Invoices:      handlers.NewInvoiceHandlers(invoiceSvc),
		Users:         handlers.NewUserHandlers(services.NewUserService(userRepo, roleRepo, log)),
		Roles:         handlers.NewRoleHandlers(services.NewRoleService(roleRepo), rbacSvc),
		DataBank:      handlers.NewDataBankHandlers(dataBankSvc),
		Dashboard:     handlers.NewDashboardHandlers(dashboardSvc),
		Health:        handlers.NewHealthHandlers(checks, version),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler(log)

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())
	e.Use(echoMiddleware.CORS())

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.NewAuthenticator(sessions, authSvc, jwks, cfg.Session.CookieName, log).Middleware()
	handlers.RegisterRoutes(e, h, authn, middleware.NewRBACMiddleware(rbacSvc))

	var scheduler *background.JobScheduler
	if cfg.Jobs.Enabled {
		scheduler, err = background.NewJobScheduler(cfg.Jobs, background.Services{
			Agreements:  agreementSvc,
			Allocations: allocationSvc,
			Invoices:    invoiceSvc,
			Dashboard:   dashboardSvc,
		}, log)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("godownhub server starting", zap.String("version", version), zap.String("port", cfg.App.Port))
		if err := e.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Error("scheduler shutdown failed", zap.Error(err))
		}
	}
	log.Info("server stopped")
	return nil
}
