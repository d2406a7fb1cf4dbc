package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/application/report"
	"github.com/jhoicas/retail-stock/internal/infrastructure/cache"
	"github.com/jhoicas/retail-stock/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/retail-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-stock/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/retail-stock/internal/interfaces/http"
	"github.com/jhoicas/retail-stock/pkg/config"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("timezone", cfg.App.Location().String()).
		Msg("starting")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.close()

	redisClient, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to Redis")
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	reportCache := report.NewCache(redisClient, cfg.Redis.TTL, log.Component("report_cache"))

	unitMetrics := metrics.New(nil)
	uow := inventory.NewUnitOfWork(st.runner, inventory.UnitConfig{
		MaxAttempts: cfg.Store.TxMaxAttempts,
		Location:    cfg.App.Location(),
		Logger:      log.Component("unit_of_work"),
		Observers:   []inventory.Observer{unitMetrics, reportCache},
	})

	suppliersUC := inventory.NewSupplierUseCase(uow, st.read)
	itemsUC := inventory.NewItemUseCase(uow, st.read, suppliersUC)
	usersUC := inventory.NewUserUseCase(uow, st.read)
	salesUC := inventory.NewSaleUseCase(uow, st.read, log.Component("sales"))
	restocksUC := inventory.NewRestockUseCase(uow, st.read, log.Component("restock"))
	reportSvc := report.NewService(st.read, reportCache, uow, log.Component("reports"))
	exportUC := export.NewUseCase(restocksUC, salesUC, infrapdf.NewMarotoGenerator(), xlsx.NewWriter(), cfg.App.Name, log.Component("export"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    cfg.App.Name + " API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger document not found, /docs disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", metrics.Handler(nil))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:     itemsUC,
		Suppliers: suppliersUC,
		Users:     usersUC,
		Sales:     salesUC,
		Restocks:  restocksUC,
		Reports:   reportSvc,
		Exports:   exportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}
