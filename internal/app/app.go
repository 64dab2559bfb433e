package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"countrypulse/internal/adapters/cache"
	"countrypulse/internal/adapters/httpclient"
	"countrypulse/internal/adapters/postgres"
	"countrypulse/internal/api"
	"countrypulse/internal/config"
	"countrypulse/internal/country"
	"countrypulse/internal/country/handler"
	"countrypulse/internal/platform/db"
	httpserver "countrypulse/internal/platform/http"
	"countrypulse/internal/render"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and the optional
// refresh scheduler.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool + schema
	if err = db.Migrate(startupCtx, appCfg.DbServer.GetConnectionStr()); err != nil {
		logrus.WithError(err).Error("Error applying migrations")
		return err
	}
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	if appCfg.CountriesAPI.BaseURL == "" {
		return fmt.Errorf("countries api base url is required")
	}
	if appCfg.RatesAPI.BaseURL == "" {
		return fmt.Errorf("rates api base url is required")
	}
	countriesClient := httpclient.NewCountriesClient(baseHTTPClient, appCfg.CountriesAPI.BaseURL)
	ratesClient := httpclient.NewRatesClient(baseHTTPClient, appCfg.RatesAPI.BaseURL)

	// Repositories and caches
	countryRepo := postgres.NewCountryRepository(pool)
	summaryCache, err := cache.NewSummaryCache(appCfg.Cache.MaxBytes)
	if err != nil {
		logrus.WithError(err).Error("Failed to create summary cache")
		return err
	}
	defer summaryCache.Close()

	// Services
	renderer := render.NewSummaryRenderer(baseHTTPClient)
	countryService := country.NewService(countriesClient, ratesClient, countryRepo, renderer, summaryCache)

	// Optional periodic refresh
	if appCfg.Refresh.IntervalSeconds > 0 {
		scheduler := country.NewScheduler(countryService, time.Duration(appCfg.Refresh.IntervalSeconds)*time.Second)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start refresh scheduler")
			return startErr
		}
		logrus.Info("✅ Refresh scheduler activation successful")
	}

	// Handlers and router
	countryHandler := handler.NewCountryHandler(countryService)
	router := api.NewRouter(countryHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
