package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"schedulai/core/cache"
	"schedulai/core/config"
	"schedulai/core/constants"
	"schedulai/core/database"
	"schedulai/core/logger"
	"schedulai/core/middleware"
	"schedulai/core/queue"
	"schedulai/modules/auth"
	"schedulai/modules/calendar"
	"schedulai/modules/calendar/provider"
	calendarService "schedulai/modules/calendar/service"
	"schedulai/modules/chat"
	"schedulai/modules/export"
)

// Run boots the whole service: config, logging, storage, cache, queue, the
// assistant modules and the HTTP listener. It blocks until SIGINT or
// SIGTERM, then shuts everything down in reverse order.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	location, err := time.LoadLocation(cfg.ScheduleTimezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.ScheduleTimezone, err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	appCache, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer appCache.Close()

	q := queue.NewQueue(cfg.Redis)
	defer q.Close()
	worker := queue.NewWorker(cfg.Redis)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowCredentials: false,
	}))

	mw := middleware.NewMiddleware(appCache)

	authService := auth.Init(e, db, appCache, mw)

	googleProvider := provider.NewGoogleProvider(authService.OAuthConfig(), location)
	calendarSvc := calendarService.NewCalendarService(googleProvider, authService, location)

	calendar.Init(e, calendarSvc, mw)
	chat.Init(e, db, q, worker, calendarSvc, mw, location)
	export.Init(e, calendarSvc, mw)

	worker.Start()
	defer worker.Shutdown()

	port := cfg.ServerPort
	if port == "" {
		port = "7070"
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", port, "timezone", cfg.ScheduleTimezone)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
