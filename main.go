// Package main provides the main entry point for the survey reminder service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gofiber/fiber/v3"
	"github.com/wildlifemlxy/shb-survey-sub004/app/handlers"
	"github.com/wildlifemlxy/shb-survey-sub004/app/router"
	"github.com/wildlifemlxy/shb-survey-sub004/app/scheduler"
	"github.com/wildlifemlxy/shb-survey-sub004/app/services"
	businessflow "github.com/wildlifemlxy/shb-survey-sub004/business_flow"
	"github.com/wildlifemlxy/shb-survey-sub004/config"
	"github.com/wildlifemlxy/shb-survey-sub004/repository"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting survey reminder service...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers first so no reminder tick runs mid-shutdown
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeApplication wires repositories, services, flows, handlers, the
// HTTP router, and the reminder scheduler.
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	appLogger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.LUTC)

	// Repositories
	surveyRepo := repository.NewFileSurveyRepository(cfg.Storage.SurveyFilePath, location, appLogger)
	if err := surveyRepo.Load(); err != nil {
		return nil, fmt.Errorf("failed to load survey store: %w", err)
	}
	recipientRepo := repository.NewFileRecipientRepository(cfg.Storage.RecipientFilePath)
	if err := recipientRepo.Load(); err != nil {
		return nil, fmt.Errorf("failed to load recipient store: %w", err)
	}

	// Services
	fetcher := services.NewHTTPSheetFetcher(cfg.Sheets)
	extractor := services.NewSurveyExtractor()
	formatter := services.NewMessageFormatter()

	var sender services.Sender
	if cfg.Telegram.APIDomain == "mock" {
		log.Println("Telegram transport is mocked; messages will not leave the process")
		sender = services.NewMockSender()
	} else {
		sender = services.NewTelegramClient(cfg.Telegram)
	}
	dispatcher := services.NewNotificationDispatcher(sender, cfg.Telegram.SendTimeout, appLogger)

	var workbookCache *gocache.Cache
	if cfg.Sheets.CacheTTL > 0 {
		workbookCache = gocache.New(cfg.Sheets.CacheTTL, 2*cfg.Sheets.CacheTTL)
	}

	// Business flows
	ingestionFlow := businessflow.NewIngestionFlow(fetcher, extractor, surveyRepo, workbookCache, appLogger)
	surveyFlow := businessflow.NewSurveyFlow(surveyRepo)
	notificationFlow := businessflow.NewNotificationFlow(recipientRepo, dispatcher)

	// Handlers and router
	surveyHandler := handlers.NewSurveyHandler(surveyFlow, ingestionFlow)
	notificationHandler := handlers.NewNotificationHandler(notificationFlow)
	r := router.NewFiberRouter(cfg, surveyHandler, notificationHandler)

	app := &Application{
		router: r,
		config: cfg,
		server: r.GetApp(),
	}

	// Reminder scheduler
	sched := scheduler.NewReminderScheduler(
		surveyRepo,
		recipientRepo,
		formatter,
		dispatcher,
		ingestionFlow,
		cfg.Scheduler,
		location,
		cfg.Logging,
	)
	stop, err := sched.Start(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}
	app.stopFuncs = append(app.stopFuncs, stop)

	return app, nil
}
