package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"medilingo/internal/assistant"
	"medilingo/internal/chatbot"
	"medilingo/internal/config"
	"medilingo/internal/gateway"
	"medilingo/internal/observability/metrics"
	"medilingo/internal/platform/sms"
	"medilingo/internal/reminder"
	"medilingo/internal/report"
	"medilingo/internal/translation"
	"medilingo/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medilingo server", "env", cfg.Env, "port", cfg.Port)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty; authenticated routes will reject every request")
	}

	// 1. Infrastructure
	db, err := connectDB(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	knowledge, err := loadKnowledge(cfg.KnowledgePath)
	if err != nil {
		logger.Error("invalid assistant knowledge tables", "path", cfg.KnowledgePath, "error", err)
		os.Exit(1)
	}

	// 2. Clients
	m := metrics.New(nil)
	gw := gateway.NewClient(gateway.Config{
		TranslateURL:     cfg.TranslationAPIURL,
		TermsURL:         cfg.TermsAPIURL,
		TranslateTimeout: cfg.TranslationTimeout,
		TermsTimeout:     cfg.TermsTimeout,
	}, logger, m)
	smsClient := sms.NewClient(sms.Config{
		Enabled: cfg.SMSEnabled,
		APIURL:  cfg.SMSAPIURL,
		APIKey:  cfg.SMSAPIKey,
	}, logger)
	logger.Info("sms delivery configured", "enabled", smsClient.Enabled())

	// 3. Services
	assistantSvc, err := assistant.NewService(knowledge, gw, logger, m)
	if err != nil {
		logger.Error("failed to build assistant", "error", err)
		os.Exit(1)
	}
	translationSvc := translation.NewService(translation.NewRepository(db), gw, logger)
	reportSvc := report.NewService(cfg.ReportFontPaths, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := reloadKnowledge(assistantSvc, cfg.KnowledgePath, logger); err != nil {
					logger.Error("knowledge reload failed; keeping current tables", "path", cfg.KnowledgePath, "error", err)
				}
			}
		}
	}()

	if cfg.RemindersEnabled {
		scheduler := reminder.NewScheduler(
			reminder.NewRepository(db),
			newSentStore(cfg, logger),
			smsClient,
			cfg.ReminderInterval,
			logger,
			m,
		)
		go scheduler.Run(ctx)
	}

	// 4. Router
	handler := newRouter(routerDeps{
		logger:             logger,
		jwtSecret:          cfg.JWTSecret,
		corsOrigins:        cfg.CORSAllowedOrigins,
		chatbotHandler:     chatbot.NewHandler(assistantSvc, logger),
		translationHandler: translation.NewHandler(translationSvc, reportSvc, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func connectDB(dsn string, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	const attempts = 10
	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			logger.Info("connected to database")
			return db, nil
		}
		logger.Warn("waiting for database", "attempt", i, "of", attempts, "error", err)
		time.Sleep(2 * time.Second)
	}
	db.Close()
	return nil, err
}

func runMigrations(source, dsn string) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func loadKnowledge(path string) (*assistant.Knowledge, error) {
	if path == "" {
		return assistant.DefaultKnowledge()
	}
	return assistant.LoadKnowledge(path)
}

// reloadKnowledge swaps the assistant tables for the ones at path. On any
// error the service keeps serving the tables it already has.
func reloadKnowledge(svc assistant.Service, path string, logger *logging.Logger) error {
	k, err := loadKnowledge(path)
	if err != nil {
		return err
	}
	if err := svc.Reload(k); err != nil {
		return err
	}
	logger.Info("assistant knowledge reloaded", "path", path)
	return nil
}

// newSentStore shares reminder state through Redis when configured so
// replicas do not double-send.
func newSentStore(cfg *config.Config, logger *logging.Logger) reminder.SentStore {
	if cfg.RedisAddr == "" {
		return reminder.NewMemorySentStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	logger.Info("reminder state stored in redis", "addr", cfg.RedisAddr)
	return reminder.NewRedisSentStore(client)
}
