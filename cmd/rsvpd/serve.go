package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"rsvptracker/config"
	"rsvptracker/internal/adapters/calendar"
	"rsvptracker/internal/adapters/confirmation"
	"rsvptracker/internal/adapters/email"
	httpdelivery "rsvptracker/internal/delivery/http"
	"rsvptracker/internal/delivery/http/controllers"
	"rsvptracker/internal/domain"
	"rsvptracker/internal/repository/memory"
	"rsvptracker/internal/repository/postgres"
	"rsvptracker/internal/services"
	"rsvptracker/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the background mail workers.",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(c.Context, cfg, logger)
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Store, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, nil
	}
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Info("connected to database")
	return postgres.NewStore(db), db, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SMTP: email.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUser,
			Password: cfg.Mail.SMTPPass,
		},
		SES: email.SESConfig{
			Region:          cfg.Mail.AWSRegion,
			AccessKeyID:     cfg.Mail.AWSAccessKeyID,
			SecretAccessKey: cfg.Mail.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	pool := worker.NewPool(logger, worker.Config{
		Workers:   cfg.Workers.Count,
		QueueSize: cfg.Workers.QueueSize,
	})
	pool.Start()

	links := domain.NewLinkBuilder(cfg.BaseURL)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	eventService := services.NewEventService(store, emailService, pool, calendar.NewEncoder(links), links, logger, cfg.RequestTimeout)
	rsvpService := services.NewRSVPService(store, emailService, pool,
		confirmation.NewRenderer(cfg.ConfirmationsDir, links), links, logger, cfg.RequestTimeout)

	router := httpdelivery.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewRSVPController(logger, rsvpService),
		controllers.NewPageController(logger, cfg.StaticDir),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewHandler(logger, cfg.AllowedOrigins, router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	case serveErr = <-errCh:
		logger.Error("server failed", "err", serveErr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		logger.Warn("pending emails abandoned", "err", err)
	}
	logger.Info("server stopped")
	return serveErr
}
