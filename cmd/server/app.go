package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inkhq/inkwell-api/internal/config"
	"github.com/inkhq/inkwell-api/internal/platform/logger"
	"github.com/inkhq/inkwell-api/internal/platform/mail"
	"github.com/inkhq/inkwell-api/internal/platform/postgres"
	"github.com/inkhq/inkwell-api/internal/service"
	"github.com/inkhq/inkwell-api/internal/service/auth"
	"github.com/inkhq/inkwell-api/internal/store"
)

// application holds the wired dependencies for the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	credentials    auth.CredentialService
	accountService service.AccountService
	postService    service.PostService
}

// newApplication loads configuration and wires every component: logger,
// database (with migrations), stores, credential/account/post services,
// and the mailer.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"smtp_enabled", cfg.SMTP.Enabled)

	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	rolePolicy := auth.NewEmailDomainPolicy(cfg.Auth.AdminEmailDomain)
	tokenService, err := auth.NewTokenService(cfg.Auth, rolePolicy)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	userStore := postgres.NewUserStore(db, log)
	postStore := postgres.NewPostStore(db, log)
	txRunner := store.NewTxRunner(db)

	credentials := auth.NewCredentialService(userStore, tokenService, log)

	var mailer service.Mailer = mail.NoopMailer{}
	if cfg.SMTP.Enabled {
		smtpMailer, err := mail.NewSMTPMailer(cfg.SMTP, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		mailer = smtpMailer
	}

	return &application{
		config:         cfg,
		logger:         log,
		db:             db,
		credentials:    credentials,
		accountService: service.NewAccountService(txRunner, userStore, credentials, rolePolicy, mailer, log),
		postService:    service.NewPostService(postStore, userStore, log),
	}, nil
}

// openDatabase opens the connection pool via the pgx stdlib driver and
// verifies connectivity.
func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// cleanup releases process-wide resources on shutdown.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
