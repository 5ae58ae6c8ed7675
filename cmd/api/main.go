package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/penny/internal/account"
	accountStore "github.com/MrJamesThe3rd/penny/internal/account/store"
	"github.com/MrJamesThe3rd/penny/internal/config"
	"github.com/MrJamesThe3rd/penny/internal/database"
	"github.com/MrJamesThe3rd/penny/internal/export"
	pennyHttp "github.com/MrJamesThe3rd/penny/internal/http"
	accountHandler "github.com/MrJamesThe3rd/penny/internal/http/account"
	exportHandler "github.com/MrJamesThe3rd/penny/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/penny/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/penny/internal/http/matching"
	schemaHandler "github.com/MrJamesThe3rd/penny/internal/http/schema"
	tagHandler "github.com/MrJamesThe3rd/penny/internal/http/tag"
	txHandler "github.com/MrJamesThe3rd/penny/internal/http/transaction"
	"github.com/MrJamesThe3rd/penny/internal/importer"
	importStore "github.com/MrJamesThe3rd/penny/internal/importer/store"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/penny/internal/matching/store"
	"github.com/MrJamesThe3rd/penny/internal/schema"
	schemaStore "github.com/MrJamesThe3rd/penny/internal/schema/store"
	"github.com/MrJamesThe3rd/penny/internal/tag"
	tagStore "github.com/MrJamesThe3rd/penny/internal/tag/store"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
	txStore "github.com/MrJamesThe3rd/penny/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	var (
		accountService     = account.NewService(accountStore.New(db))
		tagService         = tag.NewService(tagStore.New(db))
		schemaService      = schema.NewService(schemaStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), accountService)
		matchingService    = matching.NewService(matchingStore.New(db), tagService)
		importService      = importer.NewService(importStore.New(db), transactionService, accountService, tagService, matchingService)
		exportService      = export.NewService(transactionService)
	)

	handlers := pennyHttp.Handlers{
		Accounts:     accountHandler.NewHandler(accountService),
		Schemas:      schemaHandler.NewHandler(schemaService),
		Import: importHandler.NewHandler(importService, schemaService, importHandler.Options{
			MaxUploadBytes: cfg.Import.MaxUploadBytes,
			PreviewRows:    cfg.Import.PreviewRows,
		}),
		Transactions: txHandler.NewHandler(transactionService),
		Tags:         tagHandler.NewHandler(tagService),
		Matching:     matchingHandler.NewHandler(matchingService),
		Export:       exportHandler.NewHandler(exportService),
	}

	router := pennyHttp.New(pennyHttp.Options{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
