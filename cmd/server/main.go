package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/quotation-labs/quotation-system/internal/application/service"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/cache"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/config"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/db"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/handler"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/middleware"
)

func main() {
	cfg := config.Load()

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	log.Info("starting quotation system", map[string]interface{}{
		"addr":    cfg.Addr,
		"db_path": cfg.DBPath,
	})

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be configured", nil)
	}

	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		log.Fatal("failed to create database directory", map[string]interface{}{"error": err.Error()})
	}

	badgerOpts := badger.DefaultOptions(cfg.DBPath)
	badgerOpts.Logger = nil

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("failed to open database", map[string]interface{}{"error": err.Error()})
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("error closing database", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Repositories
	accountRepo := db.NewBadgerAccountRepository(badgerDB, cfg.LockTimeout)
	ledgerRepo := db.NewBadgerTransactionRepository(badgerDB)
	rateRepo := cache.NewCachedExchangeRateRepository(
		db.NewBadgerExchangeRateRepository(badgerDB),
		cache.NewRateCache(24*time.Hour),
	)

	// Services
	converter := service.NewConversionService(rateRepo, log)
	txService := service.NewTransactionService(accountRepo, ledgerRepo, converter, log)
	accountService := service.NewAccountService(accountRepo, log)
	rateService := service.NewRateService(rateRepo, log)

	// Router
	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(log))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret, log))
	handler.NewTransactionHandler(txService, log).RegisterRoutes(api)
	handler.NewAccountHandler(accountService, log).RegisterRoutes(api)
	handler.NewRateHandler(rateService, log).RegisterRoutes(api)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", map[string]interface{}{"addr": cfg.Addr})
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", map[string]interface{}{"error": err.Error()})
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
