package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dwgops/pospay/internal/alert"
	"github.com/dwgops/pospay/internal/api"
	"github.com/dwgops/pospay/internal/config"
	"github.com/dwgops/pospay/internal/faillog"
	"github.com/dwgops/pospay/internal/gateway"
	"github.com/dwgops/pospay/internal/journal"
	"github.com/dwgops/pospay/internal/ledger"
	"github.com/dwgops/pospay/internal/receipt"
	"github.com/dwgops/pospay/internal/service"
	"github.com/dwgops/pospay/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DBSource)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayPublicKey, cfg.GatewayPrivateKey)
	if gw.Sandbox() {
		logger.Warn("sandbox environment -- payments are not real")
	}

	var alerts alert.Notifier = alert.Discard{}
	if cfg.PushoverToken != "" {
		alerts = alert.NewPushover(cfg.PushoverToken, cfg.PushoverUser, logger)
	}

	failures := faillog.New(cfg.FailureLogPath, cfg.Operator, logger)
	j := journal.New(cfg.JournalPath)
	poster := ledger.NewPoster(dbPool, cfg.Operator, cfg.Hostname, logger)
	accounts := store.NewAccountStore(dbPool)
	receipts := receipt.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword, logger)

	// The HTTP surface returns the auth code in its response body, so no
	// reference sink is wired here; the desktop front end uses the clipboard.
	orchestrator := service.NewOrchestrator(gw, poster, j, alerts, service.NopSink{}, failures, logger)

	handler := api.NewHandler(orchestrator, j, accounts, receipts, failures)

	r := mux.NewRouter()
	r.Use(handler.RecoverMiddleware)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheckHandler).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/payments", handler.CreatePaymentHandler).Methods("POST")
	apiV1.HandleFunc("/journal", handler.GetJournalHandler).Methods("GET")
	apiV1.HandleFunc("/accounts", handler.SearchAccountsHandler).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}", handler.GetAccountHandler).Methods("GET")
	apiV1.HandleFunc("/receipts", handler.SendReceiptHandler).Methods("POST")

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "sandbox", gw.Sandbox())
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
