package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/ndavydov/loan-service/internal/config"
	"github.com/ndavydov/loan-service/internal/handler"
	"github.com/ndavydov/loan-service/internal/middleware"
	"github.com/ndavydov/loan-service/internal/repository"
	"github.com/ndavydov/loan-service/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found; relying on existing environment")
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo, err := repository.NewRepository(context.Background(), db)
	if err != nil {
		logger.Fatalf("Failed to init repository: %v", err)
	}
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/share/{token}", h.GetShareLink).Methods("GET")
	// Scan trigger: gated by the scan secret or an admin session
	scanRouter := r.PathPrefix("/scan").Subrouter()
	scanRouter.Use(middleware.OptionalAuth(cfg))
	scanRouter.HandleFunc("/overdue", h.RunOverdueScan).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	authRouter.HandleFunc("/loans", h.ListLoans).Methods("GET")
	authRouter.HandleFunc("/loans/{id}/schedules", h.ListSchedules).Methods("GET")
	authRouter.HandleFunc("/schedules/{id}", h.UpdateSchedule).Methods("PATCH")
	authRouter.HandleFunc("/share-links", h.CreateShareLink).Methods("POST")
	authRouter.HandleFunc("/stats/collector", h.GetCollectorStats).Methods("GET")
	authRouter.HandleFunc("/stats/payee", h.GetPayeeStats).Methods("GET")
	authRouter.HandleFunc("/overdue/collector", h.ListOverdueForCollector).Methods("GET")
	authRouter.HandleFunc("/payees", h.CreatePayee).Methods("POST")
	authRouter.HandleFunc("/payees", h.ListPayees).Methods("GET")

	// Daily overdue scan. Overlapping or repeated runs are safe: the ledger
	// dedup constraint makes them no-ops.
	c := cron.New()
	if _, err := c.AddFunc(cfg.OverdueScanCron, func() {
		if _, err := svc.RunOverdueScan(context.Background(), time.Now()); err != nil {
			logger.Errorf("Scheduled overdue scan failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to register overdue scan job: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
