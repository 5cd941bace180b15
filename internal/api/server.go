// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/service"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// Service interfaces for dependency injection and testing

// WalletServiceInterface defines the interface for wallet operations
type WalletServiceInterface interface {
	List(ctx context.Context) ([]*models.Wallet, error)
	Get(ctx context.Context, id string) (*models.Wallet, error)
	Create(ctx context.Context, input *service.CreateWalletInput) (*models.Wallet, error)
	Update(ctx context.Context, id string, input *service.UpdateWalletInput) (*models.Wallet, error)
	Delete(ctx context.Context, id string) error
}

// EntryServiceInterface defines the interface for entry operations
type EntryServiceInterface interface {
	ListMonthly(ctx context.Context, filters *storage.MonthlyEntryFilters) ([]*models.MonthlyEntry, error)
	GetMonthly(ctx context.Context, id string) (*models.MonthlyEntry, error)
	CreateMonthly(ctx context.Context, input *service.CreateMonthlyEntryInput) (*models.MonthlyEntry, error)
	UpdateMonthly(ctx context.Context, id string, input *service.UpdateMonthlyEntryInput) (*models.MonthlyEntry, error)
	DeleteMonthly(ctx context.Context, id string) error
	BulkUpsertMonthly(ctx context.Context, input *service.BulkUpsertMonthlyInput) ([]*models.MonthlyEntry, error)
	ListDaily(ctx context.Context, from, to time.Time) ([]*models.DailyEntry, error)
	CreateDaily(ctx context.Context, input *service.CreateDailyEntryInput) (*models.DailyEntry, error)
	UpdateDaily(ctx context.Context, id string, input *service.UpdateDailyEntryInput) (*models.DailyEntry, error)
	DeleteDaily(ctx context.Context, id string) error
}

// SummaryServiceInterface defines the interface for aggregation operations
type SummaryServiceInterface interface {
	MonthlySummary(ctx context.Context, year int) (*service.YearSummary, error)
	DailySnapshots(ctx context.Context, year, month int) ([]service.DaySnapshot, error)
	Metrics(ctx context.Context, initialInvestment float64) (*service.PortfolioMetrics, error)
	Years(ctx context.Context) ([]int, error)
}

// AlertServiceInterface defines the interface for alert operations
type AlertServiceInterface interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Alert, error)
	Get(ctx context.Context, id string) (*models.Alert, error)
	Create(ctx context.Context, input *service.CreateAlertInput) (*models.Alert, error)
	Update(ctx context.Context, id string, input *service.UpdateAlertInput) (*models.Alert, error)
	Delete(ctx context.Context, id string) error
	Reset(ctx context.Context, id string) (*models.Alert, error)
	Check(ctx context.Context, input *service.CheckAlertsInput) (*service.CheckAlertsResult, error)
}

// HealthProber reports backing store health for the health endpoint.
type HealthProber interface {
	Ping(ctx context.Context) error
	WalletCount(ctx context.Context) (int64, error)
}

// Server represents the HTTP API server.
type Server struct {
	router         *mux.Router
	httpServer     *http.Server
	walletService  WalletServiceInterface
	entryService   EntryServiceInterface
	summaryService SummaryServiceInterface
	alertService   AlertServiceInterface
	health         HealthProber
	config         *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int // Requests per second per client
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	walletService WalletServiceInterface,
	entryService EntryServiceInterface,
	summaryService SummaryServiceInterface,
	alertService AlertServiceInterface,
	health HealthProber,
) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		walletService:  walletService,
		entryService:   entryService,
		summaryService: summaryService,
		alertService:   alertService,
		health:         health,
		config:         config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RateLimitRPS)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter)) // Rate limiting after CORS
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Wallet endpoints
	api.HandleFunc("/wallets", s.handleListWallets).Methods("GET")
	api.HandleFunc("/wallets", s.handleCreateWallet).Methods("POST")
	api.HandleFunc("/wallets/{id}", s.handleGetWallet).Methods("GET")
	api.HandleFunc("/wallets/{id}", s.handleUpdateWallet).Methods("PUT")
	api.HandleFunc("/wallets/{id}", s.handleDeleteWallet).Methods("DELETE")

	// Monthly entry endpoints
	api.HandleFunc("/monthly", s.handleListMonthly).Methods("GET")
	api.HandleFunc("/monthly", s.handleCreateMonthly).Methods("POST")
	api.HandleFunc("/monthly/bulk", s.handleBulkUpsertMonthly).Methods("POST")
	api.HandleFunc("/monthly/summary", s.handleMonthlySummary).Methods("GET")
	api.HandleFunc("/monthly/{id}", s.handleGetMonthly).Methods("GET")
	api.HandleFunc("/monthly/{id}", s.handleUpdateMonthly).Methods("PUT")
	api.HandleFunc("/monthly/{id}", s.handleDeleteMonthly).Methods("DELETE")

	// Daily entry endpoints
	api.HandleFunc("/daily", s.handleListDaily).Methods("GET")
	api.HandleFunc("/daily", s.handleCreateDaily).Methods("POST")
	api.HandleFunc("/daily/snapshots", s.handleDailySnapshots).Methods("GET")
	api.HandleFunc("/daily/{id}", s.handleUpdateDaily).Methods("PUT")
	api.HandleFunc("/daily/{id}", s.handleDeleteDaily).Methods("DELETE")

	// Aggregation endpoints
	api.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	api.HandleFunc("/years", s.handleYears).Methods("GET")

	// Alert endpoints
	api.HandleFunc("/alerts", s.handleListAlerts).Methods("GET")
	api.HandleFunc("/alerts", s.handleCreateAlert).Methods("POST")
	api.HandleFunc("/alerts/check", s.handleCheckAlerts).Methods("POST")
	api.HandleFunc("/alerts/{id}", s.handleGetAlert).Methods("GET")
	api.HandleFunc("/alerts/{id}", s.handleUpdateAlert).Methods("PUT")
	api.HandleFunc("/alerts/{id}", s.handleDeleteAlert).Methods("DELETE")
	api.HandleFunc("/alerts/{id}/reset", s.handleResetAlert).Methods("POST")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "connected"
	var walletCount int64

	if err := s.health.Ping(r.Context()); err != nil {
		status = "unhealthy"
		dbStatus = "disconnected"
	} else if count, err := s.health.WalletCount(r.Context()); err == nil {
		walletCount = count
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]interface{}{
		"status":      status,
		"database":    dbStatus,
		"walletCount": walletCount,
		"service":     "crypto-portfolio-tracker",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
