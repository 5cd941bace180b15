// Package service implements the business layer: CRUD contracts over the
// entry store, the aggregation engine, and the alert evaluator.
package service

import (
	"context"
	"time"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// Repository interfaces for dependency injection and testing

// WalletStore defines the wallet persistence operations used by services.
type WalletStore interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	GetByName(ctx context.Context, name string) (*models.Wallet, error)
	List(ctx context.Context) ([]*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// MonthlyEntryStore defines the monthly entry persistence operations.
type MonthlyEntryStore interface {
	Create(ctx context.Context, entry *models.MonthlyEntry) error
	GetByID(ctx context.Context, id string) (*models.MonthlyEntry, error)
	GetByWalletYearMonth(ctx context.Context, walletID string, year, month int) (*models.MonthlyEntry, error)
	List(ctx context.Context, filters *storage.MonthlyEntryFilters) ([]*models.MonthlyEntry, error)
	ListForYear(ctx context.Context, year int) ([]*models.MonthlyEntry, error)
	ListForMonth(ctx context.Context, year, month int) ([]*models.MonthlyEntry, error)
	LatestForWallet(ctx context.Context, walletID string) (*models.MonthlyEntry, error)
	MonthlyTotals(ctx context.Context) ([]storage.MonthlyTotal, error)
	Years(ctx context.Context) ([]int, error)
	Update(ctx context.Context, entry *models.MonthlyEntry) error
	Delete(ctx context.Context, id string) error
}

// DailyEntryStore defines the daily entry persistence operations.
type DailyEntryStore interface {
	Create(ctx context.Context, entry *models.DailyEntry) error
	GetByID(ctx context.Context, id string) (*models.DailyEntry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.DailyEntry, error)
	Update(ctx context.Context, entry *models.DailyEntry) error
	Delete(ctx context.Context, id string) error
}

// AlertStore defines the alert persistence operations.
type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	MarkTriggered(ctx context.Context, id string, at time.Time) error
	ResetTriggered(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
