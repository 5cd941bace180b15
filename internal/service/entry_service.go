package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// CreateMonthlyEntryInput carries the fields for a new monthly entry.
type CreateMonthlyEntryInput struct {
	WalletID string   `json:"walletId"`
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	ValueUsd float64  `json:"valueUsd"`
	BtcPrice *float64 `json:"btcPrice"`
	Notes    *string  `json:"notes"`
}

// UpdateMonthlyEntryInput carries a partial monthly entry update. Nil
// fields are left unchanged.
type UpdateMonthlyEntryInput struct {
	ValueUsd *float64 `json:"valueUsd"`
	BtcPrice *float64 `json:"btcPrice"`
	Notes    *string  `json:"notes"`
}

// BulkUpsertMonthlyInput is a bulk upsert request. Year, month and
// btcPrice set at the batch level apply to every row that does not carry
// its own.
type BulkUpsertMonthlyInput struct {
	Year     int                     `json:"year"`
	Month    int                     `json:"month"`
	BtcPrice *float64                `json:"btcPrice"`
	Entries  []BulkMonthlyEntryInput `json:"entries"`
}

// BulkMonthlyEntryInput is one row of a bulk upsert request. A row may
// reference its wallet by id or by name; rows missing a wallet reference
// or a value are skipped.
type BulkMonthlyEntryInput struct {
	WalletID   *string  `json:"walletId"`
	WalletName *string  `json:"walletName"`
	Year       int      `json:"year"`
	Month      int      `json:"month"`
	ValueUsd   *float64 `json:"valueUsd"`
	BtcPrice   *float64 `json:"btcPrice"`
	Notes      *string  `json:"notes"`
}

// CreateDailyEntryInput carries the fields for a new daily entry.
type CreateDailyEntryInput struct {
	WalletID string  `json:"walletId"`
	Date     string  `json:"date"`
	ValueUsd float64 `json:"valueUsd"`
	Notes    *string `json:"notes"`
}

// UpdateDailyEntryInput carries a partial daily entry update.
type UpdateDailyEntryInput struct {
	ValueUsd *float64 `json:"valueUsd"`
	Notes    *string  `json:"notes"`
}

// EntryService manages monthly and daily valuation entries.
type EntryService struct {
	wallets WalletStore
	monthly MonthlyEntryStore
	daily   DailyEntryStore
	cache   *ResponseCache
	logger  *logging.Logger
}

// NewEntryService creates an EntryService.
func NewEntryService(wallets WalletStore, monthly MonthlyEntryStore, daily DailyEntryStore, cache *ResponseCache) *EntryService {
	return &EntryService{
		wallets: wallets,
		monthly: monthly,
		daily:   daily,
		cache:   cache,
		logger:  logging.GetGlobalLogger().WithField("service", "entry"),
	}
}

func validateYearMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return apperrors.NewValidationError("year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return apperrors.NewValidationError("month must be between 1 and 12")
	}
	return nil
}

// ListMonthly returns monthly entries matching the optional year and
// wallet filters.
func (s *EntryService) ListMonthly(ctx context.Context, filters *storage.MonthlyEntryFilters) ([]*models.MonthlyEntry, error) {
	if filters != nil && filters.WalletID != nil {
		if _, err := uuid.Parse(*filters.WalletID); err != nil {
			return nil, apperrors.NewValidationError("walletId must be a valid UUID")
		}
	}
	return s.monthly.List(ctx, filters)
}

// GetMonthly returns the monthly entry with the given id.
func (s *EntryService) GetMonthly(ctx context.Context, id string) (*models.MonthlyEntry, error) {
	return s.monthly.GetByID(ctx, id)
}

// CreateMonthly adds a monthly entry for a wallet and month.
func (s *EntryService) CreateMonthly(ctx context.Context, input *CreateMonthlyEntryInput) (*models.MonthlyEntry, error) {
	if input.WalletID == "" {
		return nil, apperrors.NewValidationError("walletId is required")
	}
	if err := validateYearMonth(input.Year, input.Month); err != nil {
		return nil, err
	}
	if input.ValueUsd < 0 {
		return nil, apperrors.NewValidationError("valueUsd cannot be negative")
	}

	entry := &models.MonthlyEntry{
		ID:       uuid.New().String(),
		WalletID: input.WalletID,
		Year:     input.Year,
		Month:    input.Month,
		ValueUsd: input.ValueUsd,
		BtcPrice: input.BtcPrice,
		Notes:    input.Notes,
	}
	if err := s.monthly.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return entry, nil
}

// UpdateMonthly applies a partial update to a monthly entry.
func (s *EntryService) UpdateMonthly(ctx context.Context, id string, input *UpdateMonthlyEntryInput) (*models.MonthlyEntry, error) {
	entry, err := s.monthly.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ValueUsd != nil {
		if *input.ValueUsd < 0 {
			return nil, apperrors.NewValidationError("valueUsd cannot be negative")
		}
		entry.ValueUsd = *input.ValueUsd
	}
	if input.BtcPrice != nil {
		entry.BtcPrice = input.BtcPrice
	}
	if input.Notes != nil {
		entry.Notes = input.Notes
	}

	if err := s.monthly.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return entry, nil
}

// DeleteMonthly removes a monthly entry.
func (s *EntryService) DeleteMonthly(ctx context.Context, id string) error {
	if err := s.monthly.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// BulkUpsertMonthly inserts or updates a batch of monthly entries in one
// call. Rows referencing an unknown wallet name create the wallet first.
// Rows missing both wallet references, missing a value, or lacking a
// valid year and month after batch-level defaults are skipped rather
// than rejecting the whole batch. An existing entry keeps its btcPrice
// unless the batch or the row carries a non-zero one.
func (s *EntryService) BulkUpsertMonthly(ctx context.Context, input *BulkUpsertMonthlyInput) ([]*models.MonthlyEntry, error) {
	// Wallets created or resolved during this batch, keyed by name.
	byName := make(map[string]string)

	var upserted []*models.MonthlyEntry
	skipped := 0
	mutated := false
	// An error mid-batch leaves earlier rows committed, so cached
	// aggregates must still be dropped on the way out.
	defer func() {
		if mutated {
			s.cache.Invalidate(ctx)
		}
	}()

	for i := range input.Entries {
		in := &input.Entries[i]
		if in.ValueUsd == nil || (in.WalletID == nil && in.WalletName == nil) {
			skipped++
			continue
		}

		year, month := in.Year, in.Month
		if year == 0 {
			year = input.Year
		}
		if month == 0 {
			month = input.Month
		}
		if validateYearMonth(year, month) != nil {
			skipped++
			continue
		}
		btcPrice := in.BtcPrice
		if btcPrice == nil {
			btcPrice = input.BtcPrice
		}

		walletID, created, err := s.resolveWallet(ctx, in, byName)
		if created {
			mutated = true
		}
		if err != nil {
			return nil, err
		}

		existing, err := s.monthly.GetByWalletYearMonth(ctx, walletID, year, month)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}

		if existing != nil {
			existing.ValueUsd = *in.ValueUsd
			if btcPrice != nil && *btcPrice != 0 {
				existing.BtcPrice = btcPrice
			}
			if in.Notes != nil {
				existing.Notes = in.Notes
			}
			if err := s.monthly.Update(ctx, existing); err != nil {
				return nil, err
			}
			mutated = true
			upserted = append(upserted, existing)
			continue
		}

		entry := &models.MonthlyEntry{
			ID:       uuid.New().String(),
			WalletID: walletID,
			Year:     year,
			Month:    month,
			ValueUsd: *in.ValueUsd,
			BtcPrice: btcPrice,
			Notes:    in.Notes,
		}
		if err := s.monthly.Create(ctx, entry); err != nil {
			return nil, err
		}
		mutated = true
		upserted = append(upserted, entry)
	}

	s.logger.WithFields(map[string]interface{}{
		"upserted": len(upserted),
		"skipped":  skipped,
	}).Info("bulk upsert completed")
	return upserted, nil
}

// resolveWallet maps a bulk row to a wallet id, creating a wallet when
// only an unknown name is given. The second return reports whether a
// wallet was created.
func (s *EntryService) resolveWallet(ctx context.Context, in *BulkMonthlyEntryInput, byName map[string]string) (string, bool, error) {
	if in.WalletID != nil && *in.WalletID != "" {
		exists, err := s.wallets.Exists(ctx, *in.WalletID)
		if err != nil {
			return "", false, err
		}
		if !exists {
			return "", false, apperrors.NewNotFoundError("wallet")
		}
		return *in.WalletID, false, nil
	}

	name := strings.TrimSpace(*in.WalletName)
	if name == "" {
		return "", false, apperrors.NewValidationError("walletName cannot be empty")
	}
	if id, ok := byName[name]; ok {
		return id, false, nil
	}

	wallet, err := s.wallets.GetByName(ctx, name)
	if err == nil {
		byName[name] = wallet.ID
		return wallet.ID, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", false, err
	}

	wallet = &models.Wallet{
		ID:    uuid.New().String(),
		Name:  name,
		Color: models.DefaultWalletColor,
	}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return "", false, err
	}
	byName[name] = wallet.ID
	s.logger.WithField("name", name).Info("wallet auto-created during bulk upsert")
	return wallet.ID, true, nil
}

// ListDaily returns the daily entries between from and to inclusive.
func (s *EntryService) ListDaily(ctx context.Context, from, to time.Time) ([]*models.DailyEntry, error) {
	return s.daily.ListByDateRange(ctx, from, to)
}

// CreateDaily adds a daily entry for a wallet and calendar date.
func (s *EntryService) CreateDaily(ctx context.Context, input *CreateDailyEntryInput) (*models.DailyEntry, error) {
	if input.WalletID == "" {
		return nil, apperrors.NewValidationError("walletId is required")
	}
	date, err := time.ParseInLocation("2006-01-02", input.Date, time.UTC)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}
	if input.ValueUsd < 0 {
		return nil, apperrors.NewValidationError("valueUsd cannot be negative")
	}

	entry := &models.DailyEntry{
		ID:       uuid.New().String(),
		WalletID: input.WalletID,
		Date:     date,
		ValueUsd: input.ValueUsd,
		Notes:    input.Notes,
	}
	if err := s.daily.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return entry, nil
}

// UpdateDaily applies a partial update to a daily entry.
func (s *EntryService) UpdateDaily(ctx context.Context, id string, input *UpdateDailyEntryInput) (*models.DailyEntry, error) {
	entry, err := s.daily.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ValueUsd != nil {
		if *input.ValueUsd < 0 {
			return nil, apperrors.NewValidationError("valueUsd cannot be negative")
		}
		entry.ValueUsd = *input.ValueUsd
	}
	if input.Notes != nil {
		entry.Notes = input.Notes
	}

	if err := s.daily.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return entry, nil
}

// DeleteDaily removes a daily entry.
func (s *EntryService) DeleteDaily(ctx context.Context, id string) error {
	if err := s.daily.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}
