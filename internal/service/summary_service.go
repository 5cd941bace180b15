package service

import (
	"context"
	"fmt"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
)

// SummaryService runs the aggregation engine over stored entries and
// caches the results until the next mutation.
type SummaryService struct {
	wallets WalletStore
	monthly MonthlyEntryStore
	daily   DailyEntryStore
	cache   *ResponseCache
	logger  *logging.Logger
}

// NewSummaryService creates a SummaryService.
func NewSummaryService(wallets WalletStore, monthly MonthlyEntryStore, daily DailyEntryStore, cache *ResponseCache) *SummaryService {
	return &SummaryService{
		wallets: wallets,
		monthly: monthly,
		daily:   daily,
		cache:   cache,
		logger:  logging.GetGlobalLogger().WithField("service", "summary"),
	}
}

// walletNames returns a wallet id to name map for labeling aggregates.
func (s *SummaryService) walletNames(ctx context.Context) (map[string]string, error) {
	wallets, err := s.wallets.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(wallets))
	for _, w := range wallets {
		names[w.ID] = w.Name
	}
	return names, nil
}

// MonthlySummary returns the per-month portfolio summary for a year.
// The first month's delta is measured against the prior year's December
// when that month has entries.
func (s *SummaryService) MonthlySummary(ctx context.Context, year int) (*YearSummary, error) {
	if year < 2000 || year > 2100 {
		return nil, apperrors.NewValidationError("year must be between 2000 and 2100")
	}

	cacheKey := fmt.Sprintf("summary:%d", year)
	var cached YearSummary
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	entries, err := s.monthly.ListForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	prevDec, err := s.monthly.ListForMonth(ctx, year-1, 12)
	if err != nil {
		return nil, err
	}
	var prevDecTotal float64
	for _, e := range prevDec {
		prevDecTotal += e.ValueUsd
	}

	names, err := s.walletNames(ctx)
	if err != nil {
		return nil, err
	}

	summary := buildYearSummary(year, entries, prevDecTotal, names)
	s.cache.SetJSON(ctx, cacheKey, summary)
	return summary, nil
}

// DailySnapshots returns day-by-day portfolio totals for a month.
func (s *SummaryService) DailySnapshots(ctx context.Context, year, month int) ([]DaySnapshot, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.NewValidationError("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, apperrors.NewValidationError("year must be between 2000 and 2100")
	}

	cacheKey := fmt.Sprintf("snapshots:%d-%02d", year, month)
	var cached []DaySnapshot
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	from, to := monthBounds(year, month)
	entries, err := s.daily.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	names, err := s.walletNames(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := buildDaySnapshots(entries, names)
	s.cache.SetJSON(ctx, cacheKey, snapshots)
	return snapshots, nil
}

// Metrics returns portfolio-level metrics over the full monthly history.
func (s *SummaryService) Metrics(ctx context.Context, initialInvestment float64) (*PortfolioMetrics, error) {
	if initialInvestment < 0 {
		return nil, apperrors.NewValidationError("initialInvestment cannot be negative")
	}

	cacheKey := fmt.Sprintf("metrics:%v", initialInvestment)
	var cached PortfolioMetrics
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	totals, err := s.monthly.MonthlyTotals(ctx)
	if err != nil {
		return nil, err
	}

	metrics := computeMetrics(totals, initialInvestment)
	s.cache.SetJSON(ctx, cacheKey, metrics)
	return metrics, nil
}

// Years returns the distinct years that have monthly entries, newest
// first.
func (s *SummaryService) Years(ctx context.Context) ([]int, error) {
	return s.monthly.Years(ctx)
}

// PortfolioValue sums the latest monthly entry of every wallet, or of a
// single wallet when walletID is set. Used by the alert evaluator.
func (s *SummaryService) PortfolioValue(ctx context.Context, walletID *string) (float64, error) {
	if walletID != nil {
		entry, err := s.monthly.LatestForWallet(ctx, *walletID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return 0, nil
			}
			return 0, err
		}
		return entry.ValueUsd, nil
	}

	totals, err := s.monthly.MonthlyTotals(ctx)
	if err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[len(totals)-1].TotalUsd, nil
}
