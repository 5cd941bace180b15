package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// Mock repositories for testing

type mockWalletStore struct {
	wallets map[string]*models.Wallet
}

func newMockWalletStore() *mockWalletStore {
	return &mockWalletStore{wallets: make(map[string]*models.Wallet)}
}

func (m *mockWalletStore) Create(ctx context.Context, wallet *models.Wallet) error {
	for _, w := range m.wallets {
		if w.Name == wallet.Name {
			return apperrors.NewConflictError("wallet with this name already exists")
		}
	}
	if wallet.ID == "" {
		wallet.ID = fmt.Sprintf("wallet-%d", len(m.wallets)+1)
	}
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *mockWalletStore) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, apperrors.NewNotFoundError("wallet")
}

func (m *mockWalletStore) GetByName(ctx context.Context, name string) (*models.Wallet, error) {
	for _, w := range m.wallets {
		if w.Name == name {
			return w, nil
		}
	}
	return nil, apperrors.NewNotFoundError("wallet")
}

func (m *mockWalletStore) List(ctx context.Context) ([]*models.Wallet, error) {
	result := make([]*models.Wallet, 0, len(m.wallets))
	for _, w := range m.wallets {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockWalletStore) Update(ctx context.Context, wallet *models.Wallet) error {
	if _, ok := m.wallets[wallet.ID]; !ok {
		return apperrors.NewNotFoundError("wallet")
	}
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *mockWalletStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.wallets[id]; !ok {
		return apperrors.NewNotFoundError("wallet")
	}
	delete(m.wallets, id)
	return nil
}

func (m *mockWalletStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.wallets[id]
	return ok, nil
}

func (m *mockWalletStore) Count(ctx context.Context) (int64, error) {
	return int64(len(m.wallets)), nil
}

type mockMonthlyStore struct {
	entries map[string]*models.MonthlyEntry
}

func newMockMonthlyStore() *mockMonthlyStore {
	return &mockMonthlyStore{entries: make(map[string]*models.MonthlyEntry)}
}

func (m *mockMonthlyStore) Create(ctx context.Context, entry *models.MonthlyEntry) error {
	for _, e := range m.entries {
		if e.WalletID == entry.WalletID && e.Year == entry.Year && e.Month == entry.Month {
			return apperrors.NewConflictError("entry already exists for this wallet and month")
		}
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("monthly-%d", len(m.entries)+1)
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockMonthlyStore) GetByID(ctx context.Context, id string) (*models.MonthlyEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, apperrors.NewNotFoundError("monthly entry")
}

func (m *mockMonthlyStore) GetByWalletYearMonth(ctx context.Context, walletID string, year, month int) (*models.MonthlyEntry, error) {
	for _, e := range m.entries {
		if e.WalletID == walletID && e.Year == year && e.Month == month {
			return e, nil
		}
	}
	return nil, apperrors.NewNotFoundError("monthly entry")
}

func (m *mockMonthlyStore) sorted() []*models.MonthlyEntry {
	result := make([]*models.MonthlyEntry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result
}

func (m *mockMonthlyStore) List(ctx context.Context, filters *storage.MonthlyEntryFilters) ([]*models.MonthlyEntry, error) {
	var result []*models.MonthlyEntry
	for _, e := range m.sorted() {
		if filters != nil && filters.Year != nil && e.Year != *filters.Year {
			continue
		}
		if filters != nil && filters.WalletID != nil && e.WalletID != *filters.WalletID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockMonthlyStore) ListForYear(ctx context.Context, year int) ([]*models.MonthlyEntry, error) {
	return m.List(ctx, &storage.MonthlyEntryFilters{Year: &year})
}

func (m *mockMonthlyStore) ListForMonth(ctx context.Context, year, month int) ([]*models.MonthlyEntry, error) {
	var result []*models.MonthlyEntry
	for _, e := range m.sorted() {
		if e.Year == year && e.Month == month {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockMonthlyStore) LatestForWallet(ctx context.Context, walletID string) (*models.MonthlyEntry, error) {
	var latest *models.MonthlyEntry
	for _, e := range m.sorted() {
		if e.WalletID == walletID {
			latest = e
		}
	}
	if latest == nil {
		return nil, apperrors.NewNotFoundError("monthly entry")
	}
	return latest, nil
}

func (m *mockMonthlyStore) MonthlyTotals(ctx context.Context) ([]storage.MonthlyTotal, error) {
	type key struct{ year, month int }
	sums := make(map[key]float64)
	for _, e := range m.entries {
		sums[key{e.Year, e.Month}] += e.ValueUsd
	}
	totals := make([]storage.MonthlyTotal, 0, len(sums))
	for k, sum := range sums {
		totals = append(totals, storage.MonthlyTotal{Year: k.year, Month: k.month, TotalUsd: sum})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals, nil
}

func (m *mockMonthlyStore) Years(ctx context.Context) ([]int, error) {
	seen := make(map[int]bool)
	for _, e := range m.entries {
		seen[e.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (m *mockMonthlyStore) Update(ctx context.Context, entry *models.MonthlyEntry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return apperrors.NewNotFoundError("monthly entry")
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockMonthlyStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return apperrors.NewNotFoundError("monthly entry")
	}
	delete(m.entries, id)
	return nil
}

type mockDailyStore struct {
	entries map[string]*models.DailyEntry
}

func newMockDailyStore() *mockDailyStore {
	return &mockDailyStore{entries: make(map[string]*models.DailyEntry)}
}

func (m *mockDailyStore) Create(ctx context.Context, entry *models.DailyEntry) error {
	for _, e := range m.entries {
		if e.WalletID == entry.WalletID && e.Date.Equal(entry.Date) {
			return apperrors.NewConflictError("entry already exists for this wallet and date")
		}
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("daily-%d", len(m.entries)+1)
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockDailyStore) GetByID(ctx context.Context, id string) (*models.DailyEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, apperrors.NewNotFoundError("daily entry")
}

func (m *mockDailyStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.DailyEntry, error) {
	var result []*models.DailyEntry
	for _, e := range m.entries {
		if !e.Date.Before(from) && !e.Date.After(to) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockDailyStore) Update(ctx context.Context, entry *models.DailyEntry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return apperrors.NewNotFoundError("daily entry")
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockDailyStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return apperrors.NewNotFoundError("daily entry")
	}
	delete(m.entries, id)
	return nil
}

type mockAlertStore struct {
	alerts map[string]*models.Alert
}

func newMockAlertStore() *mockAlertStore {
	return &mockAlertStore{alerts: make(map[string]*models.Alert)}
}

func (m *mockAlertStore) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = fmt.Sprintf("alert-%d", len(m.alerts)+1)
	}
	m.alerts[alert.ID] = alert
	return nil
}

func (m *mockAlertStore) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	if a, ok := m.alerts[id]; ok {
		return a, nil
	}
	return nil, apperrors.NewNotFoundError("alert")
}

func (m *mockAlertStore) List(ctx context.Context, activeOnly bool) ([]*models.Alert, error) {
	var result []*models.Alert
	for _, a := range m.alerts {
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAlertStore) Update(ctx context.Context, alert *models.Alert) error {
	if _, ok := m.alerts[alert.ID]; !ok {
		return apperrors.NewNotFoundError("alert")
	}
	m.alerts[alert.ID] = alert
	return nil
}

func (m *mockAlertStore) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	a, ok := m.alerts[id]
	if !ok {
		return apperrors.NewNotFoundError("alert")
	}
	a.TriggeredAt = &at
	return nil
}

func (m *mockAlertStore) ResetTriggered(ctx context.Context, id string) error {
	a, ok := m.alerts[id]
	if !ok {
		return apperrors.NewNotFoundError("alert")
	}
	a.TriggeredAt = nil
	a.IsActive = true
	return nil
}

func (m *mockAlertStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.alerts[id]; !ok {
		return apperrors.NewNotFoundError("alert")
	}
	delete(m.alerts, id)
	return nil
}
