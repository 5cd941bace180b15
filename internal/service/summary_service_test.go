package service

import (
	"context"
	"testing"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
)

func newSummaryServiceForTest() (*SummaryService, *mockWalletStore, *mockMonthlyStore, *mockDailyStore) {
	wallets := newMockWalletStore()
	monthly := newMockMonthlyStore()
	daily := newMockDailyStore()
	svc := NewSummaryService(wallets, monthly, daily, nil)
	return svc, wallets, monthly, daily
}

func TestSummaryService_MonthlySummary_SeedsFromPriorDecember(t *testing.T) {
	svc, wallets, monthly, _ := newSummaryServiceForTest()
	wallets.wallets["w1"] = &models.Wallet{ID: "w1", Name: "Cold Storage"}
	monthly.entries["dec"] = &models.MonthlyEntry{
		ID: "dec", WalletID: "w1", Year: 2023, Month: 12, ValueUsd: 1000,
	}
	monthly.entries["jan"] = &models.MonthlyEntry{
		ID: "jan", WalletID: "w1", Year: 2024, Month: 1, ValueUsd: 1300,
	}

	summary, err := svc.MonthlySummary(context.Background(), 2024)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if len(summary.MonthlyData) != 1 {
		t.Fatalf("Expected 1 month, got %d", len(summary.MonthlyData))
	}
	if summary.MonthlyData[0].DeltaUsd != 300 {
		t.Errorf("Expected January delta 300 against prior December, got %v", summary.MonthlyData[0].DeltaUsd)
	}
	if summary.StartValue != 1000 {
		t.Errorf("Expected startValue from prior December, got %v", summary.StartValue)
	}
}

func TestSummaryService_MonthlySummary_EmptyYear(t *testing.T) {
	svc, _, _, _ := newSummaryServiceForTest()

	summary, err := svc.MonthlySummary(context.Background(), 2024)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if len(summary.MonthlyData) != 0 {
		t.Errorf("Expected no months, got %d", len(summary.MonthlyData))
	}
	if summary.StartValue != 0 || summary.EndValue != 0 {
		t.Errorf("Expected zero start/end, got %v / %v", summary.StartValue, summary.EndValue)
	}
}

func TestSummaryService_MonthlySummary_RejectsBadYear(t *testing.T) {
	svc, _, _, _ := newSummaryServiceForTest()

	if _, err := svc.MonthlySummary(context.Background(), 1800); err == nil {
		t.Error("Expected validation error for out-of-range year")
	}
}

func TestSummaryService_DailySnapshots_RejectsBadMonth(t *testing.T) {
	svc, _, _, _ := newSummaryServiceForTest()

	if _, err := svc.DailySnapshots(context.Background(), 2024, 13); err == nil {
		t.Error("Expected validation error for month 13")
	}
	if _, err := svc.DailySnapshots(context.Background(), 2024, 0); err == nil {
		t.Error("Expected validation error for month 0")
	}
}

func TestSummaryService_DailySnapshots_ScopedToMonth(t *testing.T) {
	svc, wallets, _, daily := newSummaryServiceForTest()
	wallets.wallets["w1"] = &models.Wallet{ID: "w1", Name: "Cold Storage"}
	daily.entries["in"] = dailyEntry("w1", "2024-03-15", 500)
	daily.entries["out"] = dailyEntry("w1", "2024-04-01", 999)

	snapshots, err := svc.DailySnapshots(context.Background(), 2024, 3)
	if err != nil {
		t.Fatalf("DailySnapshots failed: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot inside March, got %d", len(snapshots))
	}
	if snapshots[0].Date != "2024-03-15" {
		t.Errorf("Expected 2024-03-15, got %s", snapshots[0].Date)
	}
}

func TestSummaryService_Metrics(t *testing.T) {
	svc, _, monthly, _ := newSummaryServiceForTest()
	monthly.entries["m1"] = &models.MonthlyEntry{ID: "m1", WalletID: "w1", Year: 2024, Month: 1, ValueUsd: 1000}
	monthly.entries["m2"] = &models.MonthlyEntry{ID: "m2", WalletID: "w1", Year: 2024, Month: 2, ValueUsd: 2000}
	monthly.entries["m3"] = &models.MonthlyEntry{ID: "m3", WalletID: "w1", Year: 2024, Month: 3, ValueUsd: 1800}

	metrics, err := svc.Metrics(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if metrics.CurrentValue != 1800 {
		t.Errorf("Expected currentValue 1800, got %v", metrics.CurrentValue)
	}
	if metrics.AthValue != 2000 {
		t.Errorf("Expected athValue 2000, got %v", metrics.AthValue)
	}
	if metrics.RoiPercent != 80 {
		t.Errorf("Expected roiPercent 80, got %v", metrics.RoiPercent)
	}
}

func TestSummaryService_PortfolioValue(t *testing.T) {
	svc, _, monthly, _ := newSummaryServiceForTest()
	monthly.entries["m1"] = &models.MonthlyEntry{ID: "m1", WalletID: "w1", Year: 2024, Month: 1, ValueUsd: 1000}
	monthly.entries["m2"] = &models.MonthlyEntry{ID: "m2", WalletID: "w2", Year: 2024, Month: 1, ValueUsd: 500}
	monthly.entries["m3"] = &models.MonthlyEntry{ID: "m3", WalletID: "w1", Year: 2024, Month: 2, ValueUsd: 1200}

	total, err := svc.PortfolioValue(context.Background(), nil)
	if err != nil {
		t.Fatalf("PortfolioValue failed: %v", err)
	}
	// The latest monthly point is February, where only w1 has an entry.
	if total != 1200 {
		t.Errorf("Expected global value 1200, got %v", total)
	}

	scoped, err := svc.PortfolioValue(context.Background(), ptrS("w2"))
	if err != nil {
		t.Fatalf("PortfolioValue failed: %v", err)
	}
	if scoped != 500 {
		t.Errorf("Expected w2 value 500, got %v", scoped)
	}

	missing, err := svc.PortfolioValue(context.Background(), ptrS("ghost"))
	if err != nil {
		t.Fatalf("PortfolioValue failed: %v", err)
	}
	if missing != 0 {
		t.Errorf("Expected zero for wallet with no entries, got %v", missing)
	}
}
