package service

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// genValues produces non-negative USD values with arbitrary decimal noise.
func genValues() gopter.Gen {
	return gen.SliceOf(gen.Float64Range(0, 1e9))
}

func hasAtMostTwoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func TestYearSummaryProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("wallet values sum to the month total", prop.ForAll(
		func(values []float64) bool {
			names := make(map[string]string)
			entries := make([]*models.MonthlyEntry, 0, len(values))
			for i, v := range values {
				id := fmt.Sprintf("w%d", i)
				names[id] = "Wallet " + id
				entries = append(entries, &models.MonthlyEntry{
					WalletID: id,
					Year:     2024,
					Month:    1 + i%12,
					ValueUsd: v,
				})
			}

			summary := buildYearSummary(2024, entries, 0, names)
			for _, m := range summary.MonthlyData {
				var sum float64
				for _, v := range m.Wallets {
					sum += v
				}
				// Per-wallet values are rounded individually, so the
				// comparison tolerates one rounding step per wallet.
				if math.Abs(round2(sum)-m.TotalValue) > 0.01*float64(len(m.Wallets)) {
					return false
				}
			}
			return true
		},
		genValues(),
	))

	properties.Property("all summary figures have at most 2 decimals", prop.ForAll(
		func(values []float64) bool {
			entries := make([]*models.MonthlyEntry, 0, len(values))
			for i, v := range values {
				entries = append(entries, &models.MonthlyEntry{
					WalletID: "w",
					Year:     2024,
					Month:    1 + i%12,
					ValueUsd: v,
				})
			}

			summary := buildYearSummary(2024, entries, 0, map[string]string{"w": "Wallet"})
			if !hasAtMostTwoDecimals(summary.StartValue) || !hasAtMostTwoDecimals(summary.EndValue) || !hasAtMostTwoDecimals(summary.DeltaUsd) {
				return false
			}
			for _, m := range summary.MonthlyData {
				if !hasAtMostTwoDecimals(m.TotalValue) || !hasAtMostTwoDecimals(m.DeltaUsd) || !hasAtMostTwoDecimals(m.DeltaPercent) {
					return false
				}
			}
			return true
		},
		genValues(),
	))

	properties.TestingRun(t)
}

func TestMetricsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("drawdown is never positive", prop.ForAll(
		func(values []float64) bool {
			totals := make([]storage.MonthlyTotal, 0, len(values))
			for i, v := range values {
				totals = append(totals, storage.MonthlyTotal{
					Year:     2020 + i/12,
					Month:    1 + i%12,
					TotalUsd: v,
				})
			}

			metrics := computeMetrics(totals, 0)
			return metrics.DrawdownPercent <= 0
		},
		genValues(),
	))

	properties.Property("current value equals the last series point rounded", prop.ForAll(
		func(values []float64) bool {
			if len(values) == 0 {
				return true
			}
			totals := make([]storage.MonthlyTotal, 0, len(values))
			for i, v := range values {
				totals = append(totals, storage.MonthlyTotal{
					Year:     2020 + i/12,
					Month:    1 + i%12,
					TotalUsd: v,
				})
			}

			metrics := computeMetrics(totals, 0)
			return metrics.CurrentValue == round2(values[len(values)-1])
		},
		genValues(),
	))

	properties.TestingRun(t)
}
