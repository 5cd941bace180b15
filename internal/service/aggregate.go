package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// The aggregation engine: pure functions that turn raw entry rows into
// time-bucketed summaries. All derived structures are scoped to one request;
// nothing here is cached or shared.

var monthNames = [13]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthSummary is one month of the yearly summary: total value across
// wallets plus the delta against the previous month with data.
type MonthSummary struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"`
	MonthName    string             `json:"monthName"`
	TotalValue   float64            `json:"totalValue"`
	DeltaUsd     float64            `json:"deltaUsd"`
	DeltaPercent float64            `json:"deltaPercent"`
	BtcPrice     *float64           `json:"btcPrice"`
	Wallets      map[string]float64 `json:"wallets"`
}

// YearSummary is the monthly summary for one year plus the yearly roll-up.
type YearSummary struct {
	Year         int            `json:"year"`
	StartValue   float64        `json:"startValue"`
	EndValue     float64        `json:"endValue"`
	DeltaUsd     float64        `json:"deltaUsd"`
	DeltaPercent float64        `json:"deltaPercent"`
	MonthlyData  []MonthSummary `json:"monthlyData"`
}

// DaySnapshot is the total portfolio value for one calendar day, with the
// day-over-day percent variation.
type DaySnapshot struct {
	Date         string             `json:"date"`
	TotalValue   float64            `json:"totalValue"`
	DeltaPercent float64            `json:"deltaPercent"`
	Wallets      map[string]float64 `json:"wallets"`
}

// PortfolioMetrics is computed from the full monthly history at request
// time. Variation24h and BtcComparisonPercent are placeholders: the monthly
// series has no sub-monthly or external-price granularity to compute them.
type PortfolioMetrics struct {
	CurrentValue         float64  `json:"currentValue"`
	AthValue             float64  `json:"athValue"`
	AthDate              *string  `json:"athDate"`
	RoiPercent           float64  `json:"roiPercent"`
	DrawdownPercent      float64  `json:"drawdownPercent"`
	BtcComparisonPercent float64  `json:"btcComparisonPercent"`
	Variation24h         *float64 `json:"variation24h"`
	Variation30d         *float64 `json:"variation30d"`
}

// round2 rounds to cents, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// walletLabel resolves a wallet id to its display name. Entries whose wallet
// is missing from the lookup keep a synthetic label rather than being
// dropped.
func walletLabel(names map[string]string, walletID string) string {
	if name, ok := names[walletID]; ok {
		return name
	}
	return fmt.Sprintf("Wallet %s", walletID)
}

// buildYearSummary groups one year of monthly entries into per-month totals
// and walks the months in order computing deltas. prevDecTotal seeds the
// running previous total so January's delta is relative to the prior
// December; months without entries are skipped entirely.
func buildYearSummary(year int, entries []*models.MonthlyEntry, prevDecTotal float64, walletNames map[string]string) *YearSummary {
	type monthBucket struct {
		total    float64
		btcPrice *float64
		wallets  map[string]float64
	}

	buckets := make(map[int]*monthBucket)
	for _, entry := range entries {
		b, ok := buckets[entry.Month]
		if !ok {
			b = &monthBucket{btcPrice: entry.BtcPrice, wallets: make(map[string]float64)}
			buckets[entry.Month] = b
		}
		b.total += entry.ValueUsd
		b.wallets[walletLabel(walletNames, entry.WalletID)] = round2(entry.ValueUsd)
	}

	monthlyData := make([]MonthSummary, 0, len(buckets))
	prevTotal := prevDecTotal

	for month := 1; month <= 12; month++ {
		b, ok := buckets[month]
		if !ok {
			continue
		}

		var deltaUsd, deltaPercent float64
		if prevTotal > 0 {
			deltaUsd = b.total - prevTotal
			deltaPercent = deltaUsd / prevTotal * 100
		}

		monthlyData = append(monthlyData, MonthSummary{
			Year:         year,
			Month:        month,
			MonthName:    monthNames[month],
			TotalValue:   round2(b.total),
			DeltaUsd:     round2(deltaUsd),
			DeltaPercent: round2(deltaPercent),
			BtcPrice:     b.btcPrice,
			Wallets:      b.wallets,
		})
		prevTotal = b.total
	}

	startValue := prevDecTotal
	if startValue <= 0 && len(monthlyData) > 0 {
		startValue = monthlyData[0].TotalValue
	}
	var endValue float64
	if len(monthlyData) > 0 {
		endValue = monthlyData[len(monthlyData)-1].TotalValue
	}

	yearlyDelta := endValue - startValue
	var yearlyPercent float64
	if startValue > 0 {
		yearlyPercent = yearlyDelta / startValue * 100
	}

	return &YearSummary{
		Year:         year,
		StartValue:   round2(startValue),
		EndValue:     round2(endValue),
		DeltaUsd:     round2(yearlyDelta),
		DeltaPercent: round2(yearlyPercent),
		MonthlyData:  monthlyData,
	}
}

// buildDaySnapshots groups daily entries by calendar date (time of day is
// ignored) and walks the distinct dates ascending, computing day-over-day
// percent variation. The first day, and any day following a non-positive
// total, reports zero variation.
func buildDaySnapshots(entries []*models.DailyEntry, walletNames map[string]string) []DaySnapshot {
	type dayBucket struct {
		total   float64
		wallets map[string]float64
	}

	buckets := make(map[string]*dayBucket)
	for _, entry := range entries {
		key := entry.Date.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{wallets: make(map[string]float64)}
			buckets[key] = b
		}
		b.total += entry.ValueUsd
		b.wallets[walletLabel(walletNames, entry.WalletID)] = round2(entry.ValueUsd)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	snapshots := make([]DaySnapshot, 0, len(dates))
	var prevTotal *float64

	for _, date := range dates {
		b := buckets[date]

		var deltaPercent float64
		if prevTotal != nil && *prevTotal > 0 {
			deltaPercent = (b.total - *prevTotal) / *prevTotal * 100
		}

		snapshots = append(snapshots, DaySnapshot{
			Date:         date,
			TotalValue:   round2(b.total),
			DeltaPercent: round2(deltaPercent),
			Wallets:      b.wallets,
		})

		total := b.total
		prevTotal = &total
	}

	return snapshots
}

// computeMetrics derives portfolio metrics from the chronological monthly
// total series. An empty series yields the zeroed "no data" object.
func computeMetrics(totals []storage.MonthlyTotal, initialInvestment float64) *PortfolioMetrics {
	metrics := &PortfolioMetrics{}
	if len(totals) == 0 {
		return metrics
	}

	currentValue := totals[len(totals)-1].TotalUsd

	// First chronological occurrence wins on ties: strict > comparison.
	var athValue float64
	var athYear, athMonth int
	for _, t := range totals {
		if t.TotalUsd > athValue {
			athValue = t.TotalUsd
			athYear = t.Year
			athMonth = t.Month
		}
	}

	var roiPercent float64
	if initialInvestment > 0 {
		roiPercent = (currentValue - initialInvestment) / initialInvestment * 100
	}

	var drawdownPercent float64
	if athValue > 0 {
		drawdownPercent = (currentValue - athValue) / athValue * 100
	}

	if len(totals) >= 2 {
		prevValue := totals[len(totals)-2].TotalUsd
		if prevValue > 0 {
			variation := round2((currentValue - prevValue) / prevValue * 100)
			metrics.Variation30d = &variation
		}
	}

	metrics.CurrentValue = round2(currentValue)
	metrics.AthValue = round2(athValue)
	metrics.RoiPercent = round2(roiPercent)
	metrics.DrawdownPercent = round2(drawdownPercent)
	if athYear != 0 && athMonth != 0 {
		athDate := fmt.Sprintf("%04d-%02d-01", athYear, athMonth)
		metrics.AthDate = &athDate
	}

	return metrics
}

// monthBounds returns the first and last instant of a calendar month.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
