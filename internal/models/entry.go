package models

import (
	"time"
)

// MonthlyEntry records the USD value of one wallet for one calendar month.
// At most one row exists per (wallet, year, month).
type MonthlyEntry struct {
	ID        string    `json:"id" db:"id"`
	WalletID  string    `json:"walletId" db:"wallet_id"`
	Year      int       `json:"year" db:"year"`
	Month     int       `json:"month" db:"month"`
	ValueUsd  float64   `json:"valueUsd" db:"value_usd"`
	BtcPrice  *float64  `json:"btcPrice,omitempty" db:"btc_price"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DailyEntry records the USD value of one wallet for one calendar day.
// At most one row exists per (wallet, date).
type DailyEntry struct {
	ID        string    `json:"id" db:"id"`
	WalletID  string    `json:"walletId" db:"wallet_id"`
	Date      time.Time `json:"date" db:"date"`
	ValueUsd  float64   `json:"valueUsd" db:"value_usd"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
