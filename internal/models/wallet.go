// Package models defines the persisted row types for the portfolio tracker.
package models

import (
	"time"
)

// Wallet represents a named crypto wallet whose value is tracked over time.
type Wallet struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// DefaultWalletColor is applied when a wallet is created without a color.
const DefaultWalletColor = "#3b82f6"
