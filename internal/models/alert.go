package models

import (
	"time"
)

// AlertType identifies which metric an alert watches.
type AlertType string

const (
	AlertValueThreshold   AlertType = "value_threshold"
	AlertVariationPercent AlertType = "variation_percent"
	AlertBtcPrice         AlertType = "btc_price"
)

// AlertCondition is the direction of the threshold comparison.
type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

// Alert is a user-configured threshold watch. A nil WalletID means the alert
// evaluates against the total portfolio value.
type Alert struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	AlertType   AlertType      `json:"alertType" db:"alert_type"`
	Condition   AlertCondition `json:"condition" db:"condition"`
	Threshold   float64        `json:"threshold" db:"threshold"`
	WalletID    *string        `json:"walletId,omitempty" db:"wallet_id"`
	IsActive    bool           `json:"isActive" db:"is_active"`
	TriggeredAt *time.Time     `json:"triggeredAt,omitempty" db:"triggered_at"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// ValidAlertType reports whether t is one of the supported alert types.
func ValidAlertType(t AlertType) bool {
	switch t {
	case AlertValueThreshold, AlertVariationPercent, AlertBtcPrice:
		return true
	}
	return false
}

// ValidAlertCondition reports whether c is a supported condition.
func ValidAlertCondition(c AlertCondition) bool {
	return c == ConditionAbove || c == ConditionBelow
}
