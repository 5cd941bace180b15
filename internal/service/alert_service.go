package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
)

// CreateAlertInput carries the fields for a new alert.
type CreateAlertInput struct {
	Name      string  `json:"name"`
	AlertType string  `json:"alertType"`
	Condition string  `json:"condition"`
	Threshold float64 `json:"threshold"`
	WalletID  *string `json:"walletId"`
	IsActive  *bool   `json:"isActive"`
}

// UpdateAlertInput carries a partial alert update. Nil fields are left
// unchanged.
type UpdateAlertInput struct {
	Name      *string  `json:"name"`
	AlertType *string  `json:"alertType"`
	Condition *string  `json:"condition"`
	Threshold *float64 `json:"threshold"`
	WalletID  *string  `json:"walletId"`
	IsActive  *bool    `json:"isActive"`
}

// CheckAlertsInput carries the external observations the evaluator
// cannot derive from stored entries.
type CheckAlertsInput struct {
	BtcPrice     *float64 `json:"btcPrice"`
	Variation24h *float64 `json:"variation24h"`
}

// CheckAlertsResult reports one evaluation pass.
type CheckAlertsResult struct {
	TriggeredCount int             `json:"triggeredCount"`
	Alerts         []*models.Alert `json:"alerts"`
}

// PortfolioValuer resolves the current portfolio value, optionally
// scoped to one wallet.
type PortfolioValuer interface {
	PortfolioValue(ctx context.Context, walletID *string) (float64, error)
}

// AlertService manages alerts and runs the evaluator.
type AlertService struct {
	alerts  AlertStore
	wallets WalletStore
	values  PortfolioValuer
	logger  *logging.Logger
}

// NewAlertService creates an AlertService.
func NewAlertService(alerts AlertStore, wallets WalletStore, values PortfolioValuer) *AlertService {
	return &AlertService{
		alerts:  alerts,
		wallets: wallets,
		values:  values,
		logger:  logging.GetGlobalLogger().WithField("service", "alert"),
	}
}

// List returns alerts, optionally restricted to active ones.
func (s *AlertService) List(ctx context.Context, activeOnly bool) ([]*models.Alert, error) {
	return s.alerts.List(ctx, activeOnly)
}

// Get returns the alert with the given id.
func (s *AlertService) Get(ctx context.Context, id string) (*models.Alert, error) {
	return s.alerts.GetByID(ctx, id)
}

func (s *AlertService) validateWalletRef(ctx context.Context, walletID *string) error {
	if walletID == nil || *walletID == "" {
		return nil
	}
	exists, err := s.wallets.Exists(ctx, *walletID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError("wallet")
	}
	return nil
}

// Create adds a new alert.
func (s *AlertService) Create(ctx context.Context, input *CreateAlertInput) (*models.Alert, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("alert name is required")
	}
	if !models.ValidAlertType(models.AlertType(input.AlertType)) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid alert type: %s", input.AlertType))
	}
	if !models.ValidAlertCondition(models.AlertCondition(input.Condition)) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid alert condition: %s", input.Condition))
	}
	if input.Threshold <= 0 {
		return nil, apperrors.NewValidationError("threshold must be positive")
	}
	if err := s.validateWalletRef(ctx, input.WalletID); err != nil {
		return nil, err
	}

	alert := &models.Alert{
		ID:        uuid.New().String(),
		Name:      input.Name,
		AlertType: models.AlertType(input.AlertType),
		Condition: models.AlertCondition(input.Condition),
		Threshold: input.Threshold,
		WalletID:  input.WalletID,
		IsActive:  true,
	}
	if input.IsActive != nil {
		alert.IsActive = *input.IsActive
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id": alert.ID,
		"type":     alert.AlertType,
	}).Info("alert created")
	return alert, nil
}

// Update applies a partial update to an alert.
func (s *AlertService) Update(ctx context.Context, id string, input *UpdateAlertInput) (*models.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.NewValidationError("alert name cannot be empty")
		}
		alert.Name = *input.Name
	}
	if input.AlertType != nil {
		if !models.ValidAlertType(models.AlertType(*input.AlertType)) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid alert type: %s", *input.AlertType))
		}
		alert.AlertType = models.AlertType(*input.AlertType)
	}
	if input.Condition != nil {
		if !models.ValidAlertCondition(models.AlertCondition(*input.Condition)) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid alert condition: %s", *input.Condition))
		}
		alert.Condition = models.AlertCondition(*input.Condition)
	}
	if input.Threshold != nil {
		if *input.Threshold <= 0 {
			return nil, apperrors.NewValidationError("threshold must be positive")
		}
		alert.Threshold = *input.Threshold
	}
	if input.WalletID != nil {
		if err := s.validateWalletRef(ctx, input.WalletID); err != nil {
			return nil, err
		}
		alert.WalletID = input.WalletID
	}
	if input.IsActive != nil {
		alert.IsActive = *input.IsActive
	}

	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Delete removes an alert.
func (s *AlertService) Delete(ctx context.Context, id string) error {
	return s.alerts.Delete(ctx, id)
}

// Reset clears an alert's triggered state and re-activates it.
func (s *AlertService) Reset(ctx context.Context, id string) (*models.Alert, error) {
	if err := s.alerts.ResetTriggered(ctx, id); err != nil {
		return nil, err
	}
	return s.alerts.GetByID(ctx, id)
}

// Check evaluates every active, not yet triggered alert against the
// current portfolio state and the supplied observations. Alerts whose
// observation is missing are skipped. Comparisons are strict: an exact
// match with the threshold does not trigger.
func (s *AlertService) Check(ctx context.Context, input *CheckAlertsInput) (*CheckAlertsResult, error) {
	alerts, err := s.alerts.List(ctx, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &CheckAlertsResult{Alerts: []*models.Alert{}}

	for _, alert := range alerts {
		if alert.TriggeredAt != nil {
			continue
		}

		var current float64
		switch alert.AlertType {
		case models.AlertValueThreshold:
			current, err = s.values.PortfolioValue(ctx, alert.WalletID)
			if err != nil {
				return nil, err
			}
		case models.AlertVariationPercent:
			if input.Variation24h == nil {
				continue
			}
			current = *input.Variation24h
		case models.AlertBtcPrice:
			if input.BtcPrice == nil {
				continue
			}
			current = *input.BtcPrice
		default:
			continue
		}

		triggered := false
		switch alert.Condition {
		case models.ConditionAbove:
			triggered = current > alert.Threshold
		case models.ConditionBelow:
			triggered = current < alert.Threshold
		}
		if !triggered {
			continue
		}

		if err := s.alerts.MarkTriggered(ctx, alert.ID, now); err != nil {
			return nil, err
		}
		at := now
		alert.TriggeredAt = &at
		result.TriggeredCount++
		result.Alerts = append(result.Alerts, alert)

		s.logger.WithFields(map[string]interface{}{
			"alert_id":  alert.ID,
			"type":      alert.AlertType,
			"condition": alert.Condition,
			"threshold": alert.Threshold,
			"current":   current,
		}).Info("alert triggered")
	}

	return result, nil
}
