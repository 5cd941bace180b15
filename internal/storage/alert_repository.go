package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AlertRepository handles alert persistence
type AlertRepository struct {
	db *PostgresDB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *PostgresDB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	alert.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO alerts (id, name, alert_type, condition, threshold, wallet_id, is_active, triggered_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		alert.ID,
		alert.Name,
		alert.AlertType,
		alert.Condition,
		alert.Threshold,
		alert.WalletID,
		alert.IsActive,
		alert.TriggeredAt,
		alert.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("wallet")
		}
		return apperrors.NewDatabaseError("create alert", err)
	}

	return nil
}

// GetByID retrieves an alert by ID
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	query := `
		SELECT id, name, alert_type, condition, threshold, wallet_id, is_active, triggered_at, created_at
		FROM alerts
		WHERE id = $1
	`

	alert, err := scanAlert(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("alert")
		}
		return nil, apperrors.NewDatabaseError("get alert", err)
	}

	return alert, nil
}

// List retrieves alerts ordered by creation time descending. With activeOnly
// set, inactive alerts are filtered out.
func (r *AlertRepository) List(ctx context.Context, activeOnly bool) ([]*models.Alert, error) {
	query := `
		SELECT id, name, alert_type, condition, threshold, wallet_id, is_active, triggered_at, created_at
		FROM alerts
		WHERE ($1 = false OR is_active = true)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, activeOnly)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list alerts", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan alert", err)
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate alerts", err)
	}

	return alerts, nil
}

// Update updates an existing alert row
func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	query := `
		UPDATE alerts
		SET name = $2, alert_type = $3, condition = $4, threshold = $5, wallet_id = $6, is_active = $7, triggered_at = $8
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		alert.ID,
		alert.Name,
		alert.AlertType,
		alert.Condition,
		alert.Threshold,
		alert.WalletID,
		alert.IsActive,
		alert.TriggeredAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("wallet")
		}
		return apperrors.NewDatabaseError("update alert", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert")
	}

	return nil
}

// MarkTriggered stamps triggered_at on an alert.
func (r *AlertRepository) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE alerts SET triggered_at = $2 WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id, at)
	if err != nil {
		return apperrors.NewDatabaseError("mark alert triggered", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert")
	}

	return nil
}

// ResetTriggered clears triggered_at and re-activates the alert so it can
// fire again on a future breach.
func (r *AlertRepository) ResetTriggered(ctx context.Context, id string) error {
	query := `UPDATE alerts SET triggered_at = NULL, is_active = true WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return apperrors.NewDatabaseError("reset alert", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert")
	}

	return nil
}

// Delete removes an alert
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM alerts WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete alert", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("alert")
	}

	return nil
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var alert models.Alert
	err := row.Scan(
		&alert.ID,
		&alert.Name,
		&alert.AlertType,
		&alert.Condition,
		&alert.Threshold,
		&alert.WalletID,
		&alert.IsActive,
		&alert.TriggeredAt,
		&alert.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}
