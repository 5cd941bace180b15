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

// DailyEntryRepository handles daily entry persistence
type DailyEntryRepository struct {
	db *PostgresDB
}

// NewDailyEntryRepository creates a new daily entry repository
func NewDailyEntryRepository(db *PostgresDB) *DailyEntryRepository {
	return &DailyEntryRepository{db: db}
}

// Create inserts a new daily entry. A duplicate (wallet, date) yields a
// conflict error; an unknown wallet yields not-found.
func (r *DailyEntryRepository) Create(ctx context.Context, entry *models.DailyEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO daily_entries (id, wallet_id, date, value_usd, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.Date,
		entry.ValueUsd,
		entry.Notes,
		entry.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("entry already exists for this wallet/date")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("wallet")
		}
		return apperrors.NewDatabaseError("create daily entry", err)
	}

	return nil
}

// GetByID retrieves a daily entry by ID
func (r *DailyEntryRepository) GetByID(ctx context.Context, id string) (*models.DailyEntry, error) {
	query := `
		SELECT id, wallet_id, date, value_usd, notes, created_at
		FROM daily_entries
		WHERE id = $1
	`

	entry, err := scanDailyEntry(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry")
		}
		return nil, apperrors.NewDatabaseError("get daily entry", err)
	}

	return entry, nil
}

// ListByDateRange retrieves entries whose date falls in [from, to],
// ordered by date ascending.
func (r *DailyEntryRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.DailyEntry, error) {
	query := `
		SELECT id, wallet_id, date, value_usd, notes, created_at
		FROM daily_entries
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, from, to)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list daily entries", err)
	}
	defer rows.Close()

	var entries []*models.DailyEntry
	for rows.Next() {
		entry, err := scanDailyEntry(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan daily entry", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate daily entries", err)
	}

	return entries, nil
}

// Update updates an existing daily entry row
func (r *DailyEntryRepository) Update(ctx context.Context, entry *models.DailyEntry) error {
	query := `
		UPDATE daily_entries
		SET wallet_id = $2, date = $3, value_usd = $4, notes = $5
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.Date,
		entry.ValueUsd,
		entry.Notes,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("entry already exists for this wallet/date")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("wallet")
		}
		return apperrors.NewDatabaseError("update daily entry", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry")
	}

	return nil
}

// Delete removes a daily entry
func (r *DailyEntryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM daily_entries WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete daily entry", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry")
	}

	return nil
}

func scanDailyEntry(row rowScanner) (*models.DailyEntry, error) {
	var entry models.DailyEntry
	err := row.Scan(
		&entry.ID,
		&entry.WalletID,
		&entry.Date,
		&entry.ValueUsd,
		&entry.Notes,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
