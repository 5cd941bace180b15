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

// MonthlyEntryFilters narrows a monthly entry listing.
type MonthlyEntryFilters struct {
	Year     *int
	WalletID *string
}

// MonthlyTotal is one point of the portfolio value time series: the summed
// value of all wallets for one (year, month) bucket.
type MonthlyTotal struct {
	Year     int
	Month    int
	TotalUsd float64
}

// MonthlyEntryRepository handles monthly entry persistence
type MonthlyEntryRepository struct {
	db *PostgresDB
}

// NewMonthlyEntryRepository creates a new monthly entry repository
func NewMonthlyEntryRepository(db *PostgresDB) *MonthlyEntryRepository {
	return &MonthlyEntryRepository{db: db}
}

// Create inserts a new monthly entry. A duplicate (wallet, year, month)
// yields a conflict error; an unknown wallet yields not-found.
func (r *MonthlyEntryRepository) Create(ctx context.Context, entry *models.MonthlyEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO monthly_entries (id, wallet_id, year, month, value_usd, btc_price, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.Year,
		entry.Month,
		entry.ValueUsd,
		entry.BtcPrice,
		entry.Notes,
		entry.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("entry already exists for this wallet/month")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("wallet")
		}
		return apperrors.NewDatabaseError("create monthly entry", err)
	}

	return nil
}

// GetByID retrieves a monthly entry by ID
func (r *MonthlyEntryRepository) GetByID(ctx context.Context, id string) (*models.MonthlyEntry, error) {
	query := `
		SELECT id, wallet_id, year, month, value_usd, btc_price, notes, created_at
		FROM monthly_entries
		WHERE id = $1
	`

	entry, err := scanMonthlyEntry(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry")
		}
		return nil, apperrors.NewDatabaseError("get monthly entry", err)
	}

	return entry, nil
}

// GetByWalletYearMonth retrieves the entry for a (wallet, year, month) triple.
func (r *MonthlyEntryRepository) GetByWalletYearMonth(ctx context.Context, walletID string, year, month int) (*models.MonthlyEntry, error) {
	query := `
		SELECT id, wallet_id, year, month, value_usd, btc_price, notes, created_at
		FROM monthly_entries
		WHERE wallet_id = $1 AND year = $2 AND month = $3
	`

	entry, err := scanMonthlyEntry(r.db.Pool().QueryRow(ctx, query, walletID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry")
		}
		return nil, apperrors.NewDatabaseError("get monthly entry", err)
	}

	return entry, nil
}

// List retrieves monthly entries matching the filters, ordered by year then
// month ascending.
func (r *MonthlyEntryRepository) List(ctx context.Context, filters *MonthlyEntryFilters) ([]*models.MonthlyEntry, error) {
	query := `
		SELECT id, wallet_id, year, month, value_usd, btc_price, notes, created_at
		FROM monthly_entries
		WHERE ($1::int IS NULL OR year = $1)
		  AND ($2::uuid IS NULL OR wallet_id = $2)
		ORDER BY year ASC, month ASC
	`

	var year *int
	var walletID *string
	if filters != nil {
		year = filters.Year
		walletID = filters.WalletID
	}

	rows, err := r.db.Pool().Query(ctx, query, year, walletID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list monthly entries", err)
	}
	defer rows.Close()

	return collectMonthlyEntries(rows)
}

// ListForYear retrieves all entries for one year, in (year, month) order.
func (r *MonthlyEntryRepository) ListForYear(ctx context.Context, year int) ([]*models.MonthlyEntry, error) {
	y := year
	return r.List(ctx, &MonthlyEntryFilters{Year: &y})
}

// ListForMonth retrieves all entries for one (year, month) bucket.
func (r *MonthlyEntryRepository) ListForMonth(ctx context.Context, year, month int) ([]*models.MonthlyEntry, error) {
	query := `
		SELECT id, wallet_id, year, month, value_usd, btc_price, notes, created_at
		FROM monthly_entries
		WHERE year = $1 AND month = $2
	`

	rows, err := r.db.Pool().Query(ctx, query, year, month)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list monthly entries", err)
	}
	defer rows.Close()

	return collectMonthlyEntries(rows)
}

// LatestForWallet retrieves the chronologically last entry for a wallet, or
// not-found when the wallet has no entries.
func (r *MonthlyEntryRepository) LatestForWallet(ctx context.Context, walletID string) (*models.MonthlyEntry, error) {
	query := `
		SELECT id, wallet_id, year, month, value_usd, btc_price, notes, created_at
		FROM monthly_entries
		WHERE wallet_id = $1
		ORDER BY year DESC, month DESC
		LIMIT 1
	`

	entry, err := scanMonthlyEntry(r.db.Pool().QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry")
		}
		return nil, apperrors.NewDatabaseError("get latest entry", err)
	}

	return entry, nil
}

// MonthlyTotals returns the whole-portfolio value series: entries grouped by
// (year, month), summed, in chronological order across all years.
func (r *MonthlyEntryRepository) MonthlyTotals(ctx context.Context) ([]MonthlyTotal, error) {
	query := `
		SELECT year, month, SUM(value_usd)
		FROM monthly_entries
		GROUP BY year, month
		ORDER BY year ASC, month ASC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewDatabaseError("aggregate monthly totals", err)
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var t MonthlyTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.TotalUsd); err != nil {
			return nil, apperrors.NewDatabaseError("scan monthly total", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate monthly totals", err)
	}

	return totals, nil
}

// Years returns the distinct years with monthly data, descending.
func (r *MonthlyEntryRepository) Years(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT year
		FROM monthly_entries
		ORDER BY year DESC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list years", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, apperrors.NewDatabaseError("scan year", err)
		}
		years = append(years, year)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate years", err)
	}

	return years, nil
}

// Update updates an existing monthly entry row
func (r *MonthlyEntryRepository) Update(ctx context.Context, entry *models.MonthlyEntry) error {
	query := `
		UPDATE monthly_entries
		SET wallet_id = $2, year = $3, month = $4, value_usd = $5, btc_price = $6, notes = $7
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.Year,
		entry.Month,
		entry.ValueUsd,
		entry.BtcPrice,
		entry.Notes,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("entry already exists for this wallet/month")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("wallet")
		}
		return apperrors.NewDatabaseError("update monthly entry", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry")
	}

	return nil
}

// Delete removes a monthly entry
func (r *MonthlyEntryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM monthly_entries WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete monthly entry", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry")
	}

	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonthlyEntry(row rowScanner) (*models.MonthlyEntry, error) {
	var entry models.MonthlyEntry
	err := row.Scan(
		&entry.ID,
		&entry.WalletID,
		&entry.Year,
		&entry.Month,
		&entry.ValueUsd,
		&entry.BtcPrice,
		&entry.Notes,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectMonthlyEntries(rows pgx.Rows) ([]*models.MonthlyEntry, error) {
	var entries []*models.MonthlyEntry
	for rows.Next() {
		entry, err := scanMonthlyEntry(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan monthly entry", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate monthly entries", err)
	}

	return entries, nil
}
