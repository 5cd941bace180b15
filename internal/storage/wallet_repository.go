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

// WalletRepository handles wallet data persistence
type WalletRepository struct {
	db *PostgresDB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *PostgresDB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create inserts a new wallet. Wallet names are unique; a duplicate name
// yields a conflict error.
func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	wallet.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO wallets (id, name, description, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		wallet.ID,
		wallet.Name,
		wallet.Description,
		wallet.Color,
		wallet.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("wallet with this name already exists")
		}
		return apperrors.NewDatabaseError("create wallet", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	query := `
		SELECT id, name, description, color, created_at
		FROM wallets
		WHERE id = $1
	`

	var wallet models.Wallet
	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&wallet.ID,
		&wallet.Name,
		&wallet.Description,
		&wallet.Color,
		&wallet.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("wallet")
		}
		return nil, apperrors.NewDatabaseError("get wallet", err)
	}

	return &wallet, nil
}

// GetByName retrieves a wallet by its unique name
func (r *WalletRepository) GetByName(ctx context.Context, name string) (*models.Wallet, error) {
	query := `
		SELECT id, name, description, color, created_at
		FROM wallets
		WHERE name = $1
	`

	var wallet models.Wallet
	err := r.db.Pool().QueryRow(ctx, query, name).Scan(
		&wallet.ID,
		&wallet.Name,
		&wallet.Description,
		&wallet.Color,
		&wallet.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("wallet")
		}
		return nil, apperrors.NewDatabaseError("get wallet by name", err)
	}

	return &wallet, nil
}

// List retrieves all wallets ordered by name ascending
func (r *WalletRepository) List(ctx context.Context) ([]*models.Wallet, error) {
	query := `
		SELECT id, name, description, color, created_at
		FROM wallets
		ORDER BY name ASC
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list wallets", err)
	}
	defer rows.Close()

	var wallets []*models.Wallet
	for rows.Next() {
		var wallet models.Wallet
		err := rows.Scan(
			&wallet.ID,
			&wallet.Name,
			&wallet.Description,
			&wallet.Color,
			&wallet.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan wallet", err)
		}
		wallets = append(wallets, &wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate wallets", err)
	}

	return wallets, nil
}

// Update updates an existing wallet row
func (r *WalletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, description = $3, color = $4
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		wallet.ID,
		wallet.Name,
		wallet.Description,
		wallet.Color,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("wallet with this name already exists")
		}
		return apperrors.NewDatabaseError("update wallet", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("wallet")
	}

	return nil
}

// Delete removes a wallet. Dependent monthly/daily entries and wallet-scoped
// alerts are removed by the ON DELETE CASCADE referential action.
func (r *WalletRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM wallets WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete wallet", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("wallet")
	}

	return nil
}

// Exists checks if a wallet exists
func (r *WalletRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, apperrors.NewDatabaseError("check wallet existence", err)
	}

	return exists, nil
}

// Count returns the number of wallets, used by the health probe
func (r *WalletRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM wallets`

	err := r.db.Pool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, apperrors.NewDatabaseError("count wallets", err)
	}

	return count, nil
}
