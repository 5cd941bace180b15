package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
)

// CreateWalletInput carries the fields accepted when creating a wallet.
type CreateWalletInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// UpdateWalletInput carries the fields accepted when updating a wallet.
// Nil fields are left unchanged.
type UpdateWalletInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// WalletService manages wallets.
type WalletService struct {
	wallets WalletStore
	cache   *ResponseCache
	logger  *logging.Logger
}

// NewWalletService creates a WalletService.
func NewWalletService(wallets WalletStore, cache *ResponseCache) *WalletService {
	return &WalletService{
		wallets: wallets,
		cache:   cache,
		logger:  logging.GetGlobalLogger().WithField("service", "wallet"),
	}
}

// List returns all wallets ordered by name.
func (s *WalletService) List(ctx context.Context) ([]*models.Wallet, error) {
	return s.wallets.List(ctx)
}

// Get returns the wallet with the given id.
func (s *WalletService) Get(ctx context.Context, id string) (*models.Wallet, error) {
	return s.wallets.GetByID(ctx, id)
}

// Create adds a new wallet. Name is required and must be unique; color
// defaults when omitted.
func (s *WalletService) Create(ctx context.Context, input *CreateWalletInput) (*models.Wallet, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("wallet name is required")
	}

	wallet := &models.Wallet{
		ID:          uuid.New().String(),
		Name:        name,
		Description: input.Description,
		Color:       models.DefaultWalletColor,
	}
	if input.Color != nil && *input.Color != "" {
		wallet.Color = *input.Color
	}

	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.WithFields(map[string]interface{}{
		"wallet_id": wallet.ID,
		"name":      wallet.Name,
	}).Info("wallet created")
	return wallet, nil
}

// Update applies a partial update to a wallet.
func (s *WalletService) Update(ctx context.Context, id string, input *UpdateWalletInput) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("wallet name cannot be empty")
		}
		wallet.Name = name
	}
	if input.Description != nil {
		wallet.Description = input.Description
	}
	if input.Color != nil && *input.Color != "" {
		wallet.Color = *input.Color
	}

	if err := s.wallets.Update(ctx, wallet); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return wallet, nil
}

// Delete removes a wallet and, through the schema's cascade, all of its
// entries.
func (s *WalletService) Delete(ctx context.Context, id string) error {
	if err := s.wallets.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.logger.WithField("wallet_id", id).Info("wallet deleted")
	return nil
}
