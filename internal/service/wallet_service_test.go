package service

import (
	"context"
	"testing"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
)

func TestWalletService_Create(t *testing.T) {
	svc := NewWalletService(newMockWalletStore(), nil)

	wallet, err := svc.Create(context.Background(), &CreateWalletInput{Name: "Cold Storage"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if wallet.ID == "" {
		t.Error("Expected wallet ID to be set")
	}
	if wallet.Color != models.DefaultWalletColor {
		t.Errorf("Expected default color, got %s", wallet.Color)
	}

	// Duplicate names conflict.
	_, err = svc.Create(context.Background(), &CreateWalletInput{Name: "Cold Storage"})
	if !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict on duplicate name, got %v", err)
	}
}

func TestWalletService_Create_RequiresName(t *testing.T) {
	svc := NewWalletService(newMockWalletStore(), nil)

	for _, name := range []string{"", "   "} {
		if _, err := svc.Create(context.Background(), &CreateWalletInput{Name: name}); err == nil || !apperrors.IsUserError(err) {
			t.Errorf("Expected validation error for name %q, got %v", name, err)
		}
	}
}

func TestWalletService_Create_CustomColor(t *testing.T) {
	svc := NewWalletService(newMockWalletStore(), nil)

	wallet, err := svc.Create(context.Background(), &CreateWalletInput{
		Name:  "Exchange",
		Color: ptrS("#ff0000"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if wallet.Color != "#ff0000" {
		t.Errorf("Expected custom color, got %s", wallet.Color)
	}
}

func TestWalletService_Update_PartialFields(t *testing.T) {
	store := newMockWalletStore()
	store.wallets["w1"] = &models.Wallet{
		ID: "w1", Name: "Cold Storage",
		Description: ptrS("hardware wallet"), Color: "#3b82f6",
	}
	svc := NewWalletService(store, nil)

	wallet, err := svc.Update(context.Background(), "w1", &UpdateWalletInput{
		Name: ptrS("Vault"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if wallet.Name != "Vault" {
		t.Errorf("Expected name Vault, got %s", wallet.Name)
	}
	if wallet.Description == nil || *wallet.Description != "hardware wallet" {
		t.Error("Expected omitted description to be untouched")
	}

	// An empty name is rejected even as a partial update.
	if _, err := svc.Update(context.Background(), "w1", &UpdateWalletInput{Name: ptrS("")}); err == nil {
		t.Error("Expected validation error for empty name")
	}
}

func TestWalletService_Update_NotFound(t *testing.T) {
	svc := NewWalletService(newMockWalletStore(), nil)

	_, err := svc.Update(context.Background(), "missing", &UpdateWalletInput{Name: ptrS("x")})
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestWalletService_Delete(t *testing.T) {
	store := newMockWalletStore()
	store.wallets["w1"] = &models.Wallet{ID: "w1", Name: "Cold Storage"}
	svc := NewWalletService(store, nil)

	if err := svc.Delete(context.Background(), "w1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "w1"); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}
