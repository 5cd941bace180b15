package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/service"
)

// handleListWallets returns all wallets ordered by name.
func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.walletService.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, wallets)
}

// handleGetWallet returns a single wallet by id.
func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	wallet, err := s.walletService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

// handleCreateWallet creates a new wallet.
func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var input service.CreateWalletInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	wallet, err := s.walletService.Create(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, wallet)
}

// handleUpdateWallet applies a partial update to a wallet.
func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input service.UpdateWalletInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	wallet, err := s.walletService.Update(r.Context(), id, &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

// handleDeleteWallet removes a wallet and its entries.
func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.walletService.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
