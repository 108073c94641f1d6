package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/utils"
	"github.com/ashmelev/cardvault/models"
)

type createWalletRequest struct {
	Name       string `json:"name"`
	SeedPhrase string `json:"seed_phrase"`
}

// createWallet stores a new wallet with its seed phrase encrypted under
// the session key.
func (h *Handler) createWallet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, _, key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("error decoding create wallet request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wallet := models.Wallet{
		UserID: userID,
		Name:   req.Name,
	}

	created, err := h.services.VaultService.CreateWallet(r.Context(), key, wallet, req.SeedPhrase)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("wallet creation failed")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, created, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing create wallet response")
	}
}

// listWallets returns the caller's wallets with decrypted seed phrases.
// ?deleted=true switches to the recycle bin. Seed phrases that no known
// key can decrypt come back redacted rather than failing the whole list.
func (h *Handler) listWallets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, _, key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	deleted := r.URL.Query().Get("deleted") == "true"

	wallets, err := h.services.VaultService.ListWallets(r.Context(), userID, key, deleted)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("wallet listing failed")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, wallets, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing wallet list response")
	}
}

func (h *Handler) softDeleteWallet(w http.ResponseWriter, r *http.Request) {
	h.walletAction(w, r, h.services.VaultService.SoftDeleteWallet, "wallet soft deletion failed")
}

func (h *Handler) restoreWallet(w http.ResponseWriter, r *http.Request) {
	h.walletAction(w, r, h.services.VaultService.RestoreWallet, "wallet restore failed")
}

func (h *Handler) purgeWallet(w http.ResponseWriter, r *http.Request) {
	h.walletAction(w, r, h.services.VaultService.PermanentDeleteWallet, "wallet purge failed")
}

// walletAction factors the shared shape of the three id-addressed wallet
// operations: parse the id, run the service call, answer 204.
func (h *Handler) walletAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, walletID, userID int64) error, failMsg string) {
	log := logger.FromRequest(r)

	userID, _, _, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid wallet id", http.StatusBadRequest)
		return
	}

	if err = action(r.Context(), walletID, userID); err != nil {
		log.Err(err).Int64("wallet_id", walletID).Msg(failMsg)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
