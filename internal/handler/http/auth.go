package http

import (
	"encoding/json"
	"net/http"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/models"
	"github.com/ashmelev/cardvault/internal/utils"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// authResponse is the body of a successful register or login. The token
// appears here and, prefixed with "Bearer ", in the Authorization
// response header; clients may read either.
type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// register creates a new account and opens a session for it. The response
// body carries the user and the signed token; the token is also set in
// the "Authorization" header so the client can start calling vault
// endpoints immediately.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("error decoding register request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.services.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("registration failed")
		writeError(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	if _, err = utils.WriteJSON(w, authResponse{User: user, Token: token.SignedString}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing register response")
	}
}

// login verifies the credential and opens a session. Like register, the
// token is returned in the body and in the "Authorization" response
// header.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("error decoding login request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.services.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("login failed")
		writeError(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	if _, err = utils.WriteJSON(w, authResponse{User: user, Token: token.SignedString}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing login response")
	}
}

// logout erases the session's encryption key. The token itself stays
// valid until expiry, but without the key it cannot touch vault data.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.services.AuthService.Logout(r.Context(), sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// changePassword re-encrypts the caller's vault under a key derived from
// the new credential and responds with the re-encryption report.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, sessionID, _, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("error decoding change password request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.services.AuthService.ChangeCredential(r.Context(), userID, sessionID, req.OldPassword, req.NewPassword)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("credential change failed")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, report, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing change password response")
	}
}

// deleteAccount removes the account, its rows and its stored blobs. The
// credential is required again: a stolen live token must not be enough
// to destroy the vault.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ctx := r.Context()
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	sessionID, ok := utils.GetSessionIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("error decoding delete account request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.DeleteAccount(ctx, userID, sessionID, req.Password); err != nil {
		log.Err(err).Int64("id", userID).Msg("account deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
