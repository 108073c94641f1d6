package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/utils"
)

type banUserRequest struct {
	Password string `json:"password"`
	Banned   bool   `json:"banned"`
}

// banUser sets or clears the ban flag on the target account. The admin
// must confirm their own credential in the request body; holding a live
// admin token alone is not enough.
func (h *Handler) banUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req banUserRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("error decoding ban request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err = h.services.AuthService.SetUserBan(r.Context(), adminID, req.Password, targetID, req.Banned); err != nil {
		log.Err(err).Int64("admin_id", adminID).Int64("target_id", targetID).Msg("ban update failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
