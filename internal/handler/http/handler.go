package http

import (
	"net/http"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/service"
	"github.com/ashmelev/cardvault/internal/utils"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// sessionKey resolves the caller's identity and live encryption key from
// the request context. A valid token whose session key is gone — logout,
// server restart, expiry — yields false: the capability to touch vault
// data is the key itself, not the token.
func (h *Handler) sessionKey(w http.ResponseWriter, r *http.Request) (userID int64, sessionID string, key []byte, ok bool) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	userID, ok = utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in authenticated request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, "", nil, false
	}

	sessionID, ok = utils.GetSessionIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no session id in authenticated request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, "", nil, false
	}

	key, ok = h.services.Keys.Get(sessionID)
	if !ok {
		log.Warn().Int64("id", userID).Msg("session has no encryption key, forcing re-login")
		http.Error(w, "session expired, log in again", http.StatusUnauthorized)
		return 0, "", nil, false
	}

	return userID, sessionID, key, true
}
