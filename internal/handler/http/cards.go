package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/service"
	"github.com/ashmelev/cardvault/internal/utils"
	"github.com/ashmelev/cardvault/models"
)

// maxUploadSize bounds a single card upload, multipart framing included.
const maxUploadSize = 10 << 20 // 10 MiB

// uploadCard accepts a multipart form with a "file" part and optional
// "type" and "title" fields, encrypts the content under the session key
// and stores it as a new card.
func (h *Handler) uploadCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, _, key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Err(err).Msg("error parsing multipart upload")
		http.Error(w, "invalid or oversized upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("upload is missing the file part")
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Msg("error reading uploaded file")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	card := models.Card{
		UserID:       userID,
		Type:         r.FormValue("type"),
		Title:        r.FormValue("title"),
		OriginalName: header.Filename,
	}

	created, err := h.services.VaultService.UploadCard(r.Context(), key, card, content)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("card upload failed")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, created, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing upload response")
	}
}

// listCards returns the caller's card metadata, optionally filtered by
// the ?type= query parameter. Blob content is not touched.
func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, _, _, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	cards, err := h.services.VaultService.ListCards(r.Context(), userID, r.URL.Query().Get("type"))
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("card listing failed")
		writeError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, cards, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing card list response")
	}
}

// downloadCard serves the decrypted document bytes. An unreadable blob
// is served as stored: files uploaded before encryption existed are
// plain content, and withholding them would lose user data.
func (h *Handler) downloadCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, _, key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}

	card, content, outcome, err := h.services.VaultService.DownloadCard(r.Context(), cardID, userID, key)
	if err != nil && !errors.Is(err, service.ErrUnreadableBlob) {
		log.Err(err).Int64("card_id", cardID).Msg("card download failed")
		writeError(w, err)
		return
	}

	if outcome == service.Unreadable {
		log.Warn().Int64("card_id", cardID).Msg("serving unreadable card blob as stored")
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", card.OriginalName))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(content); err != nil {
		log.Err(err).Msg("error writing card content")
	}
}

// deleteCard removes the card row and its stored blob.
func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, _, _, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}

	if err = h.services.VaultService.DeleteCard(r.Context(), cardID, userID); err != nil {
		log.Err(err).Int64("card_id", cardID).Msg("card deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
