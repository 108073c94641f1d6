package http

import (
	"errors"
	"net/http"

	"github.com/ashmelev/cardvault/internal/service"
	"github.com/ashmelev/cardvault/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidCredential:       http.StatusUnauthorized,
	service.ErrAccountBanned:           http.StatusForbidden,
	service.ErrPermissionDenied:        http.StatusForbidden,
	service.ErrSelfBan:                 http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrUsernameTaken:  http.StatusConflict,
	store.ErrNoUserWasFound: http.StatusUnauthorized,
	store.ErrCardNotFound:   http.StatusNotFound,
	store.ErrWalletNotFound: http.StatusNotFound,
	store.ErrBlobNotFound:   http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// userMessageMap holds the responses whose wording matters: unknown user
// and wrong credential collapse into one message so login probing cannot
// tell them apart.
var userMessageMap = map[error]string{
	service.ErrInvalidCredential: "invalid username/password",
	store.ErrNoUserWasFound:      "invalid username/password",
	service.ErrAccountBanned:     "account is banned",
}

// writeError maps a service error to its HTTP response.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	for target, msg := range userMessageMap {
		if errors.Is(err, target) {
			http.Error(w, msg, status)
			return
		}
	}

	if status == http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}

	http.Error(w, err.Error(), status)
}
