package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrAccountBanned       = errors.New("account is banned")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSelfBan             = errors.New("cannot ban own account")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrUnreadableBlob marks a stored blob that no known key decrypts.
	// The caller decides what to do with the raw stored bytes.
	ErrUnreadableBlob = errors.New("blob is unreadable under any known key")
)
