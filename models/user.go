package models

import "time"

// User represents a vault account used for authentication and per-user
// key derivation. Sensitive fields must never be exposed outside trusted
// boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Username is the unique login identifier.
	Username string `json:"username"`

	// CredentialHash is the bcrypt hash of the user's credential.
	// It is used ONLY to verify logins and must never be confused with the
	// encryption key, which is re-derived from the live credential on login.
	CredentialHash string `json:"-"`

	// Salt is the per-user random salt, hex-encoded, generated once at
	// registration. It is not secret but is required (together with the
	// credential) to derive the encryption key.
	Salt string `json:"-"`

	// IsAdmin marks accounts allowed to use the administrative endpoints.
	IsAdmin bool `json:"is_admin"`

	// IsBanned marks administratively disabled accounts. Banned users pass
	// credential verification but are refused a session.
	IsBanned bool `json:"is_banned"`

	// LastActive is the timestamp of the user's last authenticated request.
	LastActive *time.Time `json:"last_active,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
