package models

import "time"

// Card is the metadata record of one uploaded document scan. The document
// bytes themselves live in the blob store as an encrypted envelope; the row
// only points at them via FileName.
type Card struct {
	// CardID is the internal unique identifier of the card.
	CardID int64 `json:"id"`

	// UserID is the owner of the card. Ownership checks happen in the
	// handler layer before any blob operation is invoked.
	UserID int64 `json:"-"`

	// Type is the document category slug (e.g. "passport", "license").
	Type string `json:"type"`

	// Title is an optional user-visible label.
	Title string `json:"title,omitempty"`

	// FileName is the blob-store name the encrypted envelope is stored
	// under. Generated server-side (UUID), never user-controlled.
	FileName string `json:"-"`

	// OriginalName is the client-supplied file name, kept for downloads.
	OriginalName string `json:"original_name"`

	// CreatedAt is the timestamp when the card was uploaded.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Card model.
func (c Card) TableName() string {
	return "cards"
}
