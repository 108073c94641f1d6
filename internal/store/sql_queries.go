package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (username, credential_hash, salt)
    VALUES ($1, $2, $3)
    RETURNING user_id, username, credential_hash, salt, is_admin, is_banned, last_active, created_at;`

	findUserByUsername = `SELECT user_id, username, credential_hash, salt, is_admin, is_banned, last_active, created_at
    FROM users
    WHERE username = $1;`

	findUserByID = `SELECT user_id, username, credential_hash, salt, is_admin, is_banned, last_active, created_at
    FROM users
    WHERE user_id = $1;`

	updateCredentialHash = `UPDATE users
    SET credential_hash = $1
    WHERE user_id = $2;`

	setBanned = `UPDATE users
    SET is_banned = $1
    WHERE user_id = $2;`

	touchLastActive = `UPDATE users
    SET last_active = NOW()
    WHERE user_id = $1;`

	deleteUser = `DELETE FROM users
    WHERE user_id = $1;`

	createCard = `INSERT INTO cards (user_id, type, title, file_name, original_name)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING card_id, user_id, type, title, file_name, original_name, created_at;`

	getCard = `SELECT card_id, user_id, type, title, file_name, original_name, created_at
    FROM cards
    WHERE card_id = $1 AND user_id = $2;`

	deleteCard = `DELETE FROM cards
    WHERE card_id = $1 AND user_id = $2;`

	createWallet = `INSERT INTO wallets (user_id, name, seed_phrase)
    VALUES ($1, $2, $3)
    RETURNING wallet_id, user_id, name, seed_phrase, deleted_at, created_at;`

	updateSeedPhrase = `UPDATE wallets
    SET seed_phrase = $1
    WHERE wallet_id = $2 AND user_id = $3;`

	softDeleteWallet = `UPDATE wallets
    SET deleted_at = NOW()
    WHERE wallet_id = $1 AND user_id = $2 AND deleted_at IS NULL;`

	restoreWallet = `UPDATE wallets
    SET deleted_at = NULL
    WHERE wallet_id = $1 AND user_id = $2 AND deleted_at IS NOT NULL;`

	permanentDeleteWallet = `DELETE FROM wallets
    WHERE wallet_id = $1 AND user_id = $2 AND deleted_at IS NOT NULL;`
)

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListCardsQuery builds the card listing query, optionally filtered by
// document type.
func buildListCardsQuery(userID int64, cardType string) (string, []any, error) {
	builder := psql.
		Select("card_id", "user_id", "type", "title", "file_name", "original_name", "created_at").
		From("cards").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if cardType != "" {
		builder = builder.Where(sq.Eq{"type": cardType})
	}

	return builder.ToSql()
}

// buildListWalletsQuery builds the wallet listing query for either the live
// set or the recycle bin.
func buildListWalletsQuery(userID int64, deleted bool) (string, []any, error) {
	builder := psql.
		Select("wallet_id", "user_id", "name", "seed_phrase", "deleted_at", "created_at").
		From("wallets").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if deleted {
		builder = builder.Where("deleted_at IS NOT NULL")
	} else {
		builder = builder.Where("deleted_at IS NULL")
	}

	return builder.ToSql()
}
