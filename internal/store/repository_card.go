package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/models"
)

// cardRepository is the PostgreSQL-backed implementation of [CardRepository].
// Every query is scoped by user_id so a card can never be addressed across
// account boundaries at the SQL level.
type cardRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCardRepository constructs a [CardRepository] backed by the provided
// database connection and logger.
func NewCardRepository(db *DB, logger *logger.Logger) CardRepository {
	logger.Debug().Msg("creating card repository")
	return &cardRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCard persists the card metadata row and returns it with
// server-assigned fields (CardID, CreatedAt).
func (r *cardRepository) CreateCard(ctx context.Context, card models.Card) (models.Card, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createCard, card.UserID, card.Type, card.Title, card.FileName, card.OriginalName)

	var created models.Card
	if err := row.Scan(&created.CardID, &created.UserID, &created.Type, &created.Title,
		&created.FileName, &created.OriginalName, &created.CreatedAt); err != nil {
		log.Err(err).Str("func", "*cardRepository.CreateCard").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: creating card")
		return models.Card{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

// GetCard retrieves one card owned by userID.
// Returns [ErrCardNotFound] when no row matches — including the case where
// the card exists but belongs to a different user.
func (r *cardRepository) GetCard(ctx context.Context, cardID, userID int64) (models.Card, error) {
	log := logger.FromContext(ctx)

	var found models.Card
	row := r.db.QueryRowContext(ctx, getCard, cardID, userID)
	if err := row.Scan(&found.CardID, &found.UserID, &found.Type, &found.Title,
		&found.FileName, &found.OriginalName, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, ErrCardNotFound
		}

		log.Err(err).Str("func", "*cardRepository.GetCard").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: scanning card row")
		return models.Card{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// ListCards returns the user's cards, newest first, optionally filtered by
// document type.
func (r *cardRepository) ListCards(ctx context.Context, userID int64, cardType string) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListCardsQuery(userID, cardType)
	if err != nil {
		log.Err(err).Str("func", "*cardRepository.ListCards").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*cardRepository.ListCards").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.CardID, &card.UserID, &card.Type, &card.Title,
			&card.FileName, &card.OriginalName, &card.CreatedAt); err != nil {
			log.Err(err).Str("func", "*cardRepository.ListCards").Msg("error: scanning card rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return cards, nil
}

// DeleteCard removes one card owned by userID.
// Returns [ErrCardNotFound] when nothing was deleted.
func (r *cardRepository) DeleteCard(ctx context.Context, cardID, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteCard, cardID, userID)
	if err != nil {
		log.Err(err).Str("func", "*cardRepository.DeleteCard").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrCardNotFound
	}

	return nil
}
