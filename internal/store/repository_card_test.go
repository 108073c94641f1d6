package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/models"
)

var cardColumns = []string{"card_id", "user_id", "type", "title", "file_name", "original_name", "created_at"}

func newTestCardRepo(t *testing.T) (*cardRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &cardRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func TestCreateCard_Success(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()
	card := models.Card{
		UserID:       1,
		Type:         "passport",
		Title:        "my passport",
		FileName:     "0190a1b2-uuid",
		OriginalName: "scan.jpg",
	}

	rows := sqlmock.
		NewRows(cardColumns).
		AddRow(10, card.UserID, card.Type, card.Title, card.FileName, card.OriginalName, time.Now())

	mock.ExpectQuery("INSERT INTO cards").
		WithArgs(card.UserID, card.Type, card.Title, card.FileName, card.OriginalName).
		WillReturnRows(rows)

	created, err := repo.CreateCard(ctx, card)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.CardID != 10 {
		t.Errorf("expected CardID=10, got %d", created.CardID)
	}
	if created.FileName != card.FileName {
		t.Errorf("expected file name %s, got %s", card.FileName, created.FileName)
	}
}

func TestGetCard_NotFound(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs(int64(404), int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCard(ctx, 404, 1)
	if !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestGetCard_WrongOwnerLooksLikeNotFound(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()

	// ownership is part of the WHERE clause, so another user's card simply
	// matches no rows
	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs(int64(10), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCard(ctx, 10, 2)
	if !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestListCards_All(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows(cardColumns).
		AddRow(2, 1, "license", "", "file-2", "license.pdf", now).
		AddRow(1, 1, "passport", "main", "file-1", "passport.jpg", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	cards, err := repo.ListCards(ctx, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].CardID != 2 {
		t.Errorf("expected newest card first, got CardID=%d", cards[0].CardID)
	}
}

func TestListCards_TypeFilter(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.
		NewRows(cardColumns).
		AddRow(1, 1, "passport", "main", "file-1", "passport.jpg", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs(int64(1), "passport").
		WillReturnRows(rows)

	cards, err := repo.ListCards(ctx, 1, "passport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].Type != "passport" {
		t.Fatalf("expected one passport card, got %+v", cards)
	}
}

func TestListCards_QueryError(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WillReturnError(errors.New("db gone"))

	_, err := repo.ListCards(ctx, 1, "")
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestDeleteCard_Success(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM cards").
		WithArgs(int64(10), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteCard(ctx, 10, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteCard_NotFound(t *testing.T) {
	repo, mock, db := newTestCardRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM cards").
		WithArgs(int64(404), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteCard(ctx, 404, 1)
	if !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}
