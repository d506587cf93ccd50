package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/repository"
)

func TestRotationQueueRepository_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRotationQueueRepository(mock)

	now := time.Now().UTC()
	dueAt := now.Add(72 * time.Hour)
	action := domain.RotationAction{
		ID:        "act-1",
		Owner:     "dana",
		Category:  domain.CategorySocial,
		Service:   "netflix",
		Username:  "dana@example.com",
		URL:       "https://netflix.com",
		TargetURL: "https://netflix.com/password",
		Type:      domain.ActionRotatePassword,
		Status:    domain.ActionPending,
		Detail:    "quarterly rotation",
		CreatedAt: now,
		UpdatedAt: now,
		DueAt:     dueAt,
	}

	mock.ExpectExec(`INSERT INTO hearth\.rotation_actions`).
		WithArgs(
			"act-1",
			"dana",
			"social",
			"netflix",
			"dana@example.com",
			"https://netflix.com",
			"https://netflix.com/password",
			"rotate_password",
			"pending",
			"quarterly rotation",
			now,
			now,
			&dueAt,
			(*time.Time)(nil),
			"",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Append(context.Background(), action); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRotationQueueRepository_GetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRotationQueueRepository(mock)

	now := time.Now().UTC()
	dueAt := now.Add(72 * time.Hour)

	rows := pgxmock.NewRows(rotationActionColumns).AddRow(
		"act-1", "dana", "banking", "chase", "dana@example.com", "https://chase.example",
		"https://chase.example/security", "rotate_password", "pending", "",
		now, now, &dueAt, nil, "",
	)

	mock.ExpectQuery(`SELECT .* FROM hearth\.rotation_actions`).
		WithArgs("act-1", "completed").
		WillReturnRows(rows)

	action, err := repo.GetActive(context.Background(), "act-1")
	if err != nil {
		t.Fatalf("GetActive returned error: %v", err)
	}

	if action.Category != domain.CategoryBanking {
		t.Fatalf("expected banking category, got %s", action.Category)
	}
	if action.Type != domain.ActionRotatePassword {
		t.Fatalf("expected rotate_password, got %s", action.Type)
	}
	if !action.DueAt.Equal(dueAt) {
		t.Fatalf("expected due at %v, got %v", dueAt, action.DueAt)
	}
}

func TestRotationQueueRepository_GetActiveNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRotationQueueRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM hearth\.rotation_actions`).
		WithArgs("missing", "completed").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetActive(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRotationQueueRepository_UpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRotationQueueRepository(mock)

	now := time.Now().UTC()
	completedAt := now
	action := domain.RotationAction{
		ID:          "act-missing",
		Status:      domain.ActionCompleted,
		UpdatedAt:   now,
		CompletedAt: &completedAt,
		ReceiptID:   "r-1",
	}

	mock.ExpectExec(`UPDATE hearth\.rotation_actions`).
		WithArgs(
			"completed",
			"",
			"",
			now,
			(*time.Time)(nil),
			&completedAt,
			"r-1",
			"act-missing",
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Update(context.Background(), action); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on zero rows, got %v", err)
	}
}
