package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/repository"
)

const rotationActionTable = "hearth.rotation_actions"

var rotationActionColumns = []string{
	"id",
	"owner_id",
	"category",
	"service",
	"username",
	"url",
	"target_url",
	"action_type",
	"status",
	"detail",
	"created_at",
	"updated_at",
	"due_at",
	"completed_at",
	"receipt_id",
}

// RotationQueueRepository implements port.RotationQueueRepository for
// PostgreSQL.
type RotationQueueRepository struct {
	db      pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRotationQueueRepository constructs a RotationQueueRepository.
func NewRotationQueueRepository(db pgExecutor) *RotationQueueRepository {
	return &RotationQueueRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts a new queue action.
func (r *RotationQueueRepository) Append(ctx context.Context, action domain.RotationAction) error {
	sql, args, err := r.builder.Insert(rotationActionTable).
		Columns(rotationActionColumns...).
		Values(
			action.ID,
			action.Owner.String(),
			action.Category.String(),
			action.Service,
			action.Username,
			action.URL,
			action.TargetURL,
			string(action.Type),
			string(action.Status),
			action.Detail,
			action.CreatedAt,
			action.UpdatedAt,
			nullableTime(action.DueAt),
			action.CompletedAt,
			action.ReceiptID,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert action sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// GetActive returns a non-completed action with the given id, or
// repository.ErrNotFound.
func (r *RotationQueueRepository) GetActive(ctx context.Context, actionID string) (*domain.RotationAction, error) {
	sql, args, err := r.builder.Select(rotationActionColumns...).
		From(rotationActionTable).
		Where(squirrel.Eq{"id": actionID}).
		Where(squirrel.NotEq{"status": string(domain.ActionCompleted)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select action sql: %w", err)
	}

	action, err := scanRotationAction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select action: %w", err)
	}
	return action, nil
}

// List returns every queue action, oldest first.
func (r *RotationQueueRepository) List(ctx context.Context) ([]domain.RotationAction, error) {
	builder := r.builder.Select(rotationActionColumns...).
		From(rotationActionTable).
		OrderBy("created_at ASC")
	return r.queryActions(ctx, builder)
}

// ListByOwner returns one owner's actions, oldest first.
func (r *RotationQueueRepository) ListByOwner(ctx context.Context, owner domain.OwnerID) ([]domain.RotationAction, error) {
	builder := r.builder.Select(rotationActionColumns...).
		From(rotationActionTable).
		Where(squirrel.Eq{"owner_id": owner.String()}).
		OrderBy("created_at ASC")
	return r.queryActions(ctx, builder)
}

// CountPendingByOwner counts an owner's non-completed actions.
func (r *RotationQueueRepository) CountPendingByOwner(ctx context.Context, owner domain.OwnerID) (int, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From(rotationActionTable).
		Where(squirrel.Eq{"owner_id": owner.String()}).
		Where(squirrel.NotEq{"status": string(domain.ActionCompleted)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count actions sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return count, nil
}

// Update rewrites the mutable fields of an action.
func (r *RotationQueueRepository) Update(ctx context.Context, action domain.RotationAction) error {
	sql, args, err := r.builder.Update(rotationActionTable).
		Set("status", string(action.Status)).
		Set("detail", action.Detail).
		Set("target_url", action.TargetURL).
		Set("updated_at", action.UpdatedAt).
		Set("due_at", nullableTime(action.DueAt)).
		Set("completed_at", action.CompletedAt).
		Set("receipt_id", action.ReceiptID).
		Where(squirrel.Eq{"id": action.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update action sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RotationQueueRepository) queryActions(ctx context.Context, builder squirrel.SelectBuilder) ([]domain.RotationAction, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list actions sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.RotationAction
	for rows.Next() {
		action, err := scanRotationAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, *action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}

	return actions, nil
}

func scanRotationAction(row pgx.Row) (*domain.RotationAction, error) {
	var (
		action     domain.RotationAction
		ownerID    string
		category   string
		actionType string
		status     string
		dueAt      *time.Time
	)

	if err := row.Scan(
		&action.ID,
		&ownerID,
		&category,
		&action.Service,
		&action.Username,
		&action.URL,
		&action.TargetURL,
		&actionType,
		&status,
		&action.Detail,
		&action.CreatedAt,
		&action.UpdatedAt,
		&dueAt,
		&action.CompletedAt,
		&action.ReceiptID,
	); err != nil {
		return nil, err
	}

	action.Owner = domain.OwnerID(ownerID)
	action.Category = domain.ParseCategory(category)
	action.Type = domain.ParseActionType(actionType)
	action.Status = domain.ActionStatus(status)
	if dueAt != nil {
		action.DueAt = *dueAt
	}

	return &action, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

var _ port.RotationQueueRepository = (*RotationQueueRepository)(nil)
