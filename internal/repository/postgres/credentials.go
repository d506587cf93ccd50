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

const credentialTable = "hearth.credential_records"

var credentialColumns = []string{
	"id",
	"owner_id",
	"service",
	"username",
	"url",
	"category",
	"current_password",
	"pending_password",
	"previous_passwords",
	"lifecycle",
	"pwned_count",
	"breach_checked_at",
	"risk_level",
	"breach_reasons",
	"notes",
	"created_at",
	"updated_at",
	"last_rotated_at",
}

// CredentialRepository implements port.CredentialRepository for PostgreSQL.
type CredentialRepository struct {
	db      pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCredentialRepository constructs a CredentialRepository.
func NewCredentialRepository(db pgExecutor) *CredentialRepository {
	return &CredentialRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID loads a credential record by its stable identifier.
func (r *CredentialRepository) GetByID(ctx context.Context, id string) (*domain.CredentialRecord, error) {
	sql, args, err := r.builder.Select(credentialColumns...).
		From(credentialTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select credential sql: %w", err)
	}

	record, err := scanCredential(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select credential: %w", err)
	}
	return record, nil
}

// GetByIdentity loads a record by its normalized identity triple. Identity
// maps deterministically onto the stable id, so this is a keyed lookup.
func (r *CredentialRepository) GetByIdentity(ctx context.Context, owner domain.OwnerID, service, username string) (*domain.CredentialRecord, error) {
	return r.GetByID(ctx, domain.StableRecordID(owner, service, username))
}

// ListByOwner returns every record an owner holds, oldest first.
func (r *CredentialRepository) ListByOwner(ctx context.Context, owner domain.OwnerID) ([]domain.CredentialRecord, error) {
	sql, args, err := r.builder.Select(credentialColumns...).
		From(credentialTable).
		Where(squirrel.Eq{"owner_id": owner.String()}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list credentials sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var records []domain.CredentialRecord
	for rows.Next() {
		record, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return records, nil
}

// CountByOwner counts the records an owner holds.
func (r *CredentialRepository) CountByOwner(ctx context.Context, owner domain.OwnerID) (int, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From(credentialTable).
		Where(squirrel.Eq{"owner_id": owner.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count credentials sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return count, nil
}

// Save upserts a record by its stable id.
func (r *CredentialRepository) Save(ctx context.Context, record domain.CredentialRecord) error {
	var breachCheckedAt *time.Time
	if record.Breach.Checked() {
		checkedAt := record.Breach.CheckedAt
		breachCheckedAt = &checkedAt
	}

	sql, args, err := r.builder.Insert(credentialTable).
		Columns(credentialColumns...).
		Values(
			record.ID,
			record.Owner.String(),
			record.Service,
			record.Username,
			record.URL,
			record.Category.String(),
			record.CurrentPassword,
			record.PendingPassword,
			record.PreviousPasswords,
			string(record.Lifecycle),
			record.Breach.PwnedCount,
			breachCheckedAt,
			string(record.Breach.RiskLevel),
			record.Breach.Reasons,
			record.Notes,
			record.CreatedAt,
			record.UpdatedAt,
			record.LastRotatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			category = EXCLUDED.category,
			current_password = EXCLUDED.current_password,
			pending_password = EXCLUDED.pending_password,
			previous_passwords = EXCLUDED.previous_passwords,
			lifecycle = EXCLUDED.lifecycle,
			pwned_count = EXCLUDED.pwned_count,
			breach_checked_at = EXCLUDED.breach_checked_at,
			risk_level = EXCLUDED.risk_level,
			breach_reasons = EXCLUDED.breach_reasons,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			last_rotated_at = EXCLUDED.last_rotated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert credential sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func scanCredential(row pgx.Row) (*domain.CredentialRecord, error) {
	var (
		record          domain.CredentialRecord
		ownerID         string
		category        string
		lifecycle       string
		riskLevel       string
		breachCheckedAt *time.Time
	)

	if err := row.Scan(
		&record.ID,
		&ownerID,
		&record.Service,
		&record.Username,
		&record.URL,
		&category,
		&record.CurrentPassword,
		&record.PendingPassword,
		&record.PreviousPasswords,
		&lifecycle,
		&record.Breach.PwnedCount,
		&breachCheckedAt,
		&riskLevel,
		&record.Breach.Reasons,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.LastRotatedAt,
	); err != nil {
		return nil, err
	}

	record.Owner = domain.OwnerID(ownerID)
	record.Category = domain.ParseCategory(category)
	record.Lifecycle = domain.ParseLifecycleState(lifecycle)
	record.Breach.RiskLevel = domain.RiskLevel(riskLevel)
	if breachCheckedAt != nil {
		record.Breach.CheckedAt = *breachCheckedAt
	}

	return &record, nil
}

var _ port.CredentialRepository = (*CredentialRepository)(nil)
