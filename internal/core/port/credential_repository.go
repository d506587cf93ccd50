package port

import (
	"context"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// CredentialRepository exposes persistence behavior for credential records.
// Save upserts by the record's stable identity; records are never hard
// deleted.
type CredentialRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CredentialRecord, error)
	GetByIdentity(ctx context.Context, owner domain.OwnerID, service, username string) (*domain.CredentialRecord, error)
	ListByOwner(ctx context.Context, owner domain.OwnerID) ([]domain.CredentialRecord, error)
	CountByOwner(ctx context.Context, owner domain.OwnerID) (int, error)
	Save(ctx context.Context, record domain.CredentialRecord) error
}
