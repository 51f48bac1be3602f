// internal/repository/organization.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/model"
	"gorm.io/gorm"
)

type OrganizationRepositoryIface interface {
	Begin(ctx context.Context) (context.Context, Transaction, error)

	Create(ctx context.Context, org *model.Organization) error
	FindByName(ctx context.Context, name string) (*model.Organization, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	Rename(ctx context.Context, id uuid.UUID, newName, newPartitionID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Begin starts a new database transaction. Repository calls made with
// the returned context run inside it until Commit or Rollback.
func (r *OrganizationRepository) Begin(ctx context.Context) (context.Context, Transaction, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, nil, tx.Error
	}
	return withTx(ctx, tx), &gormTransaction{tx: tx}, nil
}

func (r *OrganizationRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Create registers a directory record. The citext unique index on name is
// what actually enforces uniqueness; a lost race with a concurrent create
// surfaces here as ErrDuplicateName.
func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	result := r.conn(ctx).Create(org)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("creating organization: %w", result.Error)
	}
	return nil
}

// FindByName resolves a display name case-insensitively.
func (r *OrganizationRepository) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	var org model.Organization
	result := r.conn(ctx).Where("name = ?", name).First(&org)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", result.Error)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	result := r.conn(ctx).First(&org, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", result.Error)
	}
	return &org, nil
}

// Rename updates name and partition id, keyed by the record's own id so a
// rename racing a delete fails ErrNotFound instead of resurrecting the
// record. ErrDuplicateName when the new name is already taken.
func (r *OrganizationRepository) Rename(ctx context.Context, id uuid.UUID, newName, newPartitionID string) error {
	result := r.conn(ctx).Model(&model.Organization{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":         newName,
			"partition_id": newPartitionID,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("renaming organization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}

// Delete removes the record, keyed by id for the same race-serialization
// reason as Rename.
func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&model.Organization{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting organization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}
