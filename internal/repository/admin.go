// internal/repository/admin.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/model"
	"gorm.io/gorm"
)

type AdminRepositoryIface interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	UpdateOrganizationName(ctx context.Context, oldName, newName string) (int64, error)
	DeleteByOrganizationName(ctx context.Context, name string) (int64, error)
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	result := r.conn(ctx).Create(admin)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("creating admin: %w", result.Error)
	}
	return nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	result := r.conn(ctx).Where("email = ?", email).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("finding admin: %w", result.Error)
	}
	return &admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	var admin model.Admin
	result := r.conn(ctx).First(&admin, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("finding admin: %w", result.Error)
	}
	return &admin, nil
}

// UpdateOrganizationName rewrites the denormalized organization name on
// every admin bound to oldName, not just the owning admin's copy.
func (r *AdminRepository) UpdateOrganizationName(ctx context.Context, oldName, newName string) (int64, error) {
	result := r.conn(ctx).Model(&model.Admin{}).
		Where("organization_name = ?", oldName).
		Update("organization_name", newName)
	if result.Error != nil {
		return 0, fmt.Errorf("updating admin organization name: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByOrganizationName removes every admin bound to the organization.
func (r *AdminRepository) DeleteByOrganizationName(ctx context.Context, name string) (int64, error) {
	result := r.conn(ctx).Where("organization_name = ?", name).Delete(&model.Admin{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting admins: %w", result.Error)
	}
	return result.RowsAffected, nil
}
