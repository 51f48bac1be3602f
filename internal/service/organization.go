// internal/service/organization.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/opsarc/tenantd/internal/audit"
	"github.com/opsarc/tenantd/internal/auth"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/email"
	"github.com/opsarc/tenantd/internal/email/mailer"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/repository"
	"github.com/opsarc/tenantd/internal/tenant"
)

// OrganizationService orchestrates the tenant lifecycle: every create,
// rename and delete keeps the directory record, the admin identities and
// the tenant partition moving in lockstep.
type OrganizationService struct {
	orgRepo        repository.OrganizationRepositoryIface
	adminRepo      repository.AdminRepositoryIface
	partitions     tenant.PartitionManagerIface
	passwordHasher *auth.PasswordHasher
	emailService   *email.Service
	auditLogger    audit.Logger
	cacheService   *CacheService
	validate       *validator.Validate
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepositoryIface,
	adminRepo repository.AdminRepositoryIface,
	partitions tenant.PartitionManagerIface,
	passwordHasher *auth.PasswordHasher,
	emailService *email.Service,
	auditLogger audit.Logger,
	cacheService *CacheService,
) *OrganizationService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &OrganizationService{
		orgRepo:        orgRepo,
		adminRepo:      adminRepo,
		partitions:     partitions,
		passwordHasher: passwordHasher,
		emailService:   emailService,
		auditLogger:    auditLogger,
		cacheService:   cacheService,
		validate:       validator.New(),
	}
}

type CreateOrganizationInput struct {
	OrganizationName string `json:"organization_name" validate:"required,min=1"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
}

// CreateOrganization provisions a new tenant: admin identity, empty
// partition, then the directory record. There is no compensation if a
// later step fails; the admin insert and partition are not rolled back,
// and the directory's unique index is what stops a concurrent duplicate.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	name := strings.TrimSpace(input.OrganizationName)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is empty", domain.ErrInvalidInput)
	}

	// Pre-check for a friendlier error; the unique index remains the
	// authority under concurrency.
	if _, err := s.orgRepo.FindByName(ctx, name); err == nil {
		return nil, domain.ErrDuplicateName
	} else if !errors.Is(err, domain.ErrOrganizationNotFound) {
		return nil, err
	}

	hashed, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	admin := &model.Admin{
		Email:            strings.ToLower(input.Email),
		PasswordHash:     hashed,
		OrganizationName: name,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	partitionID := tenant.DerivePartitionID(name)
	if err := s.partitions.Create(ctx, partitionID); err != nil {
		return nil, err
	}

	org := &model.Organization{
		Name:        name,
		PartitionID: partitionID,
		AdminID:     admin.ID,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.auditLogger.LogOrgCreated(ctx, name, admin.Email, partitionID)

	if s.emailService != nil {
		if err := mailer.SendOrgWelcomeEmail(s.emailService, admin.Email, name); err != nil {
			slog.WarnContext(ctx, "failed to send welcome email", "email", admin.Email, "error", err)
		}
	}

	return org, nil
}

// GetOrganization resolves a display name case-insensitively, serving
// repeat lookups from the cache when one is configured.
func (s *OrganizationService) GetOrganization(ctx context.Context, name string) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is empty", domain.ErrInvalidInput)
	}

	key := lookupCacheKey(name)
	if s.cacheService != nil {
		var cached model.Organization
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	org, err := s.orgRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, org); err != nil {
			slog.WarnContext(ctx, "failed to cache organization lookup", "error", err)
		}
	}

	return org, nil
}

type RenameOrganizationInput struct {
	OldOrganizationName string `json:"old_organization_name" validate:"required"`
	NewOrganizationName string `json:"new_organization_name" validate:"required,min=1"`
}

// RenameOrganization migrates a tenant to a new name: copy every document
// into the freshly derived partition, update the directory record and all
// denormalized admin copies, then drop the old partition. The directory
// update is keyed by record id, so a rename racing a delete fails
// ErrNotFound instead of resurrecting the organization.
func (s *OrganizationService) RenameOrganization(ctx context.Context, input RenameOrganizationInput, caller *auth.Claims) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	oldName := strings.TrimSpace(input.OldOrganizationName)
	newName := strings.TrimSpace(input.NewOrganizationName)

	if err := AuthorizeOwnOrg(caller, oldName); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByName(ctx, oldName)
	if err != nil {
		return nil, err
	}

	// Duplicate check excludes the record being renamed so that a pure
	// case or whitespace restyle of the same organization is allowed.
	if existing, err := s.orgRepo.FindByName(ctx, newName); err == nil {
		if existing.ID != org.ID {
			return nil, domain.ErrDuplicateName
		}
	} else if !errors.Is(err, domain.ErrOrganizationNotFound) {
		return nil, err
	}

	newPartitionID := tenant.DerivePartitionID(newName)
	migrating := newPartitionID != org.PartitionID

	if migrating {
		if err := s.partitions.Create(ctx, newPartitionID); err != nil {
			return nil, err
		}
		if err := s.partitions.CopyAll(ctx, org.PartitionID, newPartitionID); err != nil {
			return nil, err
		}
	}

	// The directory record and every denormalized admin copy move in one
	// transaction.
	txCtx, tx, err := s.orgRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orgRepo.Rename(txCtx, org.ID, newName, newPartitionID); err != nil {
		return nil, err
	}

	// Bulk update keeps every denormalized copy in sync, not just the
	// owning admin's.
	if _, err := s.adminRepo.UpdateOrganizationName(txCtx, org.Name, newName); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	if migrating {
		if err := s.partitions.Drop(ctx, org.PartitionID); err != nil {
			return nil, err
		}
	}

	s.invalidateLookup(ctx, org.Name, newName)
	s.auditLogger.LogOrgRenamed(ctx, org.Name, newName, actorEmail(caller))

	renamed, err := s.orgRepo.FindByID(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

type DeleteOrganizationInput struct {
	OrganizationName string `json:"organization_name" validate:"required"`
}

// DeleteOrganization tears the tenant down: partition, admin identities,
// then the directory record.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, input DeleteOrganizationInput, caller *auth.Claims) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	name := strings.TrimSpace(input.OrganizationName)

	if err := AuthorizeOwnOrg(caller, name); err != nil {
		return err
	}

	org, err := s.orgRepo.FindByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.partitions.Drop(ctx, org.PartitionID); err != nil {
		return err
	}

	// Admin identities and the directory record go together or not at all.
	txCtx, tx, err := s.orgRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.adminRepo.DeleteByOrganizationName(txCtx, org.Name); err != nil {
		return err
	}

	if err := s.orgRepo.Delete(txCtx, org.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.invalidateLookup(ctx, org.Name)
	s.auditLogger.LogOrgDeleted(ctx, org.Name, actorEmail(caller))

	return nil
}

func (s *OrganizationService) invalidateLookup(ctx context.Context, names ...string) {
	if s.cacheService == nil {
		return
	}
	for _, name := range names {
		if err := s.cacheService.Delete(ctx, lookupCacheKey(name)); err != nil {
			slog.WarnContext(ctx, "failed to invalidate lookup cache", "name", name, "error", err)
		}
	}
}

func lookupCacheKey(name string) string {
	return "org:" + strings.ToLower(strings.TrimSpace(name))
}

func actorEmail(caller *auth.Claims) string {
	if caller == nil {
		return ""
	}
	return caller.Email
}
