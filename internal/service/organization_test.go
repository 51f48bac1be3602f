package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsarc/tenantd/internal/auth"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/mocks"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/repository"
	"github.com/opsarc/tenantd/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newOrgService(orgRepo *mocks.MockOrganizationRepositoryIface, adminRepo *mocks.MockAdminRepositoryIface, partitions *mocks.MockPartitionManagerIface) *service.OrganizationService {
	return service.NewOrganizationService(
		orgRepo,
		adminRepo,
		partitions,
		auth.NewPasswordHasher(),
		nil,
		nil,
		nil,
	)
}

func expectBegin(orgRepo *mocks.MockOrganizationRepositoryIface, tx *mocks.MockTransaction) *gomock.Call {
	return orgRepo.EXPECT().
		Begin(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (context.Context, repository.Transaction, error) {
			return ctx, tx, nil
		})
}

func acmeClaims() *auth.Claims {
	return &auth.Claims{
		AdminID:          uuid.New().String(),
		Email:            "admin@acme.test",
		OrganizationName: "Acme",
	}
}

func TestCreateOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("provisions admin, partition and directory record", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		adminID := uuid.New()

		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(nil, domain.ErrOrganizationNotFound),

			adminRepo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, admin *model.Admin) error {
					assert.Equal(t, "admin@acme.test", admin.Email)
					assert.Equal(t, "Acme", admin.OrganizationName)
					assert.NotEmpty(t, admin.PasswordHash)
					assert.NotEqual(t, "s3cret!", admin.PasswordHash)
					admin.ID = adminID
					return nil
				}),

			partitions.EXPECT().
				Create(gomock.Any(), "org_acme").
				Return(nil),

			orgRepo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, org *model.Organization) error {
					org.ID = uuid.New()
					return nil
				}),
		)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		org, err := svc.CreateOrganization(context.Background(), service.CreateOrganizationInput{
			OrganizationName: "Acme",
			Email:            "Admin@Acme.Test",
			Password:         "s3cret!",
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme", org.Name)
		assert.Equal(t, "org_acme", org.PartitionID)
		assert.Equal(t, adminID, org.AdminID)
	})

	t.Run("rejects duplicate name differing only by case", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		// The directory lookup is case-insensitive, so "acme" resolves
		// the record registered as "Acme".
		orgRepo.EXPECT().
			FindByName(gomock.Any(), "acme").
			Return(&model.Organization{ID: uuid.New(), Name: "Acme"}, nil)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		_, err := svc.CreateOrganization(context.Background(), service.CreateOrganizationInput{
			OrganizationName: "acme",
			Email:            "other@acme.test",
			Password:         "s3cret!",
		})

		assert.ErrorIs(t, err, domain.ErrDuplicateName)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		_, err := svc.CreateOrganization(context.Background(), service.CreateOrganizationInput{
			OrganizationName: "Acme",
			Email:            "not-an-email",
			Password:         "s3cret!",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.CreateOrganization(context.Background(), service.CreateOrganizationInput{
			OrganizationName: "Acme",
			Email:            "admin@acme.test",
			Password:         "short",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRenameOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("migrates partition and updates admins", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: orgID, Name: "Acme", PartitionID: "org_acme"}
		renamed := &model.Organization{ID: orgID, Name: "Acme Corp", PartitionID: "org_acme_corp"}
		tx := mocks.NewMockTransaction(ctrl)

		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(existing, nil),

			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme Corp").
				Return(nil, domain.ErrOrganizationNotFound),

			partitions.EXPECT().
				Create(gomock.Any(), "org_acme_corp").
				Return(nil),

			partitions.EXPECT().
				CopyAll(gomock.Any(), "org_acme", "org_acme_corp").
				Return(nil),

			expectBegin(orgRepo, tx),

			orgRepo.EXPECT().
				Rename(gomock.Any(), orgID, "Acme Corp", "org_acme_corp").
				Return(nil),

			adminRepo.EXPECT().
				UpdateOrganizationName(gomock.Any(), "Acme", "Acme Corp").
				Return(int64(1), nil),

			tx.EXPECT().Commit().Return(nil),

			partitions.EXPECT().
				Drop(gomock.Any(), "org_acme").
				Return(nil),

			orgRepo.EXPECT().
				FindByID(gomock.Any(), orgID).
				Return(renamed, nil),
		)
		tx.EXPECT().Rollback().Return(nil)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		org, err := svc.RenameOrganization(context.Background(), service.RenameOrganizationInput{
			OldOrganizationName: "Acme",
			NewOrganizationName: "Acme Corp",
		}, acmeClaims())

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", org.Name)
		assert.Equal(t, "org_acme_corp", org.PartitionID)
	})

	t.Run("allows case restyle of own name without migration", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: orgID, Name: "Acme", PartitionID: "org_acme"}
		restyled := &model.Organization{ID: orgID, Name: "ACME", PartitionID: "org_acme"}
		tx := mocks.NewMockTransaction(ctrl)

		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(existing, nil),

			// Case-insensitive lookup resolves to the record being
			// renamed; that is not a duplicate.
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "ACME").
				Return(existing, nil),

			expectBegin(orgRepo, tx),

			orgRepo.EXPECT().
				Rename(gomock.Any(), orgID, "ACME", "org_acme").
				Return(nil),

			adminRepo.EXPECT().
				UpdateOrganizationName(gomock.Any(), "Acme", "ACME").
				Return(int64(1), nil),

			tx.EXPECT().Commit().Return(nil),

			orgRepo.EXPECT().
				FindByID(gomock.Any(), orgID).
				Return(restyled, nil),
		)
		tx.EXPECT().Rollback().Return(nil)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		org, err := svc.RenameOrganization(context.Background(), service.RenameOrganizationInput{
			OldOrganizationName: "Acme",
			NewOrganizationName: "ACME",
		}, acmeClaims())

		require.NoError(t, err)
		assert.Equal(t, "org_acme", org.PartitionID)
	})

	t.Run("forbids renaming another organization", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		_, err := svc.RenameOrganization(context.Background(), service.RenameOrganizationInput{
			OldOrganizationName: "Globex",
			NewOrganizationName: "Globex Corp",
		}, acmeClaims())

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("rejects taken new name", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: orgID, Name: "Acme", PartitionID: "org_acme"}
		other := &model.Organization{ID: uuid.New(), Name: "Globex", PartitionID: "org_globex"}

		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(existing, nil),

			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Globex").
				Return(other, nil),
		)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		_, err := svc.RenameOrganization(context.Background(), service.RenameOrganizationInput{
			OldOrganizationName: "Acme",
			NewOrganizationName: "Globex",
		}, acmeClaims())

		assert.ErrorIs(t, err, domain.ErrDuplicateName)
	})

	t.Run("fails not found when record deleted concurrently", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: orgID, Name: "Acme", PartitionID: "org_acme"}
		tx := mocks.NewMockTransaction(ctrl)

		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(existing, nil),

			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme Corp").
				Return(nil, domain.ErrOrganizationNotFound),

			partitions.EXPECT().
				Create(gomock.Any(), "org_acme_corp").
				Return(nil),

			partitions.EXPECT().
				CopyAll(gomock.Any(), "org_acme", "org_acme_corp").
				Return(nil),

			expectBegin(orgRepo, tx),

			// The conditional update is keyed by record id; a
			// concurrent delete makes it affect zero rows.
			orgRepo.EXPECT().
				Rename(gomock.Any(), orgID, "Acme Corp", "org_acme_corp").
				Return(domain.ErrOrganizationNotFound),

			tx.EXPECT().Rollback().Return(nil),
		)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		_, err := svc.RenameOrganization(context.Background(), service.RenameOrganizationInput{
			OldOrganizationName: "Acme",
			NewOrganizationName: "Acme Corp",
		}, acmeClaims())

		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})

	t.Run("rolls back directory update when admin sync fails", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: orgID, Name: "Acme", PartitionID: "org_acme"}
		tx := mocks.NewMockTransaction(ctrl)

		// No Commit and no Drop of the old partition: the rename must
		// not be half-applied.
		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(existing, nil),

			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme Corp").
				Return(nil, domain.ErrOrganizationNotFound),

			partitions.EXPECT().
				Create(gomock.Any(), "org_acme_corp").
				Return(nil),

			partitions.EXPECT().
				CopyAll(gomock.Any(), "org_acme", "org_acme_corp").
				Return(nil),

			expectBegin(orgRepo, tx),

			orgRepo.EXPECT().
				Rename(gomock.Any(), orgID, "Acme Corp", "org_acme_corp").
				Return(nil),

			adminRepo.EXPECT().
				UpdateOrganizationName(gomock.Any(), "Acme", "Acme Corp").
				Return(int64(0), assert.AnError),

			tx.EXPECT().Rollback().Return(nil),
		)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		_, err := svc.RenameOrganization(context.Background(), service.RenameOrganizationInput{
			OldOrganizationName: "Acme",
			NewOrganizationName: "Acme Corp",
		}, acmeClaims())

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDeleteOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := uuid.New()

	t.Run("drops partition, admins and record", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: orgID, Name: "Acme", PartitionID: "org_acme"}
		tx := mocks.NewMockTransaction(ctrl)

		gomock.InOrder(
			orgRepo.EXPECT().
				FindByName(gomock.Any(), "Acme").
				Return(existing, nil),

			partitions.EXPECT().
				Drop(gomock.Any(), "org_acme").
				Return(nil),

			expectBegin(orgRepo, tx),

			adminRepo.EXPECT().
				DeleteByOrganizationName(gomock.Any(), "Acme").
				Return(int64(1), nil),

			orgRepo.EXPECT().
				Delete(gomock.Any(), orgID).
				Return(nil),

			tx.EXPECT().Commit().Return(nil),
		)
		tx.EXPECT().Rollback().Return(nil)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		err := svc.DeleteOrganization(context.Background(), service.DeleteOrganizationInput{
			OrganizationName: "Acme",
		}, acmeClaims())

		require.NoError(t, err)
	})

	t.Run("forbids deleting another organization and touches nothing", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		err := svc.DeleteOrganization(context.Background(), service.DeleteOrganizationInput{
			OrganizationName: "Globex",
		}, acmeClaims())

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("not found propagates", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		orgRepo.EXPECT().
			FindByName(gomock.Any(), "Acme").
			Return(nil, domain.ErrOrganizationNotFound)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		err := svc.DeleteOrganization(context.Background(), service.DeleteOrganizationInput{
			OrganizationName: "Acme",
		}, acmeClaims())

		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

func TestGetOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("resolves case-insensitively via repository", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: uuid.New(), Name: "Acme", PartitionID: "org_acme"}

		orgRepo.EXPECT().
			FindByName(gomock.Any(), "acme").
			Return(existing, nil)

		svc := newOrgService(orgRepo, adminRepo, partitions)

		org, err := svc.GetOrganization(context.Background(), "  acme  ")
		require.NoError(t, err)
		assert.Equal(t, "Acme", org.Name)
	})

	t.Run("serves repeat lookups from cache", func(t *testing.T) {
		orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
		adminRepo := mocks.NewMockAdminRepositoryIface(ctrl)
		partitions := mocks.NewMockPartitionManagerIface(ctrl)

		existing := &model.Organization{ID: uuid.New(), Name: "Acme", PartitionID: "org_acme"}

		// Only one repository hit for two lookups.
		orgRepo.EXPECT().
			FindByName(gomock.Any(), "Acme").
			Return(existing, nil).
			Times(1)

		cacheService := service.NewCacheService(service.CacheConfig{
			TTL:         5 * time.Minute,
			CleanupFreq: time.Minute,
		})
		defer cacheService.Close()

		svc := service.NewOrganizationService(
			orgRepo,
			adminRepo,
			partitions,
			auth.NewPasswordHasher(),
			nil,
			nil,
			cacheService,
		)

		first, err := svc.GetOrganization(context.Background(), "Acme")
		require.NoError(t, err)

		second, err := svc.GetOrganization(context.Background(), "acme")
		require.NoError(t, err)

		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.PartitionID, second.PartitionID)
	})
}
