// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./repository.go -destination=../mocks/mock_transaction.go -package=mocks Transaction
//go:generate mockgen -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
//go:generate mockgen -source=./admin.go -destination=../mocks/mock_admin_repository.go -package=mocks AdminRepositoryIface
//go:generate mockgen -source=../tenant/partition.go -destination=../mocks/mock_partition_manager.go -package=mocks PartitionManagerIface
