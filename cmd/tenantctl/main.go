// cmd/tenantctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/opsarc/tenantd/internal/audit"
	"github.com/opsarc/tenantd/internal/auth"
	"github.com/opsarc/tenantd/internal/config"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/repository"
	"github.com/opsarc/tenantd/internal/service"
	"github.com/opsarc/tenantd/internal/tenant"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	orgName  string
	email    string
	password string
	docsFile string
)

func init() {
	createOrgCmd.Flags().StringVarP(&orgName, "name", "n", "", "Organization display name")
	createOrgCmd.Flags().StringVarP(&email, "email", "e", "", "Admin email address")
	createOrgCmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	createOrgCmd.MarkFlagRequired("name")
	createOrgCmd.MarkFlagRequired("email")
	createOrgCmd.MarkFlagRequired("password")

	issueTokenCmd.Flags().StringVarP(&email, "email", "e", "", "Admin email address")
	issueTokenCmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	issueTokenCmd.MarkFlagRequired("email")
	issueTokenCmd.MarkFlagRequired("password")

	exportDocsCmd.Flags().StringVarP(&orgName, "name", "n", "", "Organization display name")
	exportDocsCmd.MarkFlagRequired("name")

	importDocsCmd.Flags().StringVarP(&orgName, "name", "n", "", "Organization display name")
	importDocsCmd.Flags().StringVarP(&docsFile, "file", "f", "", "JSON file holding an array of documents")
	importDocsCmd.MarkFlagRequired("name")
	importDocsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(createOrgCmd)
	rootCmd.AddCommand(issueTokenCmd)
	rootCmd.AddCommand(exportDocsCmd)
	rootCmd.AddCommand(importDocsCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "tenantctl",
	Short: "tenantctl is an operator CLI for the tenant directory",
	Long:  `tenantctl provisions organizations and issues admin tokens directly against the backing store.`,
}

var createOrgCmd = &cobra.Command{
	Use:   "create-org",
	Short: "Provision a new organization with its admin and partition",
	Run: func(cmd *cobra.Command, args []string) {
		orgService, _, cleanup := buildServices()
		defer cleanup()

		org, err := orgService.CreateOrganization(context.Background(), service.CreateOrganizationInput{
			OrganizationName: orgName,
			Email:            email,
			Password:         password,
		})
		if err != nil {
			log.Fatalf("Failed to create organization: %v", err)
		}

		fmt.Printf("Created organization %q\n", org.Name)
		fmt.Printf("  partition: %s\n", org.PartitionID)
		fmt.Printf("  admin id:  %s\n", org.AdminID)
	},
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Authenticate an admin and print a bearer token",
	Run: func(cmd *cobra.Command, args []string) {
		_, authService, cleanup := buildServices()
		defer cleanup()

		output, err := authService.Login(context.Background(), service.LoginInput{
			Email:    email,
			Password: password,
		})
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}

		fmt.Println(output.Token)
	},
}

var exportDocsCmd = &cobra.Command{
	Use:   "export-docs",
	Short: "Dump an organization's partition documents as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		partitions, orgRepo, cleanup := buildStore()
		defer cleanup()

		ctx := context.Background()

		org, err := orgRepo.FindByName(ctx, orgName)
		if err != nil {
			log.Fatalf("Failed to resolve organization: %v", err)
		}

		exists, err := partitions.Exists(ctx, org.PartitionID)
		if err != nil {
			log.Fatalf("Failed to check partition: %v", err)
		}
		if !exists {
			log.Fatalf("Partition %s does not exist", org.PartitionID)
		}

		docs, err := partitions.ReadAll(ctx, org.PartitionID)
		if err != nil {
			log.Fatalf("Failed to read partition: %v", err)
		}

		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode documents: %v", err)
		}
		fmt.Println(string(out))
	},
}

var importDocsCmd = &cobra.Command{
	Use:   "import-docs",
	Short: "Bulk insert documents into an organization's partition",
	Run: func(cmd *cobra.Command, args []string) {
		partitions, orgRepo, cleanup := buildStore()
		defer cleanup()

		raw, err := os.ReadFile(docsFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", docsFile, err)
		}

		var docs []model.JSONMap
		if err := json.Unmarshal(raw, &docs); err != nil {
			log.Fatalf("Failed to parse %s: %v", docsFile, err)
		}

		ctx := context.Background()

		org, err := orgRepo.FindByName(ctx, orgName)
		if err != nil {
			log.Fatalf("Failed to resolve organization: %v", err)
		}

		if err := partitions.BulkInsert(ctx, org.PartitionID, docs); err != nil {
			log.Fatalf("Failed to insert documents: %v", err)
		}

		fmt.Printf("Inserted %d documents into %s\n", len(docs), org.PartitionID)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tenantctl v0.1.0")
	},
}

func buildStore() (*tenant.PartitionManager, *repository.OrganizationRepository, func()) {
	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return tenant.NewPartitionManager(db), repository.NewOrganizationRepository(db), cleanup
}

func buildServices() (*service.OrganizationService, *service.AuthService, func()) {
	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	orgRepo := repository.NewOrganizationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	partitions := tenant.NewPartitionManager(db)
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)
	auditLogger := audit.NewStoreLogger(repository.NewAuditLogRepository(db))

	orgService := service.NewOrganizationService(orgRepo, adminRepo, partitions, passwordHasher, nil, auditLogger, nil)
	authService := service.NewAuthService(adminRepo, passwordHasher, tokenManager, auditLogger)

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return orgService, authService, cleanup
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS citext").Error; err != nil {
		return nil, fmt.Errorf("enabling citext extension: %w", err)
	}

	if err := db.AutoMigrate(&model.Organization{}, &model.Admin{}, &model.AuditLog{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
