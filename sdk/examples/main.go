package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/opsarc/tenantd/sdk/client"
)

const (
	// Change these values to match your environment
	serviceURL = "http://localhost:8080"
)

func main() {
	// Initialize the client
	config := &client.Config{
		BaseURL: serviceURL,
		Timeout: 10 * time.Second,
	}
	c := client.NewClient(config)

	// Create a context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Run the example
	if err := runExample(ctx, c); err != nil {
		log.Fatalf("Error running example: %v", err)
	}
}

func runExample(ctx context.Context, c *client.Client) error {
	fmt.Println("Running tenant directory SDK example...")

	// Step 1: Provision an organization with its first admin
	fmt.Println("\n1. Creating organization...")
	org, err := c.CreateOrganization(ctx, &client.CreateOrganizationRequest{
		OrganizationName: "Acme",
		Email:            "admin@acme.test",
		Password:         "s3cret-password",
	})
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	fmt.Printf("Organization created: %s (partition %s)\n", org.Name, org.PartitionID)

	// Step 2: Authenticate; the client keeps the token for protected calls
	fmt.Println("\n2. Logging in...")
	if _, err := c.Login(ctx, &client.LoginRequest{
		Email:    "admin@acme.test",
		Password: "s3cret-password",
	}); err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	fmt.Println("Login succeeded")

	// Step 3: Lookup is case-insensitive
	fmt.Println("\n3. Resolving organization by name...")
	resolved, err := c.GetOrganization(ctx, "acme")
	if err != nil {
		return fmt.Errorf("failed to resolve organization: %w", err)
	}
	fmt.Printf("Resolved %q to partition %s\n", resolved.Name, resolved.PartitionID)

	// Step 4: Rename migrates the tenant partition
	fmt.Println("\n4. Renaming organization...")
	renamed, err := c.RenameOrganization(ctx, &client.RenameOrganizationRequest{
		OldOrganizationName: "Acme",
		NewOrganizationName: "Acme Corp",
	})
	if err != nil {
		return fmt.Errorf("failed to rename organization: %w", err)
	}
	fmt.Printf("Organization renamed to %s (partition %s)\n", renamed.Name, renamed.PartitionID)

	// Step 5: Inspect the audit trail
	fmt.Println("\n5. Listing audit logs...")
	logs, err := c.ListAuditLogs(ctx, "", 10, 0)
	if err != nil {
		return fmt.Errorf("failed to list audit logs: %w", err)
	}
	for _, entry := range logs.Logs {
		fmt.Printf("  %s %s by %s\n", entry.CreatedAt.Format(time.RFC3339), entry.Action, entry.ActorEmail)
	}

	// Step 6: The old token still claims the previous name, so refresh it
	fmt.Println("\n6. Refreshing token after rename...")
	if _, err := c.Login(ctx, &client.LoginRequest{
		Email:    "admin@acme.test",
		Password: "s3cret-password",
	}); err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	// Step 7: Tear the tenant down
	fmt.Println("\n7. Deleting organization...")
	if err := c.DeleteOrganization(ctx, &client.DeleteOrganizationRequest{
		OrganizationName: "Acme Corp",
	}); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	fmt.Println("Organization deleted")

	return nil
}
