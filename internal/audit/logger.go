// internal/audit/logger.go
package audit

import (
	"context"
	"log/slog"

	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/repository"
)

// Logger defines the interface for recording organization lifecycle events
type Logger interface {
	// LogOrgCreated logs an organization creation
	LogOrgCreated(ctx context.Context, orgName, adminEmail, partitionID string) error

	// LogOrgRenamed logs an organization rename
	LogOrgRenamed(ctx context.Context, oldName, newName, actorEmail string) error

	// LogOrgDeleted logs an organization deletion
	LogOrgDeleted(ctx context.Context, orgName, actorEmail string) error

	// LogAdminLogin logs a successful admin login
	LogAdminLogin(ctx context.Context, orgName, adminEmail string) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (l *NoOpLogger) LogOrgCreated(ctx context.Context, orgName, adminEmail, partitionID string) error {
	return nil
}

func (l *NoOpLogger) LogOrgRenamed(ctx context.Context, oldName, newName, actorEmail string) error {
	return nil
}

func (l *NoOpLogger) LogOrgDeleted(ctx context.Context, orgName, actorEmail string) error {
	return nil
}

func (l *NoOpLogger) LogAdminLogin(ctx context.Context, orgName, adminEmail string) error {
	return nil
}

// StoreLogger persists audit entries through the audit log repository.
// Write failures are logged and swallowed: auditing never fails a workflow.
type StoreLogger struct {
	repo *repository.AuditLogRepository
}

func NewStoreLogger(repo *repository.AuditLogRepository) *StoreLogger {
	return &StoreLogger{repo: repo}
}

func (l *StoreLogger) LogOrgCreated(ctx context.Context, orgName, adminEmail, partitionID string) error {
	return l.write(ctx, &model.AuditLog{
		Action:           model.ActionOrgCreated,
		OrganizationName: orgName,
		ActorEmail:       adminEmail,
		Detail:           model.JSONMap{"partition_id": partitionID},
	})
}

func (l *StoreLogger) LogOrgRenamed(ctx context.Context, oldName, newName, actorEmail string) error {
	return l.write(ctx, &model.AuditLog{
		Action:           model.ActionOrgRenamed,
		OrganizationName: newName,
		ActorEmail:       actorEmail,
		Detail:           model.JSONMap{"old_name": oldName, "new_name": newName},
	})
}

func (l *StoreLogger) LogOrgDeleted(ctx context.Context, orgName, actorEmail string) error {
	return l.write(ctx, &model.AuditLog{
		Action:           model.ActionOrgDeleted,
		OrganizationName: orgName,
		ActorEmail:       actorEmail,
	})
}

func (l *StoreLogger) LogAdminLogin(ctx context.Context, orgName, adminEmail string) error {
	return l.write(ctx, &model.AuditLog{
		Action:           model.ActionAdminLogin,
		OrganizationName: orgName,
		ActorEmail:       adminEmail,
	})
}

func (l *StoreLogger) write(ctx context.Context, entry *model.AuditLog) error {
	if err := l.repo.Create(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write audit log", "action", entry.Action, "error", err)
	}
	return nil
}
