// internal/model/audit_log.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AuditLog records an organization lifecycle event
type AuditLog struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Action           string    `json:"action"`
	OrganizationName string    `json:"organization_name"`
	ActorEmail       string    `json:"actor_email"`
	Detail           JSONMap   `json:"detail" gorm:"type:jsonb"`
	RequestID        string    `json:"request_id"`
	CreatedAt        time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSONMap represents a generic map stored as JSONB in the database
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion failed: failed to decode JSONB")
	}

	return json.Unmarshal(bytes, m)
}

// Constants for AuditLog actions
const (
	ActionOrgCreated = "org_created"
	ActionOrgRenamed = "org_renamed"
	ActionOrgDeleted = "org_deleted"
	ActionAdminLogin = "admin_login"
)
