// internal/model/organization.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the directory record mapping a display name to the
// tenant partition holding the organization's documents and to the admin
// identity that owns it. Name is citext so the unique index enforces
// case-insensitive uniqueness in the store rather than in application code.
type Organization struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:citext;uniqueIndex;not null" json:"organization_name"`
	PartitionID string    `gorm:"type:text;not null" json:"partition_id"`
	AdminID     uuid.UUID `gorm:"type:uuid;not null" json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}
