// internal/model/admin.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the credential holder for an organization. OrganizationName is
// a denormalized copy of the owning Organization's display name and must be
// updated in lockstep on every rename and delete.
type Admin struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email            string    `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"type:text;not null" json:"-"`
	OrganizationName string    `gorm:"type:citext;not null;index" json:"organization_name"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}
