package domain

import "time"

// AuditLog is append-only. Rows are written inside the same transaction as
// the change they describe and are never updated or deleted.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"type:varchar(100);not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uint      `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	OldValues  string    `gorm:"type:text" json:"old_values"`
	NewValues  string    `gorm:"type:text" json:"new_values"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
}

const (
	AuditActionCreate = "Create"
	AuditActionUpdate = "Update"
	AuditActionAssign = "Assign"
	AuditActionDelete = "Delete"
)
