package domain

import "time"

const (
	NotificationInfo    = "Info"
	NotificationWarning = "Warning"
	NotificationError   = "Error"
	NotificationSuccess = "Success"
)

type Notification struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	Message        string        `gorm:"not null" json:"message"`
	Type           string        `gorm:"type:varchar(20);not null;default:Info" json:"type"`
	ProcessErrorID *uint         `json:"process_error_id,omitempty"`
	ProcessError   *ProcessError `gorm:"foreignKey:ProcessErrorID" json:"process_error,omitempty"`
	UserID         uint          `gorm:"not null;index" json:"user_id"`
	IsRead         bool          `gorm:"not null;default:false" json:"is_read"`
	ReadAt         *time.Time    `json:"read_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
