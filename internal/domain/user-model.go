package domain

import "time"

const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// User is never hard-deleted: historical errors and audit logs keep
// referencing it, deactivation just flips IsActive.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:Employee" json:"role"`
	FullName     string    `json:"full_name"`
	Department   string    `json:"department"`
	PhoneNumber  string    `json:"phone_number"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}
