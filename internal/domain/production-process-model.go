package domain

import "time"

type ProductionProcess struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProcessCode string `gorm:"uniqueIndex;not null" json:"process_code"`
	ProcessName string `gorm:"not null" json:"process_name"`
	Description string `json:"description"`
	Department  string `json:"department"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	// Optimistic concurrency token, bumped on every update.
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Steps  []ProcessStep  `gorm:"foreignKey:ProductionProcessID" json:"steps,omitempty"`
	Errors []ProcessError `gorm:"foreignKey:ProductionProcessID" json:"errors,omitempty"`
}

type ProcessStep struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	StepName            string    `gorm:"not null" json:"step_name"`
	Description         string    `json:"description"`
	StepOrder           int       `json:"step_order"`
	IsActive            bool      `gorm:"not null;default:true" json:"is_active"`
	ProductionProcessID uint      `gorm:"not null;index" json:"production_process_id"`
	CreatedAt           time.Time `json:"created_at"`
}
