package domain

import "time"

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// ProcessError is a reported production defect. ErrorCode is assigned once
// at creation (ERR-YYYYMMDD-NNN) and never regenerated.
type ProcessError struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ErrorCode   string `gorm:"uniqueIndex;not null" json:"error_code"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Status      string `gorm:"type:varchar(20);not null;default:Open" json:"status"`
	Severity    string `gorm:"type:varchar(20);not null;default:Medium" json:"severity"`

	ProductionProcessID uint               `gorm:"not null;index" json:"production_process_id"`
	ProductionProcess   *ProductionProcess `gorm:"foreignKey:ProductionProcessID" json:"production_process,omitempty"`
	ProcessStepID       *uint              `json:"process_step_id,omitempty"`
	ProcessStep         *ProcessStep       `gorm:"foreignKey:ProcessStepID" json:"process_step,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
	DetectedBy string    `json:"detected_by"`

	AssignedToID       *uint      `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo         *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedDepartment string     `json:"assigned_department"`
	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`

	ProcessingNotes string `json:"processing_notes"`
	Resolution      string `json:"resolution"`

	// Optimistic concurrency token, bumped on every update.
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatedByID uint  `gorm:"not null" json:"created_by_id"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	UpdatedByID *uint `json:"updated_by_id,omitempty"`
	UpdatedBy   *User `gorm:"foreignKey:UpdatedByID" json:"updated_by,omitempty"`

	Comments    []ErrorComment    `gorm:"foreignKey:ProcessErrorID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Attachments []ErrorAttachment `gorm:"foreignKey:ProcessErrorID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

type ErrorComment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Comment        string    `gorm:"not null" json:"comment"`
	ProcessErrorID uint      `gorm:"not null;index" json:"process_error_id"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ErrorAttachment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FileName       string    `gorm:"not null" json:"file_name"`
	FilePath       string    `gorm:"not null" json:"file_path"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	ProcessErrorID uint      `gorm:"not null;index" json:"process_error_id"`
	UploadedByID   uint      `gorm:"not null" json:"uploaded_by_id"`
	UploadedBy     *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ErrorCodeCounter serializes per-day error-code generation. The row is
// upserted inside the create transaction, so concurrent creates queue on
// the row lock instead of racing a count query.
type ErrorCodeCounter struct {
	Day string `gorm:"primaryKey;type:varchar(8)" json:"day"`
	Seq int    `gorm:"not null" json:"seq"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func ValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
