package dto

import "time"

type CreateErrorRequest struct {
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Severity            string    `json:"severity"`
	ProductionProcessID uint      `json:"production_process_id"`
	ProcessStepID       *uint     `json:"process_step_id,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
	DetectedBy          string    `json:"detected_by"`
}

// UpdateErrorRequest is a full replacement of the editable fields.
// Version is the optimistic token from the client's last read; zero means
// "skip the client-side check" (the row-level guard still applies).
type UpdateErrorRequest struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Status              string     `json:"status"`
	Severity            string     `json:"severity"`
	ProductionProcessID uint       `json:"production_process_id"`
	ProcessStepID       *uint      `json:"process_step_id,omitempty"`
	OccurredAt          time.Time  `json:"occurred_at"`
	DetectedBy          string     `json:"detected_by"`
	AssignedToID        *uint      `json:"assigned_to_id,omitempty"`
	AssignedDepartment  string     `json:"assigned_department"`
	DueDate             *time.Time `json:"due_date,omitempty"`
	ProcessingNotes     string     `json:"processing_notes"`
	Resolution          string     `json:"resolution"`
	Version             int        `json:"version"`
}

type AssignErrorRequest struct {
	AssignedToID       *uint      `json:"assigned_to_id,omitempty"`
	AssignedDepartment string     `json:"assigned_department"`
	DueDate            *time.Time `json:"due_date,omitempty"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

// AttachmentUpload carries an already-read multipart file into the workflow.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}
