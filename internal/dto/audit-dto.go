package dto

import (
	"time"

	"github.com/procline/error_service/internal/domain"
)

type AuditLogFilter struct {
	EntityType string
	EntityID   *uint
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
}

type AuditLogPage struct {
	Data       []domain.AuditLog `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
