package repository

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
)

// AuditLogRepository is append-only on the write side; there is no update
// or delete.
type AuditLogRepository interface {
	WithTx(tx *gorm.DB) AuditLogRepository

	CreateAuditLog(a *domain.AuditLog) error
	ListAuditLogs(filter dto.AuditLogFilter) (*dto.AuditLogPage, error)
	FindAuditLogByID(id uint) (*domain.AuditLog, error)
	ListEntityAuditLogs(entityType string, entityID uint) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) WithTx(tx *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: tx}
}

func (r *auditLogRepository) CreateAuditLog(a *domain.AuditLog) error {
	return r.db.Create(a).Error
}

func (r *auditLogRepository) ListAuditLogs(filter dto.AuditLogFilter) (*dto.AuditLogPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	query := r.db.Model(&domain.AuditLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []domain.AuditLog
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return &dto.AuditLogPage{
		Data:       logs,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (r *auditLogRepository) FindAuditLogByID(id uint) (*domain.AuditLog, error) {
	a := &domain.AuditLog{}
	if err := r.db.Preload("User").First(a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("audit log %d", id)
		}
		return nil, err
	}
	return a, nil
}

func (r *auditLogRepository) ListEntityAuditLogs(entityType string, entityID uint) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := r.db.
		Preload("User").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
