package services

import (
	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/repository"
)

// AuditService is the read side of the audit trail; writes happen inside
// workflow transactions via the repository.
type AuditService interface {
	ListAuditLogs(actor Actor, filter dto.AuditLogFilter) (*dto.AuditLogPage, error)
	GetAuditLog(actor Actor, id uint) (*domain.AuditLog, error)
	ListEntityAuditLogs(actor Actor, entityType string, entityID uint) ([]domain.AuditLog, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	policy AccessPolicy
}

func NewAuditService(repo repository.AuditLogRepository, policy AccessPolicy) AuditService {
	return &auditService{repo: repo, policy: policy}
}

func (s *auditService) ListAuditLogs(actor Actor, filter dto.AuditLogFilter) (*dto.AuditLogPage, error) {
	if err := s.policy.Authorize(actor, OpReadAuditLogs); err != nil {
		return nil, err
	}
	return s.repo.ListAuditLogs(filter)
}

func (s *auditService) GetAuditLog(actor Actor, id uint) (*domain.AuditLog, error) {
	if err := s.policy.Authorize(actor, OpReadAuditLogs); err != nil {
		return nil, err
	}
	return s.repo.FindAuditLogByID(id)
}

func (s *auditService) ListEntityAuditLogs(actor Actor, entityType string, entityID uint) ([]domain.AuditLog, error) {
	if err := s.policy.Authorize(actor, OpReadAuditLogs); err != nil {
		return nil, err
	}
	return s.repo.ListEntityAuditLogs(entityType, entityID)
}
