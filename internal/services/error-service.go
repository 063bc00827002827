package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
	"github.com/procline/error_service/internal/interfaces"
	"github.com/procline/error_service/internal/repository"
)

// ErrorService owns the process-error workflow: every transition runs in a
// single transaction together with its audit entry and notification rows.
type ErrorService interface {
	ListErrors() ([]domain.ProcessError, error)
	GetError(id uint) (*domain.ProcessError, error)
	CreateError(actor Actor, input dto.CreateErrorRequest) (*domain.ProcessError, error)
	UpdateError(actor Actor, id uint, input dto.UpdateErrorRequest) (*domain.ProcessError, error)
	AssignError(actor Actor, id uint, input dto.AssignErrorRequest) (*domain.ProcessError, error)
	DeleteError(actor Actor, id uint) error
	AddComment(actor Actor, id uint, input dto.CommentRequest) (*domain.ErrorComment, error)
	AddAttachment(ctx context.Context, actor Actor, id uint, file *dto.AttachmentUpload) (*domain.ErrorAttachment, error)
}

type errorService struct {
	db        *gorm.DB
	repo      repository.ErrorRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	notifRepo repository.NotificationRepository
	uploader  interfaces.Uploader
	producer  interfaces.ProducerHandler
	clock     interfaces.Clock
	policy    AccessPolicy
	folder    string
}

func NewErrorService(
	db *gorm.DB,
	repo repository.ErrorRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	notifRepo repository.NotificationRepository,
	uploader interfaces.Uploader,
	producer interfaces.ProducerHandler,
	clock interfaces.Clock,
	policy AccessPolicy,
	folder string,
) ErrorService {
	return &errorService{
		db:        db,
		repo:      repo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		notifRepo: notifRepo,
		uploader:  uploader,
		producer:  producer,
		clock:     clock,
		policy:    policy,
		folder:    folder,
	}
}

func (s *errorService) ListErrors() ([]domain.ProcessError, error) {
	return s.repo.ListErrors()
}

func (s *errorService) GetError(id uint) (*domain.ProcessError, error) {
	return s.repo.FindErrorDetail(id)
}

func (s *errorService) CreateError(actor Actor, input dto.CreateErrorRequest) (*domain.ProcessError, error) {
	if err := s.policy.Authorize(actor, OpCreateError); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, errs.Validationf("title is required")
	}
	if description == "" {
		return nil, errs.Validationf("description is required")
	}
	if input.ProductionProcessID == 0 {
		return nil, errs.Validationf("production process is required")
	}

	severity := input.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}
	if !domain.ValidSeverity(severity) {
		return nil, errs.Validationf("unknown severity %q", input.Severity)
	}

	now := s.clock.Now()
	entity := &domain.ProcessError{
		Title:               title,
		Description:         description,
		Status:              domain.StatusOpen,
		Severity:            severity,
		ProductionProcessID: input.ProductionProcessID,
		ProcessStepID:       input.ProcessStepID,
		OccurredAt:          input.OccurredAt,
		DetectedBy:          input.DetectedBy,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
		CreatedByID:         actor.ID,
	}
	if entity.OccurredAt.IsZero() {
		entity.OccurredAt = now
	}

	var createdNotifs int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		users := s.userRepo.WithTx(tx)

		process := &domain.ProductionProcess{}
		if err := tx.First(process, input.ProductionProcessID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFoundf("production process %d", input.ProductionProcessID)
			}
			return err
		}

		day := now.Format("20060102")
		seq, err := repo.NextCodeSeq(day)
		if err != nil {
			return err
		}
		entity.ErrorCode = fmt.Sprintf("ERR-%s-%03d", day, seq)

		if err := repo.CreateError(entity); err != nil {
			return err
		}

		if err := s.recordAudit(tx, actor, entity.ID, domain.AuditActionCreate, nil, entity); err != nil {
			return err
		}

		managers, err := users.ListManagers()
		if err != nil {
			return err
		}
		kind := domain.NotificationWarning
		if entity.Severity == domain.SeverityCritical {
			kind = domain.NotificationError
		}
		notifs := make([]domain.Notification, 0, len(managers))
		for _, m := range managers {
			notifs = append(notifs, domain.Notification{
				Title:          "New Error Reported",
				Message:        fmt.Sprintf("New error '%s' has been reported in process %s", entity.Title, process.ProcessName),
				Type:           kind,
				ProcessErrorID: &entity.ID,
				UserID:         m.ID,
				CreatedAt:      now,
			})
		}
		createdNotifs = len(notifs)
		return s.notifRepo.WithTx(tx).CreateNotifications(notifs)
	})
	if err != nil {
		return nil, err
	}

	s.publishNotificationEvent("new-error", entity.ID, createdNotifs)
	return entity, nil
}

func (s *errorService) UpdateError(actor Actor, id uint, input dto.UpdateErrorRequest) (*domain.ProcessError, error) {
	if err := s.policy.Authorize(actor, OpUpdateError); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, errs.Validationf("title and description are required")
	}
	if !domain.ValidStatus(input.Status) {
		return nil, errs.Validationf("unknown status %q", input.Status)
	}
	if !domain.ValidSeverity(input.Severity) {
		return nil, errs.Validationf("unknown severity %q", input.Severity)
	}

	var updated *domain.ProcessError
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindErrorByID(id)
		if err != nil {
			return err
		}
		if input.Version != 0 && input.Version != existing.Version {
			return errs.Conflictf("process error %d was modified concurrently", id)
		}

		old := *existing
		now := s.clock.Now()
		actorID := actor.ID

		next := *existing
		next.Title = strings.TrimSpace(input.Title)
		next.Description = strings.TrimSpace(input.Description)
		next.Status = input.Status
		next.Severity = input.Severity
		next.ProductionProcessID = input.ProductionProcessID
		next.ProcessStepID = input.ProcessStepID
		next.OccurredAt = input.OccurredAt
		next.DetectedBy = input.DetectedBy
		next.AssignedToID = input.AssignedToID
		next.AssignedDepartment = input.AssignedDepartment
		next.DueDate = input.DueDate
		next.ProcessingNotes = input.ProcessingNotes
		next.Resolution = input.Resolution
		next.UpdatedAt = now
		next.UpdatedByID = &actorID

		// Status-driven stamps. resolvedAt is written exactly once: a later
		// Resolved -> Closed -> Resolved cycle keeps the first timestamp.
		if next.Status == domain.StatusResolved && old.Status != domain.StatusResolved && old.ResolvedAt == nil {
			next.ResolvedAt = &now
		}
		if next.Status == domain.StatusInProgress && old.Status == domain.StatusOpen && old.AssignedAt == nil {
			next.AssignedAt = &now
		}

		if err := repo.UpdateErrorVersioned(&next, existing.Version); err != nil {
			return err
		}
		if err := s.recordAudit(tx, actor, id, domain.AuditActionUpdate, &old, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *errorService) AssignError(actor Actor, id uint, input dto.AssignErrorRequest) (*domain.ProcessError, error) {
	if err := s.policy.Authorize(actor, OpAssignError); err != nil {
		return nil, err
	}

	var (
		updated  *domain.ProcessError
		notified bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindErrorByID(id)
		if err != nil {
			return err
		}

		if input.AssignedToID != nil {
			if _, err := s.userRepo.WithTx(tx).FindUserByID(*input.AssignedToID); err != nil {
				return err
			}
		}

		old := *existing
		now := s.clock.Now()
		actorID := actor.ID

		next := *existing
		next.AssignedToID = input.AssignedToID
		next.AssignedDepartment = input.AssignedDepartment
		next.DueDate = input.DueDate
		next.Status = domain.StatusInProgress
		next.AssignedAt = &now
		next.UpdatedAt = now
		next.UpdatedByID = &actorID

		if err := repo.UpdateErrorVersioned(&next, existing.Version); err != nil {
			return err
		}
		if err := s.recordAudit(tx, actor, id, domain.AuditActionAssign, &old, &next); err != nil {
			return err
		}

		if input.AssignedToID != nil {
			notif := domain.Notification{
				Title:          "Error Assigned to You",
				Message:        fmt.Sprintf("Error '%s' has been assigned to you for resolution", next.Title),
				Type:           domain.NotificationInfo,
				ProcessErrorID: &next.ID,
				UserID:         *input.AssignedToID,
				CreatedAt:      now,
			}
			if err := s.notifRepo.WithTx(tx).CreateNotifications([]domain.Notification{notif}); err != nil {
				return err
			}
			notified = true
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notified {
		s.publishNotificationEvent("assigned-to-you", updated.ID, 1)
	}
	return updated, nil
}

func (s *errorService) DeleteError(actor Actor, id uint) error {
	if err := s.policy.Authorize(actor, OpDeleteError); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindErrorByID(id)
		if err != nil {
			return err
		}
		if err := repo.DeleteErrorCascade(id); err != nil {
			return err
		}
		return s.recordAudit(tx, actor, id, domain.AuditActionDelete, existing, nil)
	})
}

// AddComment is deliberately lighter-weight than the transitions above: no
// audit entry and no notification.
func (s *errorService) AddComment(actor Actor, id uint, input dto.CommentRequest) (*domain.ErrorComment, error) {
	if err := s.policy.Authorize(actor, OpCommentError); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, errs.Validationf("comment is required")
	}

	if _, err := s.repo.FindErrorByID(id); err != nil {
		return nil, err
	}

	c := &domain.ErrorComment{
		Comment:        comment,
		ProcessErrorID: id,
		UserID:         actor.ID,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.CreateComment(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddAttachment streams the file to storage before committing the row, so
// a failed upload never leaves an orphan attachment record. A missing file
// is a no-op success.
func (s *errorService) AddAttachment(ctx context.Context, actor Actor, id uint, file *dto.AttachmentUpload) (*domain.ErrorAttachment, error) {
	if err := s.policy.Authorize(actor, OpAttachError); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindErrorByID(id); err != nil {
		return nil, err
	}

	if file == nil || len(file.Data) == 0 {
		return nil, nil
	}

	stored := fmt.Sprintf("%d_%s%s", id, uuid.New().String(), filepath.Ext(file.FileName))
	path, err := s.uploader.UploadBytes(ctx, s.folder, stored, file.Data)
	if err != nil {
		return nil, errs.Storagef("upload %s: %v", file.FileName, err)
	}

	a := &domain.ErrorAttachment{
		FileName:       file.FileName,
		FilePath:       path,
		FileType:       file.ContentType,
		FileSize:       int64(len(file.Data)),
		ProcessErrorID: id,
		UploadedByID:   actor.ID,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.CreateAttachment(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *errorService) recordAudit(tx *gorm.DB, actor Actor, entityID uint, action string, oldValue, newValue any) error {
	return s.auditRepo.WithTx(tx).CreateAuditLog(&domain.AuditLog{
		EntityType: "ProcessError",
		EntityID:   entityID,
		Action:     action,
		OldValues:  auditSnapshot(oldValue),
		NewValues:  auditSnapshot(newValue),
		UserID:     actor.ID,
		CreatedAt:  s.clock.Now(),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
}

func auditSnapshot(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// publishNotificationEvent is best-effort: a broker outage must not fail
// the workflow that already committed.
func (s *errorService) publishNotificationEvent(kind string, errorID uint, recipients int) {
	if s.producer == nil {
		return
	}
	payload := fmt.Sprintf(`{"kind":"%s","error_id":%d,"recipients":%d}`, kind, errorID, recipients)
	if err := s.producer.PublishMessage([]byte("notification.created"), []byte(payload)); err != nil {
		log.Printf("publish notification event: %v", err)
	}
}
