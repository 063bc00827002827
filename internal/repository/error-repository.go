package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
)

type ErrorRepository interface {
	WithTx(tx *gorm.DB) ErrorRepository

	ListErrors() ([]domain.ProcessError, error)
	FindErrorByID(id uint) (*domain.ProcessError, error)
	FindErrorDetail(id uint) (*domain.ProcessError, error)
	CreateError(e *domain.ProcessError) error
	// UpdateErrorVersioned applies e guarded by the given version and bumps
	// it. Returns errs.ErrNotFound when the row vanished, errs.ErrConflict
	// when the version no longer matches.
	UpdateErrorVersioned(e *domain.ProcessError, version int) error
	DeleteErrorCascade(id uint) error

	CreateComment(c *domain.ErrorComment) error
	CreateAttachment(a *domain.ErrorAttachment) error

	// NextCodeSeq increments and returns the per-day error-code sequence.
	NextCodeSeq(day string) (int, error)

	CountErrors() (int64, error)
	CountErrorsByStatus(status string) (int64, error)
	CountErrorsBySeverity(severity string) (int64, error)
	GroupByProcess() ([]dto.CountByProcess, error)
	GroupByDaySince(days int) ([]dto.CountByDay, error)
	GroupBySeverity() ([]dto.CountBySeverity, error)
	GroupByAssignee() ([]dto.CountByAssignee, error)
	ListForReport(filter dto.ReportFilter) ([]domain.ProcessError, error)
}

type errorRepository struct {
	db *gorm.DB
}

func NewErrorRepository(db *gorm.DB) ErrorRepository {
	return &errorRepository{db: db}
}

func (r *errorRepository) WithTx(tx *gorm.DB) ErrorRepository {
	return &errorRepository{db: tx}
}

func (r *errorRepository) ListErrors() ([]domain.ProcessError, error) {
	var out []domain.ProcessError
	err := r.db.
		Preload("ProductionProcess").
		Preload("ProcessStep").
		Preload("CreatedBy").
		Preload("AssignedTo").
		Preload("Comments").
		Preload("Attachments").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *errorRepository) FindErrorByID(id uint) (*domain.ProcessError, error) {
	e := &domain.ProcessError{}
	if err := r.db.First(e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("process error %d", id)
		}
		return nil, err
	}
	return e, nil
}

func (r *errorRepository) FindErrorDetail(id uint) (*domain.ProcessError, error) {
	e := &domain.ProcessError{}
	err := r.db.
		Preload("ProductionProcess").
		Preload("ProcessStep").
		Preload("CreatedBy").
		Preload("AssignedTo").
		Preload("Comments.User").
		Preload("Attachments").
		First(e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("process error %d", id)
		}
		return nil, err
	}
	return e, nil
}

func (r *errorRepository) CreateError(e *domain.ProcessError) error {
	return r.db.Create(e).Error
}

func (r *errorRepository) UpdateErrorVersioned(e *domain.ProcessError, version int) error {
	e.Version = version + 1

	res := r.db.Model(&domain.ProcessError{}).
		Where("id = ? AND version = ?", e.ID, version).
		Select("*").
		Omit("id", "error_code", "created_at", "created_by_id", clause.Associations).
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&domain.ProcessError{}).Where("id = ?", e.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NotFoundf("process error %d", e.ID)
		}
		return errs.Conflictf("process error %d was modified concurrently", e.ID)
	}
	return nil
}

func (r *errorRepository) DeleteErrorCascade(id uint) error {
	if err := r.db.Where("process_error_id = ?", id).Delete(&domain.ErrorComment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("process_error_id = ?", id).Delete(&domain.ErrorAttachment{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&domain.ProcessError{}, id).Error
}

func (r *errorRepository) CreateComment(c *domain.ErrorComment) error {
	return r.db.Create(c).Error
}

func (r *errorRepository) CreateAttachment(a *domain.ErrorAttachment) error {
	return r.db.Create(a).Error
}

func (r *errorRepository) NextCodeSeq(day string) (int, error) {
	counter := domain.ErrorCodeCounter{Day: day, Seq: 1}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("error_code_counters.seq + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return 0, err
	}

	// Re-read inside the same handle: on conflict the upserted value is not
	// reflected back into the struct.
	var row domain.ErrorCodeCounter
	if err := r.db.Where("day = ?", day).First(&row).Error; err != nil {
		return 0, err
	}
	return row.Seq, nil
}

func (r *errorRepository) CountErrors() (int64, error) {
	var n int64
	err := r.db.Model(&domain.ProcessError{}).Count(&n).Error
	return n, err
}

func (r *errorRepository) CountErrorsByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.ProcessError{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *errorRepository) CountErrorsBySeverity(severity string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.ProcessError{}).Where("severity = ?", severity).Count(&n).Error
	return n, err
}

func (r *errorRepository) GroupByProcess() ([]dto.CountByProcess, error) {
	var rows []dto.CountByProcess
	err := r.db.Model(&domain.ProcessError{}).
		Joins("JOIN production_processes ON production_processes.id = process_errors.production_process_id").
		Select("production_processes.process_name AS process_line, count(*) AS count").
		Group("production_processes.process_name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *errorRepository) GroupByDaySince(days int) ([]dto.CountByDay, error) {
	var rows []dto.CountByDay
	since := r.db.NowFunc().AddDate(0, 0, -days)
	err := r.db.Model(&domain.ProcessError{}).
		Where("created_at >= ?", since).
		Select("DATE(created_at) AS date, count(*) AS count").
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *errorRepository) GroupBySeverity() ([]dto.CountBySeverity, error) {
	var rows []dto.CountBySeverity
	err := r.db.Model(&domain.ProcessError{}).
		Select("severity, count(*) AS count").
		Group("severity").
		Scan(&rows).Error
	return rows, err
}

func (r *errorRepository) GroupByAssignee() ([]dto.CountByAssignee, error) {
	var rows []dto.CountByAssignee
	err := r.db.Model(&domain.ProcessError{}).
		Joins("JOIN users ON users.id = process_errors.assigned_to_id").
		Select("users.full_name AS assigned_to, count(*) AS count").
		Where("process_errors.assigned_to_id IS NOT NULL").
		Group("users.full_name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *errorRepository) ListForReport(filter dto.ReportFilter) ([]domain.ProcessError, error) {
	query := r.db.
		Preload("ProductionProcess").
		Preload("AssignedTo").
		Where("created_at >= ? AND created_at <= ?", filter.FromDate, filter.ToDate)

	if filter.ProcessLine != "" {
		query = query.
			Joins("JOIN production_processes ON production_processes.id = process_errors.production_process_id").
			Where("production_processes.process_name = ?", filter.ProcessLine)
	}
	if filter.Severity != "" {
		query = query.Where("process_errors.severity = ?", filter.Severity)
	}

	var out []domain.ProcessError
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
