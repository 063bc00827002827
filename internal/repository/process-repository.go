package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/errs"
)

type ProcessRepository interface {
	WithTx(tx *gorm.DB) ProcessRepository

	ListActiveProcesses() ([]domain.ProductionProcess, error)
	FindProcessByID(id uint) (*domain.ProductionProcess, error)
	FindProcessDetail(id uint) (*domain.ProductionProcess, error)
	CreateProcess(p *domain.ProductionProcess) error
	UpdateProcessVersioned(p *domain.ProductionProcess, version int) error
	SaveProcess(p *domain.ProductionProcess) error
	CreateStep(s *domain.ProcessStep) error
}

type processRepository struct {
	db *gorm.DB
}

func NewProcessRepository(db *gorm.DB) ProcessRepository {
	return &processRepository{db: db}
}

func (r *processRepository) WithTx(tx *gorm.DB) ProcessRepository {
	return &processRepository{db: tx}
}

func (r *processRepository) ListActiveProcesses() ([]domain.ProductionProcess, error) {
	var out []domain.ProductionProcess
	err := r.db.
		Preload("Steps").
		Where("is_active = ?", true).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *processRepository) FindProcessByID(id uint) (*domain.ProductionProcess, error) {
	p := &domain.ProductionProcess{}
	if err := r.db.First(p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("production process %d", id)
		}
		return nil, err
	}
	return p, nil
}

func (r *processRepository) FindProcessDetail(id uint) (*domain.ProductionProcess, error) {
	p := &domain.ProductionProcess{}
	err := r.db.
		Preload("Steps").
		Preload("Errors").
		First(p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("production process %d", id)
		}
		return nil, err
	}
	return p, nil
}

func (r *processRepository) CreateProcess(p *domain.ProductionProcess) error {
	return r.db.Create(p).Error
}

func (r *processRepository) UpdateProcessVersioned(p *domain.ProductionProcess, version int) error {
	p.Version = version + 1

	res := r.db.Model(&domain.ProductionProcess{}).
		Where("id = ? AND version = ?", p.ID, version).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&domain.ProductionProcess{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NotFoundf("production process %d", p.ID)
		}
		return errs.Conflictf("production process %d was modified concurrently", p.ID)
	}
	return nil
}

func (r *processRepository) SaveProcess(p *domain.ProductionProcess) error {
	return r.db.Save(p).Error
}

func (r *processRepository) CreateStep(s *domain.ProcessStep) error {
	return r.db.Create(s).Error
}
