package services

import (
	"strings"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
	"github.com/procline/error_service/internal/helper"
	"github.com/procline/error_service/internal/interfaces"
	"github.com/procline/error_service/internal/repository"
)

type ProcessService interface {
	ListProcesses() ([]domain.ProductionProcess, error)
	GetProcess(id uint) (*domain.ProductionProcess, error)
	CreateProcess(actor Actor, input dto.ProcessRequest) (*domain.ProductionProcess, error)
	UpdateProcess(actor Actor, id uint, input dto.ProcessRequest) (*domain.ProductionProcess, error)
	// DeleteProcess soft-deletes so existing errors keep a resolvable
	// process reference.
	DeleteProcess(actor Actor, id uint) error
	AddStep(actor Actor, processID uint, input dto.ProcessStepRequest) (*domain.ProcessStep, error)
}

type processService struct {
	repo   repository.ProcessRepository
	clock  interfaces.Clock
	policy AccessPolicy
}

func NewProcessService(repo repository.ProcessRepository, clock interfaces.Clock, policy AccessPolicy) ProcessService {
	return &processService{
		repo:   repo,
		clock:  clock,
		policy: policy,
	}
}

func (s *processService) ListProcesses() ([]domain.ProductionProcess, error) {
	return s.repo.ListActiveProcesses()
}

func (s *processService) GetProcess(id uint) (*domain.ProductionProcess, error) {
	return s.repo.FindProcessDetail(id)
}

func (s *processService) CreateProcess(actor Actor, input dto.ProcessRequest) (*domain.ProductionProcess, error) {
	if err := s.policy.Authorize(actor, OpCreateProcess); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(input.ProcessCode)
	name := strings.TrimSpace(input.ProcessName)
	if code == "" || name == "" {
		return nil, errs.Validationf("process code and name are required")
	}

	now := s.clock.Now()
	p := &domain.ProductionProcess{
		ProcessCode: code,
		ProcessName: name,
		Description: input.Description,
		Department:  input.Department,
		IsActive:    true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProcess(p); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, errs.Conflictf("process code already exists")
		}
		return nil, err
	}
	return p, nil
}

func (s *processService) UpdateProcess(actor Actor, id uint, input dto.ProcessRequest) (*domain.ProductionProcess, error) {
	if err := s.policy.Authorize(actor, OpUpdateProcess); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindProcessByID(id)
	if err != nil {
		return nil, err
	}
	if input.Version != 0 && input.Version != existing.Version {
		return nil, errs.Conflictf("production process %d was modified concurrently", id)
	}

	next := *existing
	if code := strings.TrimSpace(input.ProcessCode); code != "" {
		next.ProcessCode = code
	}
	if name := strings.TrimSpace(input.ProcessName); name != "" {
		next.ProcessName = name
	}
	next.Description = input.Description
	next.Department = input.Department
	next.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateProcessVersioned(&next, existing.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *processService) DeleteProcess(actor Actor, id uint) error {
	if err := s.policy.Authorize(actor, OpDeleteProcess); err != nil {
		return err
	}

	p, err := s.repo.FindProcessByID(id)
	if err != nil {
		return err
	}

	p.IsActive = false
	p.UpdatedAt = s.clock.Now()
	return s.repo.SaveProcess(p)
}

func (s *processService) AddStep(actor Actor, processID uint, input dto.ProcessStepRequest) (*domain.ProcessStep, error) {
	if err := s.policy.Authorize(actor, OpAddStep); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.StepName)
	if name == "" {
		return nil, errs.Validationf("step name is required")
	}

	if _, err := s.repo.FindProcessByID(processID); err != nil {
		return nil, err
	}

	step := &domain.ProcessStep{
		StepName:            name,
		Description:         input.Description,
		StepOrder:           input.StepOrder,
		IsActive:            true,
		ProductionProcessID: processID,
		CreatedAt:           s.clock.Now(),
	}
	if err := s.repo.CreateStep(step); err != nil {
		return nil, err
	}
	return step, nil
}
