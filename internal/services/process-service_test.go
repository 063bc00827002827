package services

import (
	"errors"
	"testing"
	"time"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
	"github.com/procline/error_service/internal/repository"
	"gorm.io/gorm"
)

func newProcessService(t *testing.T) (ProcessService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	clock := newFixedClock(time.Date(2024, 2, 1, 7, 0, 0, 0, time.UTC))
	svc := NewProcessService(repository.NewProcessRepository(db), clock, NewAccessPolicy())
	return svc, db
}

func TestCreateProcessAndDuplicateCode(t *testing.T) {
	svc, _ := newProcessService(t)
	manager := Actor{ID: 1, Role: domain.RoleManager}

	p, err := svc.CreateProcess(manager, dto.ProcessRequest{
		ProcessCode: "ASM-02",
		ProcessName: "Assembly Line 2",
		Department:  "Assembly",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.IsActive || p.Version != 1 {
		t.Fatalf("active = %v, version = %d", p.IsActive, p.Version)
	}

	_, err = svc.CreateProcess(manager, dto.ProcessRequest{ProcessCode: "ASM-02", ProcessName: "Clone"})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("duplicate code: err = %v, want conflict", err)
	}
}

func TestCreateProcessValidationAndRoles(t *testing.T) {
	svc, _ := newProcessService(t)

	manager := Actor{ID: 1, Role: domain.RoleManager}
	if _, err := svc.CreateProcess(manager, dto.ProcessRequest{ProcessName: "No Code"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("missing code: err = %v, want validation", err)
	}

	employee := Actor{ID: 2, Role: domain.RoleEmployee}
	if _, err := svc.CreateProcess(employee, dto.ProcessRequest{ProcessCode: "X", ProcessName: "X"}); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("employee create: err = %v, want forbidden", err)
	}
}

func TestUpdateProcessVersionConflict(t *testing.T) {
	svc, _ := newProcessService(t)
	manager := Actor{ID: 1, Role: domain.RoleManager}

	p, err := svc.CreateProcess(manager, dto.ProcessRequest{ProcessCode: "PNT-01", ProcessName: "Paint Line"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProcess(manager, p.ID, dto.ProcessRequest{
		ProcessName: "Paint Line East",
		Version:     p.Version,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("version = %d, want 2", updated.Version)
	}
	if updated.ProcessCode != "PNT-01" {
		t.Fatalf("blank code overwrote existing: %q", updated.ProcessCode)
	}

	_, err = svc.UpdateProcess(manager, p.ID, dto.ProcessRequest{
		ProcessName: "Stale Writer",
		Version:     p.Version, // still 1
	})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("stale update: err = %v, want conflict", err)
	}
}

func TestDeleteProcessSoftDeletes(t *testing.T) {
	svc, db := newProcessService(t)
	admin := Actor{ID: 1, Role: domain.RoleAdmin}

	p, err := svc.CreateProcess(admin, dto.ProcessRequest{ProcessCode: "CUT-01", ProcessName: "Cutting"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	manager := Actor{ID: 2, Role: domain.RoleManager}
	if err := svc.DeleteProcess(manager, p.ID); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("manager delete: err = %v, want forbidden", err)
	}

	if err := svc.DeleteProcess(admin, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var row domain.ProductionProcess
	if err := db.First(&row, p.ID).Error; err != nil {
		t.Fatalf("row gone after soft delete: %v", err)
	}
	if row.IsActive {
		t.Fatal("still active")
	}

	active, err := svc.ListProcesses()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("deactivated process still listed")
	}
}

func TestAddStep(t *testing.T) {
	svc, _ := newProcessService(t)
	manager := Actor{ID: 1, Role: domain.RoleManager}

	p, err := svc.CreateProcess(manager, dto.ProcessRequest{ProcessCode: "WLD-09", ProcessName: "Welding 9"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	step, err := svc.AddStep(manager, p.ID, dto.ProcessStepRequest{StepName: "Tack weld", StepOrder: 1})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	if step.ProductionProcessID != p.ID || !step.IsActive {
		t.Fatalf("step = %+v", step)
	}

	if _, err := svc.AddStep(manager, p.ID, dto.ProcessStepRequest{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty name: err = %v, want validation", err)
	}
	if _, err := svc.AddStep(manager, 999, dto.ProcessStepRequest{StepName: "orphan"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown process: err = %v, want not found", err)
	}

	detail, err := svc.GetProcess(p.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(detail.Steps))
	}
}
