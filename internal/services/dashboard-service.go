package services

import (
	"sort"

	"github.com/procline/error_service/internal/domain"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/errs"
	"github.com/procline/error_service/internal/repository"
)

type DashboardService interface {
	GetDashboard() (*dto.DashboardData, error)
	GetReport(actor Actor, filter dto.ReportFilter) (*dto.Report, error)
}

type dashboardService struct {
	repo   repository.ErrorRepository
	policy AccessPolicy
}

func NewDashboardService(repo repository.ErrorRepository, policy AccessPolicy) DashboardService {
	return &dashboardService{repo: repo, policy: policy}
}

func (s *dashboardService) GetDashboard() (*dto.DashboardData, error) {
	data := &dto.DashboardData{}
	var err error

	if data.TotalErrors, err = s.repo.CountErrors(); err != nil {
		return nil, err
	}
	if data.OpenErrors, err = s.repo.CountErrorsByStatus(domain.StatusOpen); err != nil {
		return nil, err
	}
	if data.InProgressErrors, err = s.repo.CountErrorsByStatus(domain.StatusInProgress); err != nil {
		return nil, err
	}
	if data.ResolvedErrors, err = s.repo.CountErrorsByStatus(domain.StatusResolved); err != nil {
		return nil, err
	}
	if data.CriticalErrors, err = s.repo.CountErrorsBySeverity(domain.SeverityCritical); err != nil {
		return nil, err
	}

	if data.ErrorsByProcess, err = s.repo.GroupByProcess(); err != nil {
		return nil, err
	}
	if data.ErrorsByDay, err = s.repo.GroupByDaySince(30); err != nil {
		return nil, err
	}
	if data.ErrorsBySeverity, err = s.repo.GroupBySeverity(); err != nil {
		return nil, err
	}
	if data.ErrorsByAssignee, err = s.repo.GroupByAssignee(); err != nil {
		return nil, err
	}

	return data, nil
}

func (s *dashboardService) GetReport(actor Actor, filter dto.ReportFilter) (*dto.Report, error) {
	if err := s.policy.Authorize(actor, OpReadReports); err != nil {
		return nil, err
	}
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, errs.Validationf("from and to dates are required")
	}

	errorsInRange, err := s.repo.ListForReport(filter)
	if err != nil {
		return nil, err
	}

	report := &dto.Report{TotalErrors: len(errorsInRange)}

	byStatus := map[string]int64{}
	bySeverity := map[string]int64{}
	byProcess := map[string]int64{}
	byAssignee := map[string]int64{}
	byDay := map[string]int64{}

	for i := range errorsInRange {
		e := &errorsInRange[i]
		byStatus[e.Status]++
		bySeverity[e.Severity]++
		if e.ProductionProcess != nil {
			byProcess[e.ProductionProcess.ProcessName]++
		}
		if e.AssignedTo != nil {
			byAssignee[e.AssignedTo.FullName]++
		}
		byDay[e.CreatedAt.Format("2006-01-02")]++
	}

	for status, n := range byStatus {
		report.ByStatus = append(report.ByStatus, dto.CountByStatus{Status: status, Count: n})
	}
	for severity, n := range bySeverity {
		report.BySeverity = append(report.BySeverity, dto.CountBySeverity{Severity: severity, Count: n})
	}
	for process, n := range byProcess {
		report.ByProcessLine = append(report.ByProcessLine, dto.CountByProcess{ProcessLine: process, Count: n})
	}
	for assignee, n := range byAssignee {
		report.ByAssignee = append(report.ByAssignee, dto.CountByAssignee{AssignedTo: assignee, Count: n})
	}
	for day, n := range byDay {
		report.ByDay = append(report.ByDay, dto.CountByDay{Date: day, Count: n})
	}
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })

	return report, nil
}
