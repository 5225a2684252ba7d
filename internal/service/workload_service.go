package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type workloadScheduleSource interface {
	ListByFacultyTerm(ctx context.Context, facultyID, semester, academicYear string) ([]models.FacultyScheduleLoad, error)
}

type workloadFacultySource interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
}

// WorkloadConfig carries institutional load bounds used when a faculty record
// has none.
type WorkloadConfig struct {
	MinLoad int
	MaxLoad int
}

// WorkloadService derives per-faculty teaching load reports from the committed
// schedule set. Reports are cached with a short TTL; schedules change rarely
// outside generation runs.
type WorkloadService struct {
	schedules workloadScheduleSource
	faculty   workloadFacultySource
	cache     *CacheService
	logger    *zap.Logger
	cfg       WorkloadConfig
}

// NewWorkloadService wires workload dependencies.
func NewWorkloadService(schedules workloadScheduleSource, faculty workloadFacultySource, cache *CacheService, logger *zap.Logger, cfg WorkloadConfig) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{schedules: schedules, faculty: faculty, cache: cache, logger: logger, cfg: cfg}
}

func workloadCacheKey(facultyID, semester, academicYear string) string {
	return fmt.Sprintf("workload:%s:%s:%s", facultyID, semester, academicYear)
}

// Report computes one faculty member's load for a term: contact hours per
// session type, distinct preparations and the load classification.
func (s *WorkloadService) Report(ctx context.Context, facultyID, semester, academicYear string) (*models.WorkloadReport, error) {
	if facultyID == "" || semester == "" || academicYear == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "facultyId, semester and academicYear are required")
	}

	key := workloadCacheKey(facultyID, semester, academicYear)
	var cached models.WorkloadReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	faculty, err := s.faculty.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	rows, err := s.schedules.ListByFacultyTerm(ctx, facultyID, semester, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty schedules")
	}

	report := &models.WorkloadReport{
		FacultyID:    faculty.ID,
		FacultyName:  faculty.FullName,
		Semester:     semester,
		AcademicYear: academicYear,
		Entries:      make([]models.WorkloadEntry, 0, len(rows)),
	}

	preparations := make(map[string]struct{})
	for _, row := range rows {
		hours := timetable.SessionHours(row.SessionType, row.LectureUnits, row.LabUnits)
		units := row.LectureUnits + row.LabUnits
		if row.SessionType == models.SessionLaboratory {
			report.LabHours += hours
		} else {
			report.LectureHours += hours
		}
		report.TotalUnits += units
		preparations[row.SubjectID] = struct{}{}

		report.Entries = append(report.Entries, models.WorkloadEntry{
			SubjectID:    row.SubjectID,
			SubjectCode:  row.SubjectCode,
			SubjectName:  row.SubjectName,
			SessionType:  row.SessionType,
			Units:        units,
			ContactHours: hours,
		})
	}

	report.TotalHours = report.LectureHours + report.LabHours
	report.Preparations = len(preparations)

	minLoad := faculty.MinLoad
	if minLoad <= 0 {
		minLoad = s.cfg.MinLoad
	}
	maxLoad := faculty.MaxLoad
	if maxLoad <= 0 {
		maxLoad = s.cfg.MaxLoad
	}
	report.Status = timetable.ClassifyLoad(report.TotalHours, minLoad, maxLoad)

	if err := s.cache.Set(ctx, key, report, 0); err != nil {
		s.logger.Warn("workload cache write failed", zap.String("key", key), zap.Error(err))
	}
	return report, nil
}

// DepartmentSummary aggregates the reports of a department's active faculty,
// bucketing them by load classification.
func (s *WorkloadService) DepartmentSummary(ctx context.Context, departmentID, semester, academicYear string) (*models.DepartmentWorkload, error) {
	if departmentID == "" || semester == "" || academicYear == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "departmentId, semester and academicYear are required")
	}

	active := true
	roster, _, err := s.faculty.List(ctx, models.FacultyFilter{DepartmentID: departmentID, Active: &active, PageSize: 500})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department faculty")
	}

	summary := &models.DepartmentWorkload{
		DepartmentID: departmentID,
		Semester:     semester,
		AcademicYear: academicYear,
		Reports:      make([]models.WorkloadReport, 0, len(roster)),
	}
	for _, member := range roster {
		report, err := s.Report(ctx, member.ID, semester, academicYear)
		if err != nil {
			return nil, err
		}
		switch report.Status {
		case models.LoadUnderloaded:
			summary.Underloaded++
		case models.LoadOverloaded:
			summary.Overloaded++
		default:
			summary.Optimal++
		}
		summary.Reports = append(summary.Reports, *report)
	}
	return summary, nil
}

// InvalidateTerm drops cached reports for one term, called after a generation
// run rewrites its schedules.
func (s *WorkloadService) InvalidateTerm(ctx context.Context, semester, academicYear string) {
	pattern := fmt.Sprintf("workload:*:%s:%s", semester, academicYear)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("workload cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
