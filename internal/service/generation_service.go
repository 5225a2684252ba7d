package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/timetable"
	"github.com/noah-isme/uni-timetable-api/pkg/database"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type generationSubjectSource interface {
	ListForGeneration(ctx context.Context, semester string, departmentIDs, courseIDs, subjectIDs []string) ([]models.Subject, error)
}

type generationFacultySource interface {
	ListActive(ctx context.Context) ([]models.Faculty, error)
	IncrementLoad(ctx context.Context, facultyID string, unitDelta, prepDelta int) error
	ReleaseGeneratedLoad(ctx context.Context, semester, academicYear string) error
}

type generationClassroomSource interface {
	ListAvailable(ctx context.Context) ([]models.Classroom, error)
}

type generationCourseSource interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type generationScheduleStore interface {
	ListForTermDay(ctx context.Context, semester, academicYear, day string) ([]models.Schedule, error)
	ListFacultySubjects(ctx context.Context, semester, academicYear string) (map[string][]string, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	ArchiveGenerated(ctx context.Context, semester, academicYear string) (int64, error)
}

type termLocker interface {
	Acquire(ctx context.Context, semester, academicYear string) (*database.TermLock, error)
}

// GenerationConfig tunes the generation engine.
type GenerationConfig struct {
	SessionDuration  time.Duration
	ClosingTime      string
	TypicalClassSize int
	WeeklyRoomSlots  int
}

// GenerationService orchestrates timetable generation runs: it resolves the
// subject scope, builds the faculty and classroom pools, places subjects one
// at a time and commits accepted placements.
type GenerationService struct {
	subjects   generationSubjectSource
	faculty    generationFacultySource
	classrooms generationClassroomSource
	courses    generationCourseSource
	schedules  generationScheduleStore
	locks      termLocker
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        GenerationConfig
}

// NewGenerationService wires generation dependencies.
func NewGenerationService(
	subjects generationSubjectSource,
	faculty generationFacultySource,
	classrooms generationClassroomSource,
	courses generationCourseSource,
	schedules generationScheduleStore,
	locks termLocker,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg GenerationConfig,
) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeeklyRoomSlots <= 0 {
		cfg.WeeklyRoomSlots = 40
	}
	return &GenerationService{
		subjects:   subjects,
		faculty:    faculty,
		classrooms: classrooms,
		courses:    courses,
		schedules:  schedules,
		locks:      locks,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
	}
}

// runScheduleOverlay layers this run's commits over the stored schedule set,
// so the detector sees earlier placements without re-reading them.
type runScheduleOverlay struct {
	store generationScheduleStore
	added []models.Schedule
}

// ListForTermDay implements timetable.ScheduleSource. Rows the store already
// returns are not appended twice.
func (o *runScheduleOverlay) ListForTermDay(ctx context.Context, semester, academicYear, day string) ([]models.Schedule, error) {
	schedules, err := o.store.ListForTermDay(ctx, semester, academicYear, day)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(schedules))
	for _, s := range schedules {
		known[s.ID] = struct{}{}
	}
	for _, s := range o.added {
		if s.DayOfWeek != day {
			continue
		}
		if _, ok := known[s.ID]; ok {
			continue
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

// Generate runs one full generation pass for a term. The whole run holds the
// term's advisory lock; a concurrent run fails fast with ErrTermLocked.
// Per-subject placement failures are collected, not fatal; infrastructure
// errors abort the run.
func (s *GenerationService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationResult, error) {
	started := time.Now()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	lock, err := s.locks.Acquire(ctx, req.Semester, req.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire term lock")
	}
	if lock == nil {
		return nil, appErrors.Clone(appErrors.ErrTermLocked, fmt.Sprintf("generation already running for %s %s", req.Semester, req.AcademicYear))
	}
	defer func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil {
			s.logger.Warn("term lock release failed", zap.Error(releaseErr))
		}
	}()

	subjects, err := s.subjects.ListForGeneration(ctx, req.Semester, req.DepartmentIDs, req.CourseIDs, req.SubjectIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects for generation")
	}

	if req.OverwriteExisting {
		if err := s.faculty.ReleaseGeneratedLoad(ctx, req.Semester, req.AcademicYear); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release generated faculty load")
		}
		archived, err := s.schedules.ArchiveGenerated(ctx, req.Semester, req.AcademicYear)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive previous generation")
		}
		s.logger.Info("archived previous generation",
			zap.String("semester", req.Semester),
			zap.String("academicYear", req.AcademicYear),
			zap.Int64("archived", archived))
	}

	facultyPool, err := s.faculty.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty pool")
	}
	classroomPool, err := s.classrooms.ListAvailable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom pool")
	}

	baseline, err := s.schedules.ListFacultySubjects(ctx, req.Semester, req.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduled subjects")
	}

	ledger := timetable.NewLoadLedger()
	for _, f := range facultyPool {
		ledger.Seed(f, baseline[f.ID])
	}

	overlay := &runScheduleOverlay{store: s.schedules}
	detector := timetable.NewDetector(overlay, timetable.LedgerLoadSource{Ledger: ledger}, s.cfg.TypicalClassSize)
	strategy := timetable.NewFirstFitSearch(
		timetable.NewFacultyMatcher(),
		timetable.NewClassroomMatcher(),
		timetable.NewSlotGenerator(s.cfg.SessionDuration, s.cfg.ClosingTime),
		detector,
	)
	constraints := constraintsFromRequest(req.Constraints)

	result := &dto.GenerationResult{
		FailedSubjects: make([]dto.FailedSubject, 0),
		Statistics: dto.GenerationStatistics{
			TotalSubjects:   len(subjects),
			ByDepartment:    make(map[string]int),
			ByFaculty:       make(map[string]int),
			ByClassroom:     make(map[string]int),
			RoomUtilization: make(map[string]float64),
		},
	}

	courseDepartments := make(map[string]*string)
	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation cancelled")
		}

		departmentID, reason, err := s.resolveDepartment(ctx, subject, courseDepartments)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			result.FailedSubjects = append(result.FailedSubjects, failedSubject(subject, reason))
			continue
		}

		found, err := strategy.Find(ctx, timetable.SearchRequest{
			Subject:       subject,
			Semester:      req.Semester,
			AcademicYear:  req.AcademicYear,
			FacultyPool:   facultyPool,
			ClassroomPool: classroomPool,
			Ledger:        ledger,
			Constraints:   constraints,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "placement search failed")
		}
		if found.Assignment == nil {
			result.FailedSubjects = append(result.FailedSubjects, failedSubject(subject, found.FailureReason))
			continue
		}

		assignment := found.Assignment
		newPreparation := ledger.Commit(assignment.Faculty.ID, subject.ID, subject.TotalUnits())

		schedule := &models.Schedule{
			SubjectID:    subject.ID,
			FacultyID:    assignment.Faculty.ID,
			ClassroomID:  assignment.Classroom.ID,
			DepartmentID: departmentID,
			Semester:     req.Semester,
			AcademicYear: req.AcademicYear,
			DayOfWeek:    assignment.Slot.DayOfWeek,
			StartTime:    assignment.Slot.StartTime,
			EndTime:      assignment.Slot.EndTime,
			SessionType:  subject.SessionType(),
			Status:       models.ScheduleDraft,
			Generated:    true,
		}
		if err := s.schedules.Create(ctx, schedule); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated schedule")
		}
		prepDelta := 0
		if newPreparation {
			prepDelta = 1
		}
		if err := s.faculty.IncrementLoad(ctx, assignment.Faculty.ID, subject.TotalUnits(), prepDelta); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty counters")
		}
		overlay.added = append(overlay.added, *schedule)

		result.Generated++
		result.Statistics.ByDepartment[departmentID]++
		result.Statistics.ByFaculty[assignment.Faculty.ID]++
		result.Statistics.ByClassroom[assignment.Classroom.ID]++

		if len(assignment.Warnings) > 0 {
			s.logger.Info("placement carries advisory warnings",
				zap.String("subjectCode", subject.Code),
				zap.Int("warnings", len(assignment.Warnings)))
		}
	}

	result.Statistics.TotalGenerated = result.Generated
	result.Statistics.TotalFailed = len(result.FailedSubjects)
	for roomID, count := range result.Statistics.ByClassroom {
		result.Statistics.RoomUtilization[roomID] = float64(count) / float64(s.cfg.WeeklyRoomSlots)
	}

	result.Success = result.Statistics.TotalFailed == 0
	if result.Success {
		result.Message = fmt.Sprintf("generated %d schedules", result.Generated)
	} else {
		result.Message = fmt.Sprintf("generated %d schedules, %d subjects could not be placed", result.Generated, result.Statistics.TotalFailed)
	}

	outcome := "partial"
	if result.Success {
		outcome = "complete"
	}
	s.metrics.ObserveGenerationRun(outcome, result.Generated, result.Statistics.TotalFailed, time.Since(started))
	s.logger.Info("generation run finished",
		zap.String("semester", req.Semester),
		zap.String("academicYear", req.AcademicYear),
		zap.Int("generated", result.Generated),
		zap.Int("failed", result.Statistics.TotalFailed),
		zap.Duration("took", time.Since(started)))

	return result, nil
}

// resolveDepartment returns the department a schedule row belongs to: the
// subject's own, falling back to its course's. Neither present is a
// per-subject failure, not an abort.
func (s *GenerationService) resolveDepartment(ctx context.Context, subject models.Subject, cache map[string]*string) (string, string, error) {
	if subject.DepartmentID != nil && *subject.DepartmentID != "" {
		return *subject.DepartmentID, "", nil
	}
	if subject.CourseID == "" {
		return "", "subject has no department or course", nil
	}

	departmentID, ok := cache[subject.CourseID]
	if !ok {
		course, err := s.courses.FindByID(ctx, subject.CourseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", fmt.Sprintf("course %s not found", subject.CourseID), nil
			}
			return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		departmentID = course.DepartmentID
		cache[subject.CourseID] = departmentID
	}
	if departmentID == nil || *departmentID == "" {
		return "", "subject has no department", nil
	}
	return *departmentID, "", nil
}

func failedSubject(subject models.Subject, reason string) dto.FailedSubject {
	return dto.FailedSubject{
		SubjectID:   subject.ID,
		SubjectCode: subject.Code,
		SubjectName: subject.Name,
		Reason:      reason,
	}
}

func constraintsFromRequest(c *dto.GenerationConstraints) timetable.Constraints {
	if c == nil {
		return timetable.Constraints{}
	}
	return timetable.Constraints{
		MaxLoad:            c.MaxHoursPerWeek,
		MinLoad:            c.MinHoursPerWeek,
		MaxPreparations:    c.MaxPreparations,
		MinCapacity:        c.MinimumCapacity,
		RequiredFacilities: c.RequiredFacilities,
		AllowedDays:        c.AllowedDays,
	}
}
