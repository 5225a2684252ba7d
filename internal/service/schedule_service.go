package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/timetable"
	"github.com/noah-isme/uni-timetable-api/pkg/database"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type scheduleStore interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListForTermDay(ctx context.Context, semester, academicYear, day string) ([]models.Schedule, error)
	ListByFacultyTerm(ctx context.Context, facultyID, semester, academicYear string) ([]models.FacultyScheduleLoad, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Archive(ctx context.Context, id string) error
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type facultyReader interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	IncrementLoad(ctx context.Context, facultyID string, unitDelta, prepDelta int) error
}

type classroomReader interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

// storeLoadSource derives a faculty member's committed load from the stored
// schedule set, excluding the record under evaluation.
type storeLoadSource struct {
	schedules scheduleStore
}

// CommittedLoad implements timetable.LoadSource.
func (s storeLoadSource) CommittedLoad(ctx context.Context, facultyID, semester, academicYear, excludeScheduleID string) (timetable.CommittedLoad, error) {
	rows, err := s.schedules.ListByFacultyTerm(ctx, facultyID, semester, academicYear)
	if err != nil {
		return timetable.CommittedLoad{}, err
	}

	load := timetable.CommittedLoad{}
	seen := make(map[string]struct{})
	for _, row := range rows {
		if excludeScheduleID != "" && row.ScheduleID == excludeScheduleID {
			continue
		}
		load.Units += row.LectureUnits + row.LabUnits
		if _, ok := seen[row.SubjectID]; !ok {
			seen[row.SubjectID] = struct{}{}
			load.Subjects = append(load.Subjects, row.SubjectID)
		}
	}
	load.Preparations = len(load.Subjects)
	return load, nil
}

// ScheduleService handles direct schedule reads and writes outside generation
// runs. Every write holds the term's advisory lock for its check-then-commit
// window and is checked against the committed set first; blocking conflicts
// reject the change.
type ScheduleService struct {
	schedules  scheduleStore
	subjects   subjectReader
	faculty    facultyReader
	classrooms classroomReader
	courses    generationCourseSource
	locks      termLocker
	detector   *timetable.Detector
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleService wires schedule dependencies.
func NewScheduleService(
	schedules scheduleStore,
	subjects subjectReader,
	faculty facultyReader,
	classrooms classroomReader,
	courses generationCourseSource,
	locks termLocker,
	validate *validator.Validate,
	logger *zap.Logger,
	typicalClassSize int,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		schedules:  schedules,
		subjects:   subjects,
		faculty:    faculty,
		classrooms: classrooms,
		courses:    courses,
		locks:      locks,
		detector:   timetable.NewDetector(storeScheduleSource{schedules}, storeLoadSource{schedules}, typicalClassSize),
		validator:  validate,
		logger:     logger,
	}
}

// lockTerm serialises this writer against generation runs and other direct
// writes for the same term. A busy lock fails fast with ErrTermLocked rather
// than queueing.
func (s *ScheduleService) lockTerm(ctx context.Context, semester, academicYear string) (*database.TermLock, error) {
	lock, err := s.locks.Acquire(ctx, semester, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire term lock")
	}
	if lock == nil {
		return nil, appErrors.Clone(appErrors.ErrTermLocked, fmt.Sprintf("another writer holds the %s %s term", semester, academicYear))
	}
	return lock, nil
}

// releaseTerm unlocks with a fresh context so request cancellation cannot leak
// the lock.
func (s *ScheduleService) releaseTerm(lock *database.TermLock) {
	if err := lock.Release(context.Background()); err != nil {
		s.logger.Warn("term lock release failed", zap.Error(err))
	}
}

// storeScheduleSource narrows the schedule store to the detector's read port.
type storeScheduleSource struct {
	schedules scheduleStore
}

// ListForTermDay implements timetable.ScheduleSource.
func (s storeScheduleSource) ListForTermDay(ctx context.Context, semester, academicYear, day string) ([]models.Schedule, error) {
	return s.schedules.ListForTermDay(ctx, semester, academicYear, day)
}

// List returns schedules matching the query.
func (s *ScheduleService) List(ctx context.Context, query dto.ScheduleQuery) ([]models.Schedule, *models.Pagination, error) {
	filter := models.ScheduleFilter{
		Semester:     query.Semester,
		AcademicYear: query.AcademicYear,
		SubjectID:    query.SubjectID,
		FacultyID:    query.FacultyID,
		ClassroomID:  query.ClassroomID,
		DepartmentID: query.DepartmentID,
		DayOfWeek:    query.DayOfWeek,
		Status:       query.Status,
		Page:         query.Page,
		PageSize:     query.PageSize,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
	}
	schedules, total, err := s.schedules.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return schedules, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one schedule entry.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// DetectConflicts reports every violation a proposed assignment would cause,
// without persisting anything.
func (s *ScheduleService) DetectConflicts(ctx context.Context, req dto.ProposedAssignment) ([]models.Conflict, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}
	slot := models.TimeSlot{DayOfWeek: req.DayOfWeek, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := validateSlot(slot); err != nil {
		return nil, err
	}

	subject, faculty, classroom, err := s.loadAssignmentEntities(ctx, req.SubjectID, req.FacultyID, req.ClassroomID)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.detector.Detect(ctx, timetable.Proposal{
		ScheduleID:   req.ScheduleID,
		Subject:      subject,
		Faculty:      faculty,
		Classroom:    classroom,
		Slot:         slot,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict detection failed")
	}
	return conflicts, nil
}

// Create inserts a manual schedule entry. Blocking conflicts reject the write;
// warnings are returned alongside the created record.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.Schedule, []models.Conflict, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	slot := models.TimeSlot{DayOfWeek: req.DayOfWeek, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := validateSlot(slot); err != nil {
		return nil, nil, err
	}

	subject, faculty, classroom, err := s.loadAssignmentEntities(ctx, req.SubjectID, req.FacultyID, req.ClassroomID)
	if err != nil {
		return nil, nil, err
	}

	lock, err := s.lockTerm(ctx, req.Semester, req.AcademicYear)
	if err != nil {
		return nil, nil, err
	}
	defer s.releaseTerm(lock)

	conflicts, err := s.detector.Detect(ctx, timetable.Proposal{
		Subject:      subject,
		Faculty:      faculty,
		Classroom:    classroom,
		Slot:         slot,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict detection failed")
	}
	if models.HasBlocking(conflicts) {
		return nil, nil, conflictFailure(conflicts)
	}

	departmentID, err := s.resolveDepartmentForWrite(ctx, subject)
	if err != nil {
		return nil, nil, err
	}

	load, err := storeLoadSource{s.schedules}.CommittedLoad(ctx, faculty.ID, req.Semester, req.AcademicYear, "")
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty commitments")
	}

	schedule := &models.Schedule{
		SubjectID:    subject.ID,
		FacultyID:    faculty.ID,
		ClassroomID:  classroom.ID,
		DepartmentID: departmentID,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		DayOfWeek:    slot.DayOfWeek,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		SessionType:  subject.SessionType(),
		Status:       models.ScheduleDraft,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}

	prepDelta := 0
	if !containsSubject(load.Subjects, subject.ID) {
		prepDelta = 1
	}
	if err := s.faculty.IncrementLoad(ctx, faculty.ID, subject.TotalUnits(), prepDelta); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty counters")
	}

	return schedule, conflicts, nil
}

// Update moves or reassigns an existing entry. The patched tuple is
// re-validated against the committed set, excluding the record itself.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleRequest) (*models.Schedule, []models.Conflict, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if schedule.Status == models.ScheduleArchived {
		return nil, nil, appErrors.Clone(appErrors.ErrConflict, "archived schedules cannot be modified")
	}

	previousFaculty := schedule.FacultyID
	if req.FacultyID != "" {
		schedule.FacultyID = req.FacultyID
	}
	if req.ClassroomID != "" {
		schedule.ClassroomID = req.ClassroomID
	}
	if req.DayOfWeek != "" {
		schedule.DayOfWeek = req.DayOfWeek
	}
	if req.StartTime != "" {
		schedule.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		schedule.EndTime = req.EndTime
	}
	if req.Status != "" {
		schedule.Status = req.Status
	}
	if err := validateSlot(schedule.Slot()); err != nil {
		return nil, nil, err
	}

	subject, faculty, classroom, err := s.loadAssignmentEntities(ctx, schedule.SubjectID, schedule.FacultyID, schedule.ClassroomID)
	if err != nil {
		return nil, nil, err
	}

	lock, err := s.lockTerm(ctx, schedule.Semester, schedule.AcademicYear)
	if err != nil {
		return nil, nil, err
	}
	defer s.releaseTerm(lock)

	conflicts, err := s.detector.Detect(ctx, timetable.Proposal{
		ScheduleID:   schedule.ID,
		Subject:      subject,
		Faculty:      faculty,
		Classroom:    classroom,
		Slot:         schedule.Slot(),
		Semester:     schedule.Semester,
		AcademicYear: schedule.AcademicYear,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict detection failed")
	}
	if models.HasBlocking(conflicts) {
		return nil, nil, conflictFailure(conflicts)
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}

	if schedule.FacultyID != previousFaculty {
		if err := s.shiftCounters(ctx, previousFaculty, schedule.FacultyID, subject, schedule); err != nil {
			return nil, nil, err
		}
	}

	return schedule, conflicts, nil
}

// Archive soft-deletes an entry and releases its counter contribution.
func (s *ScheduleService) Archive(ctx context.Context, id string) error {
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if schedule.Status == models.ScheduleArchived {
		return nil
	}

	lock, err := s.lockTerm(ctx, schedule.Semester, schedule.AcademicYear)
	if err != nil {
		return err
	}
	defer s.releaseTerm(lock)

	if err := s.schedules.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive schedule")
	}

	subject, err := s.subjects.FindByID(ctx, schedule.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	prepDelta, err := s.preparationRelease(ctx, schedule.FacultyID, schedule, subject.ID)
	if err != nil {
		return err
	}
	if err := s.faculty.IncrementLoad(ctx, schedule.FacultyID, -subject.TotalUnits(), prepDelta); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty counters")
	}
	return nil
}

func (s *ScheduleService) loadAssignmentEntities(ctx context.Context, subjectID, facultyID, classroomID string) (*models.Subject, *models.Faculty, *models.Classroom, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	faculty, err := s.faculty.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return subject, faculty, classroom, nil
}

func (s *ScheduleService) resolveDepartmentForWrite(ctx context.Context, subject *models.Subject) (string, error) {
	if subject.DepartmentID != nil && *subject.DepartmentID != "" {
		return *subject.DepartmentID, nil
	}
	if subject.CourseID == "" {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "subject has no department or course")
	}
	course, err := s.courses.FindByID(ctx, subject.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "subject's course not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.DepartmentID == nil || *course.DepartmentID == "" {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "subject has no department")
	}
	return *course.DepartmentID, nil
}

// shiftCounters moves a schedule's unit and preparation contribution from one
// faculty member to another after a reassignment.
func (s *ScheduleService) shiftCounters(ctx context.Context, fromID, toID string, subject *models.Subject, schedule *models.Schedule) error {
	releaseDelta, err := s.preparationRelease(ctx, fromID, schedule, subject.ID)
	if err != nil {
		return err
	}
	if err := s.faculty.IncrementLoad(ctx, fromID, -subject.TotalUnits(), releaseDelta); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty counters")
	}

	load, err := storeLoadSource{s.schedules}.CommittedLoad(ctx, toID, schedule.Semester, schedule.AcademicYear, schedule.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty commitments")
	}
	prepDelta := 0
	if !containsSubject(load.Subjects, subject.ID) {
		prepDelta = 1
	}
	if err := s.faculty.IncrementLoad(ctx, toID, subject.TotalUnits(), prepDelta); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty counters")
	}
	return nil
}

// preparationRelease returns -1 when removing this schedule leaves the faculty
// member with no other session of the subject, 0 otherwise.
func (s *ScheduleService) preparationRelease(ctx context.Context, facultyID string, schedule *models.Schedule, subjectID string) (int, error) {
	load, err := storeLoadSource{s.schedules}.CommittedLoad(ctx, facultyID, schedule.Semester, schedule.AcademicYear, schedule.ID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty commitments")
	}
	if containsSubject(load.Subjects, subjectID) {
		return 0, nil
	}
	return -1, nil
}

func validateSlot(slot models.TimeSlot) error {
	if !models.ValidDay(slot.DayOfWeek) {
		return appErrors.Clone(appErrors.ErrValidation, "invalid day of week")
	}
	start := models.MinuteOfDay(slot.StartTime)
	end := models.MinuteOfDay(slot.EndTime)
	if start < 0 || end < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "times must use 24h HH:MM format")
	}
	if end <= start {
		return appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	return nil
}

func conflictFailure(conflicts []models.Conflict) error {
	blocking := make([]models.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Blocking() {
			blocking = append(blocking, c)
		}
	}
	return appErrors.Wrap(
		&models.ConflictError{Message: fmt.Sprintf("%d blocking conflicts detected", len(blocking)), Conflicts: blocking},
		appErrors.ErrScheduleConflict.Code,
		appErrors.ErrScheduleConflict.Status,
		appErrors.ErrScheduleConflict.Message,
	)
}

func containsSubject(subjects []string, id string) bool {
	for _, s := range subjects {
		if s == id {
			return true
		}
	}
	return false
}
