package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

const scheduleColumns = "id, subject_id, faculty_id, classroom_id, department_id, semester, academic_year, day_of_week, start_time, end_time, session_type, status, generated, created_at, updated_at"

// ScheduleRepository manages persistence for schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules matching filters along with total count.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	base := "FROM schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Generated != nil {
		conditions = append(conditions, fmt.Sprintf("generated = $%d", len(args)+1))
		args = append(args, *filter.Generated)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "day_of_week"
	}
	allowedSorts := map[string]string{
		"day_of_week": "day_of_week",
		"start_time":  "start_time",
		"created_at":  "created_at",
		"updated_at":  "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "day_of_week"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", scheduleColumns, base, column, order, size, offset)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return schedules, total, nil
}

// FindByID fetches a schedule by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE id = $1", scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListForTermDay returns non-archived schedules for one term and weekday, the
// committed set a conflict check runs against.
func (r *ScheduleRepository) ListForTermDay(ctx context.Context, semester, academicYear, day string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE semester = $1 AND academic_year = $2 AND day_of_week = $3 AND status <> $4 ORDER BY start_time ASC", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, semester, academicYear, day, models.ScheduleArchived); err != nil {
		return nil, fmt.Errorf("list schedules for term day: %w", err)
	}
	return schedules, nil
}

// ListForTerm returns every non-archived schedule of one term.
func (r *ScheduleRepository) ListForTerm(ctx context.Context, semester, academicYear string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE semester = $1 AND academic_year = $2 AND status <> $3 ORDER BY day_of_week ASC, start_time ASC", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, semester, academicYear, models.ScheduleArchived); err != nil {
		return nil, fmt.Errorf("list schedules for term: %w", err)
	}
	return schedules, nil
}

// ListForTermDetailed returns a term's non-archived schedules joined with
// subject, faculty and room names, ordered for timetable rendering.
func (r *ScheduleRepository) ListForTermDetailed(ctx context.Context, semester, academicYear string) ([]models.ScheduleDetail, error) {
	const query = `SELECT s.id AS schedule_id, sub.code AS subject_code, sub.name AS subject_name, f.full_name AS faculty_name, c.room_number, c.building, s.day_of_week, s.start_time, s.end_time, s.session_type
		FROM schedules s
		JOIN subjects sub ON sub.id = s.subject_id
		JOIN faculty f ON f.id = s.faculty_id
		JOIN classrooms c ON c.id = s.classroom_id
		WHERE s.semester = $1 AND s.academic_year = $2 AND s.status <> $3
		ORDER BY CASE s.day_of_week
			WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3
			WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 WHEN 'SATURDAY' THEN 6
			ELSE 7 END, s.start_time ASC`
	var details []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &details, query, semester, academicYear, models.ScheduleArchived); err != nil {
		return nil, fmt.Errorf("list schedules detailed: %w", err)
	}
	return details, nil
}

// ListByFacultyTerm returns one faculty member's non-archived schedules joined
// with subject unit counts, feeding workload derivation.
func (r *ScheduleRepository) ListByFacultyTerm(ctx context.Context, facultyID, semester, academicYear string) ([]models.FacultyScheduleLoad, error) {
	const query = `SELECT s.id AS schedule_id, s.subject_id, sub.code AS subject_code, sub.name AS subject_name, s.session_type, sub.lecture_units, sub.lab_units
		FROM schedules s
		JOIN subjects sub ON sub.id = s.subject_id
		WHERE s.faculty_id = $1 AND s.semester = $2 AND s.academic_year = $3 AND s.status <> $4
		ORDER BY sub.code ASC`
	var rows []models.FacultyScheduleLoad
	if err := r.db.SelectContext(ctx, &rows, query, facultyID, semester, academicYear, models.ScheduleArchived); err != nil {
		return nil, fmt.Errorf("list faculty schedules: %w", err)
	}
	return rows, nil
}

// ListFacultySubjects returns the distinct subject ids each faculty member is
// scheduled to teach in one term, keyed by faculty id. Generation runs seed
// their ledger from this so already-taught subjects are not counted as new
// preparations.
func (r *ScheduleRepository) ListFacultySubjects(ctx context.Context, semester, academicYear string) (map[string][]string, error) {
	const query = `SELECT DISTINCT faculty_id, subject_id FROM schedules WHERE semester = $1 AND academic_year = $2 AND status <> $3 ORDER BY faculty_id, subject_id`
	var rows []struct {
		FacultyID string `db:"faculty_id"`
		SubjectID string `db:"subject_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, semester, academicYear, models.ScheduleArchived); err != nil {
		return nil, fmt.Errorf("list faculty subjects: %w", err)
	}
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.FacultyID] = append(out[row.FacultyID], row.SubjectID)
	}
	return out, nil
}

// Create inserts a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleDraft
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, subject_id, faculty_id, classroom_id, department_id, semester, academic_year, day_of_week, start_time, end_time, session_type, status, generated, created_at, updated_at)
		VALUES (:id, :subject_id, :faculty_id, :classroom_id, :department_id, :semester, :academic_year, :day_of_week, :start_time, :end_time, :session_type, :status, :generated, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies an existing schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET faculty_id = :faculty_id, classroom_id = :classroom_id, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Archive soft-deletes a schedule entry.
func (r *ScheduleRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE schedules SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ScheduleArchived, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive schedule: %w", err)
	}
	return nil
}

// ArchiveGenerated archives every generated entry of one term, making room for
// a regeneration run.
func (r *ScheduleRepository) ArchiveGenerated(ctx context.Context, semester, academicYear string) (int64, error) {
	const query = `UPDATE schedules SET status = $3, updated_at = $4 WHERE semester = $1 AND academic_year = $2 AND generated = TRUE AND status <> $3`
	result, err := r.db.ExecContext(ctx, query, semester, academicYear, models.ScheduleArchived, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("archive generated schedules: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archive generated schedules: %w", err)
	}
	return affected, nil
}
