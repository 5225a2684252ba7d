package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

const facultyColumns = "id, full_name, department_id, employment_type, min_load, max_load, current_load, max_preparations, current_preparations, active, created_at, updated_at"

// FacultyRepository manages persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculty matching filters along with total count.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	base := "FROM faculty WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(full_name) LIKE $%d", len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "full_name"
	}
	allowedSorts := map[string]string{
		"full_name":    "full_name",
		"current_load": "current_load",
		"created_at":   "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "full_name"
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
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", facultyColumns, base, column, order, size, offset)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}

	return faculty, total, nil
}

// FindByID fetches a faculty member by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE id = $1", facultyColumns)
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ListActive returns every active faculty member, the generation pool.
func (r *FacultyRepository) ListActive(ctx context.Context) ([]models.Faculty, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty WHERE active = TRUE ORDER BY full_name ASC", facultyColumns)
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list active faculty: %w", err)
	}
	return faculty, nil
}

// IncrementLoad moves the committed counters after a schedule commit, update
// or archive. Deltas may be negative; counters never drop below zero.
func (r *FacultyRepository) IncrementLoad(ctx context.Context, facultyID string, unitDelta, prepDelta int) error {
	const query = `UPDATE faculty SET current_load = GREATEST(current_load + $2, 0), current_preparations = GREATEST(current_preparations + $3, 0), updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, facultyID, unitDelta, prepDelta, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment faculty load: %w", err)
	}
	return nil
}

// ReleaseGeneratedLoad subtracts the counter contribution of a term's
// still-active generated schedules, so an overwrite run starts from the manual
// baseline. Must run before the generated entries are archived.
func (r *FacultyRepository) ReleaseGeneratedLoad(ctx context.Context, semester, academicYear string) error {
	const query = `UPDATE faculty f
		SET current_load = GREATEST(f.current_load - agg.units, 0),
			current_preparations = GREATEST(f.current_preparations - agg.preps, 0),
			updated_at = $3
		FROM (
			SELECT s.faculty_id,
				COALESCE(SUM(sub.lecture_units + sub.lab_units), 0) AS units,
				COUNT(DISTINCT s.subject_id) AS preps
			FROM schedules s
			JOIN subjects sub ON sub.id = s.subject_id
			WHERE s.semester = $1 AND s.academic_year = $2 AND s.generated = TRUE AND s.status <> 'archived'
			GROUP BY s.faculty_id
		) agg
		WHERE f.id = agg.faculty_id`
	if _, err := r.db.ExecContext(ctx, query, semester, academicYear, time.Now().UTC()); err != nil {
		return fmt.Errorf("release generated faculty load: %w", err)
	}
	return nil
}
