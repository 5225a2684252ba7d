package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type catalogSubjectStore interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type catalogFacultyStore interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type catalogClassroomStore interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type catalogDepartmentStore interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

type catalogCourseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CatalogService serves the reference entities the generator draws from:
// subjects, faculty, classrooms, departments and courses.
type CatalogService struct {
	subjects    catalogSubjectStore
	faculty     catalogFacultyStore
	classrooms  catalogClassroomStore
	departments catalogDepartmentStore
	courses     catalogCourseStore
}

// NewCatalogService wires catalog dependencies.
func NewCatalogService(
	subjects catalogSubjectStore,
	faculty catalogFacultyStore,
	classrooms catalogClassroomStore,
	departments catalogDepartmentStore,
	courses catalogCourseStore,
) *CatalogService {
	return &CatalogService{
		subjects:    subjects,
		faculty:     faculty,
		classrooms:  classrooms,
		departments: departments,
		courses:     courses,
	}
}

func normalisePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

// ListSubjects returns subjects matching the filter.
func (s *CatalogService) ListSubjects(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	page, size := normalisePage(filter.Page, filter.PageSize)
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetSubject fetches one subject.
func (s *CatalogService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// ListFaculty returns faculty matching the filter.
func (s *CatalogService) ListFaculty(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	faculty, total, err := s.faculty.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	page, size := normalisePage(filter.Page, filter.PageSize)
	return faculty, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetFaculty fetches one faculty member.
func (s *CatalogService) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.faculty.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

// ListClassrooms returns classrooms matching the filter.
func (s *CatalogService) ListClassrooms(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, *models.Pagination, error) {
	classrooms, total, err := s.classrooms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	page, size := normalisePage(filter.Page, filter.PageSize)
	return classrooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetClassroom fetches one classroom.
func (s *CatalogService) GetClassroom(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.classrooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return classroom, nil
}

// ListDepartments returns every department.
func (s *CatalogService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// ListCourses returns every course.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}
