package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

func subjectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "lecture_units", "lab_units", "course_id", "department_id", "year_level", "semester", "is_laboratory", "prerequisites", "created_at", "updated_at"}).
		AddRow("subj-1", "CS101", "Intro to Computing", 3, 0, "course-1", "dept-1", 1, "1st", false, pq.StringArray{}, time.Now(), time.Now())
}

func TestSubjectRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE 1=1 AND course_id = $1 ORDER BY code ASC LIMIT 20 OFFSET 0")).
		WithArgs("course-1").
		WillReturnRows(subjectRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects WHERE 1=1 AND course_id = $1")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	subjects, total, err := repo.List(context.Background(), models.SubjectFilter{CourseID: "course-1"})
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListForGenerationScopePrecedence(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	// Explicit subject ids win even when course and department scopes are set.
	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE semester = $1 AND id = ANY($2) ORDER BY year_level ASC, code ASC")).
		WithArgs("1st", pq.Array([]string{"subj-1"})).
		WillReturnRows(subjectRows())

	subjects, err := repo.ListForGeneration(context.Background(), "1st", []string{"dept-1"}, []string{"course-1"}, []string{"subj-1"})
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "subj-1", subjects[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListForGenerationUnscoped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE semester = $1 ORDER BY year_level ASC, code ASC")).
		WithArgs("1st").
		WillReturnRows(subjectRows())

	subjects, err := repo.ListForGeneration(context.Background(), "1st", nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
