package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type mockExportSchedules struct {
	details []models.ScheduleDetail
}

func (m *mockExportSchedules) ListForTermDetailed(_ context.Context, _, _ string) ([]models.ScheduleDetail, error) {
	return m.details, nil
}

func exportFixture() *ExportService {
	return NewExportService(&mockExportSchedules{details: []models.ScheduleDetail{
		{
			ScheduleID:  "sched-1",
			SubjectCode: "CS101",
			SubjectName: "Intro to Computing",
			FacultyName: "Alice Reyes",
			RoomNumber:  "201",
			Building:    "Main",
			DayOfWeek:   "MONDAY",
			StartTime:   "08:00",
			EndTime:     "09:30",
			SessionType: models.SessionLecture,
		},
		{
			ScheduleID:  "sched-2",
			SubjectCode: "CS103L",
			SubjectName: "Programming Lab",
			FacultyName: "Ben Cruz",
			RoomNumber:  "105",
			Building:    "",
			DayOfWeek:   "TUESDAY",
			StartTime:   "10:00",
			EndTime:     "11:30",
			SessionType: models.SessionLaboratory,
		},
	}})
}

func TestExportCSV(t *testing.T) {
	svc := exportFixture()

	payload, err := svc.Export(context.Background(), "1st", "2025-2026", "csv")
	require.NoError(t, err)
	assert.Equal(t, "timetable_1st_2025-2026.csv", payload.FileName)
	assert.Equal(t, "text/csv", payload.ContentType)

	lines := strings.Split(strings.TrimSpace(string(payload.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Time,Subject Code,Subject,Faculty,Room,Session", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "MONDAY")
	assert.Contains(t, lines[1], "08:00-09:30")
	assert.Contains(t, lines[1], "Main 201")
	assert.Contains(t, lines[2], "105")
	assert.NotContains(t, lines[2], "Main 105", "rows without a building carry the bare room number")
}

func TestExportPDF(t *testing.T) {
	svc := exportFixture()

	payload, err := svc.Export(context.Background(), "1st", "2025-2026", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "timetable_1st_2025-2026.pdf", payload.FileName)
	assert.Equal(t, "application/pdf", payload.ContentType)
	assert.True(t, strings.HasPrefix(string(payload.Data), "%PDF"))
}

func TestExportUnknownFormat(t *testing.T) {
	svc := exportFixture()

	_, err := svc.Export(context.Background(), "1st", "2025-2026", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportRequiresTerm(t *testing.T) {
	svc := exportFixture()

	_, err := svc.Export(context.Background(), "", "2025-2026", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
