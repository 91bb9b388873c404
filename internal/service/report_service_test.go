package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type mockReportRepo struct {
	courses  []models.StudentCourse
	details  []models.DegreeEditionDetail
	top      []models.TopStudent
	district []models.DistrictTopStudent
	monthly  []models.MonthlyReportRow
}

func (m *mockReportRepo) StudentCourses(ctx context.Context, studentID int64) ([]models.StudentCourse, error) {
	return m.courses, nil
}

func (m *mockReportRepo) DegreeDetails(ctx context.Context, courseID int64) ([]models.DegreeEditionDetail, error) {
	return m.details, nil
}

func (m *mockReportRepo) TopStudents(ctx context.Context, n int) ([]models.TopStudent, error) {
	return m.top, nil
}

func (m *mockReportRepo) TopByDistrict(ctx context.Context) ([]models.DistrictTopStudent, error) {
	return m.district, nil
}

func (m *mockReportRepo) MonthlyReport(ctx context.Context) ([]models.MonthlyReportRow, error) {
	return m.monthly, nil
}

type mockMeanReader struct {
	mean float64
}

func (m *mockMeanReader) StudentMean(ctx context.Context, studentID int64) (float64, error) {
	return m.mean, nil
}

func TestReportServiceStudentDetails(t *testing.T) {
	repo := &mockReportRepo{
		courses: []models.StudentCourse{{CourseEditionID: 3, CourseName: "Databases"}},
	}
	svc := NewReportService(repo, &mockStudentChecker{exists: true}, &mockMeanReader{mean: 14.5}, zap.NewNop())

	details, err := svc.StudentDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 14.5, details.Mean)
	assert.Len(t, details.Courses, 1)
}

func TestReportServiceStudentDetailsNotFound(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, &mockStudentChecker{exists: false}, &mockMeanReader{}, zap.NewNop())

	_, err := svc.StudentDetails(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceDegreeDetailsNotFound(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, &mockStudentChecker{exists: true}, &mockMeanReader{}, zap.NewNop())

	_, err := svc.DegreeDetails(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceTopStudentsEmpty(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, &mockStudentChecker{exists: true}, &mockMeanReader{}, zap.NewNop())

	students, err := svc.TopStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestReportServiceMonthlyReport(t *testing.T) {
	repo := &mockReportRepo{
		monthly: []models.MonthlyReportRow{
			{Month: "2026-06", CourseEditionID: 3, CourseEditionName: "Databases", Approved: 18, Evaluated: 25},
		},
	}
	svc := NewReportService(repo, &mockStudentChecker{exists: true}, &mockMeanReader{}, zap.NewNop())

	rows, err := svc.MonthlyReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 18, rows[0].Approved)
}
