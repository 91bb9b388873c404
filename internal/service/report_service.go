package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type reportRepository interface {
	StudentCourses(ctx context.Context, studentID int64) ([]models.StudentCourse, error)
	DegreeDetails(ctx context.Context, courseID int64) ([]models.DegreeEditionDetail, error)
	TopStudents(ctx context.Context, n int) ([]models.TopStudent, error)
	TopByDistrict(ctx context.Context) ([]models.DistrictTopStudent, error)
	MonthlyReport(ctx context.Context) ([]models.MonthlyReportRow, error)
}

// StudentDetails is the per-student overview served to staff and the
// student themselves.
type StudentDetails struct {
	StudentID int64                  `json:"student_id"`
	Mean      float64                `json:"mean"`
	Courses   []models.StudentCourse `json:"courses"`
}

type studentMeanReader interface {
	StudentMean(ctx context.Context, studentID int64) (float64, error)
}

// ReportService serves the read-only detail and ranking views.
type ReportService struct {
	repo     reportRepository
	students studentChecker
	means    studentMeanReader
	logger   *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(repo reportRepository, students studentChecker, means studentMeanReader, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, students: students, means: means, logger: logger}
}

// StudentDetails returns the student's mean and enrolled courses.
func (s *ReportService) StudentDetails(ctx context.Context, studentID int64) (*StudentDetails, error) {
	exists, err := s.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	mean, err := s.means.StudentMean(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	courses, err := s.repo.StudentCourses(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if courses == nil {
		courses = []models.StudentCourse{}
	}

	return &StudentDetails{StudentID: studentID, Mean: mean, Courses: courses}, nil
}

// DegreeDetails returns per-edition statistics for a course.
func (s *ReportService) DegreeDetails(ctx context.Context, courseID int64) ([]models.DegreeEditionDetail, error) {
	details, err := s.repo.DegreeDetails(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load degree details")
	}
	if len(details) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return details, nil
}

// TopStudents returns the three best students of the current academic year.
func (s *ReportService) TopStudents(ctx context.Context) ([]models.TopStudent, error) {
	students, err := s.repo.TopStudents(ctx, 3)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank students")
	}
	if students == nil {
		students = []models.TopStudent{}
	}
	return students, nil
}

// TopByDistrict returns the best-ranked student of each district.
func (s *ReportService) TopByDistrict(ctx context.Context) ([]models.DistrictTopStudent, error) {
	rows, err := s.repo.TopByDistrict(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank districts")
	}
	if rows == nil {
		rows = []models.DistrictTopStudent{}
	}
	return rows, nil
}

// MonthlyReport returns, per month of the academic year, the edition with
// the most approvals.
func (s *ReportService) MonthlyReport(ctx context.Context) ([]models.MonthlyReportRow, error) {
	rows, err := s.repo.MonthlyReport(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build monthly report")
	}
	if rows == nil {
		rows = []models.MonthlyReportRow{}
	}
	return rows, nil
}
