package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type gradeRepository interface {
	EditionForCoordinator(ctx context.Context, editionID, instructorID int64) (*models.CourseEdition, error)
	UnenrolledStudents(ctx context.Context, editionID int64, studentIDs []int64) ([]int64, error)
	SubmitBatch(ctx context.Context, examID int64, entries []models.GradeEntry) ([]models.GradeOutcome, error)
}

// SubmitGradesRequest carries a batch of grades for one evaluation period.
type SubmitGradesRequest struct {
	Period string              `json:"period"`
	Grades []models.GradeEntry `json:"grades" validate:"required,min=1,dive"`
}

// GradeSubmissionResult reports a completed grade submission.
type GradeSubmissionResult struct {
	Message         string                `json:"message"`
	CourseEditionID int64                 `json:"course_edition_id"`
	CourseName      string                `json:"course_name"`
	ExamID          int64                 `json:"exam_id"`
	Period          string                `json:"period,omitempty"`
	Grades          []models.GradeOutcome `json:"grades"`
}

// GradeService handles batch grade submission by course coordinators.
type GradeService struct {
	repo      gradeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(repo gradeRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, validator: validate, logger: logger}
}

// Submit stores a grade batch for the edition's exam. Only the edition's
// coordinator may submit; the whole batch is rejected before any write when
// a score falls outside [0, 20] or a student is not enrolled in the course.
func (s *GradeService) Submit(ctx context.Context, instructorID, editionID int64, req SubmitGradesRequest) (*GradeSubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "at least one grade is required")
	}

	edition, err := s.repo.EditionForCoordinator(ctx, editionID, instructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not the coordinator of this course edition")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edition")
	}

	var outOfRange []int64
	studentIDs := make([]int64, 0, len(req.Grades))
	for _, entry := range req.Grades {
		if entry.Score < models.GradeMin || entry.Score > models.GradeMax {
			outOfRange = append(outOfRange, entry.StudentID)
		}
		studentIDs = append(studentIDs, entry.StudentID)
	}
	if len(outOfRange) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("grades must be between %g and %g; offending students: %v", models.GradeMin, models.GradeMax, outOfRange))
	}

	unenrolled, err := s.repo.UnenrolledStudents(ctx, editionID, studentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if len(unenrolled) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("students not enrolled in this course edition: %v", unenrolled))
	}

	outcomes, err := s.repo.SubmitBatch(ctx, edition.ExamID, req.Grades)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit grades")
	}

	s.logger.Info("grades submitted",
		zap.Int64("course_edition_id", editionID),
		zap.Int64("instructor_id", instructorID),
		zap.Int("count", len(outcomes)))

	return &GradeSubmissionResult{
		Message:         fmt.Sprintf("successfully submitted %d grades for course: %s", len(outcomes), edition.CourseName),
		CourseEditionID: edition.EditionID,
		CourseName:      edition.CourseName,
		ExamID:          edition.ExamID,
		Period:          req.Period,
		Grades:          outcomes,
	}, nil
}
