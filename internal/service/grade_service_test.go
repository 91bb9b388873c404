package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type mockGradeRepo struct {
	edition      *models.CourseEdition
	editionErr   error
	unenrolled   []int64
	outcomes     []models.GradeOutcome
	submitErr    error
	submitCalled bool
}

func (m *mockGradeRepo) EditionForCoordinator(ctx context.Context, editionID, instructorID int64) (*models.CourseEdition, error) {
	if m.editionErr != nil {
		return nil, m.editionErr
	}
	return m.edition, nil
}

func (m *mockGradeRepo) UnenrolledStudents(ctx context.Context, editionID int64, studentIDs []int64) ([]int64, error) {
	return m.unenrolled, nil
}

func (m *mockGradeRepo) SubmitBatch(ctx context.Context, examID int64, entries []models.GradeEntry) ([]models.GradeOutcome, error) {
	m.submitCalled = true
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.outcomes, nil
}

func testEdition() *models.CourseEdition {
	return &models.CourseEdition{EditionID: 3, CourseID: 2, CourseName: "Databases", ExamID: 5}
}

func TestGradeServiceSubmit(t *testing.T) {
	repo := &mockGradeRepo{
		edition: testEdition(),
		outcomes: []models.GradeOutcome{
			{StudentID: 1, Grade: 15.5, ResultID: 100, Action: models.GradeActionInserted},
			{StudentID: 2, Grade: 18.0, ResultID: 101, Action: models.GradeActionUpdated},
		},
	}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	result, err := svc.Submit(context.Background(), 9, 3, SubmitGradesRequest{
		Period: "2025/2026-1",
		Grades: []models.GradeEntry{{StudentID: 1, Score: 15.5}, {StudentID: 2, Score: 18.0}},
	})
	require.NoError(t, err)
	assert.True(t, repo.submitCalled)
	assert.Equal(t, int64(5), result.ExamID)
	assert.Len(t, result.Grades, 2)
	assert.Equal(t, "2025/2026-1", result.Period)
}

func TestGradeServiceSubmitNotCoordinator(t *testing.T) {
	repo := &mockGradeRepo{editionErr: sql.ErrNoRows}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), 9, 3, SubmitGradesRequest{
		Grades: []models.GradeEntry{{StudentID: 1, Score: 15.5}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.False(t, repo.submitCalled)
}

func TestGradeServiceSubmitOutOfRange(t *testing.T) {
	repo := &mockGradeRepo{edition: testEdition()}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), 9, 3, SubmitGradesRequest{
		Grades: []models.GradeEntry{{StudentID: 1, Score: 21.0}, {StudentID: 2, Score: -0.5}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "1")
	assert.Contains(t, appErr.Message, "2")
	assert.False(t, repo.submitCalled)
}

func TestGradeServiceSubmitBoundaryScores(t *testing.T) {
	repo := &mockGradeRepo{
		edition: testEdition(),
		outcomes: []models.GradeOutcome{
			{StudentID: 1, Grade: 0, ResultID: 100, Action: models.GradeActionInserted},
			{StudentID: 2, Grade: 20, ResultID: 101, Action: models.GradeActionInserted},
		},
	}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), 9, 3, SubmitGradesRequest{
		Grades: []models.GradeEntry{{StudentID: 1, Score: 0}, {StudentID: 2, Score: 20}},
	})
	require.NoError(t, err)
	assert.True(t, repo.submitCalled)
}

func TestGradeServiceSubmitUnenrolledStudents(t *testing.T) {
	repo := &mockGradeRepo{edition: testEdition(), unenrolled: []int64{7}}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), 9, 3, SubmitGradesRequest{
		Grades: []models.GradeEntry{{StudentID: 7, Score: 12.0}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "7")
	assert.False(t, repo.submitCalled)
}

func TestGradeServiceSubmitEmptyBatch(t *testing.T) {
	svc := NewGradeService(&mockGradeRepo{edition: testEdition()}, validator.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), 9, 3, SubmitGradesRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
