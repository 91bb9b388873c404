package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type financeRepository interface {
	MajorFeeLines(ctx context.Context, studentID int64) ([]models.FeeLine, error)
	ActivityFeeLines(ctx context.Context, studentID int64) ([]models.FeeLine, error)
}

// FinanceService assembles the read-side financial status of a student.
type FinanceService struct {
	repo      financeRepository
	students  studentChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFinanceService constructs FinanceService.
func NewFinanceService(repo financeRepository, students studentChecker, validate *validator.Validate, logger *zap.Logger) *FinanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{repo: repo, students: students, validator: validate, logger: logger}
}

// FinancialStatus aggregates tuition and activity fee lines with per-section
// and overall totals. Pending amounts never go below zero. A student with no
// major and no activity records at all is reported as not found.
func (s *FinanceService) FinancialStatus(ctx context.Context, studentID int64) (*models.FinancialStatus, error) {
	exists, err := s.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	majors, err := s.repo.MajorFeeLines(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load major fees")
	}
	activities, err := s.repo.ActivityFeeLines(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity fees")
	}

	if len(majors) == 0 && len(activities) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no financial records found for this student")
	}

	majorsSummary := summarize(majors)
	activitiesSummary := summarize(activities)

	if majors == nil {
		majors = []models.FeeLine{}
	}
	if activities == nil {
		activities = []models.FeeLine{}
	}

	return &models.FinancialStatus{
		Majors:            majors,
		MajorsSummary:     majorsSummary,
		Activities:        activities,
		ActivitiesSummary: activitiesSummary,
		OverallSummary: models.FeeSummary{
			TotalFees:    majorsSummary.TotalFees + activitiesSummary.TotalFees,
			TotalPaid:    majorsSummary.TotalPaid + activitiesSummary.TotalPaid,
			TotalPending: majorsSummary.TotalPending + activitiesSummary.TotalPending,
		},
	}, nil
}

func summarize(lines []models.FeeLine) models.FeeSummary {
	var summary models.FeeSummary
	for i := range lines {
		pending := lines[i].Fee - lines[i].PaidAmount
		if pending < 0 {
			pending = 0
		}
		lines[i].PendingAmount = pending
		summary.TotalFees += lines[i].Fee
		summary.TotalPaid += lines[i].PaidAmount
		summary.TotalPending += pending
	}
	return summary
}
