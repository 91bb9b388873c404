package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/meireles/campus-records-api/internal/models"
	"github.com/meireles/campus-records-api/internal/repository"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type majorRepository interface {
	FindMajor(ctx context.Context, majorID int64) (*models.Major, error)
	ActiveEnrollment(ctx context.Context, studentID int64) (*models.MajorEnrollment, error)
	Enroll(ctx context.Context, studentID, majorID int64, tuitionFee float64) (int64, error)
	Unenroll(ctx context.Context, studentID int64) (int64, error)
}

type courseRepository interface {
	FindEdition(ctx context.Context, editionID int64) (*models.CourseEdition, error)
	IsEnrolledInCourse(ctx context.Context, studentID, courseID int64) (bool, error)
	InvalidClassIDs(ctx context.Context, classIDs []int64) ([]int64, error)
	Enroll(ctx context.Context, studentID int64, edition *models.CourseEdition, classIDs []int64) error
}

type activityRepository interface {
	FindActivity(ctx context.Context, activityID int64) (*models.Activity, error)
	IsEnrolled(ctx context.Context, studentID, activityID int64) (bool, error)
	Enroll(ctx context.Context, studentID, activityID int64, fee float64) (int64, error)
}

type studentChecker interface {
	StudentExists(ctx context.Context, personID int64) (bool, error)
}

// DegreeEnrollmentResult reports a completed degree enrollment.
type DegreeEnrollmentResult struct {
	Message       string `json:"message"`
	StudentID     int64  `json:"student_id"`
	MajorID       int64  `json:"major_id"`
	MajorName     string `json:"major_name"`
	FeesAccountID int64  `json:"fees_account_id,omitempty"`
}

// CourseEnrollmentResult reports a completed course-edition enrollment.
type CourseEnrollmentResult struct {
	Message         string  `json:"message"`
	CourseEditionID int64   `json:"course_edition_id"`
	CourseName      string  `json:"course_name"`
	CourseID        int64   `json:"course_id"`
	EnrolledClasses []int64 `json:"enrolled_classes"`
}

// ActivityEnrollmentResult reports a completed activity enrollment.
type ActivityEnrollmentResult struct {
	Message       string  `json:"message"`
	ActivityID    int64   `json:"activity_id"`
	ActivityName  string  `json:"activity_name"`
	FeesAccountID int64   `json:"fees_account_id,omitempty"`
	Fees          float64 `json:"fees"`
	Status        string  `json:"status,omitempty"`
}

// EnrollCourseRequest carries the class selection for an edition enrollment.
type EnrollCourseRequest struct {
	Classes []int64 `json:"classes" validate:"required,min=1"`
}

// EnrollmentService orchestrates degree, course-edition and activity
// enrollment workflows.
type EnrollmentService struct {
	majors      majorRepository
	courses     courseRepository
	activities  activityRepository
	students    studentChecker
	validator   *validator.Validate
	logger      *zap.Logger
	tuitionFee  float64
	activityFee float64
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(majors majorRepository, courses courseRepository, activities activityRepository, students studentChecker, validate *validator.Validate, logger *zap.Logger, tuitionFee, activityFee float64) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		majors:      majors,
		courses:     courses,
		activities:  activities,
		students:    students,
		validator:   validate,
		logger:      logger,
		tuitionFee:  tuitionFee,
		activityFee: activityFee,
	}
}

// EnrollDegree enrolls a student in a major. A student holding an Active
// major must unenroll first; a fresh fees account and enrollment row are
// always created.
func (s *EnrollmentService) EnrollDegree(ctx context.Context, studentID, majorID int64) (*DegreeEnrollmentResult, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	major, err := s.majors.FindMajor(ctx, majorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "major not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load major")
	}

	current, err := s.majors.ActiveEnrollment(ctx, studentID)
	if err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("student is already enrolled in major: %s; must unenroll first", current.MajorName))
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	feesAccountID, err := s.majors.Enroll(ctx, studentID, majorID, s.tuitionFee)
	if err != nil {
		if errors.Is(err, repository.ErrActiveEnrollment) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already holds an active major enrollment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll in major")
	}

	return &DegreeEnrollmentResult{
		Message:       fmt.Sprintf("successfully enrolled student %d in major: %s", studentID, major.Name),
		StudentID:     studentID,
		MajorID:       majorID,
		MajorName:     major.Name,
		FeesAccountID: feesAccountID,
	}, nil
}

// UnenrollDegree transitions the student's Active major enrollment to
// Inactive. The fees account keeps its accumulated balance.
func (s *EnrollmentService) UnenrollDegree(ctx context.Context, studentID int64) (*DegreeEnrollmentResult, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	current, err := s.majors.ActiveEnrollment(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student is not enrolled in any major")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	if _, err := s.majors.Unenroll(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student is not enrolled in any major")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll")
	}

	return &DegreeEnrollmentResult{
		Message:   fmt.Sprintf("successfully unenrolled student %d from major: %s", studentID, current.MajorName),
		StudentID: studentID,
		MajorID:   current.MajorID,
		MajorName: current.MajorName,
	}, nil
}

// EnrollCourseEdition takes a seat for the caller in a course edition and
// registers attendance for the selected classes. Uniqueness is checked per
// course; capacity is enforced under a row lock.
func (s *EnrollmentService) EnrollCourseEdition(ctx context.Context, studentID, editionID int64, req EnrollCourseRequest) (*CourseEnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "at least one class id is required")
	}

	edition, err := s.courses.FindEdition(ctx, editionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course edition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edition")
	}

	enrolled, err := s.courses.IsEnrolledInCourse(ctx, studentID, edition.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is already enrolled in this course")
	}

	invalid, err := s.courses.InvalidClassIDs(ctx, req.Classes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate classes")
	}
	if len(invalid) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid class ids: %v", invalid))
	}

	if err := s.courses.Enroll(ctx, studentID, edition, req.Classes); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityReached):
			return nil, appErrors.Clone(appErrors.ErrConflict, "course edition is at maximum capacity")
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			return nil, appErrors.Clone(appErrors.ErrValidation, "student is already enrolled in this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll in course")
	}

	return &CourseEnrollmentResult{
		Message:         fmt.Sprintf("successfully enrolled in course: %s", edition.CourseName),
		CourseEditionID: edition.EditionID,
		CourseName:      edition.CourseName,
		CourseID:        edition.CourseID,
		EnrolledClasses: req.Classes,
	}, nil
}

// EnrollActivity joins the caller to an extracurricular activity, creating
// the fee obligation when the activity carries a fee.
func (s *EnrollmentService) EnrollActivity(ctx context.Context, studentID, activityID int64) (*ActivityEnrollmentResult, error) {
	activity, err := s.activities.FindActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}

	enrolled, err := s.activities.IsEnrolled(ctx, studentID, activityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is already enrolled in this activity")
	}

	feesAccountID, err := s.activities.Enroll(ctx, studentID, activityID, s.activityFee)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student is already enrolled in this activity")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll in activity")
	}

	result := &ActivityEnrollmentResult{
		Message:       fmt.Sprintf("successfully enrolled in activity: %s", activity.Name),
		ActivityID:    activity.ID,
		ActivityName:  activity.Name,
		FeesAccountID: feesAccountID,
		Fees:          s.activityFee,
	}
	if s.activityFee > 0 {
		result.Status = models.ActivityFeeStatusPending
	}
	return result, nil
}

func (s *EnrollmentService) requireStudent(ctx context.Context, studentID int64) error {
	exists, err := s.students.StudentExists(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}
