package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type personRepository interface {
	Create(ctx context.Context, person *models.Person) error
	List(ctx context.Context) ([]models.Person, error)
	Exists(ctx context.Context, personID int64) (bool, error)
	StudentExists(ctx context.Context, personID int64) (bool, error)
	InstructorExists(ctx context.Context, personID int64) (bool, error)
	StaffExists(ctx context.Context, personID int64) (bool, error)
	ResolveRole(ctx context.Context, personID int64) (models.Role, error)
	CreateStudent(ctx context.Context, student *models.Student, majorID *int64, tuitionFee float64) error
	CreateStaff(ctx context.Context, worker *models.Worker) error
	CreateInstructor(ctx context.Context, worker *models.Worker, instructor *models.Instructor) error
	FirstDepartmentID(ctx context.Context) (int64, error)
	DeleteCascade(ctx context.Context, personID int64, role models.Role) error
}

// RegisterPersonRequest carries the identity fields for a new person.
type RegisterPersonRequest struct {
	Name     string  `json:"name" validate:"required"`
	Age      int     `json:"age" validate:"required,gte=0"`
	Gender   string  `json:"gender" validate:"required"`
	NIF      string  `json:"nif" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Address  string  `json:"address" validate:"required"`
	Phone    string  `json:"phone" validate:"required"`
	Password string  `json:"password" validate:"required"`
}

// RegisterStudentRequest promotes an existing person to student.
type RegisterStudentRequest struct {
	PersonID int64   `json:"person_id" validate:"required"`
	Mean     float64 `json:"mean"`
	MajorID  *int64  `json:"major_id"`
}

// RegisterStaffRequest promotes an existing person to staff.
type RegisterStaffRequest struct {
	PersonID int64   `json:"person_id" validate:"required"`
	Salary   float64 `json:"salary"`
}

// RegisterInstructorRequest promotes an existing person to instructor.
type RegisterInstructorRequest struct {
	PersonID     int64   `json:"person_id" validate:"required"`
	Salary       float64 `json:"salary"`
	Major        string  `json:"major"`
	DepartmentID *int64  `json:"department_id"`
}

// PersonService manages person lifecycle and role registration.
type PersonService struct {
	repo       personRepository
	validator  *validator.Validate
	logger     *zap.Logger
	tuitionFee float64
}

// NewPersonService constructs PersonService.
func NewPersonService(repo personRepository, validate *validator.Validate, logger *zap.Logger, tuitionFee float64) *PersonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{repo: repo, validator: validate, logger: logger, tuitionFee: tuitionFee}
}

// Register creates a new person with a hashed password and returns the
// generated id.
func (s *PersonService) Register(ctx context.Context, req RegisterPersonRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid person fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	person := &models.Person{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		NIF:      req.NIF,
		Email:    req.Email,
		Address:  req.Address,
		Phone:    req.Phone,
		Password: string(hash),
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create person")
	}

	s.logger.Info("person registered", zap.Int64("person_id", person.ID))
	return person.ID, nil
}

// List returns every registered person.
func (s *PersonService) List(ctx context.Context) ([]models.Person, error) {
	persons, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list persons")
	}
	return persons, nil
}

// RegisterStudent creates a student membership, optionally enrolling the
// student in a major in the same transaction.
func (s *PersonService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "person_id is required")
	}
	if err := s.requirePerson(ctx, req.PersonID); err != nil {
		return nil, err
	}

	exists, err := s.repo.StudentExists(ctx, req.PersonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "this person is already a student")
	}

	student := &models.Student{
		PersonID:      req.PersonID,
		EnrolmentDate: time.Now().UTC().Truncate(24 * time.Hour),
		Mean:          req.Mean,
	}
	if err := s.repo.CreateStudent(ctx, student, req.MajorID, s.tuitionFee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register student")
	}
	return student, nil
}

// RegisterStaff creates worker and staff memberships atomically.
func (s *PersonService) RegisterStaff(ctx context.Context, req RegisterStaffRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "person_id is required")
	}
	if err := s.requirePerson(ctx, req.PersonID); err != nil {
		return nil, err
	}

	exists, err := s.repo.StaffExists(ctx, req.PersonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check staff")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "this person is already a staff member")
	}

	worker := &models.Worker{
		PersonID:       req.PersonID,
		Salary:         req.Salary,
		StartedWorking: time.Now().UTC().Truncate(24 * time.Hour),
	}
	if err := s.repo.CreateStaff(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register staff")
	}
	return worker, nil
}

// RegisterInstructor creates worker and instructor memberships atomically.
// When no department is named the first department is used.
func (s *PersonService) RegisterInstructor(ctx context.Context, req RegisterInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "person_id is required")
	}
	if err := s.requirePerson(ctx, req.PersonID); err != nil {
		return nil, err
	}

	exists, err := s.repo.InstructorExists(ctx, req.PersonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "this person is already an instructor")
	}

	departmentID := int64(0)
	if req.DepartmentID != nil {
		departmentID = *req.DepartmentID
	} else {
		departmentID, err = s.repo.FirstDepartmentID(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "no department available")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pick department")
		}
	}

	major := req.Major
	if major == "" {
		major = "General"
	}

	worker := &models.Worker{
		PersonID:       req.PersonID,
		Salary:         req.Salary,
		StartedWorking: time.Now().UTC().Truncate(24 * time.Hour),
	}
	instructor := &models.Instructor{PersonID: req.PersonID, Major: major, DepartmentID: departmentID}
	if err := s.repo.CreateInstructor(ctx, worker, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register instructor")
	}
	return instructor, nil
}

// Delete removes a person and every dependent row in one atomic unit. The
// role membership is resolved by the same precedence probe used at login.
func (s *PersonService) Delete(ctx context.Context, personID int64) error {
	if err := s.requirePerson(ctx, personID); err != nil {
		return err
	}

	role, err := s.repo.ResolveRole(ctx, personID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	if err := s.repo.DeleteCascade(ctx, personID, role); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}

	s.logger.Info("person deleted", zap.Int64("person_id", personID), zap.String("role", string(role)))
	return nil
}

func (s *PersonService) requirePerson(ctx context.Context, personID int64) error {
	exists, err := s.repo.Exists(ctx, personID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check person")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}
	return nil
}
