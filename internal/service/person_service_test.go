package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

type mockPersonRepo struct {
	persons           []models.Person
	personExists      bool
	studentExists     bool
	instructorExists  bool
	staffExists       bool
	role              models.Role
	firstDepartment   int64
	firstDeptErr      error
	created           *models.Person
	createdStudent    *models.Student
	createdWorker     *models.Worker
	createdInstructor *models.Instructor
	deleteCalled      bool
	deletedRole       models.Role
}

func (m *mockPersonRepo) Create(ctx context.Context, person *models.Person) error {
	person.ID = 1
	m.created = person
	return nil
}

func (m *mockPersonRepo) List(ctx context.Context) ([]models.Person, error) {
	return m.persons, nil
}

func (m *mockPersonRepo) Exists(ctx context.Context, personID int64) (bool, error) {
	return m.personExists, nil
}

func (m *mockPersonRepo) StudentExists(ctx context.Context, personID int64) (bool, error) {
	return m.studentExists, nil
}

func (m *mockPersonRepo) InstructorExists(ctx context.Context, personID int64) (bool, error) {
	return m.instructorExists, nil
}

func (m *mockPersonRepo) StaffExists(ctx context.Context, personID int64) (bool, error) {
	return m.staffExists, nil
}

func (m *mockPersonRepo) ResolveRole(ctx context.Context, personID int64) (models.Role, error) {
	return m.role, nil
}

func (m *mockPersonRepo) CreateStudent(ctx context.Context, student *models.Student, majorID *int64, tuitionFee float64) error {
	m.createdStudent = student
	return nil
}

func (m *mockPersonRepo) CreateStaff(ctx context.Context, worker *models.Worker) error {
	m.createdWorker = worker
	return nil
}

func (m *mockPersonRepo) CreateInstructor(ctx context.Context, worker *models.Worker, instructor *models.Instructor) error {
	m.createdWorker = worker
	m.createdInstructor = instructor
	return nil
}

func (m *mockPersonRepo) FirstDepartmentID(ctx context.Context) (int64, error) {
	if m.firstDeptErr != nil {
		return 0, m.firstDeptErr
	}
	return m.firstDepartment, nil
}

func (m *mockPersonRepo) DeleteCascade(ctx context.Context, personID int64, role models.Role) error {
	m.deleteCalled = true
	m.deletedRole = role
	return nil
}

func newPersonService(repo *mockPersonRepo) *PersonService {
	return NewPersonService(repo, validator.New(), zap.NewNop(), 5000.00)
}

func TestPersonServiceRegisterHashesPassword(t *testing.T) {
	repo := &mockPersonRepo{}
	svc := newPersonService(repo)

	id, err := svc.Register(context.Background(), RegisterPersonRequest{
		Name: "Ana", Age: 20, Gender: "F", NIF: "123456789",
		Address: "Coimbra", Phone: "912345678", Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, repo.created)
	assert.NotEqual(t, "password", repo.created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.Password), []byte("password")))
}

func TestPersonServiceRegisterMissingFields(t *testing.T) {
	svc := newPersonService(&mockPersonRepo{})

	_, err := svc.Register(context.Background(), RegisterPersonRequest{Name: "Ana"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPersonServiceRegisterStudent(t *testing.T) {
	repo := &mockPersonRepo{personExists: true}
	svc := newPersonService(repo)

	student, err := svc.RegisterStudent(context.Background(), RegisterStudentRequest{PersonID: 1, Mean: 14.0})
	require.NoError(t, err)
	assert.Equal(t, int64(1), student.PersonID)
	assert.NotNil(t, repo.createdStudent)
}

func TestPersonServiceRegisterStudentDuplicate(t *testing.T) {
	repo := &mockPersonRepo{personExists: true, studentExists: true}
	svc := newPersonService(repo)

	_, err := svc.RegisterStudent(context.Background(), RegisterStudentRequest{PersonID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.createdStudent)
}

func TestPersonServiceRegisterStudentUnknownPerson(t *testing.T) {
	svc := newPersonService(&mockPersonRepo{personExists: false})

	_, err := svc.RegisterStudent(context.Background(), RegisterStudentRequest{PersonID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPersonServiceRegisterInstructorDefaultDepartment(t *testing.T) {
	repo := &mockPersonRepo{personExists: true, firstDepartment: 10}
	svc := newPersonService(repo)

	instructor, err := svc.RegisterInstructor(context.Background(), RegisterInstructorRequest{PersonID: 2, Salary: 2000})
	require.NoError(t, err)
	assert.Equal(t, int64(10), instructor.DepartmentID)
	assert.Equal(t, "General", instructor.Major)
	assert.NotNil(t, repo.createdWorker)
}

func TestPersonServiceRegisterInstructorNoDepartment(t *testing.T) {
	repo := &mockPersonRepo{personExists: true, firstDeptErr: sql.ErrNoRows}
	svc := newPersonService(repo)

	_, err := svc.RegisterInstructor(context.Background(), RegisterInstructorRequest{PersonID: 2})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "no department available", appErr.Message)
}

func TestPersonServiceRegisterStaffDuplicate(t *testing.T) {
	repo := &mockPersonRepo{personExists: true, staffExists: true}
	svc := newPersonService(repo)

	_, err := svc.RegisterStaff(context.Background(), RegisterStaffRequest{PersonID: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPersonServiceDelete(t *testing.T) {
	repo := &mockPersonRepo{personExists: true, role: models.RoleStudent}
	svc := newPersonService(repo)

	err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, repo.deleteCalled)
	assert.Equal(t, models.RoleStudent, repo.deletedRole)
}

func TestPersonServiceDeleteNotFound(t *testing.T) {
	repo := &mockPersonRepo{personExists: false}
	svc := newPersonService(repo)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.deleteCalled)
}
