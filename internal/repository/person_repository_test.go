package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/meireles/campus-records-api/internal/models"
)

func TestPersonRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	email := "ana@example.com"
	mock.ExpectQuery("INSERT INTO person").
		WithArgs("Ana", 20, "F", "123456789", &email, "Coimbra", "912345678", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"person_id"}).AddRow(int64(1)))

	person := &models.Person{Name: "Ana", Age: 20, Gender: "F", NIF: "123456789", Email: &email, Address: "Coimbra", Phone: "912345678", Password: "hash"}
	err := repo.Create(context.Background(), person)
	require.NoError(t, err)
	require.Equal(t, int64(1), person.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryResolveRolePrecedence(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	// student probe hits first, instructor and staff are never queried
	mock.ExpectQuery("SELECT 1 FROM student").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	role, err := repo.ResolveRole(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryResolveRoleUnknown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery("SELECT 1 FROM student").WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT 1 FROM instructor").WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT 1 FROM staff").WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)

	role, err := repo.ResolveRole(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.RoleUnknown, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteCascadeStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{
		"exam_student", "student_course", "extraactivities_student",
		"attendance", "result", "major_info", "extraactivities_fees",
	} {
		mock.ExpectExec("DELETE FROM " + table).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("DELETE FROM student").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM person").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteCascade(context.Background(), 1, models.RoleStudent)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteCascadeInstructor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{
		"exam_student", "student_course", "extraactivities_student",
		"attendance", "result", "major_info", "extraactivities_fees",
	} {
		mock.ExpectExec("DELETE FROM " + table).
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("UPDATE edition SET coordinator_instructor_worker_person_person_id = NULL").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM assistant_class").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM assistant ").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM instructor").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM staff").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM worker").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM person").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteCascade(context.Background(), 2, models.RoleInstructor)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
