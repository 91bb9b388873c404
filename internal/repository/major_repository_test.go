package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/meireles/campus-records-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMajorRepositoryFindMajor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMajorRepository(db)

	rows := sqlmock.NewRows([]string{"major_id", "major_name"}).AddRow(int64(7), "Computer Science")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT major_id, major_name FROM major WHERE major_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	major, err := repo.FindMajor(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Computer Science", major.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMajorRepositoryActiveEnrollmentNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMajorRepository(db)

	mock.ExpectQuery("SELECT mi.student_person_person_id").
		WithArgs(int64(1), models.MajorStatusActive).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ActiveEnrollment(context.Background(), 1)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMajorRepositoryEnroll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMajorRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT person_person_id FROM student WHERE person_person_id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"person_person_id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT 1 FROM major_info").
		WithArgs(int64(1), models.MajorStatusActive).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO fees_account (values_acumulate) VALUES (0) RETURNING fees_account_id")).
		WillReturnRows(sqlmock.NewRows([]string{"fees_account_id"}).AddRow(int64(42)))
	mock.ExpectExec("INSERT INTO major_info").
		WithArgs(int64(1), int64(7), 5000.00, models.MajorStatusActive, int64(42)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	feesAccountID, err := repo.Enroll(context.Background(), 1, 7, 5000.00)
	require.NoError(t, err)
	require.Equal(t, int64(42), feesAccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMajorRepositoryEnrollActiveConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMajorRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT person_person_id FROM student WHERE person_person_id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"person_person_id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT 1 FROM major_info").
		WithArgs(int64(1), models.MajorStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), 1, 7, 5000.00)
	require.ErrorIs(t, err, ErrActiveEnrollment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMajorRepositoryUnenroll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMajorRepository(db)

	mock.ExpectQuery("UPDATE major_info SET status").
		WithArgs(models.MajorStatusInactive, int64(1), models.MajorStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"major_major_id"}).AddRow(int64(7)))

	majorID, err := repo.Unenroll(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), majorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMajorRepositoryUnenrollNoActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMajorRepository(db)

	mock.ExpectQuery("UPDATE major_info SET status").
		WithArgs(models.MajorStatusInactive, int64(1), models.MajorStatusActive).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Unenroll(context.Background(), 1)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
