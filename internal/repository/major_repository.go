package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/meireles/campus-records-api/internal/models"
)

// MajorRepository handles degree enrollment persistence.
type MajorRepository struct {
	db *sqlx.DB
}

// NewMajorRepository constructs the repository.
func NewMajorRepository(db *sqlx.DB) *MajorRepository {
	return &MajorRepository{db: db}
}

// FindMajor returns a major by id.
func (r *MajorRepository) FindMajor(ctx context.Context, majorID int64) (*models.Major, error) {
	const query = `SELECT major_id, major_name FROM major WHERE major_id = $1`
	var major models.Major
	if err := r.db.GetContext(ctx, &major, query, majorID); err != nil {
		return nil, err
	}
	return &major, nil
}

// ActiveEnrollment returns the student's Active major enrollment, or
// sql.ErrNoRows when there is none.
func (r *MajorRepository) ActiveEnrollment(ctx context.Context, studentID int64) (*models.MajorEnrollment, error) {
	const query = `SELECT mi.student_person_person_id, mi.major_major_id, m.major_name,
            mi.fees, mi.status, mi.fees_account_fees_account_id
        FROM major_info mi
        JOIN major m ON mi.major_major_id = m.major_id
        WHERE mi.student_person_person_id = $1 AND mi.status = $2`
	var enrollment models.MajorEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, models.MajorStatusActive); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Enroll creates a fresh fees account and an Active major enrollment as
// one atomic unit. The student row is locked first so the one-active-major
// check and the insert serialize against concurrent enrollments; a new row
// is always created, never a reactivated one, so fees history per
// enrollment is preserved.
func (r *MajorRepository) Enroll(ctx context.Context, studentID, majorID int64, tuitionFee float64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin degree enroll: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT person_person_id FROM student WHERE person_person_id = $1 FOR UPDATE`, studentID); err != nil {
		return 0, fmt.Errorf("lock student: %w", err)
	}

	var one int
	err = tx.GetContext(ctx, &one, `SELECT 1 FROM major_info
        WHERE student_person_person_id = $1 AND status = $2 LIMIT 1`, studentID, models.MajorStatusActive)
	if err == nil {
		return 0, ErrActiveEnrollment
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("check active enrollment: %w", err)
	}

	feesAccountID, err := createFeesAccount(ctx, tx)
	if err != nil {
		return 0, err
	}

	const insert = `INSERT INTO major_info (student_person_person_id, major_major_id, fees, status, fees_account_fees_account_id)
        VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, insert, studentID, majorID, tuitionFee, models.MajorStatusActive, feesAccountID); err != nil {
		return 0, fmt.Errorf("create major enrollment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit degree enroll: %w", err)
	}
	return feesAccountID, nil
}

// Unenroll transitions the Active enrollment to Inactive. The fees account
// keeps its balance. Returns sql.ErrNoRows when no Active enrollment exists.
func (r *MajorRepository) Unenroll(ctx context.Context, studentID int64) (int64, error) {
	const query = `UPDATE major_info SET status = $1
        WHERE student_person_person_id = $2 AND status = $3
        RETURNING major_major_id`
	var majorID int64
	if err := r.db.QueryRowxContext(ctx, query, models.MajorStatusInactive, studentID, models.MajorStatusActive).Scan(&majorID); err != nil {
		return 0, err
	}
	return majorID, nil
}

func createFeesAccount(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var id int64
	if err := tx.QueryRowxContext(ctx, `INSERT INTO fees_account (values_acumulate) VALUES (0) RETURNING fees_account_id`).Scan(&id); err != nil {
		return 0, fmt.Errorf("create fees account: %w", err)
	}
	return id, nil
}
