package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/meireles/campus-records-api/internal/models"
)

// ActivityRepository handles extracurricular activity enrollments.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindActivity returns an activity by id.
func (r *ActivityRepository) FindActivity(ctx context.Context, activityID int64) (*models.Activity, error) {
	const query = `SELECT activity_id, name FROM extraactivities WHERE activity_id = $1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, activityID); err != nil {
		return nil, err
	}
	return &activity, nil
}

// IsEnrolled reports whether the student already joined the activity.
func (r *ActivityRepository) IsEnrolled(ctx context.Context, studentID, activityID int64) (bool, error) {
	const query = `SELECT 1 FROM extraactivities_student
        WHERE student_person_person_id = $1 AND extraactivities_activity_id = $2`
	var one int
	if err := r.db.GetContext(ctx, &one, query, studentID, activityID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check activity enrollment: %w", err)
	}
	return true, nil
}

// Enroll joins the student to the activity. When the fee is non-zero a
// fresh fees account and a Pending fee obligation are created in the same
// atomic unit. The student row is locked first so the duplicate recheck
// and the insert serialize against a concurrent first-time enrollment.
func (r *ActivityRepository) Enroll(ctx context.Context, studentID, activityID int64, fee float64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin activity enroll: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT person_person_id FROM student WHERE person_person_id = $1 FOR UPDATE`, studentID); err != nil {
		return 0, fmt.Errorf("lock student: %w", err)
	}

	var one int
	err = tx.GetContext(ctx, &one, `SELECT 1 FROM extraactivities_student
        WHERE student_person_person_id = $1 AND extraactivities_activity_id = $2`, studentID, activityID)
	if err == nil {
		return 0, ErrAlreadyEnrolled
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("recheck activity enrollment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO extraactivities_student (student_person_person_id, extraactivities_activity_id)
        VALUES ($1, $2)`, studentID, activityID); err != nil {
		return 0, fmt.Errorf("create activity enrollment: %w", err)
	}

	var feesAccountID int64
	if fee > 0 {
		feesAccountID, err = createFeesAccount(ctx, tx)
		if err != nil {
			return 0, err
		}
		const insertFee = `INSERT INTO extraactivities_fees
            (student_person_person_id, extraactivities_activity_id, fees, status, fees_account_fees_account_id)
            VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, insertFee, studentID, activityID, fee, models.ActivityFeeStatusPending, feesAccountID); err != nil {
			return 0, fmt.Errorf("create activity fee: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit activity enroll: %w", err)
	}
	return feesAccountID, nil
}
