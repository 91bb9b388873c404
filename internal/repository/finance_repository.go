package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/meireles/campus-records-api/internal/models"
)

// FinanceRepository reads fee obligations and their payment state.
type FinanceRepository struct {
	db *sqlx.DB
}

// NewFinanceRepository constructs the repository.
func NewFinanceRepository(db *sqlx.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// MajorFeeLines returns one line per major enrollment of the student with
// the paid amount taken from the associated fees account.
func (r *FinanceRepository) MajorFeeLines(ctx context.Context, studentID int64) ([]models.FeeLine, error) {
	const query = `SELECT m.major_name AS name, mi.fees AS fee,
            COALESCE(fa.values_acumulate, 0) AS paid_amount, mi.status
        FROM major_info mi
        JOIN major m ON mi.major_major_id = m.major_id
        JOIN fees_account fa ON mi.fees_account_fees_account_id = fa.fees_account_id
        WHERE mi.student_person_person_id = $1
        ORDER BY m.major_name`
	var lines []models.FeeLine
	if err := r.db.SelectContext(ctx, &lines, query, studentID); err != nil {
		return nil, fmt.Errorf("load major fees: %w", err)
	}
	return lines, nil
}

// ActivityFeeLines returns one line per activity fee obligation of the
// student. Activities joined without a fee obligation carry a zero fee.
func (r *FinanceRepository) ActivityFeeLines(ctx context.Context, studentID int64) ([]models.FeeLine, error) {
	const query = `SELECT ea.name AS name, COALESCE(ef.fees, 0) AS fee,
            COALESCE(fa.values_acumulate, 0) AS paid_amount, COALESCE(ef.status, '') AS status
        FROM extraactivities_student eas
        JOIN extraactivities ea ON eas.extraactivities_activity_id = ea.activity_id
        LEFT JOIN extraactivities_fees ef ON ef.student_person_person_id = eas.student_person_person_id
            AND ef.extraactivities_activity_id = eas.extraactivities_activity_id
        LEFT JOIN fees_account fa ON ef.fees_account_fees_account_id = fa.fees_account_id
        WHERE eas.student_person_person_id = $1
        ORDER BY ea.name`
	var lines []models.FeeLine
	if err := r.db.SelectContext(ctx, &lines, query, studentID); err != nil {
		return nil, fmt.Errorf("load activity fees: %w", err)
	}
	return lines, nil
}
