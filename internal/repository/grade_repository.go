package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/meireles/campus-records-api/internal/models"
)

// GradeRepository handles result persistence and mean recomputation.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// EditionForCoordinator returns the edition only when the given instructor
// coordinates it; sql.ErrNoRows otherwise.
func (r *GradeRepository) EditionForCoordinator(ctx context.Context, editionID, instructorID int64) (*models.CourseEdition, error) {
	const query = `SELECT e.edition_id, c.course_id, c.course_name, e.capacity, e.exam_exam_id,
            e.coordinator_instructor_worker_person_person_id AS coordinator_id
        FROM edition e
        JOIN course c ON e.course_course_id = c.course_id
        WHERE e.edition_id = $1 AND e.coordinator_instructor_worker_person_person_id = $2`
	var edition models.CourseEdition
	if err := r.db.GetContext(ctx, &edition, query, editionID, instructorID); err != nil {
		return nil, err
	}
	return &edition, nil
}

// UnenrolledStudents returns the subset of the given student ids that are
// not enrolled in the edition's course.
func (r *GradeRepository) UnenrolledStudents(ctx context.Context, editionID int64, studentIDs []int64) ([]int64, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(studentIDs))
	args := []interface{}{editionID}
	for i, id := range studentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT sc.student_person_person_id
        FROM student_course sc
        JOIN edition e ON sc.course_course_id = e.course_course_id
        WHERE e.edition_id = $1 AND sc.student_person_person_id IN (%s)`, strings.Join(placeholders, ","))

	var enrolled []int64
	if err := r.db.SelectContext(ctx, &enrolled, query, args...); err != nil {
		return nil, fmt.Errorf("check edition enrollment: %w", err)
	}
	enrolledSet := make(map[int64]struct{}, len(enrolled))
	for _, id := range enrolled {
		enrolledSet[id] = struct{}{}
	}
	var missing []int64
	for _, id := range studentIDs {
		if _, ok := enrolledSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// SubmitBatch upserts every grade against the edition's exam and then
// recomputes each affected student's mean, all in one atomic unit. A later
// submission for the same (student, exam) pair updates the existing row.
func (r *GradeRepository) SubmitBatch(ctx context.Context, examID int64, entries []models.GradeEntry) ([]models.GradeOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submit grades: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	outcomes := make([]models.GradeOutcome, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	var affected []int64

	for _, entry := range entries {
		var resultID int64
		err := tx.GetContext(ctx, &resultID, `SELECT result_id FROM result
            WHERE student_person_person_id = $1 AND exam_exam_id = $2`, entry.StudentID, examID)
		switch err {
		case nil:
			if _, err := tx.ExecContext(ctx, `UPDATE result SET score = $1 WHERE result_id = $2`, entry.Score, resultID); err != nil {
				return nil, fmt.Errorf("update result: %w", err)
			}
			outcomes = append(outcomes, models.GradeOutcome{
				StudentID: entry.StudentID, Grade: entry.Score, ResultID: resultID, Action: models.GradeActionUpdated,
			})
		case sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx, `INSERT INTO exam_student (exam_exam_id, student_person_person_id)
                VALUES ($1, $2) ON CONFLICT DO NOTHING`, examID, entry.StudentID); err != nil {
				return nil, fmt.Errorf("register exam student: %w", err)
			}
			if err := tx.QueryRowxContext(ctx, `INSERT INTO result (student_person_person_id, exam_exam_id, score)
                VALUES ($1, $2, $3) RETURNING result_id`, entry.StudentID, examID, entry.Score).Scan(&resultID); err != nil {
				return nil, fmt.Errorf("insert result: %w", err)
			}
			outcomes = append(outcomes, models.GradeOutcome{
				StudentID: entry.StudentID, Grade: entry.Score, ResultID: resultID, Action: models.GradeActionInserted,
			})
		default:
			return nil, fmt.Errorf("find result: %w", err)
		}
		if _, ok := seen[entry.StudentID]; !ok {
			seen[entry.StudentID] = struct{}{}
			affected = append(affected, entry.StudentID)
		}
	}

	for _, studentID := range affected {
		if _, err := tx.ExecContext(ctx, `UPDATE student SET mean = (
                SELECT AVG(score) FROM result WHERE student_person_person_id = $1
            ) WHERE person_person_id = $1`, studentID); err != nil {
			return nil, fmt.Errorf("update student mean: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit grades: %w", err)
	}
	return outcomes, nil
}
