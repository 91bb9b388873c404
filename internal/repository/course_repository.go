package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/meireles/campus-records-api/internal/models"
)

// CourseRepository handles course editions and their enrollments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindEdition returns an edition with its course context.
func (r *CourseRepository) FindEdition(ctx context.Context, editionID int64) (*models.CourseEdition, error) {
	const query = `SELECT e.edition_id, c.course_id, c.course_name, e.capacity, e.exam_exam_id,
            e.coordinator_instructor_worker_person_person_id AS coordinator_id
        FROM edition e
        JOIN course c ON e.course_course_id = c.course_id
        WHERE e.edition_id = $1`
	var edition models.CourseEdition
	if err := r.db.GetContext(ctx, &edition, query, editionID); err != nil {
		return nil, err
	}
	return &edition, nil
}

// IsEnrolledInCourse reports whether the student already holds a seat in
// the course. Uniqueness is per course, not per edition.
func (r *CourseRepository) IsEnrolledInCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	const query = `SELECT COUNT(*) FROM student_course
        WHERE student_person_person_id = $1 AND course_course_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, courseID); err != nil {
		return false, fmt.Errorf("check course enrollment: %w", err)
	}
	return count > 0, nil
}

// InvalidClassIDs returns the supplied class ids that do not exist.
func (r *CourseRepository) InvalidClassIDs(ctx context.Context, classIDs []int64) ([]int64, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(classIDs))
	args := make([]interface{}, len(classIDs))
	for i, id := range classIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT class_id FROM class WHERE class_id IN (%s)`, strings.Join(placeholders, ","))
	var found []int64
	if err := r.db.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, fmt.Errorf("validate classes: %w", err)
	}
	valid := make(map[int64]struct{}, len(found))
	for _, id := range found {
		valid[id] = struct{}{}
	}
	var invalid []int64
	for _, id := range classIDs {
		if _, ok := valid[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	return invalid, nil
}

// Enroll takes a seat in the course and records one attendance row per
// class, all in one atomic unit. The edition row is locked first so the
// capacity count and the insert serialize; two concurrent enrollments can
// no longer jointly overshoot the capacity.
func (r *CourseRepository) Enroll(ctx context.Context, studentID int64, edition *models.CourseEdition, classIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course enroll: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var capacity int
	if err := tx.GetContext(ctx, &capacity, `SELECT capacity FROM edition WHERE edition_id = $1 FOR UPDATE`, edition.EditionID); err != nil {
		return fmt.Errorf("lock edition: %w", err)
	}

	var enrolled int
	if err := tx.GetContext(ctx, &enrolled, `SELECT COUNT(*) FROM student_course WHERE course_course_id = $1`, edition.CourseID); err != nil {
		return fmt.Errorf("count enrollments: %w", err)
	}
	if enrolled >= capacity {
		return ErrCapacityReached
	}

	var taken int
	if err := tx.GetContext(ctx, &taken, `SELECT COUNT(*) FROM student_course
        WHERE student_person_person_id = $1 AND course_course_id = $2`, studentID, edition.CourseID); err != nil {
		return fmt.Errorf("recheck course enrollment: %w", err)
	}
	if taken > 0 {
		return ErrAlreadyEnrolled
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO student_course (student_person_person_id, course_course_id)
        VALUES ($1, $2)`, studentID, edition.CourseID); err != nil {
		return fmt.Errorf("create course enrollment: %w", err)
	}

	for _, classID := range classIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO attendance (student_person_person_id, class_class_id, present)
            VALUES ($1, $2, false)`, studentID, classID); err != nil {
			return fmt.Errorf("create attendance: %w", err)
		}
	}

	return tx.Commit()
}
