package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/meireles/campus-records-api/internal/models"
)

// ReportRepository serves the read-only reporting queries. Nothing here
// mutates state.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Approval threshold on the 0-20 scale.
const approvalScore = 9.5

// academicYearExpr resolves the current academic year: from September the
// year in progress, before that the previous one.
const academicYearExpr = `CASE
        WHEN EXTRACT(MONTH FROM CURRENT_DATE) >= 9 THEN EXTRACT(YEAR FROM CURRENT_DATE)
        ELSE EXTRACT(YEAR FROM CURRENT_DATE) - 1
    END`

// StudentCourses lists the courses a student is enrolled in.
func (r *ReportRepository) StudentCourses(ctx context.Context, studentID int64) ([]models.StudentCourse, error) {
	const query = `SELECT e.edition_id AS course_edition_id, c.course_name
        FROM student_course sc
        JOIN course c ON sc.course_course_id = c.course_id
        JOIN edition e ON c.course_id = e.course_course_id
        WHERE sc.student_person_person_id = $1
        ORDER BY e.edition_id DESC, c.course_name`
	var courses []models.StudentCourse
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}
	return courses, nil
}

// DegreeDetails returns per-edition statistics for a course.
func (r *ReportRepository) DegreeDetails(ctx context.Context, courseID int64) ([]models.DegreeEditionDetail, error) {
	const query = `SELECT
            c.course_id,
            c.course_name,
            e.edition_id AS course_edition_id,
            e.capacity,
            (SELECT COUNT(DISTINCT sc.student_person_person_id)
             FROM student_course sc
             WHERE sc.course_course_id = c.course_id) AS enrolled_count,
            (SELECT COUNT(DISTINCT r.student_person_person_id)
             FROM result r
             WHERE r.score >= $2 AND r.exam_exam_id = e.exam_exam_id) AS approved_count,
            e.coordinator_instructor_worker_person_person_id AS coordinator_id,
            ARRAY(
                SELECT DISTINCT ac.assistant_instructor_worker_person_person_id
                FROM assistant_class ac
                JOIN class cl ON ac.class_class_id = cl.class_id
                WHERE cl.class_id = e.class_class_id
            ) AS instructors
        FROM course c
        JOIN edition e ON c.course_id = e.course_course_id
        WHERE c.course_id = $1
        ORDER BY e.edition_id DESC`

	rows, err := r.db.QueryxContext(ctx, query, courseID, approvalScore)
	if err != nil {
		return nil, fmt.Errorf("load degree details: %w", err)
	}
	defer rows.Close()

	var details []models.DegreeEditionDetail
	for rows.Next() {
		var d models.DegreeEditionDetail
		var instructors pq.Int64Array
		if err := rows.Scan(&d.CourseID, &d.CourseName, &d.CourseEditionID, &d.Capacity,
			&d.EnrolledCount, &d.ApprovedCount, &d.CoordinatorID, &instructors); err != nil {
			return nil, fmt.Errorf("scan degree detail: %w", err)
		}
		d.Instructors = []int64(instructors)
		if d.Instructors == nil {
			d.Instructors = []int64{}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// TopStudents ranks students of the current academic year by average grade
// and returns the top n with their grades and activities.
func (r *ReportRepository) TopStudents(ctx context.Context, n int) ([]models.TopStudent, error) {
	const rankQuery = `SELECT s.person_person_id, p.name, AVG(r.score) AS average_grade
        FROM student s
        JOIN person p ON s.person_person_id = p.person_id
        JOIN result r ON s.person_person_id = r.student_person_person_id
        JOIN exam ex ON r.exam_exam_id = ex.exam_id
        WHERE EXTRACT(YEAR FROM ex.data) = ` + academicYearExpr + `
        GROUP BY s.person_person_id, p.name
        ORDER BY average_grade DESC
        LIMIT $1`

	rows, err := r.db.QueryxContext(ctx, rankQuery, n)
	if err != nil {
		return nil, fmt.Errorf("rank students: %w", err)
	}
	defer rows.Close()

	type ranked struct {
		id   int64
		name string
		avg  float64
	}
	var top []ranked
	for rows.Next() {
		var s ranked
		if err := rows.Scan(&s.id, &s.name, &s.avg); err != nil {
			return nil, fmt.Errorf("scan ranked student: %w", err)
		}
		top = append(top, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	students := make([]models.TopStudent, 0, len(top))
	for _, s := range top {
		grades, err := r.studentGrades(ctx, s.id)
		if err != nil {
			return nil, err
		}
		activities, err := r.studentActivities(ctx, s.id)
		if err != nil {
			return nil, err
		}
		students = append(students, models.TopStudent{
			StudentName:  s.name,
			AverageGrade: s.avg,
			Grades:       grades,
			Activities:   activities,
		})
	}
	return students, nil
}

func (r *ReportRepository) studentGrades(ctx context.Context, studentID int64) ([]models.TopStudentGrade, error) {
	const query = `SELECT e.edition_id, c.course_name, r.score, ex.data
        FROM result r
        JOIN exam ex ON r.exam_exam_id = ex.exam_id
        JOIN edition e ON ex.exam_id = e.exam_exam_id
        JOIN course c ON e.course_course_id = c.course_id
        WHERE r.student_person_person_id = $1
        ORDER BY ex.data DESC`
	rows, err := r.db.QueryxContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student grades: %w", err)
	}
	defer rows.Close()

	grades := []models.TopStudentGrade{}
	for rows.Next() {
		var g models.TopStudentGrade
		if err := rows.Scan(&g.CourseEditionID, &g.CourseName, &g.Score, &g.ExamDate); err != nil {
			return nil, fmt.Errorf("scan student grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func (r *ReportRepository) studentActivities(ctx context.Context, studentID int64) ([]int64, error) {
	const query = `SELECT extraactivities_activity_id FROM extraactivities_student
        WHERE student_person_person_id = $1 ORDER BY extraactivities_activity_id`
	activities := []int64{}
	if err := r.db.SelectContext(ctx, &activities, query, studentID); err != nil {
		return nil, fmt.Errorf("load student activities: %w", err)
	}
	return activities, nil
}

// TopByDistrict returns the best-ranked student of each district.
func (r *ReportRepository) TopByDistrict(ctx context.Context) ([]models.DistrictTopStudent, error) {
	const query = `WITH student_averages AS (
            SELECT s.person_person_id AS student_id,
                p.address AS district,
                AVG(r.score) AS average_grade,
                RANK() OVER (PARTITION BY p.address ORDER BY AVG(r.score) DESC) AS district_rank
            FROM student s
            JOIN person p ON s.person_person_id = p.person_id
            JOIN result r ON s.person_person_id = r.student_person_person_id
            GROUP BY s.person_person_id, p.address
        )
        SELECT student_id, district, ROUND(average_grade::numeric, 2) AS average_grade
        FROM student_averages
        WHERE district_rank = 1
        ORDER BY average_grade DESC`
	var rows []models.DistrictTopStudent
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("top by district: %w", err)
	}
	return rows, nil
}

// MonthlyReport returns, for each month of the current academic year, the
// course edition with the most approvals.
func (r *ReportRepository) MonthlyReport(ctx context.Context) ([]models.MonthlyReportRow, error) {
	const query = `WITH monthly_course_stats AS (
            SELECT TO_CHAR(ex.data, 'YYYY-MM') AS month,
                e.edition_id AS course_edition_id,
                c.course_name AS course_edition_name,
                COUNT(DISTINCT r.student_person_person_id) AS evaluated,
                COUNT(DISTINCT CASE WHEN r.score >= $1 THEN r.student_person_person_id END) AS approved,
                ROW_NUMBER() OVER (
                    PARTITION BY TO_CHAR(ex.data, 'YYYY-MM')
                    ORDER BY COUNT(DISTINCT CASE WHEN r.score >= $1 THEN r.student_person_person_id END) DESC
                ) AS rank
            FROM result r
            JOIN exam ex ON r.exam_exam_id = ex.exam_id
            JOIN edition e ON ex.exam_id = e.exam_exam_id
            JOIN course c ON e.course_course_id = c.course_id
            WHERE EXTRACT(YEAR FROM ex.data) = ` + academicYearExpr + `
            GROUP BY month, e.edition_id, c.course_name
        )
        SELECT month, course_edition_id, course_edition_name, approved, evaluated
        FROM monthly_course_stats
        WHERE rank = 1
        ORDER BY month DESC`
	var rows []models.MonthlyReportRow
	if err := r.db.SelectContext(ctx, &rows, query, approvalScore); err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	return rows, nil
}
