package models

import "time"

// StudentCourse is one course a student is enrolled in, shown in the
// student detail view.
type StudentCourse struct {
	CourseEditionID int64  `db:"course_edition_id" json:"course_edition_id"`
	CourseName      string `db:"course_name" json:"course_name"`
}

// DegreeEditionDetail summarises one edition of a degree's course.
type DegreeEditionDetail struct {
	CourseID        int64   `db:"course_id" json:"course_id"`
	CourseName      string  `db:"course_name" json:"course_name"`
	CourseEditionID int64   `db:"course_edition_id" json:"course_edition_id"`
	Capacity        int     `db:"capacity" json:"capacity"`
	EnrolledCount   int     `db:"enrolled_count" json:"enrolled_count"`
	ApprovedCount   int     `db:"approved_count" json:"approved_count"`
	CoordinatorID   *int64  `db:"coordinator_id" json:"coordinator_id"`
	Instructors     []int64 `db:"-" json:"instructors"`
}

// TopStudentGrade is one grade entry inside a top-students report row.
type TopStudentGrade struct {
	CourseEditionID int64     `json:"course_edition_id"`
	CourseName      string    `json:"course_name"`
	Score           float64   `json:"score"`
	ExamDate        time.Time `json:"exam_date"`
}

// TopStudent is a row of the top-3 ranking for the current academic year.
type TopStudent struct {
	StudentName  string            `json:"student_name"`
	AverageGrade float64           `json:"average_grade"`
	Grades       []TopStudentGrade `json:"grades"`
	Activities   []int64           `json:"activities"`
}

// DistrictTopStudent is the best-ranked student of one district.
type DistrictTopStudent struct {
	StudentID    int64   `db:"student_id" json:"student_id"`
	District     string  `db:"district" json:"district"`
	AverageGrade float64 `db:"average_grade" json:"average_grade"`
}

// MonthlyReportRow is the course edition with most approvals in a month.
type MonthlyReportRow struct {
	Month             string `db:"month" json:"month"`
	CourseEditionID   int64  `db:"course_edition_id" json:"course_edition_id"`
	CourseEditionName string `db:"course_edition_name" json:"course_edition_name"`
	Approved          int    `db:"approved" json:"approved"`
	Evaluated         int    `db:"evaluated" json:"evaluated"`
}
