package models

// Major enrollment status values. At most one Active row may exist per
// student at any time.
const (
	MajorStatusActive   = "Active"
	MajorStatusInactive = "Inactive"
)

// Major is a degree programme.
type Major struct {
	ID   int64  `db:"major_id" json:"major_id"`
	Name string `db:"major_name" json:"major_name"`
}

// MajorEnrollment links a student to a major with its tuition fee and a
// dedicated fees account.
type MajorEnrollment struct {
	StudentID     int64   `db:"student_person_person_id" json:"student_id"`
	MajorID       int64   `db:"major_major_id" json:"major_id"`
	MajorName     string  `db:"major_name" json:"major_name"`
	Fees          float64 `db:"fees" json:"fees"`
	Status        string  `db:"status" json:"status"`
	FeesAccountID int64   `db:"fees_account_fees_account_id" json:"fees_account_id"`
}

// FeesAccount accumulates payments made against a fee obligation. One
// account is created per enrollment; accounts are never shared.
type FeesAccount struct {
	ID              int64   `db:"fees_account_id" json:"fees_account_id"`
	ValuesAcumulate float64 `db:"values_acumulate" json:"values_acumulate"`
}

// CourseEdition is one scheduled offering of a course.
type CourseEdition struct {
	EditionID     int64  `db:"edition_id" json:"course_edition_id"`
	CourseID      int64  `db:"course_id" json:"course_id"`
	CourseName    string `db:"course_name" json:"course_name"`
	Capacity      int    `db:"capacity" json:"capacity"`
	ExamID        int64  `db:"exam_exam_id" json:"exam_id"`
	CoordinatorID *int64 `db:"coordinator_id" json:"coordinator_id"`
}

// Activity is an extracurricular activity a student may join at most once.
type Activity struct {
	ID   int64  `db:"activity_id" json:"activity_id"`
	Name string `db:"name" json:"name"`
}

// ActivityFee status values.
const ActivityFeeStatusPending = "Pending"
