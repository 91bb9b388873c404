package models

// Grade actions reported back per submitted entry.
const (
	GradeActionInserted = "inserted"
	GradeActionUpdated  = "updated"
)

// Grade bounds; submissions outside [0, 20] reject the whole batch.
const (
	GradeMin = 0.0
	GradeMax = 20.0
)

// Result is a stored grade for a (student, exam) pair. Later submissions
// overwrite the score, never duplicate the row.
type Result struct {
	ID        int64   `db:"result_id" json:"result_id"`
	StudentID int64   `db:"student_person_person_id" json:"student_id"`
	ExamID    int64   `db:"exam_exam_id" json:"exam_id"`
	Score     float64 `db:"score" json:"score"`
}

// GradeEntry is one (student, score) pair within a submission batch.
type GradeEntry struct {
	StudentID int64   `json:"student_id" validate:"required"`
	Score     float64 `json:"grade"`
}

// GradeOutcome describes what happened to one submitted grade.
type GradeOutcome struct {
	StudentID int64   `json:"student_id"`
	Grade     float64 `json:"grade"`
	ResultID  int64   `json:"result_id"`
	Action    string  `json:"action"`
}
