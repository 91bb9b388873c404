package models

import "time"

// Person is the identity record shared by every role.
type Person struct {
	ID       int64   `db:"person_id" json:"person_id"`
	Name     string  `db:"name" json:"name"`
	Age      int     `db:"age" json:"age"`
	Gender   string  `db:"gender" json:"gender"`
	NIF      string  `db:"nif" json:"nif"`
	Email    *string `db:"email" json:"email"`
	Address  string  `db:"address" json:"address"`
	Phone    string  `db:"phone" json:"phone"`
	Password string  `db:"password" json:"-"`
}

// Student extends a Person with enrollment data.
type Student struct {
	PersonID      int64     `db:"person_person_id" json:"person_id"`
	EnrolmentDate time.Time `db:"enrolment_date" json:"enrolment_date"`
	Mean          float64   `db:"mean" json:"mean"`
}

// Worker extends a Person with employment data; instructors and staff
// are both workers.
type Worker struct {
	PersonID       int64     `db:"person_person_id" json:"person_id"`
	Salary         float64   `db:"salary" json:"salary"`
	StartedWorking time.Time `db:"started_working" json:"started_working"`
}

// Instructor is a worker attached to a department.
type Instructor struct {
	PersonID     int64  `db:"worker_person_person_id" json:"person_id"`
	Major        string `db:"major" json:"major"`
	DepartmentID int64  `db:"department_department_id" json:"department_id"`
}

// Department owns instructors.
type Department struct {
	ID   int64  `db:"department_id" json:"department_id"`
	Name string `db:"name" json:"name"`
}
