package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/meireles/campus-records-api/internal/models"
)

// PersonRepository handles persistence of persons and role memberships.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs the repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create persists a new person and fills in the generated id.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	const query = `INSERT INTO person (name, age, gender, nif, email, address, phone, password)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING person_id`
	if err := r.db.QueryRowxContext(ctx, query,
		person.Name, person.Age, person.Gender, person.NIF,
		person.Email, person.Address, person.Phone, person.Password,
	).Scan(&person.ID); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// List returns every person ordered by id, without password material.
func (r *PersonRepository) List(ctx context.Context) ([]models.Person, error) {
	const query = `SELECT person_id, name, age, gender, nif, email, address, phone, '' AS password
        FROM person ORDER BY person_id`
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

// FindByEmail returns the person matching the login identifier.
func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	const query = `SELECT person_id, name, age, gender, nif, email, address, phone, password
        FROM person WHERE email = $1 LIMIT 1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, email); err != nil {
		return nil, err
	}
	return &person, nil
}

// Exists reports whether a person row exists.
func (r *PersonRepository) Exists(ctx context.Context, personID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM person WHERE person_id = $1`, personID)
}

// StudentExists reports whether the person holds a student membership.
func (r *PersonRepository) StudentExists(ctx context.Context, personID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM student WHERE person_person_id = $1`, personID)
}

// InstructorExists reports whether the person holds an instructor membership.
func (r *PersonRepository) InstructorExists(ctx context.Context, personID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM instructor WHERE worker_person_person_id = $1`, personID)
}

// StaffExists reports whether the person holds a staff membership.
func (r *PersonRepository) StaffExists(ctx context.Context, personID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM staff WHERE worker_person_person_id = $1`, personID)
}

func (r *PersonRepository) exists(ctx context.Context, query string, personID int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, query, personID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("existence probe: %w", err)
	}
	return true, nil
}

// StudentMean returns the student's current grade average.
func (r *PersonRepository) StudentMean(ctx context.Context, personID int64) (float64, error) {
	var mean float64
	if err := r.db.GetContext(ctx, &mean, `SELECT COALESCE(mean, 0) FROM student WHERE person_person_id = $1`, personID); err != nil {
		return 0, fmt.Errorf("load student mean: %w", err)
	}
	return mean, nil
}

// ResolveRole probes the role tables in precedence order and returns the
// highest-precedence membership, or RoleUnknown when none is found.
func (r *PersonRepository) ResolveRole(ctx context.Context, personID int64) (models.Role, error) {
	probes := []struct {
		role  models.Role
		check func(context.Context, int64) (bool, error)
	}{
		{models.RoleStudent, r.StudentExists},
		{models.RoleInstructor, r.InstructorExists},
		{models.RoleStaff, r.StaffExists},
	}
	for _, probe := range probes {
		ok, err := probe.check(ctx, personID)
		if err != nil {
			return models.RoleUnknown, err
		}
		if ok {
			return probe.role, nil
		}
	}
	return models.RoleUnknown, nil
}

// CreateStudent registers a student membership. When majorID is non-nil a
// fees account and an Active major enrollment are created in the same
// transaction.
func (r *PersonRepository) CreateStudent(ctx context.Context, student *models.Student, majorID *int64, tuitionFee float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertStudent = `INSERT INTO student (person_person_id, enrolment_date, mean)
        VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertStudent, student.PersonID, student.EnrolmentDate, student.Mean); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if majorID != nil {
		feesAccountID, err := createFeesAccount(ctx, tx)
		if err != nil {
			return err
		}
		const insertMajor = `INSERT INTO major_info (student_person_person_id, major_major_id, fees, status, fees_account_fees_account_id)
            VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, insertMajor, student.PersonID, *majorID, tuitionFee, models.MajorStatusActive, feesAccountID); err != nil {
			return fmt.Errorf("create major enrollment: %w", err)
		}
	}

	return tx.Commit()
}

// CreateStaff registers a worker and staff membership atomically.
func (r *PersonRepository) CreateStaff(ctx context.Context, worker *models.Worker) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create staff: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertWorker(ctx, tx, worker); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO staff (worker_person_person_id) VALUES ($1)`, worker.PersonID); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}

	return tx.Commit()
}

// CreateInstructor registers a worker and instructor membership atomically.
func (r *PersonRepository) CreateInstructor(ctx context.Context, worker *models.Worker, instructor *models.Instructor) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create instructor: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertWorker(ctx, tx, worker); err != nil {
		return err
	}
	const insertInstructor = `INSERT INTO instructor (worker_person_person_id, major, department_department_id)
        VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertInstructor, instructor.PersonID, instructor.Major, instructor.DepartmentID); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}

	return tx.Commit()
}

func insertWorker(ctx context.Context, tx *sqlx.Tx, worker *models.Worker) error {
	const query = `INSERT INTO worker (person_person_id, salary, started_working)
        VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, worker.PersonID, worker.Salary, worker.StartedWorking); err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

// FirstDepartmentID returns the lowest department id, used when instructor
// registration does not name a department.
func (r *PersonRepository) FirstDepartmentID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.GetContext(ctx, &id, `SELECT department_id FROM department ORDER BY department_id LIMIT 1`); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteCascade removes a person and every dependent row in one
// transaction, children before parents. The schema declares no ON DELETE
// CASCADE, so the ordering here is the invariant.
func (r *PersonRepository) DeleteCascade(ctx context.Context, personID int64, role models.Role) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	childDeletes := []string{
		`DELETE FROM exam_student WHERE student_person_person_id = $1`,
		`DELETE FROM student_course WHERE student_person_person_id = $1`,
		`DELETE FROM extraactivities_student WHERE student_person_person_id = $1`,
		`DELETE FROM attendance WHERE student_person_person_id = $1`,
		`DELETE FROM result WHERE student_person_person_id = $1`,
		`DELETE FROM major_info WHERE student_person_person_id = $1`,
		`DELETE FROM extraactivities_fees WHERE student_person_person_id = $1`,
	}
	for _, stmt := range childDeletes {
		if _, err := tx.ExecContext(ctx, stmt, personID); err != nil {
			return fmt.Errorf("delete person dependents: %w", err)
		}
	}

	switch role {
	case models.RoleStudent:
		if _, err := tx.ExecContext(ctx, `DELETE FROM student WHERE person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
	case models.RoleInstructor, models.RoleStaff:
		// An instructor may coordinate editions or assist classes; those
		// references must go before the membership row.
		if _, err := tx.ExecContext(ctx, `UPDATE edition SET coordinator_instructor_worker_person_person_id = NULL
            WHERE coordinator_instructor_worker_person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("clear coordinator: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM assistant_class WHERE assistant_instructor_worker_person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("delete assistant classes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM assistant WHERE instructor_worker_person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("delete assistant: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM instructor WHERE worker_person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("delete instructor: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM staff WHERE worker_person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("delete staff: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM worker WHERE person_person_id = $1`, personID); err != nil {
			return fmt.Errorf("delete worker: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM person WHERE person_id = $1`, personID); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	return tx.Commit()
}
