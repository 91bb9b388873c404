package repository

import "errors"

// Sentinel errors surfaced by transactional guards. Services translate
// them into the caller-facing taxonomy.
var (
	// ErrActiveEnrollment is returned when the in-transaction recheck finds
	// an Active major enrollment for the student.
	ErrActiveEnrollment = errors.New("active major enrollment exists")

	// ErrAlreadyEnrolled is returned when the in-transaction recheck finds
	// an existing enrollment for the same course or activity.
	ErrAlreadyEnrolled = errors.New("already enrolled")

	// ErrCapacityReached is returned when the seat count taken under the
	// edition row lock is at or above capacity.
	ErrCapacityReached = errors.New("capacity reached")
)
