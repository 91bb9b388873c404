package models

// Role is resolved once at login time by probing the role tables in
// precedence order: student, then instructor, then staff.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleStaff      Role = "staff"
	RoleUnknown    Role = "unknown"
)
