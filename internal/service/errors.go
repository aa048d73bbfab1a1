package service

import "errors"

// Application-specific errors returned by the services.
// All of these are recoverable by the caller and map to 4xx responses.
var (
	ErrNotAdmin           = errors.New("admin role required")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in this course")
	ErrStudentConflict    = errors.New("student name conflicts with an existing account")
	ErrInvalidAmount      = errors.New("payment amount must not be negative")
	ErrInvalidStudentName = errors.New("student name must not be empty")
	ErrUsernameTaken      = errors.New("username already exists")
)
