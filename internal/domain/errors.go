package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrPhoneExists  = errors.New("phone number already registered")
	ErrUserInactive = errors.New("user is inactive")

	ErrBatchNotFound    = errors.New("batch not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrSyllabusNotFound = errors.New("syllabus not found")
	ErrSyllabusExists   = errors.New("syllabus name already exists")
	ErrScheduleNotFound = errors.New("class schedule not found")
	ErrScheduleExists   = errors.New("schedule for this day already exists for this batch")
	ErrSyllabusMissing  = errors.New("one or more syllabus not found")

	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in this batch")

	// ErrNotAuthenticated means the token could not be verified at all;
	// ErrNotAuthorized means the identity is valid but lacks room permission.
	// The wire-visible close code is the same for both.
	ErrNotAuthenticated = errors.New("authentication failed")
	ErrNotAuthorized    = errors.New("not authorized for this room")
)
