package domain

import "errors"

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username or email is already registered")

// ErrUserTooManyRetry login attempts exhausted
var ErrUserTooManyRetry = errors.New("Too many login attempts, retry later")

// ErrNoSuchCourse the catalog has no course with the given id
var ErrNoSuchCourse = errors.New("No such course")

// ErrNoSuchLesson the course has no lesson with the given id
var ErrNoSuchLesson = errors.New("No such lesson in course")

// ErrNotEnrolled the user has not enrolled in the course
var ErrNotEnrolled = errors.New("Not enrolled in course")

// ErrLessonLocked the prior lesson has not been completed yet
var ErrLessonLocked = errors.New("Lesson is locked")
