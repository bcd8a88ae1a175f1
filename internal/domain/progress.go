package domain

import (
	"context"
	"time"
)

// EnrollmentModel one row per (user, course), created on enroll.
// There is no withdrawal path.
type EnrollmentModel struct {
	ID         string     `json:"-"`
	UserID     string     `json:"userId"`
	CourseID   string     `json:"courseId"`
	EnrolledAt *time.Time `json:"enrolledAt"`
}

// LessonProgressModel durable completion record, unique per
// (user, course, lesson). Re-completion updates the row in place.
type LessonProgressModel struct {
	ID          string     `json:"-"`
	UserID      string     `json:"userId"`
	CourseID    string     `json:"courseId"`
	LessonID    string     `json:"lessonId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

// CertificateModel issued exactly once when course progress reaches
// 100 percent
type CertificateModel struct {
	ID                 string     `json:"-"`
	UserID             string     `json:"userId"`
	CourseID           string     `json:"courseId"`
	IssuedAt           *time.Time `json:"issuedAt"`
	ProgressPercentage int        `json:"progressPercentage"`
}

// CourseProgress aggregate view of a user's standing in one course
type CourseProgress struct {
	CompletedLessons []string `json:"completedLessons"`
	Percentage       int      `json:"percentage"`
	TotalLessons     int      `json:"totalLessons"`
	CompletedCount   int      `json:"completedCount"`
}

// CompletionResult outcome of marking one lesson complete
type CompletionResult struct {
	Percentage     int  `json:"percentage"`
	CompletedCount int  `json:"completedCount"`
	TotalLessons   int  `json:"totalLessons"`
	IsFinished     bool `json:"isFinished"`
}

// ProgressRepository persistence for enrollments, lesson progress and
// certificates. All writes are idempotent upserts keyed by the natural
// unique constraint of each table.
//
// BeginTx returns a repository bound to a transaction; Commit and
// Rollback are no-ops on a pool scoped repository.
type ProgressRepository interface {
	BeginTx(ctx context.Context) (ProgressRepository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	InsertEnrollment(ctx context.Context, e *EnrollmentModel) error
	GetEnrollment(ctx context.Context, userID, courseID string) (*EnrollmentModel, error)
	UpsertLessonProgress(ctx context.Context, p *LessonProgressModel) error
	CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
	InsertCertificate(ctx context.Context, c *CertificateModel) error
	GetCertificate(ctx context.Context, userID, courseID string) (*CertificateModel, error)
}

type ProgressUseCase interface {
	Enroll(ctx context.Context, userID, courseID string) error
	MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) (*CompletionResult, error)
	GetEnrollment(ctx context.Context, userID, courseID string) (*EnrollmentModel, error)
	GetCourseProgress(ctx context.Context, userID, courseID string) (*CourseProgress, error)
	GetCertificate(ctx context.Context, userID, courseID string) (*CertificateModel, error)
}
