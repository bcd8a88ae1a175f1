package progress

import (
	"context"
	"math"
	"time"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/uuid"
	"go.elastic.co/apm"
)

// ProgressUseCaseImpl progress store operations plus the certificate
// rule engine
type ProgressUseCaseImpl struct {
	ProgressRepository domain.ProgressRepository
	UUIDGenerator      uuid.Generator
}

var _ domain.ProgressUseCase = &ProgressUseCaseImpl{}

func NewProgressUseCase(
	ProgressRepository domain.ProgressRepository,
	UUIDGenerator uuid.Generator,
) *ProgressUseCaseImpl {
	return &ProgressUseCaseImpl{
		ProgressRepository: ProgressRepository,
		UUIDGenerator:      UUIDGenerator,
	}
}

// Enroll register the user in a course. Idempotent: a second enroll
// hits the (user, course) unique constraint and is ignored.
func (pu *ProgressUseCaseImpl) Enroll(ctx context.Context, userID, courseID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.Enroll", "service")
	defer apmSpan.End()

	id, err := pu.UUIDGenerator.Generate()
	if err != nil {
		return err
	}
	return pu.ProgressRepository.InsertEnrollment(ctx, &domain.EnrollmentModel{
		ID:       id,
		UserID:   userID,
		CourseID: courseID,
	})
}

// MarkLessonComplete upsert the completion row, recompute the course
// percentage from committed rows and issue the certificate when the
// course reaches 100 percent. The whole operation runs in one
// transaction so racing completions converge on the same counts and at
// most one certificate row survives the conflict-safe insert.
func (pu *ProgressUseCaseImpl) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) (*domain.CompletionResult, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.MarkLessonComplete", "service")
	defer apmSpan.End()

	id, err := pu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}

	tx, err := pu.ProgressRepository.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := tx.UpsertLessonProgress(ctx, &domain.LessonProgressModel{
		ID:          id,
		UserID:      userID,
		CourseID:    courseID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &now,
	}); err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	completed, err := tx.CompletedLessonIDs(ctx, userID, courseID)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	total, err := tx.CountLessons(ctx, courseID)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	percentage := percentageOf(len(completed), total)

	if percentage == 100 {
		certID, err := pu.UUIDGenerator.Generate()
		if err != nil {
			tx.Rollback(ctx)
			return nil, err
		}
		if err := tx.InsertCertificate(ctx, &domain.CertificateModel{
			ID:                 certID,
			UserID:             userID,
			CourseID:           courseID,
			ProgressPercentage: 100,
		}); err != nil {
			tx.Rollback(ctx)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &domain.CompletionResult{
		Percentage:     percentage,
		CompletedCount: len(completed),
		TotalLessons:   total,
		IsFinished:     percentage == 100,
	}, nil
}

func (pu *ProgressUseCaseImpl) GetEnrollment(ctx context.Context, userID, courseID string) (*domain.EnrollmentModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.GetEnrollment", "service")
	defer apmSpan.End()

	return pu.ProgressRepository.GetEnrollment(ctx, userID, courseID)
}

// GetCourseProgress derive the aggregate view from committed rows
func (pu *ProgressUseCaseImpl) GetCourseProgress(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.GetCourseProgress", "service")
	defer apmSpan.End()

	completed, err := pu.ProgressRepository.CompletedLessonIDs(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	total, err := pu.ProgressRepository.CountLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &domain.CourseProgress{
		CompletedLessons: completed,
		Percentage:       percentageOf(len(completed), total),
		TotalLessons:     total,
		CompletedCount:   len(completed),
	}, nil
}

func (pu *ProgressUseCaseImpl) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.GetCertificate", "service")
	defer apmSpan.End()

	return pu.ProgressRepository.GetCertificate(ctx, userID, courseID)
}

func percentageOf(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
