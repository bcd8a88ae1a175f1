package catalog

import (
	"context"

	"go.elastic.co/apm"

	"github.com/wintutor/wintutor/internal/domain"
)

type CatalogUseCaseImpl struct {
	Repo     domain.CatalogRepository
	Progress domain.ProgressRepository
}

var _ domain.CatalogUseCase = &CatalogUseCaseImpl{}

func NewCatalogUseCase(repo domain.CatalogRepository, progress domain.ProgressRepository) *CatalogUseCaseImpl {
	return &CatalogUseCaseImpl{Repo: repo, Progress: progress}
}

func (uc *CatalogUseCaseImpl) ListCourses(ctx context.Context) ([]*domain.CourseModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "ListCourses", "custom")
	defer apmSpan.End()

	return uc.Repo.GetAllCourses(ctx)
}

func (uc *CatalogUseCaseImpl) GetCourse(ctx context.Context, id string) (*domain.CourseModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "GetCourse", "custom")
	defer apmSpan.End()

	course, err := uc.Repo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrNoSuchCourse
	}
	return course, nil
}

// GetCourseForUser fetch a course and mark each lesson locked or
// unlocked against the user's completed set
func (uc *CatalogUseCaseImpl) GetCourseForUser(ctx context.Context, userID, courseID string) (*domain.CourseModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "GetCourseForUser", "custom")
	defer apmSpan.End()

	course, err := uc.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := uc.Progress.CompletedLessonIDs(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	ApplyLocking(course.Lessons, completed)
	return course, nil
}

// ApplyLocking set the Locked flag on each lesson. The first lesson is
// always open; every other lesson stays locked until its predecessor
// in course order has been completed.
func ApplyLocking(lessons []*domain.LessonModel, completedIDs []string) {
	completedSet := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}
	for i, lesson := range lessons {
		lesson.Locked = i > 0 && !completedSet[lessons[i-1].ID]
	}
}
