package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/auth"
	"github.com/wintutor/wintutor/internal/infrastructure/logging"
)

type fakeCatalogUseCase struct {
	course *domain.CourseModel
}

func (f *fakeCatalogUseCase) ListCourses(ctx context.Context) ([]*domain.CourseModel, error) {
	return []*domain.CourseModel{f.course}, nil
}

func (f *fakeCatalogUseCase) GetCourse(ctx context.Context, id string) (*domain.CourseModel, error) {
	if f.course == nil || f.course.ID != id {
		return nil, domain.ErrNoSuchCourse
	}
	return f.course, nil
}

func (f *fakeCatalogUseCase) GetCourseForUser(ctx context.Context, userID, courseID string) (*domain.CourseModel, error) {
	return f.GetCourse(ctx, courseID)
}

type fakeProgressUseCase struct {
	enrolled bool
	result   *domain.CompletionResult
}

func (f *fakeProgressUseCase) Enroll(ctx context.Context, userID, courseID string) error {
	f.enrolled = true
	return nil
}

func (f *fakeProgressUseCase) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) (*domain.CompletionResult, error) {
	return f.result, nil
}

func (f *fakeProgressUseCase) GetEnrollment(ctx context.Context, userID, courseID string) (*domain.EnrollmentModel, error) {
	if !f.enrolled {
		return nil, nil
	}
	return &domain.EnrollmentModel{UserID: userID, CourseID: courseID}, nil
}

func (f *fakeProgressUseCase) GetCourseProgress(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	return &domain.CourseProgress{}, nil
}

func (f *fakeProgressUseCase) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateModel, error) {
	return nil, nil
}

type failingSettingsUseCase struct{}

func (failingSettingsUseCase) Get(ctx context.Context, userID string) (*domain.SettingsModel, error) {
	return domain.DefaultSettings(), nil
}

func (failingSettingsUseCase) Update(ctx context.Context, userID string, patch map[string]interface{}) (*domain.SettingsModel, error) {
	return domain.DefaultSettings(), nil
}

func (failingSettingsUseCase) CompleteLesson(ctx context.Context, userID, lessonID string) (*domain.SettingsModel, error) {
	return nil, errors.New("kv store unavailable")
}

func TestCompleteLessonSucceedsWhenSettingsFail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	jwtUtil := auth.NewJWTUtil("HS256", "secret", "token", time.Hour)
	handler := NewProgressHandler(
		&fakeProgressUseCase{
			enrolled: true,
			result:   &domain.CompletionResult{Percentage: 50, CompletedCount: 1, TotalLessons: 2},
		},
		&fakeCatalogUseCase{course: &domain.CourseModel{
			ID:      "windows-11",
			Lessons: []*domain.LessonModel{{ID: "navigating-desktop", CourseID: "windows-11"}},
		}},
		failingSettingsUseCase{},
		jwtUtil,
	)

	app := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(logging.SetLoggerInContext(req.Context(), zap.New(core)))
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)
	c.SetParamNames("id", "lessonId")
	c.SetParamValues("windows-11", "navigating-desktop")
	jwtUtil.SetContextToken(c, &auth.AppTokenClaims{UID: "u1"})

	if err := handler.HandleCompleteLesson(c); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("settings failure must not fail the completion, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"percentage":50`) {
		t.Fatalf("expected the completion result, got %s", rec.Body.String())
	}
	if logs.FilterMessage("failed to record completion in settings").Len() != 1 {
		t.Fatal("the settings failure must be logged")
	}
}
