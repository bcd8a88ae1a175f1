package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/auth"
	"github.com/wintutor/wintutor/internal/infrastructure/logging"
)

// ProgressHandler enrollment, lesson completion and certificates
type ProgressHandler struct {
	ProgressUseCase domain.ProgressUseCase
	CatalogUseCase  domain.CatalogUseCase
	SettingsUseCase domain.SettingsUseCase
	JWTUtil         *auth.JWTUtil
}

func NewProgressHandler(
	ProgressUseCase domain.ProgressUseCase,
	CatalogUseCase domain.CatalogUseCase,
	SettingsUseCase domain.SettingsUseCase,
	JWTUtil *auth.JWTUtil,
) *ProgressHandler {
	return &ProgressHandler{
		ProgressUseCase: ProgressUseCase,
		CatalogUseCase:  CatalogUseCase,
		SettingsUseCase: SettingsUseCase,
		JWTUtil:         JWTUtil,
	}
}

// HandleEnroll idempotent enrollment, repeated calls succeed without a
// second row
func (ph *ProgressHandler) HandleEnroll(c echo.Context) error {
	claims := ph.JWTUtil.GetContextToken(c)
	ctx := c.Request().Context()
	courseID := c.Param("id")

	if _, err := ph.CatalogUseCase.GetCourse(ctx, courseID); err != nil {
		if errors.Is(err, domain.ErrNoSuchCourse) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	if err := ph.ProgressUseCase.Enroll(ctx, claims.UID, courseID); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// HandleCompleteLesson persist a lesson completion, recompute the
// course percentage and issue the certificate on the transition to 100
func (ph *ProgressHandler) HandleCompleteLesson(c echo.Context) error {
	claims := ph.JWTUtil.GetContextToken(c)
	ctx := c.Request().Context()
	courseID := c.Param("id")
	lessonID := c.Param("lessonId")

	course, err := ph.CatalogUseCase.GetCourseForUser(ctx, claims.UID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchCourse) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	lesson := course.LessonByID(lessonID)
	if lesson == nil {
		return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, domain.ErrNoSuchLesson.Error()))
	}
	if lesson.Locked {
		return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, domain.ErrLessonLocked.Error()))
	}
	enrollment, err := ph.ProgressUseCase.GetEnrollment(ctx, claims.UID, courseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, domain.ErrNotEnrolled.Error()))
	}

	result, err := ph.ProgressUseCase.MarkLessonComplete(ctx, claims.UID, courseID, lessonID)
	if err != nil {
		return err
	}
	// settings keep a client-side completion list keyed course-lesson,
	// failure here must not fail the completion
	if _, err := ph.SettingsUseCase.CompleteLesson(ctx, claims.UID, courseID+"-"+lessonID); err != nil {
		logging.ExtractLoggerFromContext(ctx).Warn("failed to record completion in settings",
			zap.String("course.id", courseID),
			zap.String("lesson.id", lessonID),
			zap.Error(err))
	}
	return c.JSON(http.StatusOK, result)
}

// HandleGetProgress aggregate progress for one course
func (ph *ProgressHandler) HandleGetProgress(c echo.Context) error {
	claims := ph.JWTUtil.GetContextToken(c)
	progress, err := ph.ProgressUseCase.GetCourseProgress(c.Request().Context(), claims.UID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progress)
}

// HandleGetCertificate the course certificate, 404 until earned
func (ph *ProgressHandler) HandleGetCertificate(c echo.Context) error {
	claims := ph.JWTUtil.GetContextToken(c)
	cert, err := ph.ProgressUseCase.GetCertificate(c.Request().Context(), claims.UID, c.Param("id"))
	if err != nil {
		return err
	}
	if cert == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, cert)
}
