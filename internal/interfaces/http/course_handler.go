package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/auth"
)

// CourseHandler read only catalog operations
type CourseHandler struct {
	CatalogUseCase domain.CatalogUseCase
	JWTUtil        *auth.JWTUtil
}

func NewCourseHandler(CatalogUseCase domain.CatalogUseCase, JWTUtil *auth.JWTUtil) *CourseHandler {
	return &CourseHandler{
		CatalogUseCase: CatalogUseCase,
		JWTUtil:        JWTUtil,
	}
}

// HandleListCourses course overviews without lesson content
func (ch *CourseHandler) HandleListCourses(c echo.Context) error {
	courses, err := ch.CatalogUseCase.ListCourses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// HandleGetCourse one course with its lessons, each flagged locked or
// unlocked for the requesting user
func (ch *CourseHandler) HandleGetCourse(c echo.Context) error {
	claims := ch.JWTUtil.GetContextToken(c)
	course, err := ch.CatalogUseCase.GetCourseForUser(c.Request().Context(), claims.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchCourse) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, course)
}
