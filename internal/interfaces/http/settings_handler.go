package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/auth"
)

// SettingsHandler per user preference document
type SettingsHandler struct {
	SettingsUseCase domain.SettingsUseCase
	JWTUtil         *auth.JWTUtil
}

func NewSettingsHandler(SettingsUseCase domain.SettingsUseCase, JWTUtil *auth.JWTUtil) *SettingsHandler {
	return &SettingsHandler{
		SettingsUseCase: SettingsUseCase,
		JWTUtil:         JWTUtil,
	}
}

// HandleGetSettings stored settings merged over defaults
func (sh *SettingsHandler) HandleGetSettings(c echo.Context) error {
	claims := sh.JWTUtil.GetContextToken(c)
	settings, err := sh.SettingsUseCase.Get(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// HandleUpdateSettings partial update, unknown keys are ignored
func (sh *SettingsHandler) HandleUpdateSettings(c echo.Context) error {
	claims := sh.JWTUtil.GetContextToken(c)

	patch := make(map[string]interface{})
	if err := c.Bind(&patch); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to bind settings patch").SetTraceID(internal.Error()))
	}
	settings, err := sh.SettingsUseCase.Update(c.Request().Context(), claims.UID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
