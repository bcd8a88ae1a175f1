package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wintutor/wintutor/internal/infrastructure/auth"
	"github.com/wintutor/wintutor/internal/infrastructure/validate"
	"github.com/wintutor/wintutor/internal/narration"
)

// NarrationHandler on-demand speech synthesis. Narration is best
// effort: synthesis failures degrade to 503 and the lesson carries on
// without audio.
type NarrationHandler struct {
	Synthesizer narration.Synthesizer
	JWTUtil     *auth.JWTUtil
	Validator   validate.Validator
}

func NewNarrationHandler(Synthesizer narration.Synthesizer, JWTUtil *auth.JWTUtil, Validator validate.Validator) *NarrationHandler {
	return &NarrationHandler{
		Synthesizer: Synthesizer,
		JWTUtil:     JWTUtil,
		Validator:   Validator,
	}
}

// HandleNarrate synthesize the given text, MP3 response
func (nh *NarrationHandler) HandleNarrate(c echo.Context) error {
	text := c.QueryParam("text")
	lang := c.QueryParam("lang")
	voice := c.QueryParam("voice")

	if errs := nh.Validator.Empty("text", text); errs != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", errs))
	}

	audio, contentType, err := nh.Synthesizer.Synthesize(c.Request().Context(), text, lang, voice)
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.Blob(http.StatusOK, contentType, audio)
}
