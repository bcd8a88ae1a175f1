package http

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/auth"
	"github.com/wintutor/wintutor/internal/infrastructure/logging"
	"github.com/wintutor/wintutor/internal/player"
)

// playerCommand inbound shell message
type playerCommand struct {
	Type     string `json:"type"`
	Action   string `json:"action,omitempty"`
	TargetID string `json:"targetId,omitempty"`
	OptionID string `json:"optionId,omitempty"`
	Enabled  bool   `json:"enabled,omitempty"`
}

// playerProgressFrame pushed after completion has been persisted
type playerProgressFrame struct {
	Type   string                   `json:"type"`
	Result *domain.CompletionResult `json:"result"`
}

// PlayerHandler drives lesson sessions over a websocket. Each
// connection owns one session; opening a second connection for the
// same lesson closes the first.
type PlayerHandler struct {
	Registry        *player.Registry
	CatalogUseCase  domain.CatalogUseCase
	ProgressUseCase domain.ProgressUseCase
	SettingsUseCase domain.SettingsUseCase
	JWTUtil         *auth.JWTUtil
}

func NewPlayerHandler(
	Registry *player.Registry,
	CatalogUseCase domain.CatalogUseCase,
	ProgressUseCase domain.ProgressUseCase,
	SettingsUseCase domain.SettingsUseCase,
	JWTUtil *auth.JWTUtil,
) *PlayerHandler {
	return &PlayerHandler{
		Registry:        Registry,
		CatalogUseCase:  CatalogUseCase,
		ProgressUseCase: ProgressUseCase,
		SettingsUseCase: SettingsUseCase,
		JWTUtil:         JWTUtil,
	}
}

// connWriter serializes frame writes, session timers and the read loop
// both push to the socket
type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *connWriter) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// wsNarrator forwards narration cues to the shell, which performs the
// actual audio playback. A nil cue tells the shell to cancel in-flight
// narration.
type wsNarrator struct {
	writer *connWriter
}

func (n *wsNarrator) Speak(cue player.Cue) {
	n.writer.WriteJSON(player.Event{Kind: player.EventNarration, Narration: &cue})
}

func (n *wsNarrator) Stop() {
	n.writer.WriteJSON(player.Event{Kind: player.EventNarration})
}

// HandleSession websocket entry point, wrapped by the heartbeat helper
func (ph *PlayerHandler) HandleSession(c echo.Context, conn *websocket.Conn) error {
	claims := ph.JWTUtil.GetContextToken(c)
	ctx := c.Request().Context()
	logger := logging.ExtractLoggerFromContext(ctx)
	courseID := c.QueryParam("courseId")
	lessonID := c.QueryParam("lessonId")

	lesson, err := ph.admitLesson(ctx, claims.UID, courseID, lessonID)
	if err != nil {
		conn.WriteJSON(NewRESTStandardError(statusForAdmissionError(err), err.Error()))
		return err
	}

	settings, err := ph.SettingsUseCase.Get(ctx, claims.UID)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", zap.Error(err))
		settings = domain.DefaultSettings()
	}

	writer := &connWriter{conn: conn}
	userID := claims.UID
	session := ph.Registry.Open(userID, lesson, player.DefaultConfig(), player.Options{
		DisplayLocale:   settings.DisplayLanguage,
		NarrationLocale: settings.NarrationLanguage,
		NarratorVoice:   settings.NarratorVoice,
		VoiceOver:       settings.VoiceOverEnabled,
		Narrator:        &wsNarrator{writer: writer},
		Sink: func(e player.Event) {
			writer.WriteJSON(e)
		},
		OnComplete: func() {
			ph.persistCompletion(logger, writer, userID, courseID, lessonID)
		},
	})
	defer ph.Registry.Release(userID, courseID, lessonID, session)

	for {
		cmd := new(playerCommand)
		if err := conn.ReadJSON(cmd); err != nil {
			return nil
		}
		switch cmd.Type {
		case "action":
			session.HandleAction(cmd.Action, cmd.TargetID)
		case "advance":
			session.Advance()
		case "previous":
			session.Previous()
		case "restart":
			session.Restart()
		case "select_option":
			session.SelectOption(cmd.OptionID)
		case "next_question":
			session.NextQuestion()
		case "set_voice_over":
			session.SetVoiceOver(cmd.Enabled)
		default:
			logger.Debug("unknown player command", zap.String("command", cmd.Type))
		}
	}
}

// admitLesson resolve and authorize the requested lesson
func (ph *PlayerHandler) admitLesson(ctx context.Context, userID, courseID, lessonID string) (*domain.LessonModel, error) {
	course, err := ph.CatalogUseCase.GetCourseForUser(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	lesson := course.LessonByID(lessonID)
	if lesson == nil {
		return nil, domain.ErrNoSuchLesson
	}
	if lesson.Locked {
		return nil, domain.ErrLessonLocked
	}
	enrollment, err := ph.ProgressUseCase.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, domain.ErrNotEnrolled
	}
	return lesson, nil
}

// persistCompletion runs on its own goroutine after the machine enters
// the completed phase. The websocket may outlive the HTTP request
// context, so persistence uses a fresh one.
func (ph *PlayerHandler) persistCompletion(logger *zap.Logger, writer *connWriter, userID, courseID, lessonID string) {
	ctx := logging.SetLoggerInContext(context.Background(), logger)
	result, err := ph.ProgressUseCase.MarkLessonComplete(ctx, userID, courseID, lessonID)
	if err != nil {
		logger.Error("failed to persist lesson completion",
			zap.String("course.id", courseID),
			zap.String("lesson.id", lessonID),
			zap.Error(err))
		return
	}
	if _, err := ph.SettingsUseCase.CompleteLesson(ctx, userID, courseID+"-"+lessonID); err != nil {
		logger.Warn("failed to record completion in settings", zap.Error(err))
	}
	writer.WriteJSON(&playerProgressFrame{Type: "progress", Result: result})
}

func statusForAdmissionError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoSuchCourse), errors.Is(err, domain.ErrNoSuchLesson):
		return 404
	case errors.Is(err, domain.ErrLessonLocked), errors.Is(err, domain.ErrNotEnrolled):
		return 403
	default:
		return 500
	}
}
