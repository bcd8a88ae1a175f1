package http

import (
	"github.com/labstack/echo/v4"

	infra "github.com/wintutor/wintutor/internal/infrastructure"
)

func v1Endpoint(
	websocket *infra.Websocket,
	UserHandler *UserHandler,
	CourseHandler *CourseHandler,
	ProgressHandler *ProgressHandler,
	SettingsHandler *SettingsHandler,
	NarrationHandler *NarrationHandler,
	PlayerHandler *PlayerHandler,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/login", UserHandler.HandleSignIn, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"GET", "/exists", UserHandler.HandleUserExists, nil},
				},
			},
			{
				prefix:      "/courses",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "", CourseHandler.HandleListCourses, nil},
					{"GET", "/:id", CourseHandler.HandleGetCourse, nil},
					{"POST", "/:id/enroll", ProgressHandler.HandleEnroll, nil},
					{"GET", "/:id/progress", ProgressHandler.HandleGetProgress, nil},
					{"GET", "/:id/certificate", ProgressHandler.HandleGetCertificate, nil},
					{"POST", "/:id/lessons/:lessonId/complete", ProgressHandler.HandleCompleteLesson, nil},
				},
			},
			{
				prefix:      "/settings",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "", SettingsHandler.HandleGetSettings, nil},
					{"PUT", "", SettingsHandler.HandleUpdateSettings, nil},
				},
			},
			{
				prefix:      "/narration",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware},
				routes: []*route{
					{"GET", "", NarrationHandler.HandleNarrate, nil},
				},
			},
			{
				prefix:      "/player",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware},
				routes: []*route{
					{"GET", "/ws", websocket.WithHeartbeat(PlayerHandler.HandleSession), nil},
				},
			},
		},
	}
}
