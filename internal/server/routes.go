package server

import (
	"github.com/labstack/echo/v4"

	"example.com/budget-calendar/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	calendarHandler *handlers.CalendarHandler,
	challengeHandler *handlers.ChallengeHandler,
	progressHandler *handlers.ProgressHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	authMiddleware echo.MiddlewareFunc,
	adminMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	engineRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	calendars := api.Group("/calendar", authMiddleware)
	calendars.POST("/generate", calendarHandler.Generate, engineRateLimiter)
	calendars.GET("/:year/:month", calendarHandler.Get)
	calendars.PATCH("/:year/:month/days/:date", calendarHandler.UpdateDay)
	calendars.DELETE("/:year/:month", calendarHandler.Clear)
	calendars.GET("/:year/:month/export/json", calendarHandler.ExportJSON)
	calendars.GET("/:year/:month/export/csv", calendarHandler.ExportCSV)

	challenges := api.Group("/challenges", authMiddleware)
	challenges.POST("/evaluate", challengeHandler.Evaluate, engineRateLimiter)
	challenges.POST("/streak/check", challengeHandler.CheckStreak)
	challenges.POST("/streak/claim", challengeHandler.ClaimStreak)
	challenges.POST("/streak/auto", challengeHandler.RunStreak)

	progressGroup := api.Group("/progress", authMiddleware)
	progressGroup.POST("/log", progressHandler.LogMonth)
	progressGroup.GET("/:year/:month", progressHandler.Month)
	progressGroup.GET("/:year/:month/compare", progressHandler.Compare)
	progressGroup.POST("/summary", progressHandler.Summary)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)

	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/usage", adminHandler.Usage)
	admin.GET("/analytics", adminHandler.RegionAnalytics)
}
