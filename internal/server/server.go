package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/budget-calendar/backend/internal/analytics"
	"example.com/budget-calendar/backend/internal/auth"
	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/challenge"
	"example.com/budget-calendar/backend/internal/config"
	"example.com/budget-calendar/backend/internal/handlers"
	"example.com/budget-calendar/backend/internal/money"
	"example.com/budget-calendar/backend/internal/notifications"
	"example.com/budget-calendar/backend/internal/progress"
	"example.com/budget-calendar/backend/internal/repository"
	"example.com/budget-calendar/backend/internal/scheduler"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
// Планировщик возвращается отдельно; при выключенном автозапуске он nil.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) (*echo.Echo, *scheduler.StreakScheduler) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	logRepo := repository.NewChallengeLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	notificationHub := notifications.NewHub()

	generator := calendar.NewGenerator()
	analyticsEngine := analytics.NewEngine()
	formatter := money.NewFormatter(logger)
	progressTracker := progress.NewTracker()
	challengeTracker := challenge.NewTracker(calendarRepo, analyticsEngine, logger)
	runner := challenge.NewRunner()
	aggregator := progress.NewAggregator(progressTracker, challengeTracker, calendarRepo, formatter)

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, tokenManager)
	calendarHandler := handlers.NewCalendarHandler(generator, calendarRepo, notificationHub)
	challengeHandler := handlers.NewChallengeHandler(challengeTracker, runner, calendarRepo, logRepo, notificationHub)
	progressHandler := handlers.NewProgressHandler(progressTracker, aggregator, calendarRepo, cfg.Format.DefaultCurrency, cfg.Format.DefaultLocale)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)
	adminHandler := handlers.NewAdminHandler(adminRepo, analyticsEngine)

	registerRoutes(
		e,
		authHandler,
		calendarHandler,
		challengeHandler,
		progressHandler,
		notificationHandler,
		adminHandler,
		auth.JWTMiddleware(tokenManager),
		handlers.AdminMiddleware(userRepo, cfg.Admin.Emails),
		authRateLimiter(cfg.Auth),
		engineRateLimiter(cfg.Engine),
	)

	var streakScheduler *scheduler.StreakScheduler
	if cfg.Challenge.AutoRunEnabled {
		streakScheduler = scheduler.NewStreakScheduler(cfg.Challenge.StreakCron, calendarRepo, logRepo, runner, notificationHub, logger)
	}

	return e, streakScheduler
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func authRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}

func engineRateLimiter(cfg config.EngineConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
