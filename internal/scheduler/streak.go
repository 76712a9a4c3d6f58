package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/challenge"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/notifications"
)

// CalendarSource отдает календари текущего месяца для автоматической проверки серий.
type CalendarSource interface {
	ListUsersForMonth(ctx context.Context, year, month int) ([]uuid.UUID, error)
	Get(ctx context.Context, userID uuid.UUID, year, month int) (map[string]*models.CalendarDay, error)
}

// LogSource отдает журнал наград пользователя.
type LogSource interface {
	Get(ctx context.Context, userID uuid.UUID) (models.ChallengeLog, error)
}

// StreakScheduler по расписанию проверяет серии всех пользователей с календарем
// на текущий месяц и рассылает события о доступных наградах.
type StreakScheduler struct {
	cron      *cron.Cron
	spec      string
	calendars CalendarSource
	logs      LogSource
	runner    *challenge.Runner
	notifier  *notifications.Hub
	logger    *slog.Logger
}

// NewStreakScheduler создает планировщик с cron-выражением из конфигурации.
func NewStreakScheduler(spec string, calendars CalendarSource, logs LogSource, runner *challenge.Runner, notifier *notifications.Hub, logger *slog.Logger) *StreakScheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &StreakScheduler{
		cron:      cron.New(),
		spec:      spec,
		calendars: calendars,
		logs:      logs,
		runner:    runner,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start регистрирует задачу и запускает планировщик.
func (s *StreakScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("streak scheduler started", slog.String("spec", s.spec))
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущей задачи.
func (s *StreakScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("streak scheduler stopped")
}

func (s *StreakScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	users, err := s.calendars.ListUsersForMonth(ctx, year, month)
	if err != nil {
		s.logger.Error("streak run: list users failed", slog.String("error", err.Error()))
		return
	}

	checked := 0
	eligible := 0
	for _, userID := range users {
		report, ok := s.checkUser(ctx, userID, year, month)
		if !ok {
			continue
		}

		checked++
		if report.StreakEligible {
			eligible++
			s.notifier.Publish(userID, notifications.Event{
				Type: notifications.EventStreakEligible,
				Data: report,
			})
		}
	}

	s.logger.Info("streak run finished",
		slog.Int("users", len(users)),
		slog.Int("checked", checked),
		slog.Int("eligible", eligible),
	)
}

func (s *StreakScheduler) checkUser(ctx context.Context, userID uuid.UUID, year, month int) (models.StreakReport, bool) {
	stored, err := s.calendars.Get(ctx, userID, year, month)
	if err != nil {
		s.logger.Warn("streak run: load calendar failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return models.StreakReport{}, false
	}

	days := make([]models.CalendarDay, 0, len(stored))
	for _, date := range calendar.SortedDates(stored) {
		days = append(days, *stored[date])
	}

	logData, err := s.logs.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("streak run: load challenge log failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return models.StreakReport{}, false
	}

	report, err := s.runner.Run(days, userID.String(), logData)
	if err != nil {
		s.logger.Warn("streak run: eligibility check failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return models.StreakReport{}, false
	}

	return report, true
}
