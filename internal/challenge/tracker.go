package challenge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/analytics"
	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/money"
)

// DefaultDuration — длительность челленджа в днях, если она не задана.
const DefaultDuration = 30

type Tracker struct {
	store     calendar.Store
	analytics *analytics.Engine
	logger    *slog.Logger
}

// NewTracker создает трекер челленджей поверх хранилища календарей.
func NewTracker(store calendar.Store, engine *analytics.Engine, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, analytics: engine, logger: logger}
}

// Evaluate сверяет определения челленджей с фактическими тратами сохраненного месяца.
// Профиль опционален: с ним результаты уходят в поведенческую аналитику, и сбой
// аналитики никогда не ломает основную операцию.
func (t *Tracker) Evaluate(ctx context.Context, userID uuid.UUID, year, month int, defs []models.ChallengeDefinition, profile *models.BehaviorProfile) ([]models.ChallengeResult, error) {
	days, err := t.store.Get(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("load calendar %d-%02d: %w", year, month, err)
	}

	results := make([]models.ChallengeResult, 0, len(defs))
	for _, def := range defs {
		duration := def.Duration
		if duration <= 0 {
			duration = DefaultDuration
		}

		spent := 0.0
		observed := 0
		for _, day := range days {
			amount, ok := day.ActualSpent[def.Category]
			if !ok {
				continue
			}
			spent += amount
			observed++
		}
		spent = money.Round2(spent)

		result := models.ChallengeResult{
			Category:  def.Category,
			Limit:     def.Limit,
			Spent:     spent,
			Completed: spent <= def.Limit && observed >= duration,
		}
		results = append(results, result)

		if profile != nil {
			t.logBehavior(userID.String(), *profile, result)
		}
	}

	return results, nil
}

func (t *Tracker) logBehavior(userID string, profile models.BehaviorProfile, result models.ChallengeResult) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("behavior analytics logging failed",
				slog.String("user_id", userID),
				slog.String("category", result.Category),
				slog.Any("panic", r),
			)
		}
	}()

	if t.analytics == nil {
		return
	}

	t.analytics.LogBehavior(
		userID,
		profile.Region,
		profile.Cohort,
		profile.BehaviorTag,
		result.Completed,
		result.Spent <= result.Limit,
	)
}
