package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/challenge"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/money"
)

var ErrNoRecord = errors.New("progress record not found")

// Data — сводка прогресса месяца с деньгами в отформатированном виде.
type Data struct {
	Spent                 string                   `json:"spent"`
	Saved                 string                   `json:"saved"`
	ChallengeCompleted    int                      `json:"challenge_completed"`
	ChallengeImpactActual string                   `json:"challenge_impact_actual"`
	ChallengeBreakdown    []models.ChallengeResult `json:"challenge_breakdown"`
}

type Aggregator struct {
	progress   *Tracker
	challenges *challenge.Tracker
	store      calendar.Store
	formatter  *money.Formatter
}

// NewAggregator создает агрегатор прогресса и челленджей.
func NewAggregator(progress *Tracker, challenges *challenge.Tracker, store calendar.Store, formatter *money.Formatter) *Aggregator {
	return &Aggregator{
		progress:   progress,
		challenges: challenges,
		store:      store,
		formatter:  formatter,
	}
}

// ProgressData собирает запись прогресса, переоценку челленджей и оценку
// экономии от выполненных челленджей: план минус факт по их категориям.
func (a *Aggregator) ProgressData(ctx context.Context, userID uuid.UUID, year, month int, defs []models.ChallengeDefinition, currencyCode, locale string) (Data, error) {
	record, ok := a.progress.MonthData(userID, year, month)
	if !ok {
		return Data{}, fmt.Errorf("%w: %04d-%02d", ErrNoRecord, year, month)
	}

	results, err := a.challenges.Evaluate(ctx, userID, year, month, defs, nil)
	if err != nil {
		return Data{}, err
	}

	days, err := a.store.Get(ctx, userID, year, month)
	if err != nil {
		return Data{}, fmt.Errorf("load calendar %04d-%02d: %w", year, month, err)
	}

	completed := 0
	impact := 0.0
	for _, result := range results {
		if !result.Completed {
			continue
		}
		completed++
		for _, day := range days {
			impact += day.PlannedBudget[result.Category] - day.ActualSpent[result.Category]
		}
	}

	return Data{
		Spent:                 a.formatter.Format(record.Spent, currencyCode, locale),
		Saved:                 a.formatter.Format(record.Saved, currencyCode, locale),
		ChallengeCompleted:    completed,
		ChallengeImpactActual: a.formatter.Format(money.Round2(impact), currencyCode, locale),
		ChallengeBreakdown:    results,
	}, nil
}
