package challenge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/analytics"
	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/models"
)

func seedMonth(t *testing.T, store calendar.Store, userID uuid.UUID, year, month, observedDays int, category string, perDay float64) {
	t.Helper()

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	numDays := first.AddDate(0, 1, -1).Day()

	days := make(map[string]*models.CalendarDay, numDays)
	for i := 0; i < numDays; i++ {
		date := first.AddDate(0, 0, i).Format("2006-01-02")
		day := models.NewCalendarDay(date, models.DayTypeWeekday)
		if i < observedDays {
			day.ActualSpent = map[string]float64{category: perDay}
		}
		days[date] = day
	}

	if err := store.Save(context.Background(), userID, year, month, days); err != nil {
		t.Fatalf("seed calendar: %v", err)
	}
}

// TestEvaluateCompleted проверяет зачет челленджа при трате в лимите и достаточном числе дней.
func TestEvaluateCompleted(t *testing.T) {
	store := calendar.NewMemoryStore()
	tracker := NewTracker(store, nil, nil)
	userID := uuid.New()

	seedMonth(t, store, userID, 2025, 4, 30, "groceries", 10)

	results, err := tracker.Evaluate(context.Background(), userID, 2025, 4, []models.ChallengeDefinition{
		{Category: "groceries", Limit: 400, Duration: 30},
	}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Spent != 300 {
		t.Fatalf("expected spent 300, got %v", results[0].Spent)
	}
	if !results[0].Completed {
		t.Fatalf("expected completed challenge, got %+v", results[0])
	}
}

// TestEvaluateOverLimit проверяет провал челленджа при превышении лимита.
func TestEvaluateOverLimit(t *testing.T) {
	store := calendar.NewMemoryStore()
	tracker := NewTracker(store, nil, nil)
	userID := uuid.New()

	seedMonth(t, store, userID, 2025, 4, 30, "groceries", 20)

	results, err := tracker.Evaluate(context.Background(), userID, 2025, 4, []models.ChallengeDefinition{
		{Category: "groceries", Limit: 400, Duration: 30},
	}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results[0].Completed {
		t.Fatalf("expected failed challenge at spent %v", results[0].Spent)
	}
}

// TestEvaluateTooFewObservedDays проверяет провал при нехватке дней с фактическими тратами.
func TestEvaluateTooFewObservedDays(t *testing.T) {
	store := calendar.NewMemoryStore()
	tracker := NewTracker(store, nil, nil)
	userID := uuid.New()

	seedMonth(t, store, userID, 2025, 4, 10, "coffee", 2)

	// Длительность не задана — действует значение по умолчанию в 30 дней.
	results, err := tracker.Evaluate(context.Background(), userID, 2025, 4, []models.ChallengeDefinition{
		{Category: "coffee", Limit: 100},
	}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results[0].Completed {
		t.Fatal("expected challenge to fail with only 10 observed days")
	}
	if results[0].Spent != 20 {
		t.Fatalf("expected spent 20, got %v", results[0].Spent)
	}
}

// TestEvaluateMissingCalendar проверяет ошибку для месяца без календаря.
func TestEvaluateMissingCalendar(t *testing.T) {
	tracker := NewTracker(calendar.NewMemoryStore(), nil, nil)

	_, err := tracker.Evaluate(context.Background(), uuid.New(), 2025, 4, nil, nil)
	if !errors.Is(err, calendar.ErrNotFound) {
		t.Fatalf("expected calendar.ErrNotFound, got %v", err)
	}
}

// TestEvaluateLogsBehavior проверяет запись результата в аналитику при наличии профиля.
func TestEvaluateLogsBehavior(t *testing.T) {
	store := calendar.NewMemoryStore()
	engine := analytics.NewEngine()
	tracker := NewTracker(store, engine, nil)
	userID := uuid.New()

	seedMonth(t, store, userID, 2025, 4, 30, "groceries", 5)

	profile := &models.BehaviorProfile{Region: "US-CA", Cohort: "savers", BehaviorTag: "frugal"}
	_, err := tracker.Evaluate(context.Background(), userID, 2025, 4, []models.ChallengeDefinition{
		{Category: "groceries", Limit: 200, Duration: 30},
	}, profile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	summary := engine.Summarize()
	region, ok := summary["US-CA"]
	if !ok {
		t.Fatal("expected analytics entry for region US-CA")
	}
	if region.ChallengeSuccessRate != 1 {
		t.Fatalf("expected success rate 1, got %v", region.ChallengeSuccessRate)
	}
}

// TestEvaluateNilAnalytics проверяет, что профиль без движка аналитики не ломает вызов.
func TestEvaluateNilAnalytics(t *testing.T) {
	store := calendar.NewMemoryStore()
	tracker := NewTracker(store, nil, nil)
	userID := uuid.New()

	seedMonth(t, store, userID, 2025, 4, 5, "groceries", 5)

	profile := &models.BehaviorProfile{Region: "EU", Cohort: "c", BehaviorTag: "b"}
	if _, err := tracker.Evaluate(context.Background(), userID, 2025, 4, []models.ChallengeDefinition{
		{Category: "groceries", Limit: 200},
	}, profile); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
