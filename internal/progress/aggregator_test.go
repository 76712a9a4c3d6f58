package progress

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/challenge"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/money"
)

func seedAggregatorMonth(t *testing.T, store calendar.Store, userID uuid.UUID) map[string]*models.CalendarDay {
	t.Helper()

	first := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	days := make(map[string]*models.CalendarDay, 30)
	for i := 0; i < 30; i++ {
		date := first.AddDate(0, 0, i).Format("2006-01-02")
		day := models.NewCalendarDay(date, models.DayTypeWeekday)
		day.AddPlanned("groceries", 20)
		day.ActualSpent = map[string]float64{"groceries": 15}
		days[date] = day
	}

	if err := store.Save(context.Background(), userID, 2025, 4, days); err != nil {
		t.Fatalf("seed calendar: %v", err)
	}
	return days
}

// TestProgressData проверяет сводку с экономией от выполненного челленджа.
func TestProgressData(t *testing.T) {
	store := calendar.NewMemoryStore()
	tracker := NewTracker()
	userID := uuid.New()

	days := seedAggregatorMonth(t, store, userID)
	tracker.LogMonth(userID, 2025, 4, days, 1000, "US", "US-CA")

	agg := NewAggregator(tracker, challenge.NewTracker(store, nil, nil), store, money.NewFormatter(nil))

	data, err := agg.ProgressData(context.Background(), userID, 2025, 4, []models.ChallengeDefinition{
		{Category: "groceries", Limit: 500, Duration: 30},
	}, "USD", "en-US")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if data.ChallengeCompleted != 1 {
		t.Fatalf("expected 1 completed challenge, got %d", data.ChallengeCompleted)
	}
	// План 600, факт 450: экономия 150.
	if !strings.Contains(data.ChallengeImpactActual, "150") {
		t.Fatalf("expected impact around 150, got %q", data.ChallengeImpactActual)
	}
	if !strings.Contains(data.Spent, "600") {
		t.Fatalf("expected formatted spent with 600, got %q", data.Spent)
	}
	if len(data.ChallengeBreakdown) != 1 {
		t.Fatalf("expected breakdown of 1, got %d", len(data.ChallengeBreakdown))
	}
}

// TestProgressDataFallbackCurrency проверяет деградацию формата на мусорной валюте.
func TestProgressDataFallbackCurrency(t *testing.T) {
	store := calendar.NewMemoryStore()
	tracker := NewTracker()
	userID := uuid.New()

	days := seedAggregatorMonth(t, store, userID)
	tracker.LogMonth(userID, 2025, 4, days, 1000, "US", "US-CA")

	agg := NewAggregator(tracker, challenge.NewTracker(store, nil, nil), store, money.NewFormatter(nil))

	data, err := agg.ProgressData(context.Background(), userID, 2025, 4, nil, "XYZ!", "en-US")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if data.Spent != "600.00 XYZ!" {
		t.Fatalf("expected fallback formatting, got %q", data.Spent)
	}
}

// TestProgressDataNoRecord проверяет ошибку при отсутствии записи прогресса.
func TestProgressDataNoRecord(t *testing.T) {
	store := calendar.NewMemoryStore()
	agg := NewAggregator(NewTracker(), challenge.NewTracker(store, nil, nil), store, money.NewFormatter(nil))

	_, err := agg.ProgressData(context.Background(), uuid.New(), 2025, 4, nil, "USD", "en-US")
	if !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}
