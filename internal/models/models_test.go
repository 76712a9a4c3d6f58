package models

import (
	"encoding/json"
	"testing"
)

// TestCalendarDayUnmarshalLegacyKeys проверяет нормализацию устаревших ключей planned/actual.
func TestCalendarDayUnmarshalLegacyKeys(t *testing.T) {
	raw := `{"date":"2025-04-01","type":"weekday","planned":{"groceries":20},"actual":{"groceries":15},"total":20}`

	var day CalendarDay
	if err := json.Unmarshal([]byte(raw), &day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if day.PlannedBudget["groceries"] != 20 {
		t.Fatalf("expected planned_budget groceries 20, got %v", day.PlannedBudget["groceries"])
	}
	if day.ActualSpent["groceries"] != 15 {
		t.Fatalf("expected actual_spent groceries 15, got %v", day.ActualSpent["groceries"])
	}
}

// TestCalendarDayUnmarshalCanonicalWins проверяет приоритет канонических ключей над устаревшими.
func TestCalendarDayUnmarshalCanonicalWins(t *testing.T) {
	raw := `{"date":"2025-04-01","type":"weekday","planned_budget":{"rent":1200},"planned":{"rent":1}}`

	var day CalendarDay
	if err := json.Unmarshal([]byte(raw), &day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if day.PlannedBudget["rent"] != 1200 {
		t.Fatalf("expected planned_budget rent 1200, got %v", day.PlannedBudget["rent"])
	}
}

// TestCalendarDayUnmarshalEmpty проверяет, что план всегда инициализирован.
func TestCalendarDayUnmarshalEmpty(t *testing.T) {
	var day CalendarDay
	if err := json.Unmarshal([]byte(`{"date":"2025-04-01","type":"weekend"}`), &day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if day.PlannedBudget == nil {
		t.Fatal("expected planned_budget to be initialized")
	}
}

// TestCalendarDayOverspent проверяет определение перерасхода по статусам.
func TestCalendarDayOverspent(t *testing.T) {
	day := NewCalendarDay("2025-04-01", DayTypeWeekday)
	if day.Overspent() {
		t.Fatal("expected fresh day to not be overspent")
	}

	day.Status = map[string]string{"groceries": "ok", "dining_out": StatusOverspent}
	if !day.Overspent() {
		t.Fatal("expected day with overspent status to be overspent")
	}
}

// TestCalendarDayAddPlanned проверяет накопление категории и пересчет итога.
func TestCalendarDayAddPlanned(t *testing.T) {
	day := NewCalendarDay("2025-04-01", DayTypeWeekday)
	day.AddPlanned("groceries", 10.004)
	day.AddPlanned("groceries", 10.004)

	if got := day.PlannedBudget["groceries"]; got != 20.0 {
		t.Fatalf("expected rounded accumulation 20.0, got %v", got)
	}
	if day.Total != 20.0 {
		t.Fatalf("expected total 20.0, got %v", day.Total)
	}
}
