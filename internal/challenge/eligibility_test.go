package challenge

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"example.com/budget-calendar/backend/internal/models"
)

func makeDays(t *testing.T, start string, n int, overspent map[int]bool) []models.CalendarDay {
	t.Helper()

	first, err := time.Parse(dateLayout, start)
	if err != nil {
		t.Fatalf("bad start date: %v", err)
	}

	days := make([]models.CalendarDay, 0, n)
	for i := 0; i < n; i++ {
		day := models.CalendarDay{
			Date:          first.AddDate(0, 0, i).Format(dateLayout),
			Type:          models.DayTypeWeekday,
			PlannedBudget: map[string]float64{"groceries": 30},
		}
		if overspent[i] {
			day.Status = map[string]string{"groceries": models.StatusOverspent}
		}
		days = append(days, day)
	}
	return days
}

// TestEligibilityFullStreak проверяет награду за 30 дней без перерасхода.
func TestEligibilityFullStreak(t *testing.T) {
	days := makeDays(t, "2025-03-01", 30, nil)

	result, err := CheckEligibility(days, "2025-03-30", models.ChallengeLog{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.Eligible || !result.Claimable {
		t.Fatalf("expected eligible claimable result, got %+v", result)
	}
	if result.StreakDays != 30 {
		t.Fatalf("expected streak 30, got %d", result.StreakDays)
	}
	if result.Reward == nil || *result.Reward != Reward {
		t.Fatalf("expected reward %q, got %v", Reward, result.Reward)
	}
	if result.Activation != ActivationManual {
		t.Fatalf("expected manual activation, got %q", result.Activation)
	}
}

// TestEligibilityStreakBreak проверяет обнуление серии на первом дне с перерасходом.
func TestEligibilityStreakBreak(t *testing.T) {
	// Дни 1-5 чистые, день 6 с перерасходом, день 7 снова чистый.
	days := makeDays(t, "2025-03-01", 7, map[int]bool{5: true})

	result, err := CheckEligibility(days, "2025-03-07", models.ChallengeLog{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.StreakDays != 0 {
		t.Fatalf("expected streak reset to 0, got %d", result.StreakDays)
	}
	if result.Eligible || result.Claimable {
		t.Fatalf("expected ineligible result, got %+v", result)
	}
}

// TestEligibilityStopsAtToday проверяет, что дни после сегодняшней даты не считаются.
func TestEligibilityStopsAtToday(t *testing.T) {
	days := makeDays(t, "2025-03-01", 31, nil)

	result, err := CheckEligibility(days, "2025-03-10", models.ChallengeLog{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.StreakDays != 10 {
		t.Fatalf("expected streak 10, got %d", result.StreakDays)
	}
}

// TestEligibilityCooldownBoundary проверяет границу окна: 29 дней блокируют, 30 — нет.
func TestEligibilityCooldownBoundary(t *testing.T) {
	days := makeDays(t, "2025-03-01", 31, nil)

	blocked, err := CheckEligibility(days, "2025-03-30", models.ChallengeLog{LastClaimed: "2025-03-01"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if blocked.Eligible || blocked.Claimable {
		t.Fatalf("expected cooldown block, got %+v", blocked)
	}
	if !strings.Contains(blocked.Reason, "Cooldown active until 2025-03-31") {
		t.Fatalf("expected resume date in reason, got %q", blocked.Reason)
	}

	open, err := CheckEligibility(days, "2025-03-31", models.ChallengeLog{LastClaimed: "2025-03-01"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if open.Reason != "" {
		t.Fatalf("expected no cooldown at exactly 30 days, got %q", open.Reason)
	}
	if !open.Eligible {
		t.Fatalf("expected eligible result after cooldown, got %+v", open)
	}
}

// TestEligibilityIdempotent проверяет одинаковый результат при повторном вызове.
func TestEligibilityIdempotent(t *testing.T) {
	days := makeDays(t, "2025-03-01", 30, map[int]bool{12: true})
	log := models.ChallengeLog{LastClaimed: "2024-12-01"}

	first, err := CheckEligibility(days, "2025-03-30", log)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := CheckEligibility(days, "2025-03-30", log)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

// TestEligibilityBadDates проверяет ошибки на неразборчивых датах.
func TestEligibilityBadDates(t *testing.T) {
	days := makeDays(t, "2025-03-01", 3, nil)

	if _, err := CheckEligibility(days, "03/30/2025", models.ChallengeLog{}); err == nil {
		t.Fatal("expected error for malformed today date")
	}

	if _, err := CheckEligibility(days, "2025-03-30", models.ChallengeLog{LastClaimed: "yesterday"}); err == nil {
		t.Fatal("expected error for malformed last claimed date")
	}
}
