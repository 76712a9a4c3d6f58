package challenge

import (
	"testing"
	"time"

	"example.com/budget-calendar/backend/internal/models"
)

// TestRunnerShortStreak проверяет авто-запуск на коротком календаре после окончания окна.
func TestRunnerShortStreak(t *testing.T) {
	days := makeDays(t, "2025-02-01", 5, nil)
	runner := NewRunnerWithClock(func() time.Time {
		return time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
	})

	report, err := runner.Run(days, "u1", models.ChallengeLog{LastClaimed: "2025-01-01"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if report.UserID != "u1" {
		t.Fatalf("expected user u1, got %q", report.UserID)
	}
	if report.Date != "2025-02-15" {
		t.Fatalf("expected date 2025-02-15, got %q", report.Date)
	}
	if report.StreakEligible || report.Claimable {
		t.Fatalf("expected ineligible report, got %+v", report)
	}
	if report.StreakDays != 5 {
		t.Fatalf("expected streak 5, got %d", report.StreakDays)
	}
	if report.Reward != nil {
		t.Fatalf("expected nil reward, got %v", *report.Reward)
	}
}

// TestRunnerEligible проверяет отчет для полной серии.
func TestRunnerEligible(t *testing.T) {
	days := makeDays(t, "2025-02-01", 28, nil)
	days = append(days, makeDays(t, "2025-03-01", 2, nil)...)

	runner := NewRunnerWithClock(func() time.Time {
		return time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	})

	report, err := runner.Run(days, "u2", models.ChallengeLog{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !report.StreakEligible || !report.Claimable {
		t.Fatalf("expected eligible report, got %+v", report)
	}
	if report.StreakDays != 30 {
		t.Fatalf("expected streak 30, got %d", report.StreakDays)
	}
	if report.Reward == nil || *report.Reward != Reward {
		t.Fatalf("expected reward %q, got %v", Reward, report.Reward)
	}
}
