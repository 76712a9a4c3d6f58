package challenge

import (
	"fmt"
	"time"

	"example.com/budget-calendar/backend/internal/models"
)

const dateLayout = "2006-01-02"

const (
	// CooldownDays — окно после получения награды, в котором новая серия не засчитывается.
	CooldownDays = 30
	// StreakTarget — длина серии дней без перерасхода для награды.
	StreakTarget = 30

	Reward           = "-20%_annual"
	ActivationManual = "manual"
)

// CheckEligibility оценивает право на награду за серию дней без перерасхода.
// Функция чистая: календарь, сегодняшняя дата и журнал наград приходят извне,
// состояние не мутируется.
func CheckEligibility(days []models.CalendarDay, todayDate string, log models.ChallengeLog) (models.EligibilityResult, error) {
	today, err := time.Parse(dateLayout, todayDate)
	if err != nil {
		return models.EligibilityResult{}, fmt.Errorf("parse today date %q: %w", todayDate, err)
	}

	if log.LastClaimed != "" {
		lastClaimed, err := time.Parse(dateLayout, log.LastClaimed)
		if err != nil {
			return models.EligibilityResult{}, fmt.Errorf("parse last claimed date %q: %w", log.LastClaimed, err)
		}

		if daysBetween(lastClaimed, today) < CooldownDays {
			resume := lastClaimed.AddDate(0, 0, CooldownDays)
			return models.EligibilityResult{
				Eligible:  false,
				Claimable: false,
				Reason:    fmt.Sprintf("Cooldown active until %s", resume.Format(dateLayout)),
			}, nil
		}
	}

	streak := 0
	for _, day := range days {
		date, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			return models.EligibilityResult{}, fmt.Errorf("parse calendar date %q: %w", day.Date, err)
		}
		if date.After(today) {
			break
		}

		// Первый же день с перерасходом обнуляет серию и заканчивает обход:
		// дни после него не рассматриваются, даже если они без нарушений.
		if day.Overspent() {
			streak = 0
			break
		}
		streak++
	}

	result := models.EligibilityResult{
		StreakDays: streak,
		Activation: ActivationManual,
	}
	if streak >= StreakTarget {
		reward := Reward
		result.Eligible = true
		result.Claimable = true
		result.Reward = &reward
	}

	return result, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
