package challenge

import (
	"time"

	"example.com/budget-calendar/backend/internal/models"
)

// Runner запускает проверку серии от текущей даты для автоматических вызовов.
type Runner struct {
	now func() time.Time
}

// NewRunner создает раннер с системными часами.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// NewRunnerWithClock создает раннер с подменяемыми часами.
func NewRunnerWithClock(now func() time.Time) *Runner {
	return &Runner{now: now}
}

// Run выполняет проверку серии на сегодня и сворачивает результат в плоский отчет.
func (r *Runner) Run(days []models.CalendarDay, userID string, logData models.ChallengeLog) (models.StreakReport, error) {
	today := r.now().UTC().Format(dateLayout)

	result, err := CheckEligibility(days, today, logData)
	if err != nil {
		return models.StreakReport{}, err
	}

	return models.StreakReport{
		UserID:         userID,
		Date:           today,
		StreakEligible: result.Eligible,
		Claimable:      result.Claimable,
		Reward:         result.Reward,
		StreakDays:     result.StreakDays,
	}, nil
}
