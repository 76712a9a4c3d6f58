package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/money"
)

const dateLayout = "2006-01-02"

type Behavior string

const (
	BehaviorSpread    Behavior = "spread"
	BehaviorClustered Behavior = "clustered"
	BehaviorFixed     Behavior = "fixed"
)

var (
	ErrZeroFlexibleWeight = errors.New("total flexible weight must be positive")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
)

// defaultBehaviors — таблица поведений распределения по именам категорий.
// Неизвестные категории получают поведение spread.
var defaultBehaviors = map[string]Behavior{
	"dining_out":    BehaviorClustered,
	"going_out":     BehaviorClustered,
	"subscriptions": BehaviorFixed,
	"insurance":     BehaviorFixed,
	"savings":       BehaviorFixed,
}

type Generator struct {
	behaviors map[string]Behavior
}

// NewGenerator создает генератор календаря со стандартной таблицей поведений.
func NewGenerator() *Generator {
	return &Generator{behaviors: defaultBehaviors}
}

// Generate строит бюджетный календарь месяца: по одному дню на каждую дату.
// Фиксированные расходы целиком попадают на первый день, гибкие категории
// распределяются по своему поведению из таблицы.
func (g *Generator) Generate(plan models.MonthlyBudgetPlan, year, month int) (map[string]*models.CalendarDay, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	totalWeight := 0.0
	for _, weight := range plan.FlexibleCategories {
		totalWeight += weight
	}
	if len(plan.FlexibleCategories) > 0 && totalWeight <= 0 {
		return nil, ErrZeroFlexibleWeight
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	numDays := first.AddDate(0, 1, -1).Day()

	days := make(map[string]*models.CalendarDay, numDays)
	dates := make([]string, 0, numDays)
	for i := 0; i < numDays; i++ {
		date := first.AddDate(0, 0, i)
		dayType := models.DayTypeWeekday
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			dayType = models.DayTypeWeekend
		}
		key := date.Format(dateLayout)
		days[key] = models.NewCalendarDay(key, dayType)
		dates = append(dates, key)
	}

	fixedTotal := 0.0
	for category, amount := range plan.FixedExpenses {
		days[dates[0]].AddPlanned(category, amount)
		fixedTotal += amount
	}

	// Остаток может быть отрицательным: дефицит не ошибка, он просто
	// отражается в дневных итогах.
	remaining := plan.Income - fixedTotal

	for category, weight := range plan.FlexibleCategories {
		monthlyShare := remaining * weight / totalWeight
		dailyAmount := monthlyShare / float64(numDays)

		switch g.behavior(category) {
		case BehaviorClustered:
			// Позиционное приближение пятницы/субботы: индексы 4 и 5 каждой
			// семидневки последовательности, без привязки к реальному дню недели.
			for idx, key := range dates {
				if idx%7 == 4 || idx%7 == 5 {
					days[key].AddPlanned(category, dailyAmount*2)
				}
			}
		case BehaviorFixed:
			days[dates[0]].AddPlanned(category, monthlyShare)
		default:
			for _, key := range dates {
				days[key].AddPlanned(category, dailyAmount)
			}
		}
	}

	return days, nil
}

func (g *Generator) behavior(category string) Behavior {
	if b, ok := g.behaviors[category]; ok {
		return b
	}
	return BehaviorSpread
}

// SortedDates возвращает даты календаря в хронологическом порядке.
func SortedDates(days map[string]*models.CalendarDay) []string {
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// MonthTotal возвращает сумму дневных итогов месяца.
func MonthTotal(days map[string]*models.CalendarDay) float64 {
	var sum float64
	for _, day := range days {
		sum += day.Total
	}
	return money.Round2(sum)
}
