package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/money"
)

type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// StatusOverspent — значение статуса дня, которое обрывает серию.
const StatusOverspent = "overspent"

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}

type CalendarDay struct {
	Date          string             `json:"date"`
	Type          DayType            `json:"type"`
	PlannedBudget map[string]float64 `json:"planned_budget"`
	ActualSpent   map[string]float64 `json:"actual_spent,omitempty"`
	Status        map[string]string  `json:"status,omitempty"`
	Total         float64            `json:"total"`
}

// NewCalendarDay создает пустой день календаря для даты.
func NewCalendarDay(date string, dayType DayType) *CalendarDay {
	return &CalendarDay{
		Date:          date,
		Type:          dayType,
		PlannedBudget: make(map[string]float64),
	}
}

// AddPlanned добавляет сумму в категорию плана и пересчитывает итог дня.
func (d *CalendarDay) AddPlanned(category string, amount float64) {
	if d.PlannedBudget == nil {
		d.PlannedBudget = make(map[string]float64)
	}
	d.PlannedBudget[category] = money.Round2(d.PlannedBudget[category] + amount)
	d.RecomputeTotal()
}

// RecomputeTotal пересчитывает итог дня как сумму плановых категорий.
func (d *CalendarDay) RecomputeTotal() {
	var sum float64
	for _, amount := range d.PlannedBudget {
		sum += amount
	}
	d.Total = money.Round2(sum)
}

// Overspent сообщает, помечен ли день перерасходом в любом из статусов.
func (d *CalendarDay) Overspent() bool {
	for _, status := range d.Status {
		if status == StatusOverspent {
			return true
		}
	}
	return false
}

// UnmarshalJSON нормализует устаревшие ключи planned/actual к каноническим полям.
func (d *CalendarDay) UnmarshalJSON(data []byte) error {
	type alias CalendarDay
	aux := struct {
		*alias
		LegacyPlanned map[string]float64 `json:"planned"`
		LegacyActual  map[string]float64 `json:"actual"`
	}{alias: (*alias)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if d.PlannedBudget == nil && aux.LegacyPlanned != nil {
		d.PlannedBudget = aux.LegacyPlanned
	}
	if d.ActualSpent == nil && aux.LegacyActual != nil {
		d.ActualSpent = aux.LegacyActual
	}
	if d.PlannedBudget == nil {
		d.PlannedBudget = make(map[string]float64)
	}

	return nil
}

type MonthlyBudgetPlan struct {
	Income             float64            `json:"income"`
	FixedExpenses      map[string]float64 `json:"fixed_expenses"`
	FlexibleCategories map[string]float64 `json:"flexible_categories"`
	Region             string             `json:"region"`
}

type ProgressRecord struct {
	Spent   float64 `json:"spent"`
	Saved   float64 `json:"saved"`
	Country string  `json:"country,omitempty"`
	Region  string  `json:"region,omitempty"`
}

type ProgressDelta struct {
	SpentChange float64 `json:"spent_change"`
	SavedChange float64 `json:"saved_change"`
}

type ChallengeDefinition struct {
	Category string  `json:"category" validate:"required"`
	Limit    float64 `json:"limit" validate:"gte=0"`
	Duration int     `json:"duration" validate:"gte=0"`
}

type ChallengeResult struct {
	Category  string  `json:"category"`
	Limit     float64 `json:"limit"`
	Spent     float64 `json:"spent"`
	Completed bool    `json:"completed"`
}

type ChallengeLog struct {
	LastClaimed string `json:"last_claimed,omitempty"`
}

type EligibilityResult struct {
	Eligible   bool    `json:"eligible"`
	StreakDays int     `json:"streak_days"`
	Reward     *string `json:"reward"`
	Activation string  `json:"activation,omitempty"`
	Claimable  bool    `json:"claimable"`
	Reason     string  `json:"reason,omitempty"`
}

type StreakReport struct {
	UserID         string  `json:"user_id"`
	Date           string  `json:"date"`
	StreakEligible bool    `json:"streak_eligible"`
	Claimable      bool    `json:"claimable"`
	Reward         *string `json:"reward"`
	StreakDays     int     `json:"streak_days"`
}

type BehaviorProfile struct {
	Region      string `json:"region"`
	Cohort      string `json:"cohort"`
	BehaviorTag string `json:"behavior_tag"`
}
