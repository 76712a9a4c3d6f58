package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/budget-calendar/backend/internal/auth"
	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/challenge"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/notifications"
	"example.com/budget-calendar/backend/internal/repository"
)

type ChallengeHandler struct {
	Tracker  *challenge.Tracker
	Runner   *challenge.Runner
	Store    calendar.Store
	Logs     *repository.ChallengeLogRepository
	Notifier *notifications.Hub
}

// NewChallengeHandler создает обработчик челленджей и серий экономии.
func NewChallengeHandler(tracker *challenge.Tracker, runner *challenge.Runner, store calendar.Store, logs *repository.ChallengeLogRepository, notifier *notifications.Hub) *ChallengeHandler {
	return &ChallengeHandler{Tracker: tracker, Runner: runner, Store: store, Logs: logs, Notifier: notifier}
}

type EvaluateChallengesRequest struct {
	Year       int                          `json:"year" validate:"required,gte=1970,lte=2100"`
	Month      int                          `json:"month" validate:"required,gte=1,lte=12"`
	Challenges []models.ChallengeDefinition `json:"challenges" validate:"required,min=1,dive"`
	Profile    *models.BehaviorProfile      `json:"profile"`
}

type EvaluateChallengesResponse struct {
	Year    int                      `json:"year"`
	Month   int                      `json:"month"`
	Results []models.ChallengeResult `json:"results"`
}

type StreakCheckRequest struct {
	Year  int    `json:"year" validate:"required,gte=1970,lte=2100"`
	Month int    `json:"month" validate:"required,gte=1,lte=12"`
	Today string `json:"today"`
}

// Evaluate проверяет челленджи по сохраненному календарю месяца.
func (h *ChallengeHandler) Evaluate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req EvaluateChallengesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	results, err := h.Tracker.Evaluate(c.Request().Context(), userID, req.Year, req.Month, req.Challenges, req.Profile)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	for _, result := range results {
		if !result.Completed {
			continue
		}
		h.Notifier.Publish(userID, notifications.Event{
			Type: notifications.EventChallengeCompleted,
			Data: result,
		})
	}

	return c.JSON(http.StatusOK, EvaluateChallengesResponse{
		Year:    req.Year,
		Month:   req.Month,
		Results: results,
	})
}

// CheckStreak оценивает серию без перерасхода: стрик, кулдаун и доступность награды.
func (h *ChallengeHandler) CheckStreak(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req StreakCheckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	days, err := h.orderedDays(c, userID, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	logData, err := h.Logs.Get(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	today := req.Today
	if today == "" {
		today = time.Now().UTC().Format(dateLayout)
	}

	result, err := challenge.CheckEligibility(days, today, logData)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// ClaimStreak выдает награду за серию, если она доступна, и фиксирует дату выдачи.
func (h *ChallengeHandler) ClaimStreak(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req StreakCheckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	days, err := h.orderedDays(c, userID, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	logData, err := h.Logs.Get(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	today := req.Today
	if today == "" {
		today = time.Now().UTC().Format(dateLayout)
	}

	result, err := challenge.CheckEligibility(days, today, logData)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !result.Claimable {
		return conflict(c, "reward is not claimable")
	}

	if err := h.Logs.SetClaimed(c.Request().Context(), userID, today); err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.Event{
		Type: notifications.EventRewardClaimed,
		Data: result,
	})

	return c.JSON(http.StatusOK, result)
}

// RunStreak запускает автоматическую проверку серии текущего месяца от системных часов.
func (h *ChallengeHandler) RunStreak(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	days, err := h.orderedDays(c, userID, year, month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	logData, err := h.Logs.Get(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	report, err := h.Runner.Run(days, userID.String(), logData)
	if err != nil {
		return serverError(c)
	}

	if report.StreakEligible {
		h.Notifier.Publish(userID, notifications.Event{
			Type: notifications.EventStreakEligible,
			Data: report,
		})
	}

	return c.JSON(http.StatusOK, report)
}

func (h *ChallengeHandler) orderedDays(c echo.Context, userID uuid.UUID, year, month int) ([]models.CalendarDay, error) {
	stored, err := h.Store.Get(c.Request().Context(), userID, year, month)
	if err != nil {
		return nil, err
	}

	days := make([]models.CalendarDay, 0, len(stored))
	for _, date := range calendar.SortedDates(stored) {
		days = append(days, *stored[date])
	}
	return days, nil
}
