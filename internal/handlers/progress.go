package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/budget-calendar/backend/internal/auth"
	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/progress"
)

type ProgressHandler struct {
	Tracker         *progress.Tracker
	Aggregator      *progress.Aggregator
	Store           calendar.Store
	DefaultCurrency string
	DefaultLocale   string
}

// NewProgressHandler создает обработчик помесячного прогресса.
func NewProgressHandler(tracker *progress.Tracker, aggregator *progress.Aggregator, store calendar.Store, defaultCurrency, defaultLocale string) *ProgressHandler {
	return &ProgressHandler{
		Tracker:         tracker,
		Aggregator:      aggregator,
		Store:           store,
		DefaultCurrency: defaultCurrency,
		DefaultLocale:   defaultLocale,
	}
}

type LogProgressRequest struct {
	Year    int     `json:"year" validate:"required,gte=1970,lte=2100"`
	Month   int     `json:"month" validate:"required,gte=1,lte=12"`
	Income  float64 `json:"income" validate:"gte=0"`
	Country string  `json:"country"`
	Region  string  `json:"region"`
}

type ProgressSummaryRequest struct {
	Year       int                          `json:"year" validate:"required,gte=1970,lte=2100"`
	Month      int                          `json:"month" validate:"required,gte=1,lte=12"`
	Challenges []models.ChallengeDefinition `json:"challenges" validate:"dive"`
	Currency   string                       `json:"currency"`
	Locale     string                       `json:"locale"`
}

// LogMonth фиксирует итог месяца по сохраненному календарю.
func (h *ProgressHandler) LogMonth(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req LogProgressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	days, err := h.Store.Get(c.Request().Context(), userID, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	h.Tracker.LogMonth(userID, req.Year, req.Month, days, req.Income, req.Country, req.Region)

	record, _ := h.Tracker.MonthData(userID, req.Year, req.Month)
	return c.JSON(http.StatusCreated, record)
}

// Month возвращает запись прогресса месяца.
func (h *ProgressHandler) Month(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	record, ok := h.Tracker.MonthData(userID, year, month)
	if !ok {
		return notFound(c, "progress record not found")
	}

	return c.JSON(http.StatusOK, record)
}

// Compare возвращает дельты трат и экономии к предыдущему месяцу.
func (h *ProgressHandler) Compare(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	delta, ok := h.Tracker.CompareToLast(userID, year, month)
	if !ok {
		return notFound(c, "not enough progress records to compare")
	}

	return c.JSON(http.StatusOK, delta)
}

// Summary собирает сводку месяца: траты, экономия и вклад челленджей
// в отформатированной валюте.
func (h *ProgressHandler) Summary(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProgressSummaryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	currencyCode := req.Currency
	if currencyCode == "" {
		currencyCode = h.DefaultCurrency
	}
	locale := req.Locale
	if locale == "" {
		locale = h.DefaultLocale
	}

	data, err := h.Aggregator.ProgressData(c.Request().Context(), userID, req.Year, req.Month, req.Challenges, currencyCode, locale)
	if err != nil {
		if errors.Is(err, progress.ErrNoRecord) {
			return notFound(c, "progress record not found")
		}
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, data)
}
