package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/budget-calendar/backend/internal/auth"
	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/notifications"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type CalendarHandler struct {
	Generator *calendar.Generator
	Store     calendar.Store
	Notifier  *notifications.Hub
}

// NewCalendarHandler создает обработчик бюджетных календарей.
func NewCalendarHandler(generator *calendar.Generator, store calendar.Store, notifier *notifications.Hub) *CalendarHandler {
	return &CalendarHandler{Generator: generator, Store: store, Notifier: notifier}
}

type GenerateCalendarRequest struct {
	Year               int                `json:"year" validate:"required,gte=1970,lte=2100"`
	Month              int                `json:"month" validate:"required,gte=1,lte=12"`
	Income             float64            `json:"income"`
	FixedExpenses      map[string]float64 `json:"fixed_expenses"`
	FlexibleCategories map[string]float64 `json:"flexible_categories"`
	Region             string             `json:"region"`
}

type UpdateDayRequest struct {
	PlannedBudget map[string]float64 `json:"planned_budget"`
	ActualSpent   map[string]float64 `json:"actual_spent"`
	Status        map[string]string  `json:"status"`
}

type CalendarResponse struct {
	Year  int                  `json:"year"`
	Month int                  `json:"month"`
	Days  []models.CalendarDay `json:"days"`
}

// Generate строит календарь месяца по плану и сохраняет его в хранилище.
func (h *CalendarHandler) Generate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GenerateCalendarRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	region := req.Region
	if region == "" {
		region = "US-CA"
	}

	plan := models.MonthlyBudgetPlan{
		Income:             req.Income,
		FixedExpenses:      req.FixedExpenses,
		FlexibleCategories: req.FlexibleCategories,
		Region:             region,
	}

	days, err := h.Generator.Generate(plan, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, calendar.ErrZeroFlexibleWeight) || errors.Is(err, calendar.ErrInvalidMonth) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	if err := h.Store.Save(c.Request().Context(), userID, req.Year, req.Month, days); err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.Event{
		Type: notifications.EventCalendarGenerated,
		Data: map[string]interface{}{
			"year":  req.Year,
			"month": req.Month,
			"total": calendar.MonthTotal(days),
		},
	})

	return c.JSON(http.StatusCreated, toCalendarResponse(req.Year, req.Month, days))
}

// Get возвращает сохраненный календарь месяца.
func (h *CalendarHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	days, err := h.Store.Get(c.Request().Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toCalendarResponse(year, month, days))
}

// UpdateDay редактирует один день: план, факт и статусы, итог пересчитывается.
func (h *CalendarHandler) UpdateDay(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		return badRequest(c, "invalid date")
	}
	if date.Year() != year || int(date.Month()) != month {
		return badRequest(c, "date is outside the month")
	}

	var req UpdateDayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	dayType := models.DayTypeWeekday
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		dayType = models.DayTypeWeekend
	}

	day := models.CalendarDay{
		Date:          date.Format(dateLayout),
		Type:          dayType,
		PlannedBudget: req.PlannedBudget,
		ActualSpent:   req.ActualSpent,
		Status:        req.Status,
	}
	if day.PlannedBudget == nil {
		day.PlannedBudget = make(map[string]float64)
	}
	day.RecomputeTotal()

	if err := h.Store.UpdateDay(c.Request().Context(), userID, year, month, day.Date, &day); err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar day not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, day)
}

// Clear удаляет календарь месяца.
func (h *CalendarHandler) Clear(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.Store.Clear(c.Request().Context(), userID, year, month); err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.Event{
		Type: notifications.EventCalendarCleared,
		Data: map[string]interface{}{"year": year, "month": month},
	})

	return c.NoContent(http.StatusNoContent)
}

// ExportJSON выгружает календарь месяца в JSON-файл.
func (h *CalendarHandler) ExportJSON(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	days, err := h.Store.Get(c.Request().Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	filename := "calendar-" + monthSlug(year, month) + ".json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, toCalendarResponse(year, month, days))
}

// ExportCSV выгружает календарь месяца в CSV-файл: строка на категорию дня.
func (h *CalendarHandler) ExportCSV(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	days, err := h.Store.Get(c.Request().Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return notFound(c, "calendar not found")
		}
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writeCalendarCSV(writer, days); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "calendar-" + monthSlug(year, month) + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeCalendarCSV(writer *csv.Writer, days map[string]*models.CalendarDay) error {
	header := []string{"date", "type", "category", "planned", "actual", "day_total"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, date := range calendar.SortedDates(days) {
		day := days[date]

		categories := make([]string, 0, len(day.PlannedBudget))
		for category := range day.PlannedBudget {
			categories = append(categories, category)
		}
		for category := range day.ActualSpent {
			if _, ok := day.PlannedBudget[category]; !ok {
				categories = append(categories, category)
			}
		}
		sort.Strings(categories)

		for _, category := range categories {
			row := []string{
				day.Date,
				string(day.Type),
				category,
				strconv.FormatFloat(day.PlannedBudget[category], 'f', 2, 64),
				strconv.FormatFloat(day.ActualSpent[category], 'f', 2, 64),
				strconv.FormatFloat(day.Total, 'f', 2, 64),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func toCalendarResponse(year, month int, days map[string]*models.CalendarDay) CalendarResponse {
	out := make([]models.CalendarDay, 0, len(days))
	for _, date := range calendar.SortedDates(days) {
		out = append(out, *days[date])
	}
	return CalendarResponse{Year: year, Month: month, Days: out}
}

func monthSlug(year, month int) string {
	return strconv.Itoa(year) + "-" + twoDigits(month)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func parseYearMonth(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 2100 {
		return 0, 0, errors.New("invalid year")
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("invalid month")
	}

	return year, month, nil
}
