package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/budget-calendar/backend/internal/calendar"
	"example.com/budget-calendar/backend/internal/models"
)

// CalendarRepository хранит календари месяцев в Postgres одной JSONB-записью
// на пользователя и месяц. Реализует calendar.Store.
type CalendarRepository struct {
	db *pgxpool.Pool
}

var _ calendar.Store = (*CalendarRepository)(nil)

// NewCalendarRepository создает репозиторий календарей.
func NewCalendarRepository(db *pgxpool.Pool) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// Save сохраняет календарь месяца, перезаписывая существующий.
func (r *CalendarRepository) Save(ctx context.Context, userID uuid.UUID, year, month int, days map[string]*models.CalendarDay) error {
	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("marshal calendar days: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO budget_calendars (user_id, year, month, days)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, year, month)
		 DO UPDATE SET days = EXCLUDED.days, updated_at = now()`,
		userID, year, month, payload,
	)
	return err
}

// Get возвращает календарь месяца. Десериализация дней нормализует
// устаревшие ключи planned/actual к каноническим полям.
func (r *CalendarRepository) Get(ctx context.Context, userID uuid.UUID, year, month int) (map[string]*models.CalendarDay, error) {
	var payload []byte

	err := r.db.QueryRow(ctx,
		`SELECT days
		 FROM budget_calendars
		 WHERE user_id = $1 AND year = $2 AND month = $3`,
		userID, year, month,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, calendar.ErrNotFound
		}
		return nil, err
	}

	days := make(map[string]*models.CalendarDay)
	if err := json.Unmarshal(payload, &days); err != nil {
		return nil, fmt.Errorf("unmarshal calendar days: %w", err)
	}

	return days, nil
}

// UpdateDay заменяет один день внутри JSONB-документа месяца.
func (r *CalendarRepository) UpdateDay(ctx context.Context, userID uuid.UUID, year, month int, date string, day *models.CalendarDay) error {
	payload, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("marshal calendar day: %w", err)
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE budget_calendars
		 SET days = jsonb_set(days, ARRAY[$4], $5::jsonb), updated_at = now()
		 WHERE user_id = $1 AND year = $2 AND month = $3 AND days ? $4`,
		userID, year, month, date, payload,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return calendar.ErrNotFound
	}

	return nil
}

// Clear удаляет календарь месяца.
func (r *CalendarRepository) Clear(ctx context.Context, userID uuid.UUID, year, month int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM budget_calendars
		 WHERE user_id = $1 AND year = $2 AND month = $3`,
		userID, year, month,
	)
	return err
}

// ListUsersForMonth возвращает пользователей с календарем в заданном месяце.
func (r *CalendarRepository) ListUsersForMonth(ctx context.Context, year, month int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id
		 FROM budget_calendars
		 WHERE year = $1 AND month = $2
		 ORDER BY user_id`,
		year, month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]uuid.UUID, 0)
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		users = append(users, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
