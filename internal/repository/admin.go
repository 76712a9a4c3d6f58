package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

type AdminUser struct {
	ID        uuid.UUID
	Email     string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DailyCount struct {
	Day   time.Time
	Count int
}

type UsageStats struct {
	Users          int
	Calendars      int
	ClaimedRewards int
	CalendarsByDay []DailyCount
}

// NewAdminRepository создает репозиторий для админских запросов.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// ListUsers возвращает список пользователей с пагинацией.
func (r *AdminRepository) ListUsers(ctx context.Context, limit, offset int) ([]AdminUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, name, created_at, updated_at
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]AdminUser, 0)
	for rows.Next() {
		var user AdminUser
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CountUsers возвращает общее число пользователей.
func (r *AdminRepository) CountUsers(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}

// Usage возвращает сводку использования: пользователи, календари, награды
// и созданные календари по дням за последние days дней.
func (r *AdminRepository) Usage(ctx context.Context, days int) (UsageStats, error) {
	if days <= 0 {
		return UsageStats{}, ErrInvalid
	}

	var stats UsageStats

	err := r.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM budget_calendars),
		        (SELECT COUNT(*) FROM challenge_logs)`,
	).Scan(&stats.Users, &stats.Calendars, &stats.ClaimedRewards)
	if err != nil {
		return stats, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at)::date AS day, COUNT(*)
		 FROM budget_calendars
		 WHERE created_at >= now() - make_interval(days => $1)
		 GROUP BY day
		 ORDER BY day DESC`,
		days,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	stats.CalendarsByDay = make([]DailyCount, 0)
	for rows.Next() {
		var row DailyCount
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return stats, err
		}
		stats.CalendarsByDay = append(stats.CalendarsByDay, row)
	}

	if err := rows.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}
