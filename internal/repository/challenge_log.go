package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/budget-calendar/backend/internal/models"
)

// ChallengeLogRepository хранит дату последнего получения награды за серию.
type ChallengeLogRepository struct {
	db *pgxpool.Pool
}

// NewChallengeLogRepository создает репозиторий журналов наград.
func NewChallengeLogRepository(db *pgxpool.Pool) *ChallengeLogRepository {
	return &ChallengeLogRepository{db: db}
}

// Get возвращает журнал пользователя; без записи журнал пустой, это не ошибка.
func (r *ChallengeLogRepository) Get(ctx context.Context, userID uuid.UUID) (models.ChallengeLog, error) {
	var lastClaimed string

	err := r.db.QueryRow(ctx,
		`SELECT to_char(last_claimed, 'YYYY-MM-DD')
		 FROM challenge_logs
		 WHERE user_id = $1`,
		userID,
	).Scan(&lastClaimed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChallengeLog{}, nil
		}
		return models.ChallengeLog{}, err
	}

	return models.ChallengeLog{LastClaimed: lastClaimed}, nil
}

// SetClaimed записывает дату получения награды, перезаписывая предыдущую.
func (r *ChallengeLogRepository) SetClaimed(ctx context.Context, userID uuid.UUID, date string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO challenge_logs (user_id, last_claimed)
		 VALUES ($1, $2::date)
		 ON CONFLICT (user_id)
		 DO UPDATE SET last_claimed = EXCLUDED.last_claimed, updated_at = now()`,
		userID, date,
	)
	return err
}
