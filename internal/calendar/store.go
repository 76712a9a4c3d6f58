package calendar

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/models"
)

var ErrNotFound = errors.New("calendar not found")

// Store — хранилище календарей, ключ: пользователь + год + месяц.
type Store interface {
	Save(ctx context.Context, userID uuid.UUID, year, month int, days map[string]*models.CalendarDay) error
	Get(ctx context.Context, userID uuid.UUID, year, month int) (map[string]*models.CalendarDay, error)
	UpdateDay(ctx context.Context, userID uuid.UUID, year, month int, date string, day *models.CalendarDay) error
	Clear(ctx context.Context, userID uuid.UUID, year, month int) error
}

type monthKey struct {
	userID uuid.UUID
	year   int
	month  int
}

type MemoryStore struct {
	mu        sync.RWMutex
	calendars map[monthKey]map[string]*models.CalendarDay
}

// NewMemoryStore создает хранилище календарей в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{calendars: make(map[monthKey]map[string]*models.CalendarDay)}
}

// Save сохраняет календарь месяца, перезаписывая существующий.
func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, year, month int, days map[string]*models.CalendarDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calendars[monthKey{userID, year, month}] = copyDays(days)
	return nil
}

// Get возвращает календарь месяца или ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID, year, month int) (map[string]*models.CalendarDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days, ok := s.calendars[monthKey{userID, year, month}]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDays(days), nil
}

// UpdateDay заменяет один день в сохраненном календаре.
func (s *MemoryStore) UpdateDay(_ context.Context, userID uuid.UUID, year, month int, date string, day *models.CalendarDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.calendars[monthKey{userID, year, month}]
	if !ok {
		return ErrNotFound
	}
	if _, ok := days[date]; !ok {
		return ErrNotFound
	}

	clone := *day
	days[date] = &clone
	return nil
}

// Clear удаляет календарь месяца.
func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID, year, month int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.calendars, monthKey{userID, year, month})
	return nil
}

func copyDays(days map[string]*models.CalendarDay) map[string]*models.CalendarDay {
	out := make(map[string]*models.CalendarDay, len(days))
	for date, day := range days {
		clone := *day
		out[date] = &clone
	}
	return out
}
