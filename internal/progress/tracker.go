package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/models"
	"example.com/budget-calendar/backend/internal/money"
)

type monthKey struct {
	userID uuid.UUID
	month  string // "YYYY-MM"
}

// Tracker хранит помесячные записи прогресса в памяти процесса.
// Явный объект с мьютексом вместо глобального состояния модуля.
type Tracker struct {
	mu      sync.RWMutex
	history map[monthKey]models.ProgressRecord
}

// NewTracker создает трекер прогресса.
func NewTracker() *Tracker {
	return &Tracker{history: make(map[monthKey]models.ProgressRecord)}
}

// LogMonth записывает итог месяца: потрачено и сэкономлено от дохода.
// Повторный вызов за тот же месяц перезаписывает запись.
func (t *Tracker) LogMonth(userID uuid.UUID, year, month int, days map[string]*models.CalendarDay, income float64, country, region string) {
	var spent float64
	for _, day := range days {
		spent += day.Total
	}
	spent = money.Round2(spent)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.history[monthKey{userID, formatMonth(year, month)}] = models.ProgressRecord{
		Spent:   spent,
		Saved:   money.Round2(income - spent),
		Country: country,
		Region:  region,
	}
}

// MonthData возвращает запись прогресса месяца, если она есть.
func (t *Tracker) MonthData(userID uuid.UUID, year, month int) (models.ProgressRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	record, ok := t.history[monthKey{userID, formatMonth(year, month)}]
	return record, ok
}

// CompareToLast возвращает дельты к предыдущему календарному месяцу.
// Если любой из двух месяцев не записан, сравнения нет.
func (t *Tracker) CompareToLast(userID uuid.UUID, year, month int) (models.ProgressDelta, bool) {
	current, ok := t.MonthData(userID, year, month)
	if !ok {
		return models.ProgressDelta{}, false
	}

	prev := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	previous, ok := t.MonthData(userID, prev.Year(), int(prev.Month()))
	if !ok {
		return models.ProgressDelta{}, false
	}

	return models.ProgressDelta{
		SpentChange: money.Round2(current.Spent - previous.Spent),
		SavedChange: money.Round2(current.Saved - previous.Saved),
	}, true
}

func formatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
