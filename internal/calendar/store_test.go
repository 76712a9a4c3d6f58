package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"example.com/budget-calendar/backend/internal/models"
)

// TestMemoryStoreSaveGet проверяет сохранение и чтение календаря месяца.
func TestMemoryStoreSaveGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	days, err := NewGenerator().Generate(models.MonthlyBudgetPlan{Income: 900}, 2025, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Save(ctx, userID, 2025, 4, days); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(ctx, userID, 2025, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 30 {
		t.Fatalf("expected 30 days, got %d", len(got))
	}
}

// TestMemoryStoreGetMissing проверяет ErrNotFound для несохраненного месяца.
func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Get(context.Background(), uuid.New(), 2025, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestMemoryStoreUpdateDay проверяет замену одного дня.
func TestMemoryStoreUpdateDay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	days, _ := NewGenerator().Generate(models.MonthlyBudgetPlan{Income: 300}, 2025, 4)
	if err := store.Save(ctx, userID, 2025, 4, days); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	day := models.NewCalendarDay("2025-04-10", models.DayTypeWeekday)
	day.AddPlanned("groceries", 42)
	day.ActualSpent = map[string]float64{"groceries": 55}
	day.Status = map[string]string{"groceries": models.StatusOverspent}

	if err := store.UpdateDay(ctx, userID, 2025, 4, "2025-04-10", day); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(ctx, userID, 2025, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got["2025-04-10"].Total != 42 {
		t.Fatalf("expected updated total 42, got %v", got["2025-04-10"].Total)
	}
	if !got["2025-04-10"].Overspent() {
		t.Fatal("expected overspent status to persist")
	}

	if err := store.UpdateDay(ctx, userID, 2025, 4, "2025-05-01", day); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown date, got %v", err)
	}
}

// TestMemoryStoreClear проверяет удаление календаря месяца.
func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	days, _ := NewGenerator().Generate(models.MonthlyBudgetPlan{Income: 300}, 2025, 4)
	_ = store.Save(ctx, userID, 2025, 4, days)

	if err := store.Clear(ctx, userID, 2025, 4); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Get(ctx, userID, 2025, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

// TestMemoryStoreGetReturnsCopy проверяет, что мутация результата не трогает хранилище.
func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	days, _ := NewGenerator().Generate(models.MonthlyBudgetPlan{Income: 300}, 2025, 4)
	_ = store.Save(ctx, userID, 2025, 4, days)

	got, _ := store.Get(ctx, userID, 2025, 4)
	got["2025-04-01"].Total = 9999

	again, _ := store.Get(ctx, userID, 2025, 4)
	if again["2025-04-01"].Total == 9999 {
		t.Fatal("expected store to be isolated from caller mutation")
	}
}
