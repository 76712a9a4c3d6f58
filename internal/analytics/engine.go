package analytics

import (
	"sort"
	"sync"

	"example.com/budget-calendar/backend/internal/money"
)

type BehaviorEvent struct {
	UserID           string `json:"user_id"`
	Cohort           string `json:"cohort"`
	BehaviorTag      string `json:"behavior_tag"`
	ChallengeSuccess bool   `json:"challenge_success"`
	GoalCompleted    bool   `json:"goal_completed"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type RegionSummary struct {
	Cohorts              []TagCount `json:"cohorts"`
	Behaviors            []TagCount `json:"behaviors"`
	ChallengeSuccessRate float64    `json:"challenge_success_rate"`
	GoalCompletionRate   float64    `json:"goal_completion_rate"`
}

// Engine — легковесный накопитель поведенческих событий по регионам.
// Данные живут только в памяти процесса.
type Engine struct {
	mu      sync.Mutex
	regions map[string][]BehaviorEvent
}

// NewEngine создает аналитический движок.
func NewEngine() *Engine {
	return &Engine{regions: make(map[string][]BehaviorEvent)}
}

// LogBehavior добавляет поведенческое событие в список региона.
func (e *Engine) LogBehavior(userID, region, cohort, behaviorTag string, challengeSuccess, goalCompleted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.regions[region] = append(e.regions[region], BehaviorEvent{
		UserID:           userID,
		Cohort:           cohort,
		BehaviorTag:      behaviorTag,
		ChallengeSuccess: challengeSuccess,
		GoalCompleted:    goalCompleted,
	})
}

// Summarize возвращает по каждому региону топ-3 когорт и тегов поведения
// вместе с долями успеха челленджей и выполнения целей.
func (e *Engine) Summarize() map[string]RegionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]RegionSummary, len(e.regions))
	for region, events := range e.regions {
		cohorts := make(map[string]int)
		behaviors := make(map[string]int)
		successes := 0
		goals := 0

		for _, event := range events {
			cohorts[event.Cohort]++
			behaviors[event.BehaviorTag]++
			if event.ChallengeSuccess {
				successes++
			}
			if event.GoalCompleted {
				goals++
			}
		}

		total := float64(len(events))
		out[region] = RegionSummary{
			Cohorts:              topCounts(cohorts, 3),
			Behaviors:            topCounts(behaviors, 3),
			ChallengeSuccessRate: money.Round2(float64(successes) / total),
			GoalCompletionRate:   money.Round2(float64(goals) / total),
		}
	}

	return out
}

func topCounts(counts map[string]int, limit int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
