package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeadlineWorker периодически находит незавершённые задачи с прошедшим
// дедлайном и пишет уведомление владельцу в лог. Статус задачи не трогаем:
// набор статусов закрыт, а показ уведомлений — забота клиента.
type DeadlineWorker struct {
	repo      service.TaskRepository
	interval  time.Duration
	batchSize int

	mtx      sync.Mutex
	notified map[uuid.UUID]time.Time
}

func NewDeadlineWorker(repo service.TaskRepository, interval *time.Duration, batchSize *int) *DeadlineWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}

	return &DeadlineWorker{
		repo:      repo,
		interval:  intervalToSet,
		batchSize: batchToSet,
		notified:  make(map[uuid.UUID]time.Time),
	}
}

func (w *DeadlineWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка дедлайнов", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *DeadlineWorker) Check(ctx context.Context) {
	start := time.Now()

	tasks, err := w.getDueTasks(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return
	}

	notifiedCount := 0
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	for _, t := range tasks {
		if t.Deadline == nil || t.Status == task.StatusDone {
			continue
		}
		seen[t.UUID] = struct{}{}
		if !w.markNotified(t.UUID, *t.Deadline) {
			continue
		}

		logger.Info("Worker: Дедлайн задачи пропущен",
			zap.String("event", "deadline_passed"),
			zap.String("task_id", t.UUID.String()),
			zap.String("owner_id", t.OwnerID),
			zap.String("title", t.Title),
			zap.Time("deadline", *t.Deadline))
		notifiedCount++
	}

	w.prune(seen)

	logger.Info(
		"Worker: Завершение проверки дедлайнов",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("notified", notifiedCount),
	)
}

// prune выбрасывает отметки по задачам, пропавшим из выборки (удалённым,
// завершённым или с перенесённым в будущее дедлайном), иначе карта notified
// растёт без ограничения за время жизни процесса.
func (w *DeadlineWorker) prune(seen map[uuid.UUID]struct{}) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	for id := range w.notified {
		if _, ok := seen[id]; !ok {
			delete(w.notified, id)
		}
	}
}

func (w *DeadlineWorker) getDueTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := w.repo.GetDueBefore(ctx, time.Now(), w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("получение просроченных задач: %w", err)
	}
	return tasks, nil
}

// markNotified возвращает true только один раз на каждое значение дедлайна:
// перенос дедлайна приводит к повторному уведомлению, повтор цикла — нет.
func (w *DeadlineWorker) markNotified(id uuid.UUID, deadline time.Time) bool {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if prev, ok := w.notified[id]; ok && prev.Equal(deadline) {
		return false
	}
	w.notified[id] = deadline
	return true
}
