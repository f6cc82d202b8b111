package worker

import (
	"context"
	"testing"
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeadlineWorker_NotifiedPruned: отметки об уведомлениях не копятся
// вечно — удалённая задача исчезает из карты на следующей проверке
func TestDeadlineWorker_NotifiedPruned(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewTaskStorage()
	w := NewDeadlineWorker(repo, nil, nil)

	past := time.Now().Add(-time.Hour)
	overdue := &task.Task{
		UUID:     uuid.New(),
		OwnerID:  "u1",
		Title:    "Overdue",
		Status:   task.StatusOpen,
		Deadline: &past,
	}
	require.NoError(t, repo.Create(ctx, overdue))

	w.Check(ctx)
	assert.Contains(t, w.notified, overdue.UUID)

	// повторная проверка не уведомляет заново, отметка остаётся
	w.Check(ctx)
	assert.Contains(t, w.notified, overdue.UUID)

	removed, err := repo.Delete(ctx, overdue.UUID, "u1")
	require.NoError(t, err)
	require.True(t, removed)

	w.Check(ctx)
	assert.Empty(t, w.notified)
}

// TestDeadlineWorker_MovedDeadlineRenotifies: перенос дедлайна в прошлое на
// новое значение даёт повторное уведомление, обычный повтор цикла — нет
func TestDeadlineWorker_MovedDeadlineRenotifies(t *testing.T) {
	w := NewDeadlineWorker(inmemory.NewTaskStorage(), nil, nil)
	id := uuid.New()
	first := time.Now().Add(-2 * time.Hour)

	assert.True(t, w.markNotified(id, first))
	assert.False(t, w.markNotified(id, first))

	moved := first.Add(time.Hour)
	assert.True(t, w.markNotified(id, moved))
}
