package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(ownerID, title string) *task.Task {
	return &task.Task{
		UUID:    uuid.New(),
		OwnerID: ownerID,
		Title:   title,
		Status:  task.StatusOpen,
	}
}

// TestTaskStorage_New тестирует создание хранилища
func TestTaskStorage_New(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NotNil(t, storage)
}

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := newTask("u1", "Test Task")
	taskToCreate.Description = "Test Description"

	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)

	// Проверяем, что CreatedAt заполнен хранилищем
	assert.False(t, taskToCreate.CreatedAt.IsZero())

	retrieved, err := storage.GetByID(ctx, taskToCreate.UUID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Test Task", retrieved.Title)
	assert.Equal(t, "u1", retrieved.OwnerID)
}

// TestTaskStorage_GetByID тестирует выборку, ограниченную владельцем
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := newTask("u1", "Test Get Task")
	require.NoError(t, storage.Create(ctx, taskToCreate))

	retrieved, err := storage.GetByID(ctx, taskToCreate.UUID, "u1")
	require.NoError(t, err)
	assert.Equal(t, taskToCreate.UUID, retrieved.UUID)

	// Чужой владелец получает ту же ошибку, что и для несуществующей задачи
	_, err = storage.GetByID(ctx, taskToCreate.UUID, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = storage.GetByID(ctx, uuid.New(), "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_GetByOwner тестирует фильтрацию по владельцу и статусу
func TestTaskStorage_GetByOwner(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	first := newTask("u1", "First")
	second := newTask("u1", "Second")
	second.Status = task.StatusDone
	foreign := newTask("u2", "Foreign")

	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))
	require.NoError(t, storage.Create(ctx, foreign))

	// без фильтра — все задачи владельца в порядке вставки
	tasks, err := storage.GetByOwner(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First", tasks[0].Title)
	assert.Equal(t, "Second", tasks[1].Title)

	// с фильтром по статусу
	done := task.StatusDone
	tasks, err = storage.GetByOwner(ctx, "u1", &done)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Second", tasks[0].Title)

	// чужих задач не видно
	for _, tsk := range tasks {
		assert.NotEqual(t, "u2", tsk.OwnerID)
	}
}

// TestTaskStorage_Update тестирует обновление с проверкой владельца
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := newTask("u1", "Original Title")
	require.NoError(t, storage.Create(ctx, taskToCreate))

	updated := *taskToCreate
	updated.Title = "Updated Title"
	updated.Status = task.StatusInProgress

	require.NoError(t, storage.Update(ctx, &updated))
	assert.NotNil(t, updated.UpdatedAt)

	retrieved, err := storage.GetByID(ctx, taskToCreate.UUID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", retrieved.Title)
	assert.Equal(t, task.StatusInProgress, retrieved.Status)

	// обновление от чужого имени не проходит
	foreign := *retrieved
	foreign.OwnerID = "u2"
	assert.ErrorIs(t, storage.Update(ctx, &foreign), repository.ErrNotFound)
}

// TestTaskStorage_Delete тестирует удаление с проверкой владельца
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := newTask("u1", "To Delete")
	require.NoError(t, storage.Create(ctx, taskToCreate))

	// чужой владелец ничего не удаляет, запись остаётся
	removed, err := storage.Delete(ctx, taskToCreate.UUID, "u2")
	require.NoError(t, err)
	assert.False(t, removed)

	still, err := storage.GetByID(ctx, taskToCreate.UUID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "To Delete", still.Title)

	removed, err = storage.Delete(ctx, taskToCreate.UUID, "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = storage.GetByID(ctx, taskToCreate.UUID, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_GetDueBefore тестирует ленту просроченных задач
func TestTaskStorage_GetDueBefore(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	overdue := newTask("u1", "Overdue")
	overdue.Deadline = &past

	doneOverdue := newTask("u1", "Done Overdue")
	doneOverdue.Deadline = &past
	doneOverdue.Status = task.StatusDone

	upcoming := newTask("u2", "Upcoming")
	upcoming.Deadline = &future

	noDeadline := newTask("u2", "No Deadline")

	for _, tsk := range []*task.Task{overdue, doneOverdue, upcoming, noDeadline} {
		require.NoError(t, storage.Create(ctx, tsk))
	}

	tasks, err := storage.GetDueBefore(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Overdue", tasks[0].Title)
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентные операции
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tsk := newTask("u1", fmt.Sprintf("Task %d", n))
			assert.NoError(t, storage.Create(ctx, tsk))
			_, _ = storage.GetByOwner(ctx, "u1", nil)
		}(i)
	}
	wg.Wait()

	tasks, err := storage.GetByOwner(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)
}
