package inmemory

import (
	"context"
	"sync"
	"time"

	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage — потокобезопасное хранилище в памяти. Слайс ids хранит
// порядок вставки, чтобы выборки были стабильны в пределах одного вызова.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()

	stored := *taskToCreate
	s.storage[taskToCreate.UUID] = &stored
	s.ids = append(s.ids, taskToCreate.UUID)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}

	copied := *stored
	return &copied, nil
}

func (s *TaskStorage) GetByOwner(ctx context.Context, ownerID string, status *task.Status) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		stored := s.storage[id]
		if stored.OwnerID != ownerID {
			continue
		}
		if status != nil && stored.Status != *status {
			continue
		}
		copied := *stored
		res = append(res, &copied)
	}

	return res, nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[taskToUpdate.UUID]
	if !ok || stored.OwnerID != taskToUpdate.OwnerID {
		return repo.ErrNotFound
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.CreatedAt = stored.CreatedAt

	copied := *taskToUpdate
	s.storage[taskToUpdate.UUID] = &copied
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID, ownerID string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[id]
	if !ok || stored.OwnerID != ownerID {
		return false, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return true, nil
}

func (s *TaskStorage) GetDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*task.Task{}
	for _, id := range s.ids {
		if len(tasks) >= limit {
			break
		}

		stored := s.storage[id]
		if stored.Status == task.StatusDone {
			continue
		}
		if stored.Deadline == nil || !stored.Deadline.Before(deadline) {
			continue
		}

		copied := *stored
		tasks = append(tasks, &copied)
	}

	return tasks, nil
}
