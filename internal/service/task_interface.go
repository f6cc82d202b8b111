package service

import (
	"context"
	"time"

	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

// TaskRepository — контракт хранилища задач. Каждый метод доступа к
// конкретной задаче принимает ownerID: путь запроса по одному id не существует.
type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error)
	GetByOwner(ctx context.Context, ownerID string, status *task.Status) ([]*task.Task, error)
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) (bool, error)
	GetDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Task, error)
	HealthCheck(ctx context.Context) error
}

type AttachmentStore interface {
	Store(data []byte, originalFilename string) (string, error)
	ResolveContentType(ref string) string
	Serve(ref string) (data []byte, contentType string, disposition string, err error)
}
