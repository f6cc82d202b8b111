package handlers

import (
	"context"
	"time"

	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, ownerID, title, description string, status task.Status, attachmentRef *string, deadline *time.Time) (*task.Task, error)
	GetTasks(ctx context.Context, ownerID string, status *task.Status) ([]*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, ownerID string, options ...task.Option) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, ownerID string) error
	AdvanceStatus(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error)
	RevertStatus(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error)
	UploadAttachment(ctx context.Context, data []byte, originalFilename string) (string, error)
	ReplaceAttachment(ctx context.Context, id uuid.UUID, ownerID string, data []byte, originalFilename string) (*task.Task, error)
}

// AttachmentServer отдаёт содержимое файла для GET /uploads/{name}.
type AttachmentServer interface {
	Serve(ref string) (data []byte, contentType string, disposition string, err error)
}
