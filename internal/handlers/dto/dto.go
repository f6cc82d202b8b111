package dto

import (
	"time"

	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      task.Status `json:"status,omitempty"`
	FilePath    *string     `json:"file_path,omitempty"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *task.Status `json:"status,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	FilePath    *string      `json:"file_path,omitempty"`
}

// Options переводит запрос частичного обновления в набор опций:
// опции создаются только для переданных полей.
func (r *UpdateTaskRequest) Options() []task.Option {
	opts := []task.Option{}
	if r.Title != nil {
		opts = append(opts, task.WithTitle(*r.Title))
	}
	if r.Description != nil {
		opts = append(opts, task.WithDescription(*r.Description))
	}
	if r.Status != nil {
		opts = append(opts, task.WithStatus(*r.Status))
	}
	if r.Deadline != nil {
		opts = append(opts, task.WithDeadline(r.Deadline))
	}
	if r.FilePath != nil {
		opts = append(opts, task.WithAttachmentRef(*r.FilePath))
	}
	return opts
}

// TaskResponse — внешнее представление задачи; имена полей повторяют
// контракт клиента (file_path, creation_time).
type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	FilePath     *string    `json:"file_path"`
	CreationTime time.Time  `json:"creation_time"`
	Deadline     *time.Time `json:"deadline"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:           t.UUID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		FilePath:     t.AttachmentRef,
		CreationTime: t.CreatedAt,
		Deadline:     t.Deadline,
		UpdatedAt:    t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
