package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	rep "taskBoard/internal/repository"
	"taskBoard/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка правил бизнес-логики: владелец, статусы,
// обрезка полей, значения по умолчанию

type TaskService struct {
	repo  TaskRepository
	files AttachmentStore
}

func NewTaskService(repo TaskRepository, files AttachmentStore) TaskService {
	return TaskService{
		repo:  repo,
		files: files,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// CreateTask валидирует вход до каких-либо побочных эффектов: при ошибке
// валидации запись не выполняется. attachmentRef — ссылка, полученная
// клиентом от предварительной загрузки через /upload.
func (s *TaskService) CreateTask(ctx context.Context, ownerID, title, description string, status task.Status, attachmentRef *string, deadline *time.Time) (*task.Task, error) {
	if ownerID == "" {
		return nil, NewValidationError("owner_id", "владелец не задан")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	if status == "" {
		status = task.StatusOpen
	}
	if !status.Valid() {
		return nil, NewValidationError("status", "недопустимое значение статуса")
	}

	t := &task.Task{
		UUID:          uuid.New(),
		OwnerID:       ownerID,
		Title:         title,
		Description:   strings.TrimSpace(description),
		Status:        status,
		AttachmentRef: attachmentRef,
		Deadline:      deadline,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, NewStorageError(err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", t.UUID.String()),
		zap.String("owner_id", ownerID))
	return t, nil
}

func (s *TaskService) GetTasks(ctx context.Context, ownerID string, status *task.Status) ([]*task.Task, error) {
	if ownerID == "" {
		return nil, NewValidationError("owner_id", "владелец не задан")
	}
	if status != nil && !status.Valid() {
		return nil, NewValidationError("status", "недопустимое значение статуса")
	}

	tasks, err := s.repo.GetByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error) {
	if ownerID == "" {
		return nil, NewValidationError("owner_id", "владелец не задан")
	}

	t, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewStorageError(err)
	}
	return t, nil
}

// UpdateTask — чтение-слияние-запись: незаданные поля сохраняют прежние
// значения. Между чтением и записью другой запрос того же владельца может
// быть перезаписан (last-write-wins, осознанный компромисс).
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, ownerID string, options ...task.Option) (*task.Task, error) {
	if ownerID == "" {
		return nil, NewValidationError("owner_id", "владелец не задан")
	}

	t, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, NewStorageError(err)
	}

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	if !t.Status.Valid() {
		return nil, NewValidationError("status", "недопустимое значение статуса")
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(id.String())
		}
		return nil, NewStorageError(err)
	}

	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID, ownerID string) error {
	if ownerID == "" {
		return NewValidationError("owner_id", "владелец не задан")
	}

	removed, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return NewStorageError(err)
	}
	if !removed {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
		return NewNotFound(id.String())
	}

	// файл вложения намеренно не удаляется вместе с задачей
	logger.Info("Service: Задача удалена",
		zap.String("task_id", id.String()),
		zap.String("owner_id", ownerID))
	return nil
}

// AdvanceStatus переводит open -> in_progress -> done; done остаётся done.
func (s *TaskService) AdvanceStatus(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.UpdateTask(ctx, id, ownerID, task.WithStatus(t.Status.Next()))
}

// RevertStatus переводит done -> in_progress -> open; open остаётся open.
func (s *TaskService) RevertStatus(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.UpdateTask(ctx, id, ownerID, task.WithStatus(t.Status.Prev()))
}

// UploadAttachment сохраняет файл без привязки к задаче и возвращает ссылку.
func (s *TaskService) UploadAttachment(ctx context.Context, data []byte, originalFilename string) (string, error) {
	ref, err := s.files.Store(data, originalFilename)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return "", NewValidationError("file", "файл не передан")
		}
		return "", NewStorageError(err)
	}
	return ref, nil
}

// ReplaceAttachment сначала пишет файл, затем обновляет ссылку на задаче.
// Операция не атомарна: если задача не найдена после успешной записи,
// файл остаётся осиротевшим — событие логируется отдельно для внеполосной
// сверки, прежний файл по той же причине не удаляется.
func (s *TaskService) ReplaceAttachment(ctx context.Context, id uuid.UUID, ownerID string, data []byte, originalFilename string) (*task.Task, error) {
	if ownerID == "" {
		return nil, NewValidationError("owner_id", "владелец не задан")
	}

	ref, err := s.files.Store(data, originalFilename)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return nil, NewValidationError("file", "файл не передан")
		}
		return nil, NewStorageError(err)
	}

	t, err := s.UpdateTask(ctx, id, ownerID, task.WithAttachmentRef(ref))
	if err != nil {
		var busErr *BusinessError
		if errors.As(err, &busErr) && busErr.Code == CodeNotFound {
			logger.Warn("Service: Файл записан, но задача не обновлена",
				zap.String("error_code", CodePartialFailure),
				zap.String("event", "attachment_orphaned"),
				zap.String("orphaned_ref", ref),
				zap.String("task_id", id.String()),
				zap.String("owner_id", ownerID))
		}
		return nil, err
	}

	logger.Info("Service: Вложение заменено",
		zap.String("task_id", id.String()),
		zap.String("attachment_ref", ref))
	return t, nil
}
