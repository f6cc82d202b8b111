package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/models/task"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
	Attachments AttachmentServer
}

func NewTaskHandler(taskService TaskService, attachments AttachmentServer) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
		Attachments: attachments,
	}
}

// ownerFromRequest достаёт доверенную личность из контекста; её отсутствие —
// ошибка клиента, не аутентификации (аутентификация делается снаружи).
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := middleware.GetOwnerID(r.Context())
	if ownerID == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "owner_id"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "идентификатор пользователя обязателен")
		return "", false
	}
	return ownerID, true
}

func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var statusFilter *task.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := task.Status(raw)
		statusFilter = &status
	}

	tasks, err := h.TaskService.GetTasks(r.Context(), ownerID, statusFilter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Content-Type должен быть application/json")
		return
	}

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), ownerID, request.Title, request.Description, request.Status, request.FilePath, request.Deadline)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	t, err := h.TaskService.GetTaskByID(r.Context(), id, ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", t.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(t))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), id, ownerID, request.Options()...)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", updated.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id, ownerID); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithPayloads(w, http.StatusOK, toPayload("success", true))
}

func (h *TaskHandler) AdvanceTask(w http.ResponseWriter, r *http.Request) {
	h.shiftStatus(w, r, h.TaskService.AdvanceStatus)
}

func (h *TaskHandler) RevertTask(w http.ResponseWriter, r *http.Request) {
	h.shiftStatus(w, r, h.TaskService.RevertStatus)
}

func (h *TaskHandler) shiftStatus(w http.ResponseWriter, r *http.Request, shift func(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error)) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	shifted, err := shift(r.Context(), id, ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("task_id", shifted.UUID.String()),
		zap.String("status", string(shifted.Status)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(shifted))
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Health check провален", err)
		responseWithPayloads(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}

	responseWithPayloads(w, http.StatusOK, toPayload("status", "ok"))
}
