package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// предел буферизации multipart-формы в памяти
const maxUploadMemory = 32 << 20

// readUploadedFile достаёт поле "file" из multipart-формы.
func readUploadedFile(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("HTTP: Ошибка разбора multipart-формы",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "файл не передан")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("HTTP: Поле file отсутствует",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "файл не передан")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("HTTP: Ошибка чтения файла", err,
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "ошибка чтения файла")
		return nil, "", false
	}

	return data, header.Filename, true
}

// UploadFile сохраняет файл без привязки к задаче: клиент затем передаёт
// полученный file_path при создании или обновлении задачи.
func (h *TaskHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	data, filename, ok := readUploadedFile(w, r)
	if !ok {
		return
	}

	ref, err := h.TaskService.UploadAttachment(r.Context(), data, filename)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Файл загружен",
		zap.String("file_path", ref),
		zap.Int("size", len(data)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithPayloads(w, http.StatusOK,
		toPayload("success", true),
		toPayload("file_path", ref),
	)
}

func (h *TaskHandler) ReplaceTaskFile(w http.ResponseWriter, r *http.Request) {
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

	data, filename, ok := readUploadedFile(w, r)
	if !ok {
		return
	}

	updated, err := h.TaskService.ReplaceAttachment(r.Context(), id, ownerID, data, filename)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Файл задачи заменён",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithPayloads(w, http.StatusOK,
		toPayload("message", "файл заменён"),
		toPayload("file_path", updated.AttachmentRef),
	)
}

// ServeFile отдаёт содержимое вложения с Content-Type и Content-Disposition:
// просмотр в браузере для видео/изображений/pdf/docx, скачивание для прочего.
func (h *TaskHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	name := chi.URLParam(r, "name")

	data, contentType, disposition, err := h.Attachments.Serve(storage.RefPrefix + name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			responseWithError(w, http.StatusNotFound, "файл не найден")
			return
		}
		logger.Error("HTTP: Ошибка чтения вложения", err)
		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
