package handlers

import (
	"errors"
	"net/http"

	"taskBoard/internal/logger"
	"taskBoard/internal/service"

	"go.uber.org/zap"
)

// handleServiceError переводит бизнес-ошибку в HTTP-ответ. Детали
// хранилища наружу не уходят — клиент видит только классификацию.
func handleServiceError(w http.ResponseWriter, err error) {
	var busErr *service.BusinessError
	if errors.As(err, &busErr) {
		statusCode := mapBusinessErrorToHTTP(busErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", busErr.Code),
			zap.Int("http_status", statusCode))

		if statusCode >= 500 {
			responseWithPayloads(w, statusCode,
				toPayload("error", busErr.Code),
				toPayload("message", "внутренняя ошибка сервера"),
			)
			return
		}

		responseWithPayloads(w, statusCode,
			toPayload("error", busErr.Code),
			toPayload("message", busErr.Message),
			toPayload("details", busErr.Details),
		)
		return
	}

	logger.Error("HTTP: Неклассифицированная ошибка", err)
	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeStorage, service.CodePartialFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
