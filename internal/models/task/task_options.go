package task

import (
	"strings"
	"time"
)

// Option — функция частичного обновления: применяется к уже прочитанной
// задаче, незаполненные поля остаются прежними. nil-опция пропускается.
type Option func(*Task)

// WithTitle обрезает пробелы; пустой после обрезки заголовок не
// перезаписывает сохранённый (обновление поля становится no-op).
func WithTitle(title string) Option {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil
	}
	return func(t *Task) {
		t.Title = trimmed
	}
}

func WithDescription(description string) Option {
	return func(t *Task) {
		t.Description = strings.TrimSpace(description)
	}
}

// WithStatus не проверяет значение сам — проверка закрытого набора
// делается в сервисе до записи.
func WithStatus(status Status) Option {
	return func(t *Task) {
		t.Status = status
	}
}

func WithDeadline(deadline *time.Time) Option {
	return func(t *Task) {
		t.Deadline = deadline
	}
}

func WithAttachmentRef(ref string) Option {
	return func(t *Task) {
		t.AttachmentRef = &ref
	}
}
