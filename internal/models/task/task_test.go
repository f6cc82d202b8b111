package task_test

import (
	"testing"
	"time"

	"taskBoard/internal/models/task"

	"github.com/stretchr/testify/assert"
)

// TestStatus_Valid тестирует закрытый набор статусов
func TestStatus_Valid(t *testing.T) {
	assert.True(t, task.StatusOpen.Valid())
	assert.True(t, task.StatusInProgress.Valid())
	assert.True(t, task.StatusDone.Valid())

	assert.False(t, task.Status("").Valid())
	assert.False(t, task.Status("bogus").Valid())
	assert.False(t, task.Status("archived").Valid())
}

// TestStatus_Next тестирует переходы open -> in_progress -> done -> done
func TestStatus_Next(t *testing.T) {
	tests := []struct {
		name     string
		from     task.Status
		expected task.Status
	}{
		{"open advances to in_progress", task.StatusOpen, task.StatusInProgress},
		{"in_progress advances to done", task.StatusInProgress, task.StatusDone},
		{"done is terminal", task.StatusDone, task.StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.Next())
		})
	}
}

// TestStatus_Prev тестирует переходы done -> in_progress -> open -> open
func TestStatus_Prev(t *testing.T) {
	tests := []struct {
		name     string
		from     task.Status
		expected task.Status
	}{
		{"done reverts to in_progress", task.StatusDone, task.StatusInProgress},
		{"in_progress reverts to open", task.StatusInProgress, task.StatusOpen},
		{"open stays open", task.StatusOpen, task.StatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.Prev())
		})
	}
}

// TestStatus_AdvanceChain: три шага из open дают done, done
func TestStatus_AdvanceChain(t *testing.T) {
	s := task.StatusOpen
	s = s.Next()
	assert.Equal(t, task.StatusInProgress, s)
	s = s.Next()
	assert.Equal(t, task.StatusDone, s)
	s = s.Next()
	assert.Equal(t, task.StatusDone, s)
}

// TestOption_WithTitle тестирует обрезку и защиту от пустого заголовка
func TestOption_WithTitle(t *testing.T) {
	tsk := &task.Task{Title: "Original"}

	opt := task.WithTitle("  New Title  ")
	opt(tsk)
	assert.Equal(t, "New Title", tsk.Title)

	// пустой после обрезки заголовок не создаёт опцию вовсе
	assert.Nil(t, task.WithTitle("   "))
	assert.Nil(t, task.WithTitle(""))
}

// TestOption_WithDescription тестирует обрезку описания
func TestOption_WithDescription(t *testing.T) {
	tsk := &task.Task{Description: "old"}

	task.WithDescription("  trimmed  ")(tsk)
	assert.Equal(t, "trimmed", tsk.Description)

	// пустое описание — допустимое обновление
	task.WithDescription("")(tsk)
	assert.Equal(t, "", tsk.Description)
}

// TestOption_WithDeadline тестирует установку и сброс дедлайна
func TestOption_WithDeadline(t *testing.T) {
	deadline := time.Now().Add(24 * time.Hour)
	tsk := &task.Task{}

	task.WithDeadline(&deadline)(tsk)
	assert.NotNil(t, tsk.Deadline)
	assert.True(t, deadline.Equal(*tsk.Deadline))
}

// TestOption_WithAttachmentRef тестирует замену ссылки на вложение
func TestOption_WithAttachmentRef(t *testing.T) {
	tsk := &task.Task{}

	task.WithAttachmentRef("/uploads/report.pdf")(tsk)
	assert.NotNil(t, tsk.AttachmentRef)
	assert.Equal(t, "/uploads/report.pdf", *tsk.AttachmentRef)
}
