package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID          uuid.UUID  `json:"uuid" db:"uuid"`
	OwnerID       string     `json:"owner_id" db:"owner_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Status        Status     `json:"status" db:"status"`
	AttachmentRef *string    `json:"attachment_ref,omitempty" db:"attachment_ref"`
	Deadline      *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type Status string

const StatusOpen Status = "open"
const StatusInProgress Status = "in_progress"
const StatusDone Status = "done"

// Valid сообщает, входит ли значение в закрытый набор статусов.
// Никакое другое значение не должно попасть в хранилище.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next возвращает следующий статус жизненного цикла.
// done — терминальное состояние, Next(done) = done.
func (s Status) Next() Status {
	switch s {
	case StatusOpen:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusDone
	}
}

// Prev возвращает предыдущий статус. Prev(open) = open.
func (s Status) Prev() Status {
	switch s {
	case StatusDone:
		return StatusInProgress
	case StatusInProgress:
		return StatusOpen
	default:
		return StatusOpen
	}
}
