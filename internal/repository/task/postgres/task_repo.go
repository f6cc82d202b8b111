package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, owner_id, title, description, status, attachment_ref, deadline, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.OwnerID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.AttachmentRef,
		taskToCreate.Deadline,
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// GetByID всегда фильтрует и по uuid, и по owner_id: выборка только по id
// отсюда невозможна.
func (s *Storage) GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				owner_id,
				title,
				description,
				status,
				attachment_ref,
				deadline,
				created_at,
				updated_at
				FROM tasks
				WHERE uuid = $1 AND owner_id = $2`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&t.UUID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.AttachmentRef,
		&t.Deadline,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

// GetByOwner возвращает все задачи владельца, при заданном status — только с
// точным совпадением. Порядок стабилен: created_at, затем uuid.
func (s *Storage) GetByOwner(ctx context.Context, ownerID string, status *task.Status) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				owner_id,
				title,
				description,
				status,
				attachment_ref,
				deadline,
				created_at,
				updated_at
				FROM tasks
				WHERE owner_id = $1`
	args := []any{ownerID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at, uuid`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}
		err := rows.Scan(
			&t.UUID,
			&t.OwnerID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.AttachmentRef,
			&t.Deadline,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				attachment_ref = $4,
				deadline = $5,
				updated_at = NOW()
			WHERE uuid = $6 AND owner_id = $7
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.AttachmentRef,
		taskToUpdate.Deadline,
		taskToUpdate.UUID,
		taskToUpdate.OwnerID,
	).Scan(&taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Обновление несуществующей или чужой задачи",
				zap.String("task_id", taskToUpdate.UUID.String()))
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Delete возвращает false, когда строка не была удалена: нет такой задачи
// либо она принадлежит другому владельцу.
func (s *Storage) Delete(ctx context.Context, id uuid.UUID, ownerID string) (bool, error) {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE uuid = $1 AND owner_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("удаление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return tag.RowsAffected() > 0, nil
}

// GetDueBefore отдаёт незавершённые задачи с дедлайном раньше t — лента для
// фонового уведомителя, без фильтра по владельцу.
func (s *Storage) GetDueBefore(ctx context.Context, t time.Time, limit int) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				uuid,
				owner_id,
				title,
				description,
				status,
				attachment_ref,
				deadline,
				created_at,
				updated_at
				FROM tasks
				WHERE status != $1
				AND deadline IS NOT NULL
				AND deadline < $2
				ORDER BY deadline
				LIMIT $3`

	rows, err := s.pool.Query(ctx, query, task.StatusDone, t, limit)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		tsk := &task.Task{}
		err := rows.Scan(
			&tsk.UUID,
			&tsk.OwnerID,
			&tsk.Title,
			&tsk.Description,
			&tsk.Status,
			&tsk.AttachmentRef,
			&tsk.Deadline,
			&tsk.CreatedAt,
			&tsk.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, tsk)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return tasks, nil
}
