package postgres

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"taskBoard/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет встроенные миграции. Повторный запуск без новых
// версий — не ошибка.
func Migrate(connString string) error {
	logger.Info("Repository: Применение миграций")

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		logger.Error("Repository: Чтение встроенных миграций", err)
		return fmt.Errorf("чтение миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, toMigrateURL(connString))
	if err != nil {
		logger.Error("Repository: Инициализация мигратора", err)
		return fmt.Errorf("инициализация мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Repository: Новых миграций нет")
			return nil
		}
		logger.Error("Repository: Применение миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

// драйвер pgx/v5 в golang-migrate ждёт схему pgx5://
func toMigrateURL(connString string) string {
	if strings.HasPrefix(connString, "postgresql://") {
		return "pgx5://" + strings.TrimPrefix(connString, "postgresql://")
	}
	return "pgx5://" + strings.TrimPrefix(connString, "postgres://")
}
