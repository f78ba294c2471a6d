package migrator

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// драйвер postgres и источник миграций из файлов.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Up применяет все миграции из migrationsPath. Отсутствие новых миграций ошибкой не считается.
func Up(migrationsPath, dbURL string) error {
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("ошибка при создании мигратора: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Join(fmt.Errorf("ошибка при применении миграций: %w", err), closeMigrator(m))
	}

	return closeMigrator(m)
}

func closeMigrator(m *migrate.Migrate) error {
	srcErr, dbErr := m.Close()

	return errors.Join(srcErr, dbErr)
}
