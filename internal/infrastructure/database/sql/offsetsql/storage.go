package offsetsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	// диалект для постгреса.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	offsetsTable = "bot_offsets"
	botColumn    = "bot_id"
	offsetColumn = "update_offset"
)

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OffsetStorage хранит offset в одной строке таблицы bot_offsets, строка выбирается по имени бота.
type OffsetStorage struct {
	botName string
	db      Querier
	dialect goqu.DialectWrapper
}

func NewStore(botName string, db Querier) *OffsetStorage {
	return &OffsetStorage{
		botName: botName,
		db:      db,
		dialect: goqu.Dialect("postgres"),
	}
}

func (s *OffsetStorage) Offset(ctx context.Context) (int64, bool, error) {
	var offset int64

	sqlCmd, args, err := s.dialect.From(offsetsTable).
		Select(offsetColumn).
		Where(goqu.Ex{botColumn: s.botName}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("ошибка при построении запроса offset: %w", err)
	}

	err = s.db.QueryRow(ctx, sqlCmd, args...).Scan(&offset)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("ошибка при получении offset бота %s: %w", s.botName, err)
	}

	return offset, true, nil
}

func (s *OffsetStorage) SetOffset(ctx context.Context, offset int64) error {
	sqlCmd, args, err := s.dialect.Insert(offsetsTable).
		Rows(goqu.Record{botColumn: s.botName, offsetColumn: offset}).
		OnConflict(goqu.DoUpdate(botColumn, goqu.Record{offsetColumn: goqu.L("EXCLUDED." + offsetColumn)})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("ошибка при построении запроса сохранения offset: %w", err)
	}

	if _, err := s.db.Exec(ctx, sqlCmd, args...); err != nil {
		return fmt.Errorf("ошибка при сохранении offset %d бота %s: %w", offset, s.botName, err)
	}

	return nil
}
