package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"commandBot/internal/application/botservice"
	"commandBot/internal/infrastructure/botconf"
	redisstore "commandBot/internal/infrastructure/cache/redis"
	"commandBot/internal/infrastructure/database/file"
	"commandBot/internal/infrastructure/database/memory"
	dbsql "commandBot/internal/infrastructure/database/sql"
	"commandBot/internal/infrastructure/database/sql/migrator"
	"commandBot/internal/infrastructure/database/sql/offsetsql"
	"commandBot/internal/infrastructure/telegram"
)

func main() {
	var logLevel = new(slog.LevelVar)

	logLevel.Set(slog.LevelInfo)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	appConf, err := botconf.New()
	if err != nil {
		logger.Error("ошибка при получении конфига бота", "err", err.Error())
		os.Exit(1)
	}

	logLevel.Set(appConf.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx, appConf, logger)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, appConf *botconf.Config, logger *slog.Logger) int {
	session, err := telegram.NewSession(appConf.APIURL, appConf.HTTPTimeout)
	if err != nil {
		logger.Error("ошибка при создании соединения с Bot API", "err", err.Error())
		return 1
	}

	tgClient := telegram.NewClient(session, appConf.BotToken, logger)

	offsets, closeStore, err := newOffsetStorage(ctx, appConf, logger)
	if err != nil {
		logger.Error("ошибка при создании хранилища offset", "err", err.Error(), "storage", appConf.OffsetStorage)
		return 1
	}

	defer closeStore()

	identity, err := tgClient.GetIdentity(ctx)
	if err != nil {
		logger.Error("ошибка при получении информации о боте", "err", err.Error())
		return 1
	}

	logger.Info("инициализация телеграмм бота прошла успешно", "username", identity.Username, "id", identity.ID)

	dispatcher := botservice.NewDispatcher(tgClient, botservice.NewProcessTerminator(logger), botservice.DefaultCommands(nil), logger)
	tgBot := botservice.New(tgClient, offsets, dispatcher, logger)

	supervisor := botservice.NewSupervisor(tgBot, botservice.SupervisorConfig{
		PollTimeout: appConf.PollTimeout,
		RetryDelay:  appConf.RetryDelay,
		MaxRetries:  appConf.RetryMax,
	}, botservice.SleepContext, logger)

	err = supervisor.Run(ctx)

	switch {
	case err == nil:
		logger.Info("бот закончил работу")
	case errors.Is(err, context.Canceled):
		logger.Info("бот остановлен по сигналу")
	default:
		logger.Error("бот закончил работу с ошибкой", "err", err.Error())
		return 1
	}

	return 0
}

func newOffsetStorage(ctx context.Context, appConf *botconf.Config, logger *slog.Logger) (botservice.OffsetStorage, func(), error) {
	noop := func() {}

	switch appConf.OffsetStorage {
	case botconf.MemoryStorage:
		return memory.NewOffsetStorage(), noop, nil
	case botconf.FileStorage:
		return file.NewFileStorage(appConf.OffsetFile), noop, nil
	case botconf.RedisStorage:
		redisConf, err := redisstore.NewConfig()
		if err != nil {
			return nil, nil, err
		}

		store, err := redisstore.NewStore(redisConf)
		if err != nil {
			return nil, nil, err
		}

		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("ошибка при закрытии redis", "err", err.Error())
			}
		}, nil
	case botconf.PostgresStorage:
		dbConf, err := dbsql.NewConfig()
		if err != nil {
			return nil, nil, err
		}

		if err := migrator.Up(dbConf.MigrationsPath, dbConf.ToDSN()); err != nil {
			return nil, nil, err
		}

		pool, err := dbsql.ConnectToDB(ctx, dbConf.ToDSN())
		if err != nil {
			return nil, nil, err
		}

		return offsetsql.NewStore(dbConf.BotName, pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("неизвестное хранилище %s", appConf.OffsetStorage)
	}
}
