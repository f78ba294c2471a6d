package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commandBot/internal/infrastructure/botapistub"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	conf, err := botapistub.NewConfig()
	if err != nil {
		logger.Error("ошибка при получении конфига заглушки", "err", err.Error())
		os.Exit(1)
	}

	stub := botapistub.New(conf.Token, botapistub.Identity{
		ID:        1,
		IsBot:     true,
		FirstName: "Stub Bot",
		Username:  conf.Username,
	}, logger)

	stub.SetPollWait(conf.PollWait)

	srv := &http.Server{
		Addr:         conf.Addr,
		Handler:      stub.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: conf.PollWait + 30*time.Second,
		IdleTimeout:  30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ошибка при остановке заглушки", "err", err.Error())
		}
	}()

	logger.Info("заглушка Bot API запущена", "addr", conf.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("заглушка Bot API закончила работу", "err", err.Error())
		os.Exit(1)
	}
}
