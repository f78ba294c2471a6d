package botservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"commandBot/internal/infrastructure/telegram"
)

type Runner interface {
	RunForever(ctx context.Context, timeout int) error
	Polls() int64
}

type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type SupervisorConfig struct {
	PollTimeout int
	RetryDelay  time.Duration
	MaxRetries  int // подряд идущих неудач, 0 без ограничения
}

type Supervisor struct {
	bot   Runner
	conf  SupervisorConfig
	sleep Sleeper
	log   *slog.Logger
}

func NewSupervisor(bot Runner, conf SupervisorConfig, sleep Sleeper, log *slog.Logger) *Supervisor {
	if sleep == nil {
		sleep = SleepContext
	}

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Supervisor{
		bot:   bot,
		conf:  conf,
		sleep: sleep,
		log:   log,
	}
}

// Retryable сообщает, стоит ли перезапускать цикл после ошибки.
// Перезапуск только для ошибок, полученных от Bot API.
func Retryable(err error) bool {
	return telegram.IsServerError(err) || telegram.IsClientError(err)
}

// Run перезапускает бота после ошибок Bot API с паузой RetryDelay.
// Остальные ошибки и отмена ctx возвращаются сразу. Счетчик перезапусков
// сбрасывается, если после прошлого перезапуска хотя бы один getUpdates прошел успешно.
func (s *Supervisor) Run(ctx context.Context) error {
	retries := 0
	polls := s.bot.Polls()

	for {
		err := s.bot.RunForever(ctx, s.conf.PollTimeout)
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !Retryable(err) {
			return err
		}

		if current := s.bot.Polls(); current > polls {
			retries, polls = 0, current
		}

		if s.conf.MaxRetries > 0 && retries >= s.conf.MaxRetries {
			return NewErrRetriesExhausted(retries, err)
		}

		retries++

		s.logFailure(err, retries)

		if err := s.sleep(ctx, s.conf.RetryDelay); err != nil {
			return err
		}
	}
}

func (s *Supervisor) logFailure(err error, attempt int) {
	var clientErr *telegram.ClientError

	if errors.As(err, &clientErr) && clientErr.FromEnvelope {
		switch clientErr.ErrorCode {
		case http.StatusUnauthorized, http.StatusNotFound:
			s.log.Warn("Bot API отклоняет запросы, проверьте токен",
				"err", err.Error(), "code", clientErr.ErrorCode, "attempt", attempt, "retry_in", s.conf.RetryDelay.String())

			return
		}
	}

	s.log.Error("ошибка при работе с Bot API, бот будет перезапущен",
		"err", err.Error(), "attempt", attempt, "retry_in", s.conf.RetryDelay.String())
}
