package botservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"commandBot/internal/domain/tgbot"
	"commandBot/internal/infrastructure/telegram"
)

type TgClient interface {
	Sender
	GetUpdates(ctx context.Context, opts ...telegram.UpdatesOption) (*tgbot.Batch, error)
}

type OffsetStorage interface {
	Offset(ctx context.Context) (offset int64, ok bool, err error)
	SetOffset(ctx context.Context, offset int64) error
}

type CommandDispatcher interface {
	Dispatch(ctx context.Context, msg tgbot.Message) Outcome
}

type TgBot struct {
	tg         TgClient
	offsets    OffsetStorage
	dispatcher CommandDispatcher
	log        *slog.Logger
	polls      atomic.Int64
}

func New(tg TgClient, offsets OffsetStorage, dispatcher CommandDispatcher, log *slog.Logger) *TgBot {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &TgBot{
		tg:         tg,
		offsets:    offsets,
		dispatcher: dispatcher,
		log:        log,
	}
}

// RunForever опрашивает getUpdates, пока не придет /stop или /crash, не
// отменится ctx или не случится ошибка. Повторов внутри нет.
func (bot *TgBot) RunForever(ctx context.Context, timeout int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		stopped, err := bot.ProcessBatch(ctx, timeout)
		if err != nil {
			return err
		}

		if stopped {
			return nil
		}
	}
}

// Polls число успешных запросов getUpdates за время жизни бота.
func (bot *TgBot) Polls() int64 {
	return bot.polls.Load()
}

// ProcessBatch один цикл: чтение offset, getUpdates и обработка батча.
// offset сохраняется до обработки апдейта, поэтому доставка at-most-once.
func (bot *TgBot) ProcessBatch(ctx context.Context, timeout int) (bool, error) {
	offset, hasOffset, err := bot.offsets.Offset(ctx)
	if err != nil {
		return false, NewErrOffsetStorage("чтении", err)
	}

	opts := []telegram.UpdatesOption{telegram.WithTimeout(timeout)}

	if hasOffset {
		opts = append(opts, telegram.WithOffset(offset))
	}

	batch, err := bot.tg.GetUpdates(ctx, opts...)
	if err != nil {
		return false, fmt.Errorf("ошибка при пулинге новых сообщений: %w", err)
	}

	bot.polls.Add(1)

	if batch.Len() > 0 || batch.Skipped > 0 {
		bot.log.Info(fmt.Sprintf("Получено %d новых апдейтов", batch.Len()), "skipped", batch.Skipped)
	}

	for _, msg := range batch.Messages {
		offset, hasOffset = msg.UpdateID+1, true

		if err := bot.offsets.SetOffset(ctx, offset); err != nil {
			return false, NewErrOffsetStorage("записи", err)
		}

		outcome := bot.dispatcher.Dispatch(ctx, msg)

		switch outcome.Kind {
		case NoMatch:
			bot.log.Debug("нет команды для сообщения", "update_id", msg.UpdateID, "chat_id", msg.ChatID)
		case Replied:
			bot.log.Info("ответ отправлен", "update_id", msg.UpdateID, "chat_id", msg.ChatID, "command", msg.Text)
		case Terminated:
			return true, nil
		default:
			return false, fmt.Errorf("ошибка при обработке апдейта %d: %w", msg.UpdateID, outcome.Err)
		}
	}

	// хвост батча мог состоять из апдейтов, которые не удалось разобрать
	if batch.LastUpdateID > 0 && (!hasOffset || batch.LastUpdateID+1 > offset) {
		if err := bot.offsets.SetOffset(ctx, batch.LastUpdateID+1); err != nil {
			return false, NewErrOffsetStorage("записи", err)
		}
	}

	return false, nil
}
