package botservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"commandBot/internal/domain/tgbot"
	"commandBot/internal/infrastructure/telegram"
)

const (
	Random     = "/random"
	Weather    = "/weather"
	Styleguide = "/styleguide"
	Stop       = "/stop"
	Crash      = "/crash"
)

const (
	WeatherMsg    = "Winter Is Coming"
	StyleguideMsg = "- Lets do a quick code review\n- This little maneuver is gonna cost us 51 years"
	randomMax     = 100
)

type CommandKind int

const (
	ReplyCommand CommandKind = iota
	ExitCommand
	AbortCommand
)

type Command struct {
	Kind           CommandKind
	Reply          func() string
	ReplyToMessage bool
}

type OutcomeKind int

const (
	Replied OutcomeKind = iota
	NoMatch
	Failed
	Terminated
)

func (k OutcomeKind) String() string {
	switch k {
	case Replied:
		return "replied"
	case NoMatch:
		return "no_match"
	case Failed:
		return "failed"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Outcome результат обработки одного сообщения. Err заполнен только для Failed.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

//go:generate mockery

type Sender interface {
	SendMessage(ctx context.Context, chatID tgbot.ID, text string, opts ...telegram.SendOption) error
}

type Terminator interface {
	Exit(code int)
	Abort()
}

// ProcessTerminator завершает процесс: Exit штатно, Abort через панику со стектрейсом.
type ProcessTerminator struct {
	log *slog.Logger
}

func NewProcessTerminator(log *slog.Logger) *ProcessTerminator {
	return &ProcessTerminator{log: log}
}

func (p *ProcessTerminator) Exit(code int) {
	p.log.Info("бот остановлен командой", "command", Stop, "code", code)
	os.Exit(code)
}

func (p *ProcessTerminator) Abort() {
	p.log.Error("аварийное завершение по команде", "command", Crash)
	panic(ErrCrashRequested)
}

func DefaultCommands(intN func(n int) int) map[string]Command {
	if intN == nil {
		intN = rand.IntN
	}

	return map[string]Command{
		Random: {
			Kind:           ReplyCommand,
			Reply:          func() string { return strconv.Itoa(intN(randomMax + 1)) },
			ReplyToMessage: true,
		},
		Weather: {
			Kind:  ReplyCommand,
			Reply: func() string { return WeatherMsg },
		},
		Styleguide: {
			Kind:  ReplyCommand,
			Reply: func() string { return StyleguideMsg },
		},
		Stop:  {Kind: ExitCommand},
		Crash: {Kind: AbortCommand},
	}
}

type Dispatcher struct {
	tg         Sender
	terminator Terminator
	commands   map[string]Command
	log        *slog.Logger
}

func NewDispatcher(tg Sender, terminator Terminator, commands map[string]Command, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Dispatcher{
		tg:         tg,
		terminator: terminator,
		commands:   commands,
		log:        log,
	}
}

// Dispatch ищет команду по точному совпадению текста сообщения.
func (d *Dispatcher) Dispatch(ctx context.Context, msg tgbot.Message) Outcome {
	command, ok := d.commands[msg.Text]
	if !ok {
		return Outcome{Kind: NoMatch}
	}

	switch command.Kind {
	case ReplyCommand:
		var opts []telegram.SendOption

		if command.ReplyToMessage {
			opts = append(opts, telegram.ReplyTo(msg.MessageID))
		}

		if err := d.tg.SendMessage(ctx, msg.ChatID, command.Reply(), opts...); err != nil {
			return Outcome{Kind: Failed, Err: fmt.Errorf("при ответе на %s произошла ошибка: %w", msg.Text, err)}
		}

		return Outcome{Kind: Replied}
	case ExitCommand:
		d.terminator.Exit(0)

		return Outcome{Kind: Terminated}
	case AbortCommand:
		d.terminator.Abort()

		return Outcome{Kind: Terminated}
	default:
		return Outcome{Kind: Failed, Err: NewErrUnknownCommandKind(msg.Text, command.Kind)}
	}
}
