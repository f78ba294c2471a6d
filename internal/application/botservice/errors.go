package botservice

import (
	"errors"
	"fmt"
)

var ErrCrashRequested = errors.New("получена команда " + Crash + ", аварийное завершение")

type ErrUnknownCommandKind struct {
	command string
	kind    CommandKind
}

func NewErrUnknownCommandKind(command string, kind CommandKind) *ErrUnknownCommandKind {
	return &ErrUnknownCommandKind{command: command, kind: kind}
}

func (err *ErrUnknownCommandKind) Error() string {
	return fmt.Sprintf("у команды %s неизвестный тип обработчика %d", err.command, err.kind)
}

type ErrOffsetStorage struct {
	op  string
	err error
}

func NewErrOffsetStorage(op string, err error) *ErrOffsetStorage {
	return &ErrOffsetStorage{op: op, err: err}
}

func (err *ErrOffsetStorage) Error() string {
	return fmt.Sprintf("ошибка хранилища offset при %s: %s", err.op, err.err)
}

func (err *ErrOffsetStorage) Unwrap() error {
	return err.err
}

type ErrRetriesExhausted struct {
	retries int
	err     error
}

func NewErrRetriesExhausted(retries int, err error) *ErrRetriesExhausted {
	return &ErrRetriesExhausted{retries: retries, err: err}
}

func (err *ErrRetriesExhausted) Error() string {
	return fmt.Sprintf("бот не восстановился после %d перезапусков: %s", err.retries, err.err)
}

func (err *ErrRetriesExhausted) Unwrap() error {
	return err.err
}
