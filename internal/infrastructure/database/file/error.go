package file

import "fmt"

type ErrWithStorage struct {
	msg string
}

func NewErrWithStorage(msg string) *ErrWithStorage {
	return &ErrWithStorage{msg: msg}
}

func (e *ErrWithStorage) Error() string {
	return fmt.Sprintf("Произошла ошибка при работе с файлом offset: %s", e.msg)
}

type ErrBadOffset struct {
	value string
}

func NewErrBadOffset(value string) *ErrBadOffset {
	return &ErrBadOffset{value: value}
}

func (e *ErrBadOffset) Error() string {
	return fmt.Sprintf("в файле offset записано не число: %q", e.value)
}
