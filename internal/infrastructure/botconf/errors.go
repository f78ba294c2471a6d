package botconf

import "fmt"

type ErrBadValue struct {
	name   string
	value  any
	reason string
}

func NewErrBadValue(name string, value any, reason string) *ErrBadValue {
	return &ErrBadValue{name: name, value: value, reason: reason}
}

func (err *ErrBadValue) Error() string {
	return fmt.Sprintf("неверное значение %s=%v: %s", err.name, err.value, err.reason)
}
