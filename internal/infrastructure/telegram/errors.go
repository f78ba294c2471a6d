package telegram

import (
	"errors"
	"fmt"
)

const defaultServerErrorText = "Server Error"

// ServerError ошибка на стороне Bot API (5xx), тело ответа хранится как есть.
type ServerError struct {
	Description string
}

func NewServerError(description string) *ServerError {
	return &ServerError{Description: description}
}

func (err *ServerError) Error() string {
	if err.Description == "" {
		return defaultServerErrorText
	}

	return err.Description
}

// ClientError ошибка запроса (4xx). Ok и ErrorCode заполнены только если
// сервер прислал корректный конверт ошибки.
type ClientError struct {
	Description  string
	Ok           bool
	ErrorCode    int
	FromEnvelope bool
}

func NewClientError(reason string) *ClientError {
	return &ClientError{Description: reason}
}

func NewEnvelopeClientError(description string, ok bool, code int) *ClientError {
	return &ClientError{
		Description:  description,
		Ok:           ok,
		ErrorCode:    code,
		FromEnvelope: true,
	}
}

func (err *ClientError) Error() string {
	return err.Description
}

type ErrUnexpectedStatus struct {
	code int
}

func NewErrUnexpectedStatus(code int) *ErrUnexpectedStatus {
	return &ErrUnexpectedStatus{code: code}
}

func (err *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("Запрос к BOT API вернул неожиданный код ответа %d", err.code)
}

func (err *ErrUnexpectedStatus) Code() int {
	return err.code
}

type ErrBadAPIURL struct {
	url    string
	reason string
}

func NewErrBadAPIURL(url, reason string) *ErrBadAPIURL {
	return &ErrBadAPIURL{url: url, reason: reason}
}

func (err *ErrBadAPIURL) Error() string {
	return fmt.Sprintf("некорректный адрес Bot API %q: %s", err.url, err.reason)
}

type ErrBadResult struct {
	method string
	reason string
}

func NewErrBadResult(method, reason string) *ErrBadResult {
	return &ErrBadResult{method: method, reason: reason}
}

func (err *ErrBadResult) Error() string {
	return fmt.Sprintf("ответ на %s имеет неверный формат: %s", err.method, err.reason)
}

func IsServerError(err error) bool {
	var serverErr *ServerError

	return errors.As(err, &serverErr)
}

func IsClientError(err error) bool {
	var clientErr *ClientError

	return errors.As(err, &clientErr)
}
