package telegram

import "encoding/json"

type DefaultServerAnswer struct {
	Ok bool `json:"ok"`
}

type ErrorAnswer struct {
	Ok          *bool   `json:"ok"`
	ErrorCode   *int    `json:"error_code"`
	Description *string `json:"description"`
}

func (a *ErrorAnswer) complete() bool {
	return a.Ok != nil && a.ErrorCode != nil && a.Description != nil
}

type GetMeAnswer struct {
	DefaultServerAnswer
	Result *BotUser `json:"result"`
}

type BotUser struct {
	ID        *int64  `json:"id"`
	IsBot     *bool   `json:"is_bot"`
	FirstName *string `json:"first_name"`
	Username  *string `json:"username"`
}

type GetUpdateAnswer struct {
	DefaultServerAnswer
	Result json.RawMessage `json:"result"`
}

// поля сделаны указателями, чтобы отличать отсутствующее поле от нулевого значения

type updateID struct {
	UpdateID *int64 `json:"update_id"`
}

type Update struct {
	UpdateID *int64   `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID *int64  `json:"message_id"`
	Text      *string `json:"text"`
	Chat      *Chat   `json:"chat"`
}

type Chat struct {
	ID *int64 `json:"id"`
}

type SendMessage struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text"`
	ReplyToMessageID *int64 `json:"reply_to_message_id,omitempty"`
}
