package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"commandBot/internal/domain/tgbot"
)

const (
	getMe       = "getMe"
	getUpdates  = "getUpdates"
	sendMessage = "sendMessage"
	contentType = "Content-Type"
	jsonType    = "application/json"
)

type TgClient struct {
	basePath string
	token    string
	session  *Session
	log      *slog.Logger
}

type UpdatesOption func(q url.Values)

type SendOption func(msg *SendMessage)

// WithTimeout время в секундах, которое сервер может держать long-poll запрос.
func WithTimeout(seconds int) UpdatesOption {
	return func(q url.Values) {
		q.Set("timeout", strconv.Itoa(seconds))
	}
}

func WithOffset(offset int64) UpdatesOption {
	return func(q url.Values) {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}
}

func ReplyTo(messageID int64) SendOption {
	return func(msg *SendMessage) {
		msg.ReplyToMessageID = &messageID
	}
}

func NewClient(session *Session, token string, log *slog.Logger) *TgClient {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &TgClient{
		basePath: "bot" + token,
		token:    token,
		session:  session,
		log:      log,
	}
}

func (bot *TgClient) GetIdentity(ctx context.Context) (*tgbot.BotInformation, error) {
	jsonData, err := bot.requestToAPI(ctx, http.MethodGet, getMe, nil, nil)
	if err != nil {
		return nil, err
	}

	answer := &GetMeAnswer{}

	if err := json.Unmarshal(jsonData, answer); err != nil {
		return nil, fmt.Errorf("при десериализации ответа getMe произошла ошибка: %w", err)
	}

	user := answer.Result

	if user == nil {
		return nil, NewErrBadResult(getMe, "нет поля result")
	}

	if user.ID == nil || user.IsBot == nil || user.FirstName == nil || user.Username == nil {
		return nil, NewErrBadResult(getMe, "в result нет обязательных полей")
	}

	return &tgbot.BotInformation{
		ID:        *user.ID,
		IsBot:     *user.IsBot,
		FirstName: *user.FirstName,
		Username:  *user.Username,
	}, nil
}

func (bot *TgClient) SendMessage(ctx context.Context, chatID int64, text string, opts ...SendOption) error {
	data := &SendMessage{
		ChatID: chatID,
		Text:   text,
	}

	for _, opt := range opts {
		opt(data)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("при маршалинге сообщения возникла ошибка: %w", err)
	}

	responseData, err := bot.requestToAPI(ctx, http.MethodPost, sendMessage, nil, jsonData)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(responseData)) == 0 {
		return nil
	}

	serverAnswer := &DefaultServerAnswer{}

	if err := json.Unmarshal(responseData, serverAnswer); err != nil {
		return fmt.Errorf("при декодинге ответа sendMessage возникла ошибка: %w", err)
	}

	return nil
}

func (bot *TgClient) GetUpdates(ctx context.Context, opts ...UpdatesOption) (*tgbot.Batch, error) {
	q := url.Values{}

	for _, opt := range opts {
		opt(q)
	}

	jsonData, err := bot.requestToAPI(ctx, http.MethodGet, getUpdates, q, nil)
	if err != nil {
		return nil, err
	}

	answer := &GetUpdateAnswer{}

	if err := json.Unmarshal(jsonData, answer); err != nil {
		return nil, fmt.Errorf("при десериализации обновлений произошла ошибка: %w", err)
	}

	if len(answer.Result) == 0 {
		return nil, NewErrBadResult(getUpdates, "нет поля result")
	}

	var rawUpdates []json.RawMessage

	if err := json.Unmarshal(answer.Result, &rawUpdates); err != nil {
		return nil, NewErrBadResult(getUpdates, "result не является массивом")
	}

	return bot.parseUpdates(rawUpdates), nil
}

// parseUpdates разбирает каждый апдейт отдельно: неверный элемент пропускается,
// а не обрывает весь батч.
func (bot *TgClient) parseUpdates(rawUpdates []json.RawMessage) *tgbot.Batch {
	batch := &tgbot.Batch{Messages: make([]tgbot.Message, 0, len(rawUpdates))}

	for i, raw := range rawUpdates {
		id := &updateID{}

		if err := json.Unmarshal(raw, id); err == nil && id.UpdateID != nil && *id.UpdateID > batch.LastUpdateID {
			batch.LastUpdateID = *id.UpdateID
		}

		msg, err := extractMessage(raw)
		if err != nil {
			batch.Skipped++
			bot.log.Debug("апдейт пропущен", "index", i, "err", err.Error())

			continue
		}

		batch.Messages = append(batch.Messages, msg)
	}

	return batch
}

func extractMessage(raw json.RawMessage) (tgbot.Message, error) {
	update := &Update{}

	if err := json.Unmarshal(raw, update); err != nil {
		return tgbot.Message{}, fmt.Errorf("апдейт имеет неверный формат: %w", err)
	}

	switch {
	case update.UpdateID == nil:
		return tgbot.Message{}, errors.New("нет update_id")
	case update.Message == nil:
		return tgbot.Message{}, errors.New("нет message")
	case update.Message.Text == nil:
		return tgbot.Message{}, errors.New("нет message.text")
	case update.Message.MessageID == nil:
		return tgbot.Message{}, errors.New("нет message.message_id")
	case update.Message.Chat == nil || update.Message.Chat.ID == nil:
		return tgbot.Message{}, errors.New("нет message.chat.id")
	}

	return tgbot.Message{
		UpdateID:  *update.UpdateID,
		ChatID:    *update.Message.Chat.ID,
		MessageID: *update.Message.MessageID,
		Text:      *update.Message.Text,
	}, nil
}

// requestToAPI возвращает тело ответа только после проверки кода ответа.
func (bot *TgClient) requestToAPI(ctx context.Context, httpMethod, botMethod string, q url.Values, data []byte) ([]byte, error) {
	var body io.Reader

	if data != nil {
		body = bytes.NewReader(data)
	}

	requestURL := bot.session.URL(path.Join(bot.basePath, botMethod), q)

	req, err := http.NewRequestWithContext(ctx, httpMethod, requestURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("при создании запроса %s к botApi возникла ошибка: %w", botMethod, bot.hideToken(err))
	}

	if data != nil {
		req.Header.Set(contentType, jsonType)
		req.ContentLength = int64(len(data))
	}

	resp, err := bot.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос %s к botAPI закончился ошибкой: %w", botMethod, bot.hideToken(err))
	}

	defer resp.Body.Close()

	if err := CheckHTTPError(resp); err != nil {
		return nil, err
	}

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("при чтении ответа %s возникла ошибка: %w", botMethod, err)
	}

	return responseData, nil
}

// hideToken убирает токен из url.Error, чтобы он не попадал в логи.
func (bot *TgClient) hideToken(err error) error {
	var urlErr *url.Error

	if bot.token != "" && errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, bot.token, "<token>")
	}

	return err
}
