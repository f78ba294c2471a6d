package telegram_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"commandBot/internal/domain/tgbot"
	"commandBot/internal/infrastructure/botapistub"
	"commandBot/internal/infrastructure/telegram"
	"commandBot/internal/infrastructure/telegram/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBotToken = "123"
	apiURL       = "https://api.telegram.org"
)

var (
	errForTest = errors.New("ошибка для теста")

	testIdentity = botapistub.Identity{
		ID:        1234567,
		IsBot:     true,
		FirstName: "Test Bot",
		Username:  "test_bot",
	}
)

func okResponse(body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, "200 OK", body), nil
	}
}

func newMockClient(t *testing.T, client telegram.HTTPClient) *telegram.TgClient {
	session, err := telegram.NewSessionWithClient(apiURL, client)
	require.NoError(t, err)

	return telegram.NewClient(session, testBotToken, nil)
}

func newStubClient(t *testing.T, stub *botapistub.Server, token string) *telegram.TgClient {
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)

	session, err := telegram.NewSessionWithClient(server.URL, server.Client())
	require.NoError(t, err)

	return telegram.NewClient(session, token, nil)
}

func TestTgClient_GetUpdatesQuery(t *testing.T) {
	type testCase struct {
		name  string
		opts  []telegram.UpdatesOption
		query string
	}

	tests := []testCase{
		{
			name:  "без параметров query пустой",
			opts:  nil,
			query: "",
		},
		{
			name:  "только timeout",
			opts:  []telegram.UpdatesOption{telegram.WithTimeout(5)},
			query: "timeout=5",
		},
		{
			name:  "timeout и offset",
			opts:  []telegram.UpdatesOption{telegram.WithTimeout(5), telegram.WithOffset(851793508)},
			query: "offset=851793508&timeout=5",
		},
		{
			name:  "нулевой offset передается явно",
			opts:  []telegram.UpdatesOption{telegram.WithOffset(0)},
			query: "offset=0",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			httpClient := mocks.NewHTTPClient(t)

			httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.Method == http.MethodGet &&
					req.URL.Path == "/bot"+testBotToken+"/getUpdates" &&
					req.URL.RawQuery == test.query
			})).Return(okResponse(`{"ok":true,"result":[]}`), nil).Once()

			batch, err := newMockClient(t, httpClient).GetUpdates(context.Background(), test.opts...)

			require.NoError(t, err)
			assert.Equal(t, 0, batch.Len())
		})
	}
}

func TestTgClient_SendMessageBody(t *testing.T) {
	type testCase struct {
		name string
		opts []telegram.SendOption
		body string
	}

	tests := []testCase{
		{
			name: "сообщение без ответа на сообщение",
			body: `{"chat_id":104519755,"text":"Hi!"}`,
		},
		{
			name: "сообщение в ответ на сообщение",
			opts: []telegram.SendOption{telegram.ReplyTo(2)},
			body: `{"chat_id":104519755,"text":"Hi!","reply_to_message_id":2}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			httpClient := mocks.NewHTTPClient(t)

			httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				body, err := io.ReadAll(req.Body)
				if err != nil {
					return false
				}

				return req.Method == http.MethodPost &&
					req.URL.Path == "/bot"+testBotToken+"/sendMessage" &&
					req.Header.Get("Content-Type") == "application/json" &&
					req.ContentLength == int64(len(body)) &&
					string(body) == test.body
			})).Return(okResponse(`{"ok":true,"result":{}}`), nil).Once()

			err := newMockClient(t, httpClient).SendMessage(context.Background(), 104519755, "Hi!", test.opts...)

			assert.NoError(t, err)
		})
	}
}

func TestTgClient_SendMessageAnswer(t *testing.T) {
	type testCase struct {
		name    string
		resp    func(*http.Request) (*http.Response, error)
		correct bool
	}

	tests := []testCase{
		{
			name:    "сервер ответил корректным json",
			resp:    okResponse(`{"ok":true}`),
			correct: true,
		},
		{
			name:    "сервер ответил 200 с пустым телом",
			resp:    okResponse(""),
			correct: true,
		},
		{
			name:    "сервер присылает данные неверного формата",
			resp:    okResponse("Hello word"),
			correct: false,
		},
		{
			name: "сервер ответил 400",
			resp: func(*http.Request) (*http.Response, error) {
				return newResponse(http.StatusBadRequest, "400 Bad Request",
					`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`), nil
			},
			correct: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			httpClient := mocks.NewHTTPClient(t)
			httpClient.On("Do", mock.Anything).Return(test.resp, nil).Once()

			err := newMockClient(t, httpClient).SendMessage(context.Background(), 1, "Hello word")

			if test.correct {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTgClient_TransportError(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)

	httpClient.On("Do", mock.Anything).Return(func(req *http.Request) (*http.Response, error) {
		return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: errForTest}
	}).Once()

	_, err := newMockClient(t, httpClient).GetUpdates(context.Background())

	require.ErrorIs(t, err, errForTest)
	assert.NotContains(t, err.Error(), "bot"+testBotToken)
	assert.False(t, telegram.IsServerError(err))
	assert.False(t, telegram.IsClientError(err))
}

func TestTgClient_GetIdentity(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)

	me, err := newStubClient(t, stub, testBotToken).GetIdentity(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &tgbot.BotInformation{
		ID:        1234567,
		IsBot:     true,
		FirstName: "Test Bot",
		Username:  "test_bot",
	}, me)
}

func TestTgClient_GetIdentityErrors(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)
	client := newStubClient(t, stub, testBotToken)

	stub.FailNext("getMe", http.StatusInternalServerError, "Internal server error")
	stub.FailNext("getMe", http.StatusUnauthorized, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)

	_, err := client.GetIdentity(context.Background())

	var serverErr *telegram.ServerError

	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "Internal server error", serverErr.Error())

	_, err = client.GetIdentity(context.Background())

	var clientErr *telegram.ClientError

	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "Unauthorized", clientErr.Description)
	assert.False(t, clientErr.Ok)
	assert.Equal(t, 401, clientErr.ErrorCode)
}

func TestTgClient_GetIdentityWrongToken(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)

	_, err := newStubClient(t, stub, "456").GetIdentity(context.Background())

	var clientErr *telegram.ClientError

	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, 401, clientErr.ErrorCode)
}

func TestTgClient_GetIdentityBadResult(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "нет result", body: `{"ok":true}`},
		{name: "result не объект", body: `{"ok":true,"result":[]}`},
		{name: "нет username", body: `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Test Bot"}}`},
		{name: "id строкой", body: `{"ok":true,"result":{"id":"1","is_bot":true,"first_name":"a","username":"b"}}`},
		{name: "не json", body: `Hello word`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			httpClient := mocks.NewHTTPClient(t)
			httpClient.On("Do", mock.Anything).Return(okResponse(test.body), nil).Once()

			me, err := newMockClient(t, httpClient).GetIdentity(context.Background())

			assert.Error(t, err)
			assert.Nil(t, me)
		})
	}
}

func TestTgClient_GetUpdatesAndSendMessages(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)
	client := newStubClient(t, stub, testBotToken)

	stub.PushMessage(851793506, 104519755, 1, "/start")
	stub.PushMessage(851793507, 104519755, 2, "/end")
	stub.PushMessage(851793508, -274574250, 11, "/1234")

	batch, err := client.GetUpdates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []tgbot.Message{
		{UpdateID: 851793506, ChatID: 104519755, MessageID: 1, Text: "/start"},
		{UpdateID: 851793507, ChatID: 104519755, MessageID: 2, Text: "/end"},
		{UpdateID: 851793508, ChatID: -274574250, MessageID: 11, Text: "/1234"},
	}, batch.Messages)
	assert.Equal(t, int64(851793508), batch.LastUpdateID)
	assert.Equal(t, 0, batch.Skipped)

	ctx := context.Background()

	assert.NoError(t, client.SendMessage(ctx, batch.Messages[0].ChatID, "Hi!"))
	assert.NoError(t, client.SendMessage(ctx, batch.Messages[1].ChatID, "Reply", telegram.ReplyTo(batch.Messages[1].MessageID)))
	assert.NoError(t, client.SendMessage(ctx, batch.Messages[1].ChatID, "Reply", telegram.ReplyTo(batch.Messages[1].MessageID)))

	replyTo := int64(2)

	assert.Equal(t, []botapistub.SentMessage{
		{ChatID: 104519755, Text: "Hi!"},
		{ChatID: 104519755, Text: "Reply", ReplyToMessageID: &replyTo},
		{ChatID: 104519755, Text: "Reply", ReplyToMessageID: &replyTo},
	}, stub.Sent())
}

func TestTgClient_GetUpdatesOffset(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)
	client := newStubClient(t, stub, testBotToken)
	ctx := context.Background()
	timeout := 5

	stub.PushMessage(851793506, 104519755, 1, "/start")
	stub.PushMessage(851793507, 104519755, 2, "/end")

	batch, err := client.GetUpdates(ctx, telegram.WithTimeout(timeout))

	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	nextOffset := batch.Messages[1].UpdateID + 1

	batch, err = client.GetUpdates(ctx, telegram.WithTimeout(timeout), telegram.WithOffset(nextOffset))

	require.NoError(t, err)
	assert.Empty(t, batch.Messages)

	batch, err = client.GetUpdates(ctx, telegram.WithTimeout(timeout), telegram.WithOffset(nextOffset))

	require.NoError(t, err)
	assert.Empty(t, batch.Messages)

	stub.PushMessage(851793508, -274574250, 11, "/1234")

	batch, err = client.GetUpdates(ctx, telegram.WithTimeout(timeout), telegram.WithOffset(nextOffset))

	require.NoError(t, err)
	assert.Equal(t, []tgbot.Message{
		{UpdateID: 851793508, ChatID: -274574250, MessageID: 11, Text: "/1234"},
	}, batch.Messages)

	queries := stub.Queries("getUpdates")

	require.Len(t, queries, 4)
	assert.False(t, queries[0].Has("offset"))
	assert.Equal(t, "5", queries[0].Get("timeout"))
	assert.Equal(t, "851793508", queries[3].Get("offset"))
}

func TestTgClient_GetUpdatesSkipsBadElements(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)
	client := newStubClient(t, stub, testBotToken)

	stub.PushMessage(10, 1, 1, "/random")
	stub.PushUpdate(json.RawMessage(`{"update_id":11,"edited_message":{"message_id":2,"chat":{"id":1},"text":"x"}}`))
	stub.PushUpdate(json.RawMessage(`{"update_id":12,"message":{"message_id":3,"chat":{"id":1}}}`))
	stub.PushUpdate(json.RawMessage(`{"update_id":13,"message":{"message_id":"4","chat":{"id":1},"text":"x"}}`))
	stub.PushUpdate(json.RawMessage(`{"message":{"message_id":5,"chat":{"id":1},"text":"x"}}`))
	stub.PushUpdate(json.RawMessage(`"not an object"`))
	stub.PushMessage(14, 1, 6, "")
	stub.PushUpdate(json.RawMessage(`{"update_id":15,"message":{"message_id":7,"text":"x"}}`))

	batch, err := client.GetUpdates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []tgbot.Message{
		{UpdateID: 10, ChatID: 1, MessageID: 1, Text: "/random"},
		{UpdateID: 14, ChatID: 1, MessageID: 6, Text: ""},
	}, batch.Messages)
	assert.Equal(t, 6, batch.Skipped)
	assert.Equal(t, int64(15), batch.LastUpdateID)
}

func TestTgClient_GetUpdatesBadAnswer(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "тело не json", body: "Hello word"},
		{name: "нет result", body: `{"ok":true}`},
		{name: "result не массив", body: `{"ok":true,"result":{"update_id":1}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			httpClient := mocks.NewHTTPClient(t)
			httpClient.On("Do", mock.Anything).Return(okResponse(test.body), nil).Once()

			batch, err := newMockClient(t, httpClient).GetUpdates(context.Background())

			assert.Error(t, err)
			assert.Nil(t, batch)
		})
	}
}

func TestTgClient_GetUpdatesErrors(t *testing.T) {
	stub := botapistub.New(testBotToken, testIdentity, nil)
	client := newStubClient(t, stub, testBotToken)

	stub.FailNext("getUpdates", http.StatusBadGateway, "Bad Gateway")
	stub.FailNext("getUpdates", http.StatusConflict, "conflict")

	_, err := client.GetUpdates(context.Background())
	assert.True(t, telegram.IsServerError(err))

	_, err = client.GetUpdates(context.Background())

	var clientErr *telegram.ClientError

	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "Conflict", clientErr.Description)
	assert.False(t, clientErr.FromEnvelope)
}
