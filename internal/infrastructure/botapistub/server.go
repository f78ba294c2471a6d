package botapistub

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

const (
	contentType = "Content-Type"
	jsonType    = "application/json"
	textType    = "text/plain; charset=utf-8"

	getMe       = "getMe"
	getUpdates  = "getUpdates"
	sendMessage = "sendMessage"
)

type Identity struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type SentMessage struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text"`
	ReplyToMessageID *int64 `json:"reply_to_message_id,omitempty"`
}

type errorAnswer struct {
	Ok          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

type okAnswer struct {
	Ok     bool `json:"ok"`
	Result any  `json:"result"`
}

type pendingUpdate struct {
	id  *int64
	raw json.RawMessage
}

type failure struct {
	status int
	body   string
}

// Server заглушка Bot API: отдает identity, очередь апдейтов с учетом offset
// и запоминает отправленные ботом сообщения.
type Server struct {
	mu       sync.Mutex
	token    string
	identity Identity
	pollWait time.Duration
	updates  []pendingUpdate
	notify   chan struct{}
	sent     []SentMessage
	failures map[string][]failure
	queries  map[string][]url.Values
	log      *slog.Logger
	router   *mux.Router
}

func New(token string, identity Identity, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		token:    token,
		identity: identity,
		notify:   make(chan struct{}),
		failures: make(map[string][]failure),
		queries:  make(map[string][]url.Values),
		log:      log,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/bot{token}").Subrouter()
	api.Use(s.checkToken)
	api.HandleFunc("/"+getMe, s.withFailures(getMe, s.handleGetMe)).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/"+getUpdates, s.withFailures(getUpdates, s.handleGetUpdates)).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/"+sendMessage, s.withFailures(sendMessage, s.handleSendMessage)).Methods(http.MethodPost)

	r.HandleFunc("/stub/updates", s.handlePushUpdate).Methods(http.MethodPost)
	r.HandleFunc("/stub/sent", s.handleSent).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not Found")
	})

	s.router = r

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// SetPollWait ограничивает время, на которое getUpdates с timeout держит
// соединение при пустой очереди. Ноль отключает ожидание.
func (s *Server) SetPollWait(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pollWait = d
}

// PushUpdate добавляет апдейт как есть, в том числе некорректный.
func (s *Server) PushUpdate(raw json.RawMessage) {
	update := pendingUpdate{raw: raw}

	var id struct {
		UpdateID *int64 `json:"update_id"`
	}

	if err := json.Unmarshal(raw, &id); err == nil {
		update.id = id.UpdateID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates = append(s.updates, update)

	close(s.notify)
	s.notify = make(chan struct{})
}

func (s *Server) PushMessage(updateID, chatID, messageID int64, text string) {
	quoted, err := json.Marshal(text)
	if err != nil {
		s.log.Error("не удалось сериализовать текст сообщения", "err", err.Error(), "update_id", updateID)
		return
	}

	raw := fmt.Sprintf(`{"update_id":%d,"message":{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"},"text":%s}}`,
		updateID, messageID, chatID, quoted)

	s.PushUpdate(json.RawMessage(raw))
}

// FailNext заставляет следующий вызов method вернуть status и body.
func (s *Server) FailNext(method string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[method] = append(s.failures[method], failure{status: status, body: body})
}

func (s *Server) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	sent := make([]SentMessage, len(s.sent))
	copy(sent, s.sent)

	return sent
}

func (s *Server) Queries(method string) []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	queries := make([]url.Values, len(s.queries[method]))
	copy(queries, s.queries[method])

	return queries
}

func (s *Server) checkToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["token"] != s.token {
			s.writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withFailures(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.queries[method] = append(s.queries[method], r.URL.Query())
		queued := s.failures[method]

		var fail *failure

		if len(queued) > 0 {
			fail = &queued[0]
			s.failures[method] = queued[1:]
		}
		s.mu.Unlock()

		if fail == nil {
			next(w, r)
			return
		}

		s.log.Debug("заглушка отвечает ошибкой", "method", method, "status", fail.status)

		if json.Valid([]byte(fail.body)) {
			w.Header().Set(contentType, jsonType)
		} else {
			w.Header().Set(contentType, textType)
		}

		w.WriteHeader(fail.status)

		if _, err := io.WriteString(w, fail.body); err != nil {
			s.log.Debug("ошибка при записи в тело ответа", "err", err.Error())
		}
	}
}

func (s *Server) handleGetMe(w http.ResponseWriter, _ *http.Request) {
	s.writeResult(w, s.identity)
}

func (s *Server) handleGetUpdates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset, hasOffset, err := intParam(q, "offset")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Bad Request: wrong offset specified")
		return
	}

	timeout, _, err := intParam(q, "timeout")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Bad Request: wrong timeout specified")
		return
	}

	updates, notify, wait := s.pending(offset, hasOffset, timeout)

	if len(updates) == 0 && wait > 0 {
		timer := time.NewTimer(wait)

		select {
		case <-notify:
		case <-timer.C:
		case <-r.Context().Done():
		}

		timer.Stop()

		updates, _, _ = s.pending(offset, hasOffset, 0)
	}

	s.writeResult(w, updates)
}

// pending подтверждает апдейты с id < offset и возвращает оставшиеся.
func (s *Server) pending(offset int64, hasOffset bool, timeout int64) ([]json.RawMessage, chan struct{}, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hasOffset {
		kept := s.updates[:0]

		for _, update := range s.updates {
			if update.id != nil && *update.id >= offset {
				kept = append(kept, update)
			}
		}

		s.updates = kept
	}

	result := make([]json.RawMessage, 0, len(s.updates))

	for _, update := range s.updates {
		result = append(result, update.raw)
	}

	wait := time.Duration(timeout) * time.Second
	if wait > s.pollWait {
		wait = s.pollWait
	}

	return result, s.notify, wait
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Bad Request: can't read body")
		return
	}

	defer r.Body.Close()

	if r.ContentLength != int64(len(body)) {
		s.writeError(w, http.StatusBadRequest, "Bad Request: content length mismatch")
		return
	}

	var fields map[string]json.RawMessage

	msg := SentMessage{}

	if err := json.Unmarshal(body, &fields); err != nil || json.Unmarshal(body, &msg) != nil {
		s.writeError(w, http.StatusBadRequest, "Bad Request: can't parse JSON")
		return
	}

	if _, ok := fields["chat_id"]; !ok {
		s.writeError(w, http.StatusBadRequest, "Bad Request: chat_id is empty")
		return
	}

	if msg.Text == "" {
		s.writeError(w, http.StatusBadRequest, "Bad Request: message text is empty")
		return
	}

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	messageID := len(s.sent)
	s.mu.Unlock()

	s.writeResult(w, map[string]any{
		"message_id": messageID,
		"chat":       map[string]any{"id": msg.ChatID},
		"text":       msg.Text,
	})
}

func (s *Server) handlePushUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		s.writeError(w, http.StatusBadRequest, "Bad Request: update must be JSON")
		return
	}

	defer r.Body.Close()

	s.PushUpdate(json.RawMessage(body))

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSent(w http.ResponseWriter, _ *http.Request) {
	s.writeResult(w, s.Sent())
}

func (s *Server) writeResult(w http.ResponseWriter, result any) {
	s.writeJSON(w, http.StatusOK, &okAnswer{Ok: true, Result: result})
}

func (s *Server) writeError(w http.ResponseWriter, status int, description string) {
	s.writeJSON(w, status, &errorAnswer{Ok: false, ErrorCode: status, Description: description})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set(contentType, jsonType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Debug("при формировании json ответа произошла ошибка", "err", err.Error())
	}
}

func intParam(q url.Values, name string) (int64, bool, error) {
	if !q.Has(name) {
		return 0, false, nil
	}

	value, err := strconv.ParseInt(q.Get(name), 10, 64)
	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}
