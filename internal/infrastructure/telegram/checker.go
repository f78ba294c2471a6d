package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// CheckHTTPError переводит код ответа в ServerError, ClientError или
// ErrUnexpectedStatus. При коде 200 тело не читается.
func CheckHTTPError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w (тело ответа прочитано не полностью: %v)", NewServerError(string(body)), err)
		}

		return NewServerError(string(body))
	case resp.StatusCode >= http.StatusBadRequest:
		envelope := &ErrorAnswer{}

		if err := json.NewDecoder(resp.Body).Decode(envelope); err != nil || !envelope.complete() {
			return NewClientError(reasonPhrase(resp))
		}

		return NewEnvelopeClientError(*envelope.Description, *envelope.Ok, *envelope.ErrorCode)
	default:
		return NewErrUnexpectedStatus(resp.StatusCode)
	}
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))

	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}

	return reason
}
