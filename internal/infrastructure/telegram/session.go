package telegram

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	httpScheme  = "http"
	httpsScheme = "https"
)

//go:generate mockery

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session привязана к схеме, хосту и порту базового URL Bot API.
type Session struct {
	scheme string
	host   string
	client HTTPClient
}

// NewSession выбирает шифрованный транспорт для https и обычный для http.
func NewSession(apiURL string, timeout time.Duration) (*Session, error) {
	parsedURL, err := parseAPIURL(apiURL)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: newTransport(parsedURL.Scheme),
		// 3xx не переходим, такой ответ разбирает CheckHTTPError
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Session{
		scheme: parsedURL.Scheme,
		host:   parsedURL.Host,
		client: client,
	}, nil
}

func NewSessionWithClient(apiURL string, client HTTPClient) (*Session, error) {
	parsedURL, err := parseAPIURL(apiURL)
	if err != nil {
		return nil, err
	}

	return &Session{
		scheme: parsedURL.Scheme,
		host:   parsedURL.Host,
		client: client,
	}, nil
}

func (s *Session) Scheme() string {
	return s.scheme
}

func (s *Session) Host() string {
	return s.host
}

func (s *Session) URL(requestPath string, q url.Values) *url.URL {
	return &url.URL{
		Scheme:   s.scheme,
		Host:     s.host,
		Path:     "/" + requestPath,
		RawQuery: q.Encode(),
	}
}

func (s *Session) Do(req *http.Request) (*http.Response, error) {
	return s.client.Do(req)
}

func parseAPIURL(apiURL string) (*url.URL, error) {
	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, NewErrBadAPIURL(apiURL, err.Error())
	}

	if parsedURL.Scheme != httpScheme && parsedURL.Scheme != httpsScheme {
		return nil, NewErrBadAPIURL(apiURL, "поддерживаются только схемы http и https")
	}

	if parsedURL.Host == "" {
		return nil, NewErrBadAPIURL(apiURL, "не указан хост")
	}

	return parsedURL, nil
}

func newTransport(scheme string) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}

	if scheme == httpsScheme {
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		transport.ForceAttemptHTTP2 = true
	}

	return transport
}
