package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
)

// Client envuelve *http.Client con helpers comunes para adapters
// (BaaS, geocoding). Headers se aplican a todos los requests.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Headers map[string]string
}

type Option func(*Client)

// WithHeader agrega un header fijo (p.ej. apikey, User-Agent).
func WithHeader(k, v string) Option {
	return func(c *Client) {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return
		}
		c.Headers[k] = v
	}
}

// WithTransport permite inyectar un RoundTripper (tests).
func WithTransport(tr http.RoundTripper) Option {
	return func(c *Client) {
		if tr != nil {
			c.HTTP.Transport = tr
		}
	}
}

// New crea un Client. baseURL puede ser vacío si siempre se usan URLs absolutas.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		HTTP:    &http.Client{Timeout: timeout},
		Headers: map[string]string{},
	}

	if b := strings.TrimSpace(baseURL); b != "" {
		if _, err := url.ParseRequestURI(b); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		c.BaseURL = strings.TrimRight(b, "/")
	}

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusOf devuelve el status de un *HTTPError envuelto, o 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Request describe una llamada JSON.
// In nil => sin body. Out nil => se ignora el body de respuesta.
type Request struct {
	Method  string
	Path    string // URL absoluta o path relativo a BaseURL
	Query   url.Values
	Headers map[string]string
	In      any
	Out     any
}

// DoJSON ejecuta el request y decodifica la respuesta. Error si status no es 2xx.
func (c *Client) DoJSON(ctx context.Context, rq Request) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(rq.Path, rq.Query)
	if err != nil {
		return err
	}

	var body io.Reader
	if rq.In != nil {
		b, err := json.Marshal(rq.In)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	method := rq.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if rq.In != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range rq.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if rq.Out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, rq.Out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string, q url.Values) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	full := pathOrURL
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		if c.BaseURL == "" {
			return "", errors.New("httpclient: relative path requires BaseURL")
		}
		if !strings.HasPrefix(pathOrURL, "/") {
			pathOrURL = "/" + pathOrURL
		}
		full = c.BaseURL + pathOrURL
	}

	if len(q) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + q.Encode()
	}
	return full, nil
}
