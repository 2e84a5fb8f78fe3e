package httpx

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

	"github.com/waifuvault/waifuvault_sdk_go/internal/logging"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used by the helper.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithHeaders assigns default headers added to every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithLogger routes request logging to l.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client wraps http.Client providing base URL and error classification
// utilities. It performs exactly one round trip per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	logger     logging.Logger
}

// Request describes a single outbound request. URL, when set, is used as is
// and Path/Query are ignored.
type Request struct {
	Method string
	Path   string
	Query  Params
	URL    string
	Header http.Header
	Body   io.Reader
}

// NewClient creates a Client for the provided base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("httpx: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("httpx: base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{},
		headers:    make(http.Header),
		logger:     logging.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the root the client was configured with, without a
// trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves the full URL a request would be sent to.
func (c *Client) URL(req *Request) string {
	if req.URL != "" {
		return req.URL
	}
	return BuildURL(c.baseURL, req.Query, req.Path)
}

// Send dispatches req and returns the response whatever its status. Transport
// failures, including context cancellation, are returned unchanged.
func (c *Client) Send(ctx context.Context, req *Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("httpx: request is nil")
	}
	if req.Method == "" {
		return nil, errors.New("httpx: HTTP method is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL := c.URL(req)
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, req.Body)
	if err != nil {
		return nil, err
	}

	httpReq.Header = cloneHeader(c.headers)
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		closeBody(respBody(resp))
		c.logger.Debug(ctx, "vault request failed", "method", req.Method, "url", fullURL, "error", err)
		return nil, err
	}
	c.logger.Debug(ctx, "vault request", "method", req.Method, "url", fullURL, "status", resp.StatusCode)
	return resp, nil
}

// Do sends req and classifies the response: any non-2xx status is returned
// as an *HTTPError with the body already consumed.
func (c *Client) Do(ctx context.Context, req *Request) (*http.Response, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := CheckError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckError returns nil for 2xx responses. Otherwise it reads and closes the
// body and returns an *HTTPError, decoded when the body is an ErrorRecord.
func CheckError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	body, err := ReadAllAndClose(resp.Body)
	if err != nil {
		return fmt.Errorf("httpx: read error body: %w", err)
	}
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header.Clone(),
	}
	if record, ok := decodeErrorRecord(body); ok {
		httpErr.Record = record
	}
	return httpErr
}

// DecodeJSON reads the whole body, closes it and decodes it into out.
func DecodeJSON(resp *http.Response, out any) error {
	data, err := ReadAllAndClose(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// WithJSONBody serializes the supplied value into JSON and returns a reusable reader.
func WithJSONBody(v any) (io.Reader, string, error) {
	data, err := jsonMarshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// ReadAllAndClose drains the reader and ensures it is closed.
func ReadAllAndClose(rc io.ReadCloser) ([]byte, error) {
	defer closeBody(rc)
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Drain discards whatever is left of rc and closes it.
func Drain(rc io.ReadCloser) error {
	defer closeBody(rc)
	_, err := io.Copy(io.Discard, rc)
	return err
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_ = rc.Close()
	}
}

func respBody(resp *http.Response) io.ReadCloser {
	if resp == nil {
		return nil
	}
	return resp.Body
}

func cloneHeader(src http.Header) http.Header {
	dst := make(http.Header, len(src))
	for k, values := range src {
		vCopy := make([]string, len(values))
		copy(vCopy, values)
		dst[k] = vCopy
	}
	return dst
}

func jsonMarshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")
	return data, nil
}
