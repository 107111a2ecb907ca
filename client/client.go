package client

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
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPasteRoot is the default upload endpoint.
	DefaultPasteRoot = "https://hastebin.com/documents"

	// DefaultReadRoot is the default root for viewing and pulling pastes.
	DefaultReadRoot = "https://hastebin.com"

	// PasteRsRoot is the root of the paste.rs service, the default
	// plain-body backend.
	PasteRsRoot = "https://paste.rs"

	// TTLParam is the query parameter carrying the requested expiry in seconds.
	TTLParam = "ttl_seconds"

	rawSegment = "raw"
)

// Shape identifies how a backend answers uploads and where it serves raw content.
type Shape int

const (
	// JSONKeyed backends answer an upload with {"key": "<id>"} and serve raw
	// content under <root>/raw/<id> (hastebin and compatible servers).
	JSONKeyed Shape = iota
	// PlainBodyURL backends answer an upload with the paste URL as the whole
	// body and serve raw content directly under <root>/<id> (paste.rs).
	PlainBodyURL
)

func (s Shape) String() string {
	switch s {
	case PlainBodyURL:
		return "plain-body-url"
	default:
		return "json-keyed"
	}
}

// rawSegment returns the path segment placed between the read root and a key.
func (s Shape) rawSegment(raw bool) string {
	if s == JSONKeyed && raw {
		return rawSegment
	}
	return ""
}

// DetectShape reports the shape of the backend at root. Roots starting with
// PasteRsRoot or any of plainBodyRoots are PlainBodyURL; everything else is
// JSONKeyed.
func DetectShape(root string, plainBodyRoots ...string) Shape {
	root = strings.TrimSpace(root)
	if strings.HasPrefix(root, PasteRsRoot) {
		return PlainBodyURL
	}
	for _, prefix := range plainBodyRoots {
		if prefix != "" && strings.HasPrefix(root, prefix) {
			return PlainBodyURL
		}
	}
	return JSONKeyed
}

// Client uploads to and pulls from a paste backend.
type Client struct {
	pasteRoot      string
	readRoot       string
	plainBodyRoots []string
	httpClient     *http.Client
	logger         *slog.Logger

	// shapes are decided once in New, before any request is made.
	pasteShape Shape
	readShape  Shape
}

// Option configures a Client.
type Option func(*Client)

// WithPasteRoot sets the URL content is POSTed to.
func WithPasteRoot(root string) Option {
	return func(c *Client) {
		c.pasteRoot = strings.TrimSpace(root)
	}
}

// WithReadRoot sets the root used to build view links and to pull pastes.
func WithReadRoot(root string) Option {
	return func(c *Client) {
		c.readRoot = strings.TrimSpace(root)
	}
}

// WithPlainBodyRoots adds root prefixes that are treated as PlainBodyURL
// backends in addition to PasteRsRoot.
func WithPlainBodyRoots(roots ...string) Option {
	return func(c *Client) {
		c.plainBodyRoots = append(c.plainBodyRoots, roots...)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client with the given options. It fails with ErrInvalidURL if
// either root is not an absolute URL.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		pasteRoot:  DefaultPasteRoot,
		readRoot:   DefaultReadRoot,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := parseRoot(c.pasteRoot); err != nil {
		return nil, fmt.Errorf("paste root: %w", err)
	}
	if _, err := parseRoot(c.readRoot); err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}
	c.pasteShape = DetectShape(c.pasteRoot, c.plainBodyRoots...)
	c.readShape = DetectShape(c.readRoot, c.plainBodyRoots...)
	return c, nil
}

// PasteShape returns the shape detected for the paste root.
func (c *Client) PasteShape() Shape {
	return c.pasteShape
}

// ReadShape returns the shape detected for the read root.
func (c *Client) ReadShape() Shape {
	return c.readShape
}

// UploadOptions configures an upload.
type UploadOptions struct {
	// Raw links to the raw view of the paste. Ignored by PlainBodyURL
	// backends, whose returned URL already serves raw content.
	Raw bool

	// TTLSeconds requests an expiry. Zero sends no ttl_seconds parameter.
	TTLSeconds uint32
}

// UploadResult is where an uploaded paste can be viewed.
type UploadResult struct {
	Key string
	URL *url.URL
}

// Upload POSTs content as the request body and returns the URL it can be viewed at.
func (c *Client) Upload(ctx context.Context, content []byte, opts UploadOptions) (*UploadResult, error) {
	endpoint, err := parseRoot(c.pasteRoot)
	if err != nil {
		return nil, err
	}
	if opts.TTLSeconds > 0 {
		q := endpoint.Query()
		q.Set(TTLParam, strconv.FormatUint(uint64(opts.TTLSeconds), 10))
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(content))
	if err != nil {
		return nil, &Error{Code: ErrRequest, Message: "creating request", Err: err}
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	body, err := c.do(req, ErrUploadFailed)
	if err != nil {
		return nil, err
	}

	if c.pasteShape == PlainBodyURL {
		return parsePlainBody(body)
	}

	key, err := parseJSONKey(body)
	if err != nil {
		return nil, err
	}
	u, err := Join(c.readRoot, c.readShape.rawSegment(opts.Raw), key)
	if err != nil {
		return nil, err
	}
	return &UploadResult{Key: key, URL: u}, nil
}

// Fetch retrieves the raw content of a paste.
// The key can be either a bare identifier (abc123) or a full paste URL
// (https://hastebin.com/abc123), in which case its last path segment is used.
// It returns the content verbatim along with the URL it was fetched from.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, *url.URL, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		parsed, err := url.Parse(key)
		if err != nil {
			return nil, nil, &Error{Code: ErrInvalidURL, Message: fmt.Sprintf("parsing %q", key), Err: err}
		}
		key = keyFromURL(parsed)
	}
	if key == "" {
		return nil, nil, &Error{Code: ErrInvalidURL, Message: "paste key cannot be empty"}
	}

	u, err := Join(c.readRoot, c.readShape.rawSegment(true), key)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, &Error{Code: ErrRequest, Message: "creating request", Err: err}
	}

	body, err := c.do(req, ErrFetchFailed)
	if err != nil {
		return nil, nil, err
	}
	return body, u, nil
}

// do sends req and returns the body of a 2xx response. Any other status
// fails with failCode and the body is left unread.
func (c *Client) do(req *http.Request, failCode ErrorCode) ([]byte, error) {
	c.logger.Debug("sending request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Code: ErrRequest, Message: fmt.Sprintf("sending request to %s", req.URL.Redacted()), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("received response", "status", resp.Status, "url", req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(failCode, resp.StatusCode, statusText(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: ErrRequest, Message: "reading response", Err: err}
	}
	return body, nil
}

// statusText returns the reason phrase of resp, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

type keyedResponse struct {
	Key *string `json:"key"`
}

func parseJSONKey(body []byte) (string, error) {
	var doc keyedResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", parseError(string(body), err)
	}
	if doc.Key == nil {
		return "", parseError(string(body), errors.New(`missing "key" field`))
	}
	key := strings.Trim(*doc.Key, `"`)
	if key == "" {
		return "", parseError(string(body), errors.New(`empty "key" field`))
	}
	return key, nil
}

func parsePlainBody(body []byte) (*UploadResult, error) {
	text := strings.TrimSpace(string(body))
	u, err := url.Parse(text)
	if err != nil {
		return nil, parseError(string(body), err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, parseError(string(body), errors.New("body is not an absolute URL"))
	}
	return &UploadResult{Key: keyFromURL(u), URL: u}, nil
}
