// Package remote implements the repository contract against the cookbook
// REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/types"
)

const DefaultTimeout = 15 * time.Second

// Options configures a Client. Zero values select the defaults.
type Options struct {
	HTTPClient *http.Client
	Session    repository.SessionStore
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client is the remote implementation of repository.Repository.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session repository.SessionStore
	log     *zap.Logger
}

var _ repository.Repository = (*Client)(nil)

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	c := &Client{baseURL: u, http: opts.HTTPClient, session: opts.Session, log: opts.Logger}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.session == nil {
		c.session = repository.NewMemorySession()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c, nil
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	// body is JSON-encoded unless it is already an io.Reader, in which
	// case contentType must be set.
	body        any
	contentType string
	auth        bool
}

// do performs req and decodes a successful response into out (when not nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	endpoint := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		endpoint.RawQuery = req.query.Encode()
	}

	var body io.Reader
	contentType := req.contentType
	switch b := req.body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.auth {
		token, err := c.session.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to read session: %w", err)
		}
		if token == "" {
			return apperr.Unauthorized("authentication required")
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("request to %s failed: %v", req.path, err))
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("api call",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Internal(fmt.Sprintf("invalid response from %s: %v", req.path, err))
	}
	return nil
}

// decodeError maps an error response onto the apperr taxonomy, keeping the
// server's message when it sent one.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope types.ErrorResponse
	msg := ""
	if err := json.Unmarshal(raw, &envelope); err == nil {
		msg = envelope.Text()
	}
	if msg == "" {
		msg = validationDetail(raw)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return apperr.FromStatus(resp.StatusCode, msg)
}

// validationDetail extracts the first message from a {"detail": [{"msg": ...}]}
// body, the shape some frameworks use for 422 responses.
func validationDetail(raw []byte) string {
	var body struct {
		Detail []struct {
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	return body.Detail[0].Msg
}

func pageQuery(skip, limit int) url.Values {
	skip, limit = repository.NormalizePage(skip, limit)
	return url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, apperr.ErrUnauthorized)
}
