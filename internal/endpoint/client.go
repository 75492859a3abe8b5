// Package endpoint issues single HTTP requests to translation backends and
// accepts only JSON answers. Backends that fail softly tend to reply with an
// HTML page and a 200 status, so the body is inspected before parsing.
package endpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultAccept   = "application/json, text/plain, */*"
	FormContentType = "application/x-www-form-urlencoded; charset=UTF-8"

	DefaultTimeout = 15 * time.Second
)

var (
	ErrNonJSONResponse = errors.New("endpoint returned non-JSON response")
	ErrInvalidJSON     = errors.New("endpoint returned invalid JSON")
)

// HTTPError is returned when the backend answers outside the 2xx range.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Request describes one backend call. A non-nil Form is sent URL-encoded in
// the body; Query is appended to URL.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Query  url.Values
	Form   url.Values
}

type Client struct {
	rc     *resty.Client
	logger *logrus.Logger
}

// New creates a Client whose individual requests time out after timeout.
// A non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return newClient(resty.New().SetTimeout(timeout), logger)
}

// NewWithHTTPClient wraps an existing *http.Client, e.g. httptest.Server.Client().
func NewWithHTTPClient(hc *http.Client, logger *logrus.Logger) *Client {
	return newClient(resty.NewWithClient(hc), logger)
}

func newClient(rc *resty.Client, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	rc.SetRetryCount(0)
	return &Client{rc: rc, logger: logger}
}

// FetchJSON performs exactly one request and returns the parsed body.
func (c *Client) FetchJSON(ctx context.Context, req Request) (gjson.Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := c.rc.R().SetContext(ctx)
	r.SetHeader("Accept", DefaultAccept)
	if req.Form != nil {
		r.SetHeader("Content-Type", FormContentType)
		r.SetBody(req.Form.Encode())
	}
	// Caller headers override the defaults above.
	r.SetHeaders(req.Header)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}

	start := time.Now()
	resp, err := r.Execute(method, req.URL)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"url":    req.URL,
		}).Debug("endpoint request failed")
		return gjson.Result{}, fmt.Errorf("request to %s failed: %w", req.URL, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"url":     req.URL,
		"status":  resp.StatusCode(),
		"latency": time.Since(start),
	}).Debug("endpoint responded")

	if !resp.IsSuccess() {
		return gjson.Result{}, &HTTPError{StatusCode: resp.StatusCode()}
	}

	return ParseBody(resp.Body())
}

// ParseBody applies the JSON acceptance rules to a raw response body.
func ParseBody(body []byte) (gjson.Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '<' {
		return gjson.Result{}, ErrNonJSONResponse
	}
	if !gjson.ValidBytes(trimmed) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.ParseBytes(trimmed), nil
}
