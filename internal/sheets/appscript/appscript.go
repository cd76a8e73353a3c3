// Package appscript talks to a Google Apps Script web app deployed in front
// of the spreadsheet. POST appends one expense, GET returns all of them.
package appscript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"gastos/internal/core"
	ports "gastos/internal/sheets"
)

const maxPayloadBytes = 10 << 20

var _ ports.Remote = (*Client)(nil)

type Client struct {
	url  string
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(scriptURL string, opts ...Option) (*Client, error) {
	scriptURL = strings.TrimSpace(scriptURL)
	if scriptURL == "" {
		return nil, errors.New("missing script url")
	}
	c := &Client{url: scriptURL, http: newHTTPClient(30 * time.Second)}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 20 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// Push posts e as a single JSON object.
func (c *Client) Push(ctx context.Context, e core.Expense) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode expense: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSyncUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))

	return statusError(resp.StatusCode)
}

// Pull fetches the remote collection.
func (c *Client) Pull(ctx context.Context) ([]core.Expense, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSyncUnreachable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", core.ErrSyncUnreachable, err)
	}
	return core.DecodeCollection(payload)
}

// statusError maps server failures to ErrSyncUnreachable and client errors
// to ErrSyncRejected.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return fmt.Errorf("%w: status %d", core.ErrSyncUnreachable, code)
	default:
		return fmt.Errorf("%w: status %d", core.ErrSyncRejected, code)
	}
}
