// Package gateway issues requests to the merchant REST API on behalf of the
// screen controllers. Every failure comes back as an *apperr.Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"merchant/apperr"
)

const maxResponseBytes = 10 << 20

// Session is the slice of session.Manager the gateway needs.
type Session interface {
	Credentials() (token string, gen uint64)
	IsValid() bool
	Expire(ctx context.Context, gen uint64) bool
}

// Request describes one API call. Requests are authenticated unless Public
// is set. Path is relative to the versioned API base unless HostRelative is
// set, in which case it is relative to the server root.
type Request struct {
	Method       string
	Path         string
	Query        url.Values
	Body         any
	Form         *Form
	Public       bool
	HostRelative bool
}

// Doer is what the screen controllers depend on; *Client implements it.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

type Client struct {
	base string
	root string
	http *http.Client
	sess Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New builds a client for baseURL, e.g. "http://host:5001/api".
func New(baseURL string, sess Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base URL %q", baseURL)
	}
	c := &Client{
		base: u.String(),
		root: u.Scheme + "://" + u.Host,
		http: &http.Client{Timeout: 15 * time.Second},
		sess: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do performs req and decodes a 2xx JSON body into out when out is non-nil.
// There are no retries.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var (
		token string
		gen   uint64
	)
	if !req.Public {
		token, gen = c.sess.Credentials()
		if token == "" {
			return apperr.SessionExpired("You are not logged in.")
		}
		if !c.sess.IsValid() {
			c.sess.Expire(ctx, gen)
			return apperr.SessionExpired("Session expired. Please log in again.")
		}
	}

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return err
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[gateway] %s %s failed: %v", req.Method, req.Path, err)
		return apperr.Network(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperr.Network(err)
	}
	log.Printf("[gateway] %s %s -> %d (%v)", req.Method, req.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusForbidden && !req.Public:
		c.sess.Expire(ctx, gen)
		return apperr.SessionExpired("Session expired. Please log in again.")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return apperr.RequestFailed(resp.StatusCode, serverMessage(body))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &apperr.Error{
			Kind:       apperr.KindRequestFailed,
			StatusCode: resp.StatusCode,
			Message:    "Unexpected response from server.",
			Err:        err,
		}
	}
	return nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	base := c.base
	if req.HostRelative {
		base = c.root
	}
	target := base + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		r, ct, err := req.Form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = r, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// serverMessage pulls the human readable reason out of an error body. The
// backend uses "message"; some handlers answer with "error" instead.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}
