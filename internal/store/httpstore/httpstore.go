// Package httpstore is a Record Store client for the mock server's HTTP API.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/model"
)

// Client talks to GET/PATCH/POST /clients.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client for baseURL (e.g. http://localhost:4000).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NewValidationError("must be http or https").WithField("store.url").WithValue(baseURL)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

// ErrorBody is the JSON error envelope returned by the server.
type ErrorBody struct {
	Error string `json:"error"`
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = u.Path + path
	u.RawQuery = q.Encode()
	return u.String()
}

// Query lists clients matching f. StatusAll is sent as no status parameter.
func (c *Client) Query(ctx context.Context, f model.Filter) ([]model.Record, error) {
	q := url.Values{}
	if f.Status != "" && f.Status != model.StatusAll {
		q.Set("status", string(f.Status))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	var out []model.Record
	if err := c.do(ctx, http.MethodGet, c.endpoint("/clients", q), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

// Mutate sends PATCH /clients/{id}.
func (c *Client) Mutate(ctx context.Context, id string, p model.Patch) (model.Record, error) {
	var out model.Record
	err := c.do(ctx, http.MethodPatch, c.endpoint("/clients/"+url.PathEscape(id), nil), p, &out)
	if err != nil {
		var st *statusError
		if errors.As(err, &st) && st.code == http.StatusNotFound {
			return model.Record{}, errors.NewNotFoundError("client", id)
		}
		return model.Record{}, err
	}
	return out, nil
}

// Create sends POST /clients.
func (c *Client) Create(ctx context.Context, r model.Record) (model.Record, error) {
	var out model.Record
	if err := c.do(ctx, http.MethodPost, c.endpoint("/clients", nil), r, &out); err != nil {
		return model.Record{}, err
	}
	return out, nil
}

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("http %d", e.code)
	}
	return fmt.Sprintf("http %d: %s", e.code, e.msg)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb ErrorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)
		return &statusError{code: resp.StatusCode, msg: eb.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
