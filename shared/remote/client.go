// Package remote talks to the REST service that is the store of record for
// the catalog.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dfryer1193/travelcatalog/api"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/rs/zerolog/log"
)

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 4 << 10

// Client holds the connection settings shared by every resource.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded. The
// timeout is applied to a copy of the HTTP client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client for the service rooted at baseURL,
// e.g. http://localhost:8080.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Resource is the remote collection of one resource type.
type Resource[T domain.Record] struct {
	client *Client
	kind   domain.ResourceType
}

func NewResource[T domain.Record](c *Client, kind domain.ResourceType) *Resource[T] {
	return &Resource[T]{client: c, kind: kind}
}

// List fetches the full ordered collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.do(ctx, "list", http.MethodGet, api.CollectionPath(r.kind), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Create submits rec and returns the stored record with its assigned id.
func (r *Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T

	body, err := json.Marshal(rec)
	if err != nil {
		return created, &domain.RemoteError{Op: "create", Resource: r.kind, Err: fmt.Errorf("failed to encode record: %w", err)}
	}

	if err := r.do(ctx, "create", http.MethodPost, api.CollectionPath(r.kind), body, &created); err != nil {
		return created, err
	}
	if created.GetID() == 0 {
		return created, &domain.RemoteError{Op: "create", Resource: r.kind, Err: errors.New("response carried no identifier")}
	}
	return created, nil
}

// Delete removes the record with the given id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, "delete", http.MethodDelete, api.RecordPath(r.kind, id), nil, nil)
}

func (r *Resource[T]) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.client.baseURL+path, reader)
	if err != nil {
		return &domain.RemoteError{Op: op, Resource: r.kind, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("path", path).Msg("Calling remote store")

	resp, err := r.client.http.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Resource: r.kind, Err: err}
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		return handleRemoteError(op, r.kind, resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Op: op, Resource: r.kind, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func successful(status int) bool {
	return status >= 200 && status < 300
}

// handleRemoteError turns a non-success response into a *domain.RemoteError,
// preferring the message from an api.ErrorResponse body.
func handleRemoteError(op string, kind domain.ResourceType, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(raw))
	var envelope api.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &domain.RemoteError{
		Op:         op,
		Resource:   kind,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
