// Package fetch obtains the roster from the remote directory service and
// reconciles the result with the local cache.
//
// The client classifies every failure into one of three classes (network,
// status, payload) so the UI can show a distinct message per class. Fetches
// are cancellable through the supplied context; a cancelled fetch returns
// the context's error unwrapped so callers can swallow it silently.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crewdash/crewdash/internal/logging"
	"github.com/crewdash/crewdash/internal/roster"
)

// defaultTimeout bounds a single roster request.
const defaultTimeout = 30 * time.Second

// maxBodyBytes caps the response body read (16 MiB is far beyond any
// plausible roster).
const maxBodyBytes = 16 << 20

// Client fetches the roster from a single read endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a roster client for the given endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client,
// used by tests to point at an httptest server.
func NewClientWithHTTP(endpoint string, httpClient *http.Client) *Client {
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Endpoint returns the configured roster endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch performs one cancellable roster request.
//
// On failure it returns a *Error carrying the failure class, except when
// ctx was cancelled: then the context error is returned as-is so the caller
// can distinguish an abort from a real failure via errors.Is.
func (c *Client) Fetch(ctx context.Context) (roster.Roster, error) {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &Error{Class: ClassNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// An abort is not a failure; hand back the bare context error.
			return nil, ctxErr
		}
		log.Warn().
			Str("component", "fetch").
			Str("endpoint", c.endpoint).
			Err(err).
			Msg("roster service unreachable")
		return nil, &Error{Class: ClassNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn().
			Str("component", "fetch").
			Str("endpoint", c.endpoint).
			Int("status", resp.StatusCode).
			Msg("roster service returned non-success status")
		return nil, &Error{
			Class:  ClassStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Class: ClassNetwork, Err: err}
	}

	data, err := roster.DecodeEnvelope(body)
	if err != nil {
		log.Warn().
			Str("component", "fetch").
			Str("endpoint", c.endpoint).
			Err(err).
			Msg("roster payload malformed")
		return nil, &Error{Class: ClassPayload, Err: err}
	}

	log.Debug().
		Str("component", "fetch").
		Str("endpoint", c.endpoint).
		Int("records", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("roster fetched")
	return data, nil
}

// IsCancelled reports whether err represents an aborted fetch rather than
// a real failure. Only bare context errors count as aborts: a classified
// *Error is never one, even when its cause unwraps to
// context.DeadlineExceeded (an http.Client timeout does exactly that).
func IsCancelled(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
