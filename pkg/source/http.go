package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ethpandaops/codebook/pkg/records"
)

// ErrUnexpectedStatus is returned when the dataset URL does not answer 2xx
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// HTTPSource fetches the dataset with a single GET request
type HTTPSource struct {
	url    string
	format Format
	client *http.Client
}

// NewHTTPSource creates an HTTP source
func NewHTTPSource(rawURL string, format Format, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    rawURL,
		format: format,
		client: &http.Client{Timeout: timeout},
	}
}

// WithClient replaces the HTTP client
func (s *HTTPSource) WithClient(client *http.Client) *HTTPSource {
	s.client = client

	return s
}

// Name identifies the source
func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

// Load fetches and decodes the payload
func (s *HTTPSource) Load(ctx context.Context) ([]records.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := readPayload(resp.Body, maxPayloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	name := s.url
	if u, parseErr := url.Parse(s.url); parseErr == nil {
		name = u.Path
	}

	return Decode(DetectFormat(s.format, name, resp.Header.Get("Content-Type")), data)
}
