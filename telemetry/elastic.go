package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultIndex is the Elasticsearch index documents are written to when no index is configured.
const DefaultIndex = "s3-perf-index"

// Indexer writes a single document to a metrics backend.
type Indexer interface {
	// Index writes the given document, returning an error if the backend did not accept it.
	Index(ctx context.Context, doc Document) error
}

// Pinger is implemented by indexers which can cheaply verify that the metrics backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ElasticClientOptions encapsulates the options for creating a new Elasticsearch client.
type ElasticClientOptions struct {
	// URL is the base URL of the Elasticsearch cluster.
	//
	// NOTE: Required
	URL string

	// Index is the index documents are written to. Defaults to 'DefaultIndex'.
	Index string

	// Client is the HTTP client used to communicate with the cluster, one with a sane timeout is created when
	// omitted.
	Client *http.Client
}

// defaults fills any missing attributes to a sane default.
func (e *ElasticClientOptions) defaults() {
	if e.Index == "" {
		e.Index = DefaultIndex
	}

	if e.Client == nil {
		e.Client = &http.Client{Timeout: 30 * time.Second}
	}
}

// ElasticClient implements the 'Indexer' interface writing documents to an Elasticsearch cluster using the document
// REST API.
type ElasticClient struct {
	endpoint string
	base     string
	client   *http.Client
}

var (
	_ Indexer = (*ElasticClient)(nil)
	_ Pinger  = (*ElasticClient)(nil)
)

// NewElasticClient returns a new client which indexes documents into the cluster at the given URL.
func NewElasticClient(options ElasticClientOptions) (*ElasticClient, error) {
	// Fill out any missing fields with the sane defaults
	options.defaults()

	parsed, err := url.Parse(options.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cluster URL: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid cluster URL %q, expected 'scheme://host[:port]'", options.URL)
	}

	client := ElasticClient{
		endpoint: parsed.JoinPath(options.Index, "_doc").String(),
		base:     parsed.String(),
		client:   options.Client,
	}

	return &client, nil
}

func (e *ElasticClient) Index(ctx context.Context, doc Document) error {
	encoded, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Drain the response so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d indexing document", resp.StatusCode)
	}

	return nil
}

// Ping performs a request against the cluster root, verifying the backend is reachable before a run starts.
func (e *ElasticClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d pinging cluster", resp.StatusCode)
	}

	return nil
}
