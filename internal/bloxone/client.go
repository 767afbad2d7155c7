// Package bloxone is a thin client for the BloxOne Cloud Services Portal
// API. It owns transport concerns (auth, encoding, pagination) so callers
// only deal in generic resource objects.
package bloxone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// DefaultCSPURL is used when no portal URL is configured.
const DefaultCSPURL = "https://csp.infoblox.com"

// defaultPageLimit is the page size used when listing objects.
const defaultPageLimit = 1000

// Object is the generic JSON representation of a remote resource.
type Object = map[string]any

// Config holds the connection settings for the CSP API.
type Config struct {
	// CSPURL is the portal base URL. Defaults to DefaultCSPURL.
	CSPURL string
	// APIKey authenticates every request. Required.
	APIKey string
	// ClientName identifies the calling tool in requests.
	ClientName string
}

// ConfigFromEnv fills unset fields from the BLOXONE_CSP_URL and
// BLOXONE_API_KEY environment variables.
func (c Config) ConfigFromEnv() Config {
	if c.CSPURL == "" {
		c.CSPURL = os.Getenv("BLOXONE_CSP_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("BLOXONE_API_KEY")
	}
	return c
}

// Client issues requests against the CSP API.
type Client struct {
	baseURL    string
	apiKey     string
	clientName string
	client     *http.Client
	log        logr.Logger
}

// New creates a Client from the given config.
func New(log logr.Logger, cfg Config) (*Client, error) {
	cfg = cfg.ConfigFromEnv()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("bloxone: missing required setting 'api_key'")
	}
	if cfg.CSPURL == "" {
		cfg.CSPURL = DefaultCSPURL
	}
	if cfg.ClientName == "" {
		cfg.ClientName = "b1apply"
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.CSPURL, "/"),
		apiKey:     cfg.APIKey,
		clientName: cfg.ClientName,
		client:     &http.Client{},
		log:        log,
	}, nil
}

// doRequest builds and executes one HTTP request against the CSP API.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("bloxone: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("bloxone: build request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("User-Agent", c.clientName)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bloxone: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// do runs a request and decodes a successful JSON response into out.
// Non-2xx responses become an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bloxone: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("bloxone: decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// resultEnvelope wraps single-object responses.
type resultEnvelope struct {
	Result Object `json:"result"`
}

// resultsEnvelope wraps list responses.
type resultsEnvelope struct {
	Results []Object `json:"results"`
}

// ListOptions narrows and pages a List call. Filter and TagFilter use the
// API's query expression syntax, e.g. `name=='prod'`.
type ListOptions struct {
	Filter    string
	TagFilter string
	Fields    []string
	Limit     int
}

// Read fetches a single object by its request path, e.g.
// "/api/ddi/v1/ipam/ip_space/<uuid>".
func (c *Client) Read(ctx context.Context, path string) (Object, error) {
	var env resultEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Result, nil
}

// List fetches all objects under path matching opts, following the offset
// pagination loop until a short page is returned.
func (c *Client) List(ctx context.Context, path string, opts ListOptions) ([]Object, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}

	var all []Object
	offset := 0
	for {
		q := url.Values{}
		if opts.Filter != "" {
			q.Set("_filter", opts.Filter)
		}
		if opts.TagFilter != "" {
			q.Set("_tfilter", opts.TagFilter)
		}
		if len(opts.Fields) > 0 {
			q.Set("_fields", strings.Join(opts.Fields, ","))
		}
		q.Set("_offset", strconv.Itoa(offset))
		q.Set("_limit", strconv.Itoa(limit))

		var env resultsEnvelope
		if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &env); err != nil {
			return nil, err
		}
		all = append(all, env.Results...)

		if len(env.Results) < limit {
			break
		}
		offset += limit
	}
	return all, nil
}

// Query fetches a results list from path in a single request, without
// pagination parameters. Used for allocation endpoints such as
// nextavailablesubnet, which take their own query arguments.
func (c *Client) Query(ctx context.Context, path string) ([]Object, error) {
	var env resultsEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

// Create posts a new object to path and returns the remote representation.
func (c *Client) Create(ctx context.Context, path string, body Object) (Object, error) {
	var env resultEnvelope
	if err := c.do(ctx, http.MethodPost, path, body, &env); err != nil {
		return nil, err
	}
	return env.Result, nil
}

// Update patches the object at path and returns the remote representation.
func (c *Client) Update(ctx context.Context, path string, body Object) (Object, error) {
	var env resultEnvelope
	if err := c.do(ctx, http.MethodPatch, path, body, &env); err != nil {
		return nil, err
	}
	return env.Result, nil
}

// Delete removes the object at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
