// Package store is the data-access layer for the remote tabular
// store: fetch, create, update, and delete of domain records held in
// named collections with relational foreign keys.
package store

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
)

// Collection names known to the store.
const (
	Assets      = "assets"
	Categories  = "categories"
	Departments = "departments"
	Users       = "users"
)

// Config holds the externally supplied connection parameters. An
// empty URL or key is not a constructor error; operations against a
// misconfigured store fail at call time with a transport error.
type Config struct {
	URL string
	Key string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// TokenSource supplies the bearer token attached to every
	// request. A nil source or empty token sends the request
	// unauthenticated; the server is the sole arbiter of whether
	// that is permitted.
	TokenSource func() string
}

// Client performs CRUD operations against the store. All methods are
// single round trips; no retries, no pagination, no caching.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	tokenSource func() string
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.Key,
		httpClient:  httpClient,
		tokenSource: cfg.TokenSource,
	}
}

// ListOptions control a collection read.
type ListOptions struct {
	// OrderBy names a field to sort by, ascending.
	OrderBy string
	// Expand names related entities to embed by foreign key.
	Expand []string
	// Filter holds equality filters by field name.
	Filter map[string]string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.OrderBy != "" {
		q.Set("order", o.OrderBy)
	}
	if len(o.Expand) > 0 {
		q.Set("expand", strings.Join(o.Expand, ","))
	}
	for k, v := range o.Filter {
		q.Set(k, v)
	}
	return q
}

// List fetches all records of a collection in one round trip.
func List[T any](ctx context.Context, c *Client, collection string, opts ListOptions) ([]T, error) {
	data, err := c.do(ctx, http.MethodGet, "/store/"+collection, opts.query(), nil, "list", collection)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &TransportError{Op: "list", Collection: collection, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return out, nil
}

// GetByID fetches the one record matching id, with any requested
// relations expanded. Zero or multiple matches both raise
// *NotFoundError; id uniqueness is the store's job, and this client
// refuses to paper over a store that failed at it.
func GetByID[T any](ctx context.Context, c *Client, collection string, id int64, opts ListOptions) (T, error) {
	var zero T
	if opts.Filter == nil {
		opts.Filter = map[string]string{}
	}
	opts.Filter["id"] = strconv.FormatInt(id, 10)

	rows, err := List[T](ctx, c, collection, opts)
	if err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, &NotFoundError{Collection: collection, ID: id, Matches: len(rows)}
	}
	return rows[0], nil
}

// Create inserts a new record. The store assigns the id and returns
// the created record including server-assigned fields.
func Create[T any](ctx context.Context, c *Client, collection string, fields interface{}) (T, error) {
	var zero T
	data, err := c.do(ctx, http.MethodPost, "/store/"+collection, nil, fields, "create", collection)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, &TransportError{Op: "create", Collection: collection, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return out, nil
}

// Update overwrites every field of the record matching id with the
// submitted fields. Fields absent from the form state go out as
// empty/null; there is no partial-patch shape.
func (c *Client) Update(ctx context.Context, collection string, id int64, fields interface{}) error {
	path := fmt.Sprintf("/store/%s/%d", collection, id)
	_, err := c.do(ctx, http.MethodPut, path, nil, fields, "update", collection)
	return err
}

// Remove deletes the record matching id. No cascade handling: if
// other records reference it, the store's constraints decide the
// outcome, which surfaces here as a write failure.
func (c *Client) Remove(ctx context.Context, collection string, id int64) error {
	path := fmt.Sprintf("/store/%s/%d", collection, id)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, "remove", collection)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, op, collection string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, &TransportError{Op: op, Collection: collection, Err: errors.New("store URL is not configured")}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: op, Collection: collection, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, Collection: collection, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Collection: collection, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Collection: collection, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(data)
		if op == "create" || op == "update" || op == "remove" {
			if msg == "" {
				msg = resp.Status
			}
			return nil, &WriteError{Op: op, Collection: collection, Message: msg}
		}
		if msg == "" {
			return nil, &TransportError{Op: op, Collection: collection, Err: errors.New(resp.Status)}
		}
		return nil, &TransportError{Op: op, Collection: collection, Err: errors.New(msg)}
	}

	return data, nil
}

// serverMessage extracts the error.message field from an error body,
// returning "" when the body is not in that shape.
func serverMessage(data []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error.Message
}
