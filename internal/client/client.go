// Package client talks to the HomeHub HTTP API on behalf of the terminal
// shell. Reads go through a per-resource Cache; every mutation invalidates
// the keys it affects so the next read refetches.
package client

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

	"github.com/atinyakov/homehub/internal/certgen"
	"github.com/atinyakov/homehub/internal/models"
	"go.uber.org/zap"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Issues     []models.FieldIssue
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// NewHTTPClient returns an HTTP client that trusts the CA bundle at caFile
// when it is set.
func NewHTTPClient(caFile string, insecure bool, timeout time.Duration) (*http.Client, error) {
	tlsCfg, err := certgen.ClientTLSConfig(caFile, insecure)
	if err != nil {
		return nil, fmt.Errorf("client tls: %w", err)
	}
	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsCfg},
		Timeout:   timeout,
	}, nil
}

// Client is a caching HomeHub API client.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
	log     *zap.Logger

	Tasks         *Resource[models.Task, models.TaskInput, models.TaskPatch]
	Bills         *Resource[models.Bill, models.BillInput, models.BillPatch]
	Subscriptions *Resource[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch]
	Cars          *Resource[models.Car, models.CarInput, models.CarPatch]
	CarServices   *Resource[models.CarService, models.CarServiceInput, models.CarServicePatch]
	KidsEvents    *Resource[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch]
	Groceries     *Resource[models.Grocery, models.GroceryInput, models.GroceryPatch]
}

// New creates a Client for the server at baseURL.
func New(baseURL string, httpClient *http.Client, cache *Cache, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cache == nil {
		cache = NewCache(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		cache:   cache,
		log:     log,
	}
	c.Tasks = newResource[models.Task, models.TaskInput, models.TaskPatch](c, "tasks")
	c.Bills = newResource[models.Bill, models.BillInput, models.BillPatch](c, "bills", keyUpcomingPayments)
	c.Subscriptions = newResource[models.Subscription, models.SubscriptionInput, models.SubscriptionPatch](c, "subscriptions", keyUpcomingPayments)
	c.Cars = newResource[models.Car, models.CarInput, models.CarPatch](c, "cars")
	c.CarServices = newResource[models.CarService, models.CarServiceInput, models.CarServicePatch](c, "car-services")
	c.KidsEvents = newResource[models.KidsEvent, models.KidsEventInput, models.KidsEventPatch](c, "kids-events")
	c.Groceries = newResource[models.Grocery, models.GroceryInput, models.GroceryPatch](c, "groceries")
	return c
}

// Cache exposes the client's response cache.
func (c *Client) Cache() *Cache {
	return c.cache
}

type errorBody struct {
	Error  string              `json:"error"`
	Issues []models.FieldIssue `json:"issues"`
}

// send performs one request and returns the response body of a 2xx reply.
func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.Issues = eb.Issues
		}
		c.log.Debug("api error", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, apiErr
	}
	return data, nil
}

// do sends a request and decodes a JSON reply into out, if out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// cached serves GET path from the cache under key.
func (c *Client) cached(ctx context.Context, key, path string, out any) error {
	data, err := c.cache.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		return c.send(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
