/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:generate mockgen -source=api_client.go -destination=mock/transport.go -package=mock

package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Doer sends a single HTTP request, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    Doer
	config    *TestConfig
	endpoints *Endpoints
	logger    logr.Logger
	runID     string
}

// Option customizes an APIClient.
type Option func(*APIClient)

// WithTransport replaces the default *http.Client.
func WithTransport(client Doer) Option {
	return func(c *APIClient) {
		c.client = client
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger logr.Logger) Option {
	return func(c *APIClient) {
		c.logger = logger
	}
}

func NewAPIClientWithConfig(config *TestConfig, options ...Option) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		logger:    logr.Discard(),
		runID:     uuid.NewString(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *APIClient) Config() *TestConfig {
	return c.config
}

func (c *APIClient) Logger() logr.Logger {
	return c.logger
}

// logError logs a transport level error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	c.logger.Error(err, context, "method", method, "path", path, "duration", duration, "traceID", extractTraceID(traceParent))
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expectedStatus, actualStatus int, body, traceParent string) {
	c.logger.Info("unexpected status", "method", method, "path", path, "expected", expectedStatus, "got", actualStatus, "body", body, "traceID", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// A fresh trace ID per request lets a failure be found in the backend logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// request describes a single API call.
type request struct {
	operation string
	method    string
	path      string
	// token, when set, is sent as a bearer credential.
	token string
	// body is marshalled to JSON when not nil.
	body any
	// expectedStatus of zero accepts any status.
	expectedStatus int
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, r request) (*http.Response, []byte, error) {
	fullURL := c.baseURL + r.path

	var body io.Reader

	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling %s body: %w", r.operation, err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullURL, body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo,run="+c.runID)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(r.method, r.path, duration, traceParent, err, "http request failed")
		return nil, nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(r.method, r.path, duration, traceParent, err, "reading response body")
		return resp, nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		c.logger.Info("request", "method", r.method, "path", r.path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		c.logger.Info("response body", "method", r.method, "path", r.path, "body", string(respBody))
	}

	if r.expectedStatus > 0 && resp.StatusCode != r.expectedStatus {
		c.logUnexpectedStatus(r.method, r.path, r.expectedStatus, resp.StatusCode, string(respBody), traceParent)

		return resp, respBody, &RequestError{
			Operation:      r.operation,
			ExpectedStatus: r.expectedStatus,
			StatusCode:     resp.StatusCode,
			Body:           string(respBody),
			TraceID:        extractTraceID(traceParent),
		}
	}

	return resp, respBody, nil
}

// LoginResult is the raw outcome of a login attempt, neither status nor
// body is judged.
type LoginResult struct {
	StatusCode int
	Body       string
}

// Login posts credentials to the login endpoint.
func (c *APIClient) Login(ctx context.Context, credentials Credentials) (*LoginResult, error) {
	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, request{
		operation: "login",
		method:    http.MethodPost,
		path:      c.endpoints.Login(),
		body:      credentials,
	})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return &LoginResult{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}

// submitOrder posts an order to the authenticated order endpoint.
func (c *APIClient) submitOrder(ctx context.Context, token string, order OrderRequest) (*Order, []byte, error) {
	//nolint:bodyclose // response body is closed in doRequest
	_, respBody, err := c.doRequest(ctx, request{
		operation:      "creating order",
		method:         http.MethodPost,
		path:           c.endpoints.Orders(),
		token:          token,
		body:           order,
		expectedStatus: http.StatusOK,
	})
	if err != nil {
		return nil, respBody, err
	}

	return decodeOrder(respBody)
}

// GetTestOrders retrieves an order from the unauthenticated test order collection.
func (c *APIClient) GetTestOrders(ctx context.Context) (*Order, []byte, error) {
	return c.getTestOrder(ctx, c.endpoints.TestOrders())
}

// GetTestOrder retrieves a specific test order.
func (c *APIClient) GetTestOrder(ctx context.Context, orderID int64) (*Order, []byte, error) {
	return c.getTestOrder(ctx, c.endpoints.TestOrder(orderID))
}

func (c *APIClient) getTestOrder(ctx context.Context, path string) (*Order, []byte, error) {
	//nolint:bodyclose // response body is closed in doRequest
	_, respBody, err := c.doRequest(ctx, request{
		operation:      "getting test order",
		method:         http.MethodGet,
		path:           path,
		expectedStatus: http.StatusOK,
	})
	if err != nil {
		return nil, respBody, err
	}

	return decodeOrder(respBody)
}

// CreateTestOrder posts an order to the unauthenticated test order endpoint.
func (c *APIClient) CreateTestOrder(ctx context.Context, order OrderRequest) (*Order, []byte, error) {
	//nolint:bodyclose // response body is closed in doRequest
	_, respBody, err := c.doRequest(ctx, request{
		operation:      "creating test order",
		method:         http.MethodPost,
		path:           c.endpoints.TestOrders(),
		body:           order,
		expectedStatus: http.StatusOK,
	})
	if err != nil {
		return nil, respBody, err
	}

	return decodeOrder(respBody)
}

func decodeOrder(body []byte) (*Order, []byte, error) {
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, body, fmt.Errorf("unmarshaling order response: %w", err)
	}

	return &order, body, nil
}
