package suremdm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"suremdm-property-sync/internal/circuitbreaker"
	"suremdm-property-sync/internal/common/errors"
	"suremdm-property-sync/internal/common/logging"
	"suremdm-property-sync/internal/properties"
)

// Config holds the provider connection settings.
type Config struct {
	APIURL   string
	Username string
	Password string
	APIKey   string
	Timeout  time.Duration
}

// Client talks to the SureMDM API. Outbound transport is guarded by a
// circuit breaker; no retries are performed on any call.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *circuitbreaker.GoBreakerAdapter
	logger     logging.Logger
}

// Option modifies the client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, used in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a SureMDM API client.
func NewClient(config Config, logger logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker: circuitbreaker.NewGoBreaker("suremdm", circuitbreaker.ProviderConfig, logger),
		logger:  logger.WithFields(logging.Field{Key: "component", Value: "suremdm"}),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetDevice fetches device details for deviceID from the provider.
// A reachable provider returning zero rows is a not-found error; transport
// failures and non-success statuses are connection errors the caller may
// degrade on.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (*DeviceRecord, error) {
	endpoint := fmt.Sprintf("%s/v2/device/%s", strings.TrimRight(c.config.APIURL, "/"), url.PathEscape(deviceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.InternalError("failed to create device detail request", err)
	}
	c.setHeaders(req)

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ConnectionError("failed to read device detail response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ConnectionError(
			fmt.Sprintf("device detail request returned HTTP %d", resp.StatusCode), nil).
			WithContext("device_id", deviceID)
	}

	var detail deviceDetailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, errors.ConnectionError("failed to parse device detail response", err)
	}

	if len(detail.Data.Rows) == 0 {
		return nil, errors.NotFoundError("device").WithContext("device_id", deviceID)
	}

	row := detail.Data.Rows[0]
	return &DeviceRecord{
		DeviceName:   row.DeviceName,
		IMEI:         row.IMEI,
		MacAddress:   row.MacAddress,
		SerialNumber: row.SerialNumber,
	}, nil
}

// UpdateProperties submits one batch property-update call carrying one edit
// per matched row, in order, all sharing deviceID. Any failure is an error;
// there is no partial-success handling.
func (c *Client) UpdateProperties(ctx context.Context, deviceID string, matches []properties.Row) (UpdateResult, error) {
	edits := make([]PropertyEdit, 0, len(matches))
	for _, match := range matches {
		edits = append(edits, PropertyEdit{
			DeviceID:      deviceID,
			PropertyKey:   match.PropertyName,
			ExistingKey:   "",
			PropertyValue: match.Value,
		})
	}

	payload, err := json.Marshal(edits)
	if err != nil {
		return nil, errors.InternalError("failed to encode property edits", err)
	}

	endpoint := fmt.Sprintf("%s/v2/UpdatePropertiesValue", strings.TrimRight(c.config.APIURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.InternalError("failed to create property update request", err)
	}
	c.setHeaders(req)

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ConnectionError("failed to read property update response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ConnectionError(
			fmt.Sprintf("property update returned HTTP %d: %s", resp.StatusCode, string(body)), nil).
			WithContext("device_id", deviceID)
	}

	return parseBody(body), nil
}

// do executes the request inside the circuit breaker. Only transport
// failures count toward opening the breaker; HTTP statuses are classified
// by the callers.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	var resp *http.Response
	err := c.breaker.Execute(ctx, func() error {
		var doErr error
		resp, doErr = c.httpClient.Do(req)
		if doErr != nil {
			return errors.ConnectionError("request failed", doErr)
		}
		return nil
	})

	c.logger.Debug("Provider request completed",
		logging.Field{Key: "method", Value: req.Method},
		logging.Field{Key: "url", Value: req.URL.String()},
		logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
	)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// setHeaders applies the provider auth scheme: Basic credentials plus the
// ApiKey header.
func (c *Client) setHeaders(req *http.Request) {
	credentials := base64.StdEncoding.EncodeToString(
		[]byte(c.config.Username + ":" + c.config.Password))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("ApiKey", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

// parseBody parses a response body as JSON, falling back to a string.
func parseBody(body []byte) UpdateResult {
	if len(body) == 0 {
		return ""
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	return string(body)
}
