// Package collaborator holds HTTP clients for the services the billing engine
// reads from and submits to.
package collaborator

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

	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// maxResponseSize caps how much of a collaborator response is read
const maxResponseSize = 4 * 1024 * 1024

type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// client is the shared JSON-over-HTTP plumbing of the collaborator clients
type client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func newClient(name, baseURL string, timeout time.Duration, log *zap.Logger) (*client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", name, baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}, nil
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out.
// 404 maps to shared.ErrNotFound, other failures to shared.ErrUpstream.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", c.name, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set(logger.RequestIDHeader, requestID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrUpstream, c.name, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", c.name, err)
	}

	logger.WithLogger(ctx, c.logger).Debug("Collaborator call",
		zap.String("collaborator", c.name),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return shared.NewNotFoundError(fmt.Sprintf("%s: %s not found", c.name, path))
	}
	if resp.StatusCode >= 400 {
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Error != nil && eb.Error.Message != "" {
			return fmt.Errorf("%w: %s returned %d: %s", shared.ErrUpstream, c.name, resp.StatusCode, eb.Error.Message)
		}
		return fmt.Errorf("%w: %s returned HTTP %d", shared.ErrUpstream, c.name, resp.StatusCode)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %s sent an undecodable response: %v", shared.ErrUpstream, c.name, err)
	}
	return nil
}
