package skanjo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/utils"
)

const (
	contentType     = "application/json"
	apiKeyHeader    = "X-API-Key"
	requestIDHeader = "X-Request-ID"
	// Error bodies larger than this are not worth reading.
	maxErrorBody = 64 << 10
)

// call describes a single backend request.
type call struct {
	method   string
	path     string
	query    url.Values
	body     any
	apiKey   string
	basic    *basicAuth
	fallback string
}

type basicAuth struct {
	username string
	password string
}

// do sends c once and decodes a successful response into target.
func (c *Client) do(ctx context.Context, cl call, target any) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	requestID := req.Header.Get(requestIDHeader)
	log := logger.WithFields(c.logger, logger.RequestFields(cl.path, requestID)...)

	resp, err := c.request(req, log)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := serverMessage(data)
		if message == "" {
			message = cl.fallback
		}
		log.Debug("backend rejected request", zap.Int("status", resp.StatusCode), zap.String("message", message))
		return &APIError{StatusCode: resp.StatusCode, Message: message, RequestID: requestID}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrConnectivity, err)
	}

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s response: %w", cl.path, err)
	}

	return nil
}

// doIdempotent is do with bounded exponential backoff on connectivity
// errors and temporary backend failures. Use it for reads only.
func (c *Client) doIdempotent(ctx context.Context, cl call, target any) error {
	attempts := c.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.do(ctx, cl, target)
		if err == nil || !retryable(err) || attempt == attempts {
			return err
		}

		delay := utils.Backoff(c.RetryDelay, maxRetryDelay, attempt)
		c.logger.Debug("retrying request",
			zap.String(logger.FieldEndpoint, cl.path),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if waitErr := utils.WaitFor(ctx, delay); waitErr != nil {
			return waitErr
		}
	}

	return err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrConnectivity) {
		return true
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Temporary()
	}
	return false
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.APIURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", cl.path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	if cl.apiKey != "" {
		req.Header.Set(apiKeyHeader, cl.apiKey)
	}
	if cl.basic != nil {
		req.SetBasicAuth(cl.basic.username, cl.basic.password)
	}

	return req, nil
}

func (c *Client) request(req *http.Request, log *zap.Logger) (*http.Response, error) {
	log.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.Redacted()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())

	return req
}
