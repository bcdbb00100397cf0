// Package skanjo is a client for the Skanjo CV screening backend.
//
// Every operation takes a context, sends JSON and returns either the decoded
// response or an error. Backend rejections are *APIError values carrying the
// server's message; requests that never got a response wrap ErrConnectivity.
// Inputs are validated before anything is sent.
package skanjo

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
)

const (
	apiURL    = "http://localhost:8000"
	userAgent = "spigell/skanjo (support@skanjo.ai)"

	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 10 * time.Second
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	// MaxRetries bounds retries of idempotent reads. Writes are never retried.
	MaxRetries int
	// RetryDelay is the first backoff delay; it doubles on every retry.
	RetryDelay time.Duration
}

func New(log *zap.Logger, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = apiURL
	}

	return &Client{
		APIURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     logger.OrNop(log),
		UserAgent:  userAgent,
		MaxRetries: defaultMaxRetries,
		RetryDelay: defaultRetryDelay,
	}
}
