package skanjo

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAnalyticsDecodesLooseRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, analyticsPath, r.URL.Path)
		assert.Equal(t, "sk_user", r.Header.Get(apiKeyHeader))

		_, _ = io.WriteString(w, `[
			{"endpoint":"/analyze","request_data":{"cv":"a.pdf"},"response_data":{"score":80},"status_code":200,"timestamp":"2024-03-01T10:00:00Z"},
			{"endpoint":"/match","request_data":null,"response_data":"boom","status_code":"500","timestamp":"2024-03-01 11:30:00"}
		]`)
	})

	records, err := client.FetchAnalytics(context.Background(), "sk_user")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "/analyze", records[0].Endpoint)
	assert.Equal(t, 200, records[0].StatusCode)
	assert.Equal(t, map[string]any{"cv": "a.pdf"}, records[0].RequestData)
	assert.False(t, records[0].Failed())

	assert.Equal(t, 500, records[1].StatusCode)
	assert.Equal(t, "boom", records[1].ResponseData)
	assert.True(t, records[1].Failed())

	ts, err := records[1].Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC), ts)
}

func TestFetchAnalyticsRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})
	client.RetryDelay = time.Millisecond

	records, err := client.FetchAnalytics(context.Background(), "sk_user")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetchAnalyticsGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	client.RetryDelay = time.Millisecond
	client.MaxRetries = 2

	_, err := client.FetchAnalytics(context.Background(), "sk_user")
	require.Error(t, err)
	assert.Equal(t, "failed to fetch analytics", err.Error())
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetchAnalyticsDoesNotRetryAuthFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Invalid API key"}`)
	})
	client.RetryDelay = time.Millisecond

	_, err := client.FetchAnalytics(context.Background(), "sk_bad")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid API key", err.Error())
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetchAnalyticsHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client.RetryDelay = time.Hour

	_, err := client.FetchAnalytics(ctx, "sk_user")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlans(t *testing.T) {
	p, err := FindPlan("Professional")
	require.NoError(t, err)
	assert.Equal(t, "$29", p.Price)
	assert.True(t, p.Popular)

	p, err = FindPlan("enterprise")
	require.NoError(t, err)
	assert.Equal(t, "$99", p.Price)

	_, err = FindPlan("gold")
	require.Error(t, err)

	assert.Equal(t, []string{"starter", "professional", "enterprise"}, PlanIDs())
}
