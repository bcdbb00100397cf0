package skanjo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/skanjo/internal/validate"
)

const analyticsPath = "/analytics"

// AnalyticsRecord is one logged API call of the account.
// RequestData and ResponseData are kept as the backend sent them.
type AnalyticsRecord struct {
	Endpoint     string `json:"endpoint"`
	RequestData  any    `json:"request_data"`
	ResponseData any    `json:"response_data"`
	StatusCode   int    `json:"status_code"`
	Timestamp    string `json:"timestamp"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Time parses Timestamp. The backend omits the zone for naive datetimes;
// those are read as UTC.
func (r AnalyticsRecord) Time() (time.Time, error) {
	ts := strings.TrimSpace(r.Timestamp)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", r.Timestamp)
}

// Failed reports whether the call ended with a non-2xx status.
func (r AnalyticsRecord) Failed() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}

// FetchAnalytics returns the call log of the account owning apiKey.
// Transient failures are retried with backoff.
func (c *Client) FetchAnalytics(ctx context.Context, apiKey string) ([]AnalyticsRecord, error) {
	if err := (&validate.Validator{}).Required("api_key", apiKey).Err(); err != nil {
		return nil, err
	}

	var raw []any
	err := c.doIdempotent(ctx, call{
		method:   http.MethodGet,
		path:     analyticsPath,
		apiKey:   apiKey,
		fallback: "failed to fetch analytics",
	}, &raw)
	if err != nil {
		return nil, err
	}

	return decodeAnalytics(raw)
}

// decodeAnalytics converts loosely typed records. status_code arrives as a
// number from some deployments and as a string from others.
func decodeAnalytics(raw []any) ([]AnalyticsRecord, error) {
	records := make([]AnalyticsRecord, 0, len(raw))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &records,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode analytics: %w", err)
	}

	return records, nil
}
