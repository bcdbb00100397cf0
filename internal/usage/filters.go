package usage

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/skanjo"
)

type endpointFilter struct {
	endpoint string
}

// NewEndpoint keeps calls to endpoint. An empty endpoint disables the filter.
func NewEndpoint(endpoint string) Filter {
	return &endpointFilter{endpoint: strings.TrimSpace(endpoint)}
}

func (f *endpointFilter) Name() string { return "endpoint" }

func (f *endpointFilter) IsEnabled() bool { return f.endpoint != "" }

func (f *endpointFilter) Apply(_ context.Context, records []skanjo.AnalyticsRecord) ([]skanjo.AnalyticsRecord, Step, error) {
	want := normalizeEndpoint(f.endpoint)
	kept, step := keep(records, func(r skanjo.AnalyticsRecord) bool {
		return normalizeEndpoint(r.Endpoint) == want
	})
	return kept, step, nil
}

func normalizeEndpoint(e string) string {
	return "/" + strings.Trim(strings.ToLower(strings.TrimSpace(e)), "/")
}

type errorsOnlyFilter struct {
	enabled bool
}

// NewErrorsOnly keeps failed calls only.
func NewErrorsOnly(enabled bool) Filter {
	return &errorsOnlyFilter{enabled: enabled}
}

func (f *errorsOnlyFilter) Name() string { return "errors_only" }

func (f *errorsOnlyFilter) IsEnabled() bool { return f.enabled }

func (f *errorsOnlyFilter) Apply(_ context.Context, records []skanjo.AnalyticsRecord) ([]skanjo.AnalyticsRecord, Step, error) {
	kept, step := keep(records, skanjo.AnalyticsRecord.Failed)
	return kept, step, nil
}

type sinceFilter struct {
	since  time.Time
	logger *zap.Logger
}

// NewSince keeps calls made at or after since. Records whose timestamp
// cannot be parsed are dropped. A zero since disables the filter.
func NewSince(since time.Time, log *zap.Logger) Filter {
	return &sinceFilter{since: since, logger: log}
}

func (f *sinceFilter) Name() string { return "since" }

func (f *sinceFilter) IsEnabled() bool { return !f.since.IsZero() }

func (f *sinceFilter) Apply(_ context.Context, records []skanjo.AnalyticsRecord) ([]skanjo.AnalyticsRecord, Step, error) {
	kept, step := keep(records, func(r skanjo.AnalyticsRecord) bool {
		ts, err := r.Time()
		if err != nil {
			if f.logger != nil {
				f.logger.Debug("dropping record with bad timestamp", zap.String("timestamp", r.Timestamp))
			}
			return false
		}
		return !ts.Before(f.since)
	})
	return kept, step, nil
}
