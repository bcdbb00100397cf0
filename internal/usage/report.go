package usage

import (
	"sort"

	"github.com/spigell/skanjo/internal/skanjo"
)

type Health string

const (
	Healthy Health = "healthy"
	Warning Health = "warning"
	Failing Health = "error"
)

const (
	warningRate = 0.05
	failingRate = 0.20
)

type EndpointStats struct {
	Endpoint string  `json:"endpoint"`
	Calls    int     `json:"calls"`
	Errors   int     `json:"errors"`
	Rate     float64 `json:"error_rate"`
	Status   Health  `json:"status"`
}

type Summary struct {
	Calls     int             `json:"calls"`
	Errors    int             `json:"errors"`
	Endpoints []EndpointStats `json:"endpoints"`
}

// HealthFor grades an error rate: under 5% is healthy, under 20% a warning.
func HealthFor(rate float64) Health {
	switch {
	case rate < warningRate:
		return Healthy
	case rate < failingRate:
		return Warning
	default:
		return Failing
	}
}

// Report groups records by endpoint, busiest first.
func Report(records []skanjo.AnalyticsRecord) Summary {
	byEndpoint := make(map[string]*EndpointStats)
	summary := Summary{}

	for _, r := range records {
		stats, ok := byEndpoint[r.Endpoint]
		if !ok {
			stats = &EndpointStats{Endpoint: r.Endpoint}
			byEndpoint[r.Endpoint] = stats
		}
		stats.Calls++
		summary.Calls++
		if r.Failed() {
			stats.Errors++
			summary.Errors++
		}
	}

	summary.Endpoints = make([]EndpointStats, 0, len(byEndpoint))
	for _, stats := range byEndpoint {
		stats.Rate = float64(stats.Errors) / float64(stats.Calls)
		stats.Status = HealthFor(stats.Rate)
		summary.Endpoints = append(summary.Endpoints, *stats)
	}

	sort.Slice(summary.Endpoints, func(i, j int) bool {
		a, b := summary.Endpoints[i], summary.Endpoints[j]
		if a.Calls != b.Calls {
			return a.Calls > b.Calls
		}
		return a.Endpoint < b.Endpoint
	})

	return summary
}
