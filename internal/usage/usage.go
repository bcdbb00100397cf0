// Package usage narrows an account's API call log and summarizes it per
// endpoint.
package usage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/skanjo"
)

// Filter is a single step of the record pipeline.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(ctx context.Context, records []skanjo.AnalyticsRecord) ([]skanjo.AnalyticsRecord, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the enabled filters in order and returns what is left.
func Run(ctx context.Context, log *zap.Logger, filters []Filter, records []skanjo.AnalyticsRecord) ([]skanjo.AnalyticsRecord, error) {
	for _, f := range filters {
		if !f.IsEnabled() {
			if log != nil {
				log.Debug("filter disabled", zap.String("name", f.Name()))
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := f.Apply(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}

		if log != nil {
			log.Debug("filter step",
				zap.String("name", f.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		records = next
	}

	return records, nil
}

// keep returns the records for which match is true, preserving order.
func keep(records []skanjo.AnalyticsRecord, match func(skanjo.AnalyticsRecord) bool) ([]skanjo.AnalyticsRecord, Step) {
	initial := len(records)
	kept := make([]skanjo.AnalyticsRecord, 0, initial)
	for _, r := range records {
		if match(r) {
			kept = append(kept, r)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
