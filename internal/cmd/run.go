package cmd

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/kpumuk/lazychart/internal/chart"
	"github.com/kpumuk/lazychart/internal/record"
	"github.com/kpumuk/lazychart/internal/store"
)

type source struct {
	key     string
	counter string
}

func (s source) empty() bool {
	return s.key == "" && s.counter == ""
}

// load returns the records of s, or nil when s names nothing.
func (s source) load(ctx context.Context, client *store.Client, cfg config) (iter.Seq[record.TimestampedValue], error) {
	switch {
	case s.key != "":
		recs, err := client.Records(ctx, s.key, cfg.options.Start, cfg.options.End, cfg.location)
		if err != nil {
			return nil, err
		}
		return slices.Values(recs), nil
	case s.counter != "":
		dates, err := chart.DateList(cfg.options.Start, cfg.options.End, counterIncrement)
		if err != nil {
			return nil, err
		}
		points, err := client.Counters(ctx, s.counter, dates)
		if err != nil {
			return nil, err
		}
		return record.Values(points, cfg.location), nil
	default:
		return nil, nil
	}
}

func runStats(ctx context.Context, logger *slog.Logger, client *store.Client, cfg config) (*chart.Stats, error) {
	if len(cfg.keys) > 1 {
		return nil, fmt.Errorf("%w: got %d --key values; use lazychart multi to chart several sets", errTooManyKeys, len(cfg.keys))
	}
	addSource := source{counter: cfg.counter}
	if len(cfg.keys) > 0 {
		addSource.key = cfg.keys[0]
	}
	if addSource.empty() {
		return nil, fmt.Errorf("%w: set --key or --counter", errNoSource)
	}

	subSource := source{key: cfg.subKey, counter: cfg.subCounter}
	if addSource.counter != "" || subSource.counter != "" {
		if cfg.query.ValueField == "" {
			if addSource.key != "" || subSource.key != "" {
				return nil, errMixedSources
			}
			cfg.query.ValueField = store.CounterField
		}
	}

	adds, err := addSource.load(ctx, client, cfg)
	if err != nil {
		return nil, fmt.Errorf("load adds: %w", err)
	}
	subs, err := subSource.load(ctx, client, cfg)
	if err != nil {
		return nil, fmt.Errorf("load subs: %w", err)
	}

	stats, err := chart.GenericStats(adds, subs, cfg.query, cfg.options)
	if err != nil {
		return nil, fmt.Errorf("build chart: %w", err)
	}
	logger.DebugContext(ctx, "chart built",
		slog.Int("buckets", len(stats.Dates)),
		slog.Float64("hw", stats.HighWater),
		slog.Float64("lw", stats.LowWater),
	)
	return stats, nil
}

func runMulti(ctx context.Context, logger *slog.Logger, client *store.Client, cfg config) (*chart.MultiStats, error) {
	if len(cfg.keys) == 0 {
		return nil, fmt.Errorf("%w: set at least one --key", errNoSource)
	}

	sets, err := client.RecordSets(ctx, cfg.keys, cfg.options.Start, cfg.options.End, cfg.location)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	collections := make([]iter.Seq[record.TimestampedValue], len(sets))
	for i, recs := range sets {
		collections[i] = slices.Values(recs)
	}

	stats, err := chart.MultilineChart(collections, cfg.query, cfg.options)
	if err != nil {
		return nil, fmt.Errorf("build chart: %w", err)
	}
	logger.DebugContext(ctx, "multiline chart built",
		slog.Int("series", len(stats.Series)),
		slog.Int("buckets", len(stats.Dates)),
		slog.Float64("hw", stats.Chart.HighWater),
	)
	return stats, nil
}
