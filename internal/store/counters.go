package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kpumuk/lazychart/internal/devtools"
	"github.com/kpumuk/lazychart/internal/record"
)

// CounterField names the value of a counter point. Points answer to any
// field name; a non-empty name keeps the aggregator from counting points.
const CounterField = "count"

// Counters reads daily counters stored under prefix + "YYYY-MM-DD" (the
// Sidekiq "stat:processed:" layout) for each date. Missing days are zero.
func (c *Client) Counters(ctx context.Context, prefix string, dates []time.Time) ([]record.Point, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(dates))
	for _, date := range dates {
		keys = append(keys, prefix+date.Format("2006-01-02"))
	}

	ctx = devtools.WithOrigin(ctx, "store.Counters")
	values, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("fetch counters %s*: %w", prefix, err)
	}

	points := make([]record.Point, len(dates))
	for i, date := range dates {
		points[i] = record.Point{At: date}
		if i < len(values) {
			points[i].Amount = parseCounter(values[i])
		}
	}
	return points, nil
}
