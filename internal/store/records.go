package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kpumuk/lazychart/internal/devtools"
	"github.com/kpumuk/lazychart/internal/record"
)

const (
	// ScoreField exposes the sorted set score of a record.
	ScoreField = "score"
	// MemberField holds members that are not JSON objects.
	MemberField = "member"
)

// Records fetches the members of the sorted set key scored within
// [start, end] (Unix seconds, inclusive), oldest first. JSON object members
// become key-value records; the score is available as ScoreField.
func (c *Client) Records(ctx context.Context, key string, start, end time.Time, loc *time.Location) ([]record.TimestampedValue, error) {
	sets, err := c.RecordSets(ctx, []string{key}, start, end, loc)
	if err != nil {
		return nil, err
	}
	return sets[0], nil
}

// RecordSets fetches several sorted sets over the same range in one pipeline.
func (c *Client) RecordSets(ctx context.Context, keys []string, start, end time.Time, loc *time.Location) ([][]record.TimestampedValue, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	by := &redis.ZRangeBy{
		Min: strconv.FormatInt(start.Unix(), 10),
		Max: strconv.FormatInt(end.Unix(), 10),
	}

	ctx = devtools.WithOrigin(ctx, "store.RecordSets")
	pipe := c.redis.Pipeline()
	cmds := make([]*redis.ZSliceCmd, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, pipe.ZRangeByScoreWithScores(ctx, key, by))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	sets := make([][]record.TimestampedValue, len(keys))
	for i, cmd := range cmds {
		results, err := cmd.Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("fetch records from %q: %w", keys[i], err)
		}
		set := make([]record.TimestampedValue, 0, len(results))
		for _, z := range results {
			set = append(set, newMemberRecord(z, loc))
		}
		sets[i] = set
	}
	return sets, nil
}

func newMemberRecord(z redis.Z, loc *time.Location) record.TimestampedValue {
	member, _ := z.Member.(string)

	fields := make(map[string]any)
	if err := safeParseJSON([]byte(member), &fields); err != nil || fields == nil {
		fields = map[string]any{MemberField: member}
	}
	if _, ok := fields[ScoreField]; !ok {
		fields[ScoreField] = z.Score
	}
	return record.NewMapAdapter(fields, loc)
}
