package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/titanicdata/passenger-api/internal/api/metrics"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

const statsTTL = time.Minute

// statsDimensions are every cacheable group_by value, including "" for the
// overall summary. Invalidation deletes this bounded key set.
var statsDimensions = []string{"", "sex", "pclass", "embarked", "survived"}

// StatsCache caches statistics responses in Redis for statsTTL.
// Key format: stats:<group_by> (stats:overall for the ungrouped summary).
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached groups for the dimension and whether they were
// present.
func (s *StatsCache) Get(ctx context.Context, groupBy string) ([]ports.StatisticsGroup, bool, error) {
	raw, err := s.client.Get(ctx, s.key(groupBy)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var groups []ports.StatisticsGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
	return groups, true, nil
}

// Set stores the groups for the dimension, expiring after statsTTL.
func (s *StatsCache) Set(ctx context.Context, groupBy string, groups []ports.StatisticsGroup) error {
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("stats cache marshal: %w", err)
	}
	return s.client.Set(ctx, s.key(groupBy), raw, statsTTL).Err()
}

// Invalidate drops every cached dimension.
func (s *StatsCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(statsDimensions))
	for _, dim := range statsDimensions {
		keys = append(keys, s.key(dim))
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *StatsCache) key(groupBy string) string {
	if groupBy == "" {
		groupBy = "overall"
	}
	return "stats:" + groupBy
}
